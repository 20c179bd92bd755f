package model

import (
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestOtpRecord_Expired(t *testing.T) {
	now := time.Now()
	otp := &OtpRecord{ExpiresAt: now.Add(time.Minute)}
	if otp.Expired(now) {
		t.Error("code should still be valid")
	}
	if !otp.Expired(now.Add(time.Minute)) {
		t.Error("code should be expired at its expiry instant")
	}
}

func TestJoinRequestStatus_Valid(t *testing.T) {
	for _, s := range []JoinRequestStatus{JoinRequestPending, JoinRequestApproved, JoinRequestRejected} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if JoinRequestStatus("cancelled").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestSoftDeleteModel_IsDeleted(t *testing.T) {
	var m Media
	if m.IsDeleted() {
		t.Error("zero value should not be deleted")
	}
	m.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	if !m.IsDeleted() {
		t.Error("expected deleted")
	}
}
