package model

import "time"

// OTP purposes
const (
	OtpPurposeVerifyEmail   = "verify_email"
	OtpPurposeResetPassword = "reset_password"
)

// OtpRecord one-time code sent by email
type OtpRecord struct {
	ID        uint      `gorm:"primaryKey"                 json:"id"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Code      string    `gorm:"type:varchar(10);not null"  json:"-"`
	Purpose   string    `gorm:"type:varchar(20);not null"  json:"purpose"`
	ExpiresAt time.Time `gorm:"not null"                   json:"expiresAt"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName table name
func (OtpRecord) TableName() string { return "otp_records" }

// Expired reports whether the code is past its expiry at now
func (o *OtpRecord) Expired(now time.Time) bool {
	return !now.Before(o.ExpiresAt)
}
