package model

import "time"

// JoinRequestStatus join request state
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestApproved JoinRequestStatus = "approved"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// Valid reports whether s is a known status
func (s JoinRequestStatus) Valid() bool {
	switch s {
	case JoinRequestPending, JoinRequestApproved, JoinRequestRejected:
		return true
	}
	return false
}

// JoinRequest a student's request to join a classroom.
// At most one row exists per (student, classroom); a rejected row is reopened in place.
type JoinRequest struct {
	ID          uint              `gorm:"primaryKey"                json:"id"`
	StudentID   uint              `gorm:"not null"                  json:"studentId"`
	ClassroomID uint              `gorm:"not null"                  json:"classroomId"`
	Status      JoinRequestStatus `gorm:"type:varchar(20);not null" json:"status"`
	RequestedAt time.Time         `gorm:"not null"                  json:"requestedAt"`
	HandledAt   *time.Time        `json:"handledAt"`

	Student   *User      `gorm:"foreignKey:StudentID"   json:"student,omitempty"`
	Classroom *Classroom `gorm:"foreignKey:ClassroomID" json:"classroom,omitempty"`
}

// TableName table name
func (JoinRequest) TableName() string { return "join_requests" }
