package model

import "time"

// ClassroomStudent membership of a student in a classroom. It has its own
// soft delete and active flag, independent of the join request status.
type ClassroomStudent struct {
	SoftDeleteModel
	ClassroomID uint      `gorm:"not null" json:"classroomId"`
	StudentID   uint      `gorm:"not null" json:"studentId"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	JoinedAt    time.Time `gorm:"not null" json:"joinedAt"`

	Classroom *Classroom `gorm:"foreignKey:ClassroomID" json:"classroom,omitempty"`
	Student   *User      `gorm:"foreignKey:StudentID"   json:"student,omitempty"`
}

// TableName table name
func (ClassroomStudent) TableName() string { return "classroom_students" }
