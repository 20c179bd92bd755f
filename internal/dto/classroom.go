package dto

import "time"

// ── Classroom ──

// CreateClassroomRequest POST /classroom
type CreateClassroomRequest struct {
	Name         string  `json:"name"         binding:"required,min=1,max=100"`
	Description  *string `json:"description"  binding:"omitempty,max=2000"`
	CoverMediaID *uint   `json:"coverMediaId" binding:"omitempty,min=1"`
}

// UpdateClassroomRequest PUT /classroom/:id; nil fields are left unchanged
type UpdateClassroomRequest struct {
	Name         *string `json:"name"         binding:"omitempty,min=1,max=100"`
	Description  *string `json:"description"  binding:"omitempty,max=2000"`
	CoverMediaID *uint   `json:"coverMediaId"` // 0 clears the cover
}

// ClassroomListQuery GET /classroom
type ClassroomListQuery struct {
	PageQuery
	IsArchived *bool `form:"isArchived"`
}

// ClassroomResponse classroom detail
type ClassroomResponse struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	CoverMediaID *uint      `json:"coverMediaId"`
	IsArchived   bool       `json:"isArchived"`
	CreatedBy    *uint      `json:"createdBy"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"deletedAt"`
}

// ── Classroom membership ──

// MemberResponse a student's membership in a classroom
type MemberResponse struct {
	ID          uint       `json:"id"`
	ClassroomID uint       `json:"classroomId"`
	StudentID   uint       `json:"studentId"`
	IsActive    bool       `json:"isActive"`
	JoinedAt    time.Time  `json:"joinedAt"`
	Student     *UserBrief `json:"student,omitempty"`
}

// MyClassroomResponse GET /classroom-student/my
type MyClassroomResponse struct {
	JoinedAt  time.Time         `json:"joinedAt"`
	Classroom ClassroomResponse `json:"classroom"`
}
