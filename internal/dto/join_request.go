package dto

import "time"

// ── Join request ──

// CreateJoinRequestRequest POST /join-request
type CreateJoinRequestRequest struct {
	ClassroomID uint `json:"classroomId" binding:"required,min=1"`
}

// JoinRequestListQuery GET /join-request
type JoinRequestListQuery struct {
	PageQuery
	ClassroomID uint   `form:"classroomId" binding:"omitempty,min=1"`
	Status      string `form:"status"      binding:"omitempty,oneof=pending approved rejected"`
}

// JoinRequestResponse join request detail
type JoinRequestResponse struct {
	ID          uint            `json:"id"`
	StudentID   uint            `json:"studentId"`
	ClassroomID uint            `json:"classroomId"`
	Status      string          `json:"status"`
	RequestedAt time.Time       `json:"requestedAt"`
	HandledAt   *time.Time      `json:"handledAt"`
	Student     *UserBrief      `json:"student,omitempty"`
	Classroom   *ClassroomBrief `json:"classroom,omitempty"`
}
