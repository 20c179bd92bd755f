package dto

import "time"

// ── Lecture ──

// CreateLectureRequest POST /lecture
type CreateLectureRequest struct {
	ClassroomID uint    `json:"classroomId" binding:"required,min=1"`
	ParentID    *uint   `json:"parentId"    binding:"omitempty,min=1"`
	Title       string  `json:"title"       binding:"required,min=1,max=255"`
	Content     *string `json:"content"`
	MediaID     *uint   `json:"mediaId"     binding:"omitempty,min=1"`
	OrderIndex  int     `json:"orderIndex"  binding:"omitempty,min=0"`
	IsPublished bool    `json:"isPublished"`
}

// UpdateLectureRequest PUT /lecture/:id; nil fields are left unchanged.
// parentId 0 moves the lecture to the root, mediaId 0 detaches the media.
type UpdateLectureRequest struct {
	ParentID    *uint   `json:"parentId"`
	Title       *string `json:"title"       binding:"omitempty,min=1,max=255"`
	Content     *string `json:"content"`
	MediaID     *uint   `json:"mediaId"`
	OrderIndex  *int    `json:"orderIndex"  binding:"omitempty,min=0"`
	IsPublished *bool   `json:"isPublished"`
}

// LectureResponse single lecture
type LectureResponse struct {
	ID          uint      `json:"id"`
	ClassroomID uint      `json:"classroomId"`
	ParentID    *uint     `json:"parentId"`
	Title       string    `json:"title"`
	Content     *string   `json:"content"`
	MediaID     *uint     `json:"mediaId"`
	OrderIndex  int       `json:"orderIndex"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LectureNode lecture with its children
type LectureNode struct {
	LectureResponse
	Children []*LectureNode `json:"children"`
}
