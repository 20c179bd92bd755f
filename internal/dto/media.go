package dto

import "time"

// ── Media ──

// UploadMediaForm multipart fields besides the file itself
type UploadMediaForm struct {
	Visibility string `form:"visibility" binding:"omitempty,visibility"`
}

// MediaListQuery GET /media
type MediaListQuery struct {
	PageQuery
	UploadedBy     uint   `form:"uploadedBy"     binding:"omitempty,min=1"`
	Visibility     string `form:"visibility"     binding:"omitempty,visibility"`
	IncludeDeleted bool   `form:"includeDeleted"`
}

// UpdateVisibilityRequest PATCH /media/:id/visibility
type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility" binding:"required,visibility"`
}

// RenameMediaRequest PATCH /media/:id/rename
type RenameMediaRequest struct {
	FileName string `json:"fileName" binding:"required,min=1,max=255"`
}

// MediaResponse media metadata
type MediaResponse struct {
	ID         uint       `json:"id"`
	FileName   string     `json:"fileName"`
	ObjectKey  string     `json:"objectKey"`
	Bucket     string     `json:"bucket"`
	MimeType   string     `json:"mimeType"`
	Size       int64      `json:"size"`
	Visibility string     `json:"visibility"`
	UploadedBy uint       `json:"uploadedBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeletedAt  *time.Time `json:"deletedAt"`
}

// DownloadURLResponse presigned download link
type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
