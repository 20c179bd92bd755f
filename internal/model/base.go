package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel identity and audit timestamps embedded by every table model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"                          json:"id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// SoftDeleteModel BaseModel plus a deleted_at marker; gorm scopes queries on it
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// IsDeleted reports whether the row carries a deletion timestamp
func (m SoftDeleteModel) IsDeleted() bool {
	return m.DeletedAt.Valid
}
