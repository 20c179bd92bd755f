package model

import "time"

// RefreshToken issued refresh token, keyed by its jti
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"                json:"id"`
	UserID    uint      `gorm:"not null"                  json:"userId"`
	JTI       string    `gorm:"column:jti;type:varchar(64);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null"                  json:"expiresAt"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName table name
func (RefreshToken) TableName() string { return "refresh_tokens" }
