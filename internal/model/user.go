package model

import "time"

// Roles
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User table users
type User struct {
	BaseModel
	Email           string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash    string     `gorm:"type:varchar(255);not null"             json:"-"`
	FullName        string     `gorm:"type:varchar(100);not null"             json:"fullName"`
	Phone           *string    `gorm:"type:varchar(20)"                       json:"phone,omitempty"`
	Bio             *string    `gorm:"type:text"                              json:"bio,omitempty"`
	Role            string     `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	IsActive        bool       `gorm:"not null;default:true"                  json:"isActive"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	AvatarID        *uint      `json:"avatarId,omitempty"`
}

// TableName table name
func (User) TableName() string { return "users" }
