package dto

import "time"

// ── Shared response shapes ──

// UserResponse user without credentials
type UserResponse struct {
	ID              uint       `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"fullName"`
	Phone           *string    `json:"phone"`
	Bio             *string    `json:"bio"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"isActive"`
	AvatarID        *uint      `json:"avatarId"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// UserBrief user summary embedded in other responses
type UserBrief struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// ClassroomBrief classroom summary embedded in other responses
type ClassroomBrief struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	IsArchived bool   `json:"isArchived"`
}

// FieldError single binding failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
