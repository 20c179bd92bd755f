package dto

// ── User administration ──

// UserListQuery GET /user
type UserListQuery struct {
	PageQuery
	Role string `form:"role" binding:"omitempty,oneof=admin student"`
}

// SetActiveRequest PATCH /user/:id/active
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetRoleRequest PATCH /user/:id/role
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin student"`
}

// ── Profile ──

// UpdateProfileRequest partial update; nil fields are left unchanged
type UpdateProfileRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone"    binding:"omitempty,max=20"`
	Bio      *string `json:"bio"      binding:"omitempty,max=1000"`
}

// UpdateAvatarRequest PUT /profile/avatar
type UpdateAvatarRequest struct {
	MediaID uint `json:"mediaId" binding:"required,min=1"`
}

// ChangePasswordRequest PUT /profile/password
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}
