package dto

// ── Auth ──

// SendOtpRequest request a registration code
type SendOtpRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// RegisterRequest create an account with an emailed code
type RegisterRequest struct {
	Email    string `json:"email"    binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"fullName" binding:"required,min=2,max=100"`
	Otp      string `json:"otp"      binding:"required,numeric,min=4,max=10"`
}

// LoginRequest email + password login
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest exchange a refresh token for a new pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest refresh token is optional; the access token is always revoked
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest request a reset code
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest set a new password with a reset code
type ResetPasswordRequest struct {
	Email       string `json:"email"       binding:"required,email"`
	Otp         string `json:"otp"         binding:"required,numeric,min=4,max=10"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72"`
}

// TokenResponse issued token pair
type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"` // access token lifetime in seconds
	User         UserResponse `json:"user"`
}

// MessageResponse plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
