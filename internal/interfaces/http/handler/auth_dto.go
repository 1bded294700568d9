package handler

// =====================
// Auth Request DTOs
// =====================

// LoginRequest represents the request body for user login. A username is
// only unique inside its club, so the club code is part of the credentials.
type LoginRequest struct {
	TenantCode string `json:"tenant_code" binding:"required,min=2,max=50"`
	Username   string `json:"username" binding:"required,min=3,max=100"`
	Password   string `json:"password" binding:"required,min=8,max=128"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// =====================
// Auth Response DTOs
// =====================

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}
