package identity

import (
	"time"

	"github.com/clube/backend/internal/application/membership"
	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// =============================================================================
// Auth DTOs
// =============================================================================

// LoginInput contains the input for user login
type LoginInput struct {
	TenantCode string
	Username   string
	Password   string
	IP         string
}

// LoginResult contains the tokens of a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// UserInfo is the signed-in user as seen by the client
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	TenantCode  string    `json:"tenant_code"`
	TenantName  string    `json:"tenant_name"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
}

// LogoutInput identifies the access token being revoked
type LogoutInput struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	TokenJTI string
	// TokenTTL is the remaining lifetime of the access token
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// =============================================================================
// User DTOs
// =============================================================================

// CreateUserRequest creates a back-office user
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	Email       string `json:"email" binding:"omitempty,email"`
	DisplayName string `json:"display_name" binding:"max=200"`
	Role        string `json:"role" binding:"required"`
}

// UpdateUserRequest changes a user's profile and role
type UpdateUserRequest struct {
	Email       string `json:"email" binding:"omitempty,email"`
	DisplayName string `json:"display_name" binding:"max=200"`
	Role        string `json:"role" binding:"required"`
}

// ResetPasswordRequest sets a new password for another user
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserListFilter represents query parameters of the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Role     string `form:"role"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	DisplayName    string     `json:"display_name"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	FailedAttempts int        `json:"failed_attempts"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.Name(),
		Role:           string(u.Role),
		Status:         string(u.Status),
		LastLoginAt:    u.LastLoginAt,
		FailedAttempts: u.FailedAttempts,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// =============================================================================
// Tenant DTOs
// =============================================================================

// CreateTenantInput provisions a club together with its first administrator
type CreateTenantInput struct {
	Code          string
	Name          string
	AdminUsername string
	AdminPassword string
}

// CreateTenantResult returns the new club and administrator
type CreateTenantResult struct {
	Tenant TenantResponse `json:"tenant"`
	Admin  UserResponse   `json:"admin"`
}

// UpdateTenantRequest replaces a club's contact data
type UpdateTenantRequest struct {
	Name              string                     `json:"name" binding:"required,max=200"`
	Document          string                     `json:"document"`
	ResponsiblePerson string                     `json:"responsible_person" binding:"max=150"`
	Phone             string                     `json:"phone" binding:"max=30"`
	Email             string                     `json:"email" binding:"omitempty,email"`
	Address           *membership.AddressRequest `json:"address"`
	Timezone          string                     `json:"timezone"`
}

// TenantResponse represents a club in API responses
type TenantResponse struct {
	ID                uuid.UUID           `json:"id"`
	Code              string              `json:"code"`
	Name              string              `json:"name"`
	Document          string              `json:"document,omitempty"`
	ResponsiblePerson string              `json:"responsible_person,omitempty"`
	Phone             string              `json:"phone,omitempty"`
	Email             string              `json:"email,omitempty"`
	Address           valueobject.Address `json:"address"`
	Timezone          string              `json:"timezone"`
	Status            string              `json:"status"`
	CreatedAt         time.Time           `json:"created_at"`
}

// ToTenantResponse converts a domain Tenant to TenantResponse
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:                t.ID,
		Code:              t.Code,
		Name:              t.Name,
		Document:          t.Document.String(),
		ResponsiblePerson: t.ResponsiblePerson,
		Phone:             t.Phone,
		Email:             t.Email,
		Address:           t.Address,
		Timezone:          t.Timezone,
		Status:            string(t.Status),
		CreatedAt:         t.CreatedAt,
	}
}
