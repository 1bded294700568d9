package handler

import (
	"time"

	"github.com/clube/backend/internal/application/identity"
	"github.com/clube/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login godoc
// @ID           login
// @Summary      Login
// @Description  Authenticates a back-office user of a club
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} APIResponse[identity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		TenantCode: req.TenantCode,
		Username:   req.Username,
		Password:   req.Password,
		IP:         c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RefreshToken godoc
// @ID           refreshToken
// @Summary      Refresh token
// @Description  Exchanges a refresh token for a new pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token request"
// @Success      200 {object} APIResponse[identity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout godoc
// @ID           logout
// @Summary      Logout
// @Description  Revokes the access token of the request
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID in token")
		return
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID in token")
		return
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	err = h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:   userID,
		TenantID: tenantID,
		TokenJTI: claims.ID,
		TokenTTL: ttl,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Logged out successfully"})
}

// GetCurrentUser godoc
// @ID           getCurrentUser
// @Summary      Get current user
// @Description  Returns the signed-in user with role and permissions
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	info, err := h.authService.Me(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change password
// @Description  Changes the caller's own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Change password request"
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), identity.ChangePasswordInput{
		TenantID:    tenantID,
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Password changed. Sign in again on other devices"})
}
