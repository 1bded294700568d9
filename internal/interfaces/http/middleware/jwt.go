package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTUsernameKey = "jwt_username"
	JWTRoleKey     = "jwt_role"
	JWTPermissions = "jwt_permissions"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

var errMissingBearer = errors.New("missing or malformed authorization header")

// TokenValidator validates access tokens; *auth.JWTService implements it
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Validator TokenValidator
	// TokenBlacklist is optional; logout and deactivation write to it
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(validator TokenValidator) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		Validator: validator,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(validator))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			handleAuthError(c, log, errMissingBearer, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, log, err, "Token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil {
			ctx := c.Request.Context()

			// A failing blacklist store does not lock every user out
			if claims.ID != "" {
				blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
				if err != nil {
					log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
				} else if blacklisted {
					handleAuthError(c, log, auth.ErrTokenBlacklisted, "Token has been revoked")
					return
				}
			}

			invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
			if err != nil {
				log.Error("Failed to check user token invalidation", zap.String("user_id", claims.UserID), zap.Error(err))
			} else if invalidated {
				handleAuthError(c, log, auth.ErrTokenBlacklisted, "User session has been invalidated")
				return
			}
		}

		setClaims(c, claims)

		log.Debug("JWT authentication successful",
			zap.String("user_id", claims.UserID),
			zap.String("tenant_id", claims.TenantID),
			zap.String("role", claims.Role),
		)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTTenantIDKey, claims.TenantID)
	c.Set(JWTUsernameKey, claims.Username)
	c.Set(JWTRoleKey, claims.Role)
	c.Set(JWTPermissions, claims.Permissions)

	ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
	ctx = logger.WithTenantID(ctx, claims.TenantID)
	c.Request = c.Request.WithContext(ctx)
}

// handleAuthError maps token failures to 401 bodies
func handleAuthError(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	msg := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, msg = dto.ErrCodeTokenInvalid, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType),
		errors.Is(err, auth.ErrTokenNotYetValid), errors.Is(err, auth.ErrInvalidClaims):
		code, msg = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	abortWithError(c, http.StatusUnauthorized, code, msg)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTTenantID retrieves the tenant ID from JWT claims in context
func GetJWTTenantID(c *gin.Context) string {
	return c.GetString(JWTTenantIDKey)
}

// GetJWTUsername retrieves the username from JWT claims in context
func GetJWTUsername(c *gin.Context) string {
	return c.GetString(JWTUsernameKey)
}

// GetJWTRole retrieves the role from JWT claims in context
func GetJWTRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}

// GetJWTPermissions retrieves the permissions from JWT claims in context
func GetJWTPermissions(c *gin.Context) []string {
	return c.GetStringSlice(JWTPermissions)
}
