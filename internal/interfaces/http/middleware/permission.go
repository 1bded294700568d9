package middleware

import (
	"net/http"
	"strings"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permission)
}

// RequireAnyPermissionWithConfig requires at least one of permissions
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, permissions, "No authentication claims found")
			return
		}
		if !claims.HasAnyPermission(permissions...) {
			handlePermissionDenied(c, cfg, permissions, "User lacks required permission")
			return
		}
		c.Next()
	}
}

// RequireResource checks resource permission with the action derived from the HTTP method:
//   - GET -> read
//   - POST -> create
//   - PUT/PATCH -> update
//   - DELETE -> delete
//
// Permissions come from the role carried by the token, so a role change takes
// effect on the next refresh.
func RequireResource(resource string) gin.HandlerFunc {
	return RequireResourceWithConfig(resource, PermissionConfig{})
}

// RequireResourceWithConfig creates middleware with custom config
func RequireResourceWithConfig(resource string, cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := methodToAction(c.Request.Method)
		permission := identity.Permission(resource, action)

		claims := GetJWTClaims(c)
		if claims == nil {
			handlePermissionDenied(c, cfg, []string{permission}, "No authentication claims found")
			return
		}
		if !identity.Role(claims.Role).Can(resource, action) && !claims.HasPermission(permission) {
			handlePermissionDenied(c, cfg, []string{permission}, "User lacks required permission for resource")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Resource permission check passed",
				zap.String("user_id", claims.UserID),
				zap.String("permission", permission),
			)
		}
		c.Next()
	}
}

// RequireResourceAction checks a fixed resource:action pair, for POST routes
// that are state transitions rather than creations
func RequireResourceAction(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		permission := identity.Permission(resource, action)
		claims := GetJWTClaims(c)
		if claims == nil || (!identity.Role(claims.Role).Can(resource, action) && !claims.HasPermission(permission)) {
			handlePermissionDenied(c, PermissionConfig{}, []string{permission}, "User lacks required permission")
			return
		}
		c.Next()
	}
}

// RequireRole allows only the listed roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.Role(GetJWTRole(c))
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied: role not allowed")
	}
}

// methodToAction converts HTTP method to permission action
func methodToAction(method string) string {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead:
		return identity.ActionRead
	case http.MethodPost:
		return identity.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return identity.ActionUpdate
	case http.MethodDelete:
		return identity.ActionDelete
	default:
		return identity.ActionRead
	}
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, requiredPerms []string, reason string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("reason", reason),
			zap.String("user_id", GetJWTUserID(c)),
			zap.String("role", GetJWTRole(c)),
			zap.Strings("required_permissions", requiredPerms),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}
	abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied: insufficient permissions")
}

// HasPermission reports whether the caller holds permission
func HasPermission(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasPermission(permission)
}
