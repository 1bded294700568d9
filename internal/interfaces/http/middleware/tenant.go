package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTenantInactive is returned for suspended or inactive clubs
var ErrTenantInactive = errors.New("tenant is not active")

// Tenant context keys
const (
	TenantIDKey       = "tenant_id"
	TenantCodeKey     = "tenant_code"
	TenantTimezoneKey = "tenant_timezone"
)

// TenantInfo holds the resolved tenant
type TenantInfo struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Timezone string    `json:"timezone"`
}

// TenantValidator checks that a tenant exists and is active
type TenantValidator interface {
	ValidateTenant(ctx context.Context, tenantID uuid.UUID) (*TenantInfo, error)
}

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// SkipPaths are paths that don't require tenant context (e.g., health check)
	SkipPaths []string
	// Validator is optional; without it the JWT claim is trusted as-is
	Validator TenantValidator
	Logger    *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		SkipPaths: []string{"/health", "/api/v1/health", "/api/v1/auth/login", "/api/v1/auth/refresh"},
	}
}

// TenantMiddleware resolves the club from the JWT claims. It must run after
// JWTAuthMiddleware; there is no header or subdomain fallback, so a request
// can only ever act on the tenant its token was issued for.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
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

		raw := GetJWTTenantID(c)
		if raw == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Tenant identification required")
			return
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid tenant ID format")
			return
		}

		info := &TenantInfo{ID: tenantID}
		if cfg.Validator != nil {
			info, err = cfg.Validator.ValidateTenant(c.Request.Context(), tenantID)
			if err != nil {
				log.Warn("Tenant validation failed", zap.String("tenant_id", raw), zap.Error(err))
				abortWithError(c, http.StatusForbidden, dto.ErrCodeTenantInactive, "Invalid or inactive tenant")
				return
			}
		}

		c.Set(TenantIDKey, tenantID.String())
		c.Set(TenantCodeKey, info.Code)
		c.Set(TenantTimezoneKey, info.Timezone)
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID.String()))

		c.Next()
	}
}

// RepositoryTenantValidator validates tenants against the tenant store
type RepositoryTenantValidator struct {
	tenants identity.TenantRepository
}

// NewRepositoryTenantValidator creates a validator backed by repo
func NewRepositoryTenantValidator(repo identity.TenantRepository) *RepositoryTenantValidator {
	return &RepositoryTenantValidator{tenants: repo}
}

// ValidateTenant loads the tenant and rejects suspended or inactive clubs
func (v *RepositoryTenantValidator) ValidateTenant(ctx context.Context, tenantID uuid.UUID) (*TenantInfo, error) {
	tenant, err := v.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive() {
		return nil, ErrTenantInactive
	}
	return &TenantInfo{ID: tenant.ID, Code: tenant.Code, Timezone: tenant.Location().String()}, nil
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(GetTenantID(c))
}

// GetTenantCode retrieves the tenant code from gin.Context
func GetTenantCode(c *gin.Context) string {
	return c.GetString(TenantCodeKey)
}
