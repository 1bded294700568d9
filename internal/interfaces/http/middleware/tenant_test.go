package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubTenantValidator struct {
	info *TenantInfo
	err  error
}

func (s stubTenantValidator) ValidateTenant(_ context.Context, id uuid.UUID) (*TenantInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	info := *s.info
	info.ID = id
	return &info, nil
}

func tenantRouter(cfg TenantMiddlewareConfig, claimTenant string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if claimTenant != "" {
			c.Set(JWTTenantIDKey, claimTenant)
		}
		c.Next()
	})
	router.Use(TenantMiddleware(cfg))
	router.GET("/api/v1/members", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tenant": GetTenantID(c),
			"code":   GetTenantCode(c),
		})
	})
	return router
}

func TestTenantMiddleware_FromClaims(t *testing.T) {
	tenantID := uuid.New()
	cfg := DefaultTenantConfig()
	cfg.Validator = stubTenantValidator{info: &TenantInfo{Code: "clube-azul", Timezone: "America/Sao_Paulo"}}

	rec := httptest.NewRecorder()
	tenantRouter(cfg, tenantID.String()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), tenantID.String())
	assert.Contains(t, rec.Body.String(), "clube-azul")
}

func TestTenantMiddleware_IgnoresHeaderWithoutClaims(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	req.Header.Set("X-Tenant-ID", uuid.NewString())
	rec := httptest.NewRecorder()

	tenantRouter(DefaultTenantConfig(), "").ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenantMiddleware_InvalidFormat(t *testing.T) {
	rec := httptest.NewRecorder()
	tenantRouter(DefaultTenantConfig(), "not-a-uuid").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, rec).Code)
}

func TestTenantMiddleware_InactiveTenant(t *testing.T) {
	cfg := DefaultTenantConfig()
	cfg.Validator = stubTenantValidator{err: ErrTenantInactive}

	rec := httptest.NewRecorder()
	tenantRouter(cfg, uuid.NewString()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/members", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, dto.ErrCodeTenantInactive, decodeError(t, rec).Code)
}

type stubTenantRepo struct {
	identity.TenantRepository
	tenant *identity.Tenant
}

func (s stubTenantRepo) FindByID(_ context.Context, _ uuid.UUID) (*identity.Tenant, error) {
	if s.tenant == nil {
		return nil, errors.New("not found")
	}
	return s.tenant, nil
}

func TestRepositoryTenantValidator(t *testing.T) {
	tenant, err := identity.NewTenant("clube-azul", "Clube Azul")
	if err != nil {
		t.Fatal(err)
	}
	v := NewRepositoryTenantValidator(stubTenantRepo{tenant: tenant})

	info, err := v.ValidateTenant(context.Background(), tenant.ID)
	assert.NoError(t, err)
	assert.Equal(t, "clube-azul", info.Code)

	_ = tenant.Suspend()
	_, err = v.ValidateTenant(context.Background(), tenant.ID)
	assert.ErrorIs(t, err, ErrTenantInactive)

	_, err = NewRepositoryTenantValidator(stubTenantRepo{}).ValidateTenant(context.Background(), uuid.New())
	assert.Error(t, err)
}
