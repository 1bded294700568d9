package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newTestTokenPair(t *testing.T, jwtService *auth.JWTService, role identity.Role) (*auth.TokenPair, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		TenantID:    uuid.New(),
		TenantCode:  "clube-azul",
		UserID:      uuid.New(),
		Username:    "tesoureiro",
		Role:        string(role),
		Permissions: role.Permissions(),
	}
	pair, err := jwtService.GenerateTokenPair(input)
	require.NoError(t, err)
	return pair, input
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var body struct {
		Success bool          `json:"success"`
		Error   dto.ErrorInfo `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := newTestTokenPair(t, jwtService, identity.RoleFinance)

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, input.TenantID.String(), GetJWTTenantID(c))
		assert.Equal(t, "FINANCE", GetJWTRole(c))
		assert.Contains(t, GetJWTPermissions(c), "dues:create")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService, identity.RoleStaff)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"basic scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty bearer", "Bearer   ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"refresh token as access", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuthMiddleware(newTestJWTService()))
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()

	cfg := DefaultJWTConfig(jwtService)
	cfg.TokenBlacklist = blacklist
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("revoked jti", func(t *testing.T) {
		pair, _ := newTestTokenPair(t, jwtService, identity.RoleAdmin)
		require.Equal(t, http.StatusOK, call(pair.AccessToken))

		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

		assert.Equal(t, http.StatusUnauthorized, call(pair.AccessToken))
	})

	t.Run("user sessions invalidated", func(t *testing.T) {
		pair, input := newTestTokenPair(t, jwtService, identity.RoleStaff)
		require.NoError(t, blacklist.AddUserTokensToBlacklist(context.Background(), input.UserID.String(), time.Hour))

		assert.Equal(t, http.StatusUnauthorized, call(pair.AccessToken))
	})
}
