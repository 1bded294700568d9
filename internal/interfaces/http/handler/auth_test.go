package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	appidentity "github.com/clube/backend/internal/application/identity"
	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/clube/backend/internal/infrastructure/persistence"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/clube/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "secreta123"

type authFixture struct {
	env       *testEnv
	user      *identity.User
	blacklist *auth.InMemoryTokenBlacklist
	handler   *AuthHandler
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	env := newTestEnv(t)
	users := persistence.NewGormUserRepository(env.db)

	user, err := identity.NewUser(env.tenant.ID, "tesoureiro", testPassword, identity.RoleFinance)
	require.NoError(t, err)
	require.NoError(t, users.Save(context.Background(), user))
	env.userID = user.ID

	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		RefreshSecret:          "test-refresh-secret-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "clube-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := appidentity.NewAuthService(users, env.tenants, tokens, blacklist,
		appidentity.AuthServiceConfig{MaxLoginAttempts: 3, LockDuration: time.Minute}, nil)

	return &authFixture{env: env, user: user, blacklist: blacklist, handler: NewAuthHandler(service)}
}

func (f *authFixture) public() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/auth/login", f.handler.Login)
	r.POST("/auth/refresh", f.handler.RefreshToken)
	return r
}

func (f *authFixture) authenticated(claims *auth.Claims) *gin.Engine {
	return f.env.engine(f.env.tenant.ID, func(r gin.IRouter) {
		r.Use(func(c *gin.Context) {
			if claims != nil {
				c.Set(middleware.JWTClaimsKey, claims)
			}
			c.Next()
		})
		r.GET("/auth/me", f.handler.GetCurrentUser)
		r.POST("/auth/logout", f.handler.Logout)
		r.PUT("/auth/password", f.handler.ChangePassword)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	f := newAuthFixture(t)
	r := f.public()

	rec, resp := doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{
		"tenant_code": f.env.tenant.Code,
		"username":    "tesoureiro",
		"password":    testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decodeData[appidentity.LoginResult](t, resp)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, f.user.ID, result.User.ID)
	assert.Equal(t, f.env.tenant.ID, result.User.TenantID)
	assert.Equal(t, string(identity.RoleFinance), result.User.Role)
	assert.NotEmpty(t, result.User.Permissions)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	f := newAuthFixture(t)
	r := f.public()

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "wrong password",
			body:       map[string]any{"tenant_code": f.env.tenant.Code, "username": "tesoureiro", "password": "errada999"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrCodeInvalidCredentials,
		},
		{
			name:       "unknown club",
			body:       map[string]any{"tenant_code": "clube-nenhum", "username": "tesoureiro", "password": testPassword},
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrCodeInvalidCredentials,
		},
		{
			name:       "missing club",
			body:       map[string]any{"username": "tesoureiro", "password": testPassword},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, r, http.MethodPost, "/auth/login", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	r := f.public()

	_, resp := doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{
		"tenant_code": f.env.tenant.Code,
		"username":    "tesoureiro",
		"password":    testPassword,
	})
	login := decodeData[appidentity.LoginResult](t, resp)

	rec, resp := doJSON(t, r, http.MethodPost, "/auth/refresh", map[string]any{"refresh_token": login.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refreshed := decodeData[appidentity.LoginResult](t, resp)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, f.user.ID, refreshed.User.ID)

	rec, _ = doJSON(t, r, http.MethodPost, "/auth/refresh", map[string]any{"refresh_token": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	f := newAuthFixture(t)
	r := f.authenticated(nil)

	rec, resp := doJSON(t, r, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	info := decodeData[appidentity.UserInfo](t, resp)
	assert.Equal(t, "tesoureiro", info.Username)
	assert.Equal(t, f.env.tenant.Code, info.TenantCode)
}

func TestAuthHandler_Logout(t *testing.T) {
	f := newAuthFixture(t)
	jti := uuid.NewString()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
		},
		TenantID: f.env.tenant.ID.String(),
		UserID:   f.user.ID.String(),
	}

	rec, resp := doJSON(t, f.authenticated(claims), http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, resp.Success)

	revoked, err := f.blacklist.IsBlacklisted(context.Background(), jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	rec, _ = doJSON(t, f.authenticated(nil), http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	r := f.authenticated(nil)

	rec, _ := doJSON(t, r, http.MethodPut, "/auth/password", map[string]any{
		"old_password": "errada999",
		"new_password": "novasenha456",
	})
	assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)

	rec, _ = doJSON(t, r, http.MethodPut, "/auth/password", map[string]any{
		"old_password": testPassword,
		"new_password": "novasenha456",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, _ = doJSON(t, f.public(), http.MethodPost, "/auth/login", map[string]any{
		"tenant_code": f.env.tenant.Code,
		"username":    "tesoureiro",
		"password":    "novasenha456",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
