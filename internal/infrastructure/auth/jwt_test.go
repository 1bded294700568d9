package auth

import (
	"testing"
	"time"

	"github.com/clube/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "clube-test",
		MaxRefreshCount:        10,
	}
}

func newTestJWTService() *JWTService {
	return NewJWTService(testJWTConfig())
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		TenantID:    uuid.New(),
		TenantCode:  "atletico",
		UserID:      uuid.New(),
		Username:    "tesoureiro",
		Role:        "FINANCE",
		Permissions: []string{"dues:read", "dues:update", "members:read"},
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})

	assert.Equal(t, []byte("only-secret"), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, input.TenantID.String(), claims.TenantID)
	assert.Equal(t, "atletico", claims.TenantCode)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, "tesoureiro", claims.Username)
	assert.Equal(t, "FINANCE", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, input.Permissions, claims.Permissions)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateAccessToken_ExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpiration = -time.Hour
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	_, err := newTestJWTService().ValidateAccessToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_DifferentSecret(t *testing.T) {
	pair, err := newTestJWTService().GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	cfg := testJWTConfig()
	cfg.Secret = "another-secret-key-of-32-chars!!"

	_, err = NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongTokenType(t *testing.T) {
	cfg := testJWTConfig()
	cfg.RefreshSecret = cfg.Secret
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateRefreshToken_CarriesNoPermissions(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, 0, claims.RefreshCount)
	assert.Empty(t, claims.Permissions)
	assert.Empty(t, claims.Role)
}

func TestRefreshTokenPair_UsesCurrentRole(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	newPair, err := svc.RefreshTokenPair(pair.RefreshToken, "STAFF", []string{"members:read"})
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, newPair.AccessToken)

	claims, err := svc.ValidateAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "STAFF", claims.Role)
	assert.Equal(t, []string{"members:read"}, claims.Permissions)
	assert.Equal(t, "atletico", claims.TenantCode)

	refresh, err := svc.ValidateRefreshToken(newPair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refresh.RefreshCount)
}

func TestRefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	cfg := testJWTConfig()
	cfg.MaxRefreshCount = 2
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		pair, err = svc.RefreshTokenPair(pair.RefreshToken, "FINANCE", nil)
		require.NoError(t, err)
	}

	_, err = svc.RefreshTokenPair(pair.RefreshToken, "FINANCE", nil)

	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_InvalidToken(t *testing.T) {
	_, err := newTestJWTService().RefreshTokenPair("invalid-token", "ADMIN", nil)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_UUIDs(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	tenantID, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, input.TenantID, tenantID)

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)
}

func TestClaims_Permissions(t *testing.T) {
	claims := &Claims{Permissions: []string{"dues:read", "dues:create", "members:read"}}

	assert.True(t, claims.HasPermission("dues:read"))
	assert.False(t, claims.HasPermission("dues:delete"))
	assert.True(t, claims.HasAnyPermission("dues:delete", "dues:create"))
	assert.False(t, claims.HasAnyPermission("finance:read", "users:read"))
	assert.True(t, claims.HasAllPermissions("dues:read", "members:read"))
	assert.False(t, claims.HasAllPermissions("dues:read", "finance:read"))
}

func TestClaims_RemainingTTL(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.True(t, ttl > 14*time.Minute && ttl <= 15*time.Minute)
	assert.Equal(t, time.Duration(0), (&Claims{}).GetRemainingTTL())
}
