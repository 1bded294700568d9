package identity

import (
	"context"
	"errors"
	"time"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth error codes returned to clients
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeTenantInactive     = "TENANT_INACTIVE"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenMaxRefresh    = "TOKEN_MAX_REFRESH"
)

// sessionRevocationTTL covers the longest refresh token lifetime
const sessionRevocationTTL = 7 * 24 * time.Hour

var errInvalidCredentials = shared.NewDomainError(CodeInvalidCredentials, "Invalid club, username or password")

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// TokenIssuer issues and validates JWT pairs
type TokenIssuer interface {
	GenerateTokenPair(input auth.GenerateTokenInput) (*auth.TokenPair, error)
	ValidateRefreshToken(token string) (*auth.Claims, error)
	RefreshTokenPair(refreshToken, role string, permissions []string) (*auth.TokenPair, error)
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	tenantRepo identity.TenantRepository
	tokens     TokenIssuer
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist may be nil,
// in which case logout only forgets the tokens client-side.
func NewAuthService(
	userRepo identity.UserRepository,
	tenantRepo identity.TenantRepository,
	tokens TokenIssuer,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		tokens:     tokens,
		blacklist:  blacklist,
		config:     config,
		logger:     logger.Named("auth"),
	}
}

// Login authenticates a user of a club and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := s.logger.With(zap.String("tenant_code", input.TenantCode), zap.String("username", input.Username))

	tenant, err := s.tenantRepo.FindByCode(ctx, input.TenantCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown club")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !tenant.IsActive() {
		log.Warn("Login for inactive club")
		return nil, shared.NewDomainError(CodeTenantInactive, "Club is not active")
	}

	user, err := s.userRepo.FindByUsername(ctx, tenant.ID, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown user")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			log.Warn("Login attempt for locked account")
			return nil, shared.NewDomainError(CodeAccountLocked, "Account is locked. Try again later or contact an administrator")
		}
		log.Warn("Login attempt for deactivated account")
		return nil, shared.NewDomainError(CodeAccountInactive, "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			log.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			log.Warn("Account locked after too many failed attempts", zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError(CodeAccountLocked, "Too many failed login attempts. Account has been locked")
		}
		log.Warn("Invalid password attempt", zap.Int("failed_attempts", user.FailedAttempts))
		return nil, errInvalidCredentials
	}

	permissions := user.Permissions()
	pair, err := s.tokens.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:    tenant.ID,
		TenantCode:  tenant.Code,
		UserID:      user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		Permissions: permissions,
	})
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// the tokens are already valid
		log.Error("Failed to record login", zap.Error(err))
	}

	log.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  userInfo(tenant, user),
	}, nil
}

// Refresh exchanges a refresh token for a new pair carrying the user's current role
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token rejected", zap.Error(err))
		return nil, tokenError(err)
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}

	if s.blacklist != nil {
		invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			return nil, err
		}
		if invalidated {
			return nil, tokenError(auth.ErrTokenBlacklisted)
		}
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive() {
		return nil, shared.NewDomainError(CodeTenantInactive, "Club is not active")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, tokenError(auth.ErrInvalidClaims)
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError(CodeAccountInactive, "Account is no longer active")
	}

	pair, err := s.tokens.RefreshTokenPair(refreshToken, string(user.Role), user.Permissions())
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, tokenError(err)
	}

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  userInfo(tenant, user),
	}, nil
}

// Logout revokes the presented access token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout",
		zap.String("user_id", input.UserID.String()),
		zap.String("tenant_id", input.TenantID.String()))

	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL)
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*UserInfo, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	info := userInfo(tenant, user)
	return &info, nil
}

// ChangePassword changes the caller's own password and revokes the sessions issued before it
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	if s.blacklist != nil {
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), s.refreshLifetime()); err != nil {
			s.logger.Warn("Failed to revoke sessions after password change", zap.Error(err))
		}
	}
	s.logger.Info("User password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) refreshLifetime() time.Duration {
	if j, ok := s.tokens.(*auth.JWTService); ok {
		return j.GetRefreshTokenExpiration()
	}
	return sessionRevocationTTL
}

func userInfo(tenant *identity.Tenant, user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		TenantID:    tenant.ID,
		TenantCode:  tenant.Code,
		TenantName:  tenant.Name,
		Username:    user.Username,
		DisplayName: user.Name(),
		Email:       user.Email,
		Role:        string(user.Role),
		Permissions: user.Permissions(),
	}
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError(CodeTokenExpired, "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError(CodeTokenMaxRefresh, "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError(CodeTokenInvalid, "Session has been revoked")
	default:
		return shared.NewDomainError(CodeTokenInvalid, "Invalid refresh token")
	}
}
