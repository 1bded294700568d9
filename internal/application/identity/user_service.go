package identity

import (
	"context"
	"strings"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages the back-office users of a club
type UserService struct {
	userRepo       identity.UserRepository
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new user service. blacklist may be nil.
func NewUserService(userRepo identity.UserRepository, blacklist auth.TokenBlacklist, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:  userRepo,
		blacklist: blacklist,
		logger:    logger.Named("users"),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a user with a fixed role
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByUsername(ctx, tenantID, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Username already exists")
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Password, role)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.Email, req.DisplayName); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("username", user.Username),
		zap.String("role", string(role)))
	s.publish(ctx, user)

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID returns a user
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List retrieves a page of users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, req UserListFilter) (*shared.Paginated[UserResponse], error) {
	filter := identity.UserFilter{
		Filter: shared.Filter{Page: req.Page, PageSize: req.PageSize, Search: req.Search, OrderBy: "username", OrderDir: "asc"}.Normalize(),
	}
	if req.Status != "" {
		status := identity.UserStatus(strings.ToUpper(req.Status))
		switch status {
		case identity.UserStatusActive, identity.UserStatusLocked, identity.UserStatusDeactivated:
			filter.Status = &status
		default:
			return nil, shared.NewValidationError("status", "Unknown user status")
		}
	}
	if req.Role != "" {
		role, err := identity.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		filter.Role = &role
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update changes profile and role; the last active administrator cannot be demoted
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	role, err := identity.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if user.Role == identity.RoleAdmin && role != identity.RoleAdmin {
		if err := s.ensureAnotherAdmin(ctx, user); err != nil {
			return nil, err
		}
	}
	roleChanged := user.Role != role

	if err := user.UpdateProfile(req.Email, req.DisplayName); err != nil {
		return nil, err
	}
	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if roleChanged {
		// tokens carry the old permissions
		s.revokeSessions(ctx, user)
	}
	s.publish(ctx, user)

	resp := ToUserResponse(user)
	return &resp, nil
}

// ResetPassword sets a new password for a user and ends their sessions
func (s *UserService) ResetPassword(ctx context.Context, tenantID, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.revokeSessions(ctx, user)
	s.publish(ctx, user)
	return nil
}

// Activate reactivates a user, also clearing a login lock
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)
	resp := ToUserResponse(user)
	return &resp, nil
}

// Deactivate blocks a user; callers cannot deactivate themselves or the last administrator
func (s *UserService) Deactivate(ctx context.Context, tenantID, actorID, id uuid.UUID) (*UserResponse, error) {
	if actorID == id {
		return nil, shared.NewInvalidStateError("You cannot deactivate your own user")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if user.Role == identity.RoleAdmin && user.Status == identity.UserStatusActive {
		if err := s.ensureAnotherAdmin(ctx, user); err != nil {
			return nil, err
		}
	}
	if err := user.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user)
	s.logger.Info("User deactivated", zap.String("user_id", user.ID.String()), zap.String("actor_id", actorID.String()))
	s.publish(ctx, user)

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user under the same rules as Deactivate
func (s *UserService) Delete(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewInvalidStateError("You cannot delete your own user")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if user.Role == identity.RoleAdmin && user.Status == identity.UserStatusActive {
		if err := s.ensureAnotherAdmin(ctx, user); err != nil {
			return err
		}
	}
	if err := s.userRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, user)
	return nil
}

func (s *UserService) ensureAnotherAdmin(ctx context.Context, user *identity.User) error {
	admins, err := s.userRepo.CountActiveAdmins(ctx, user.TenantID)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return shared.NewInvalidStateError("The club must keep at least one active administrator")
	}
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, user *identity.User) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), sessionRevocationTTL); err != nil {
		s.logger.Warn("Failed to revoke user sessions", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

func (s *UserService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, agg); err != nil {
		s.logger.Warn("Failed to publish user domain events",
			zap.String("aggregate_id", agg.GetID().String()),
			zap.Error(err))
	}
}
