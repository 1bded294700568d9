package identity

import (
	"context"
	"strings"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantService provisions clubs and maintains their registration data
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	txManager  shared.TransactionManager
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *TenantService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		logger:     logger.Named("tenants"),
	}
}

// Provision creates a club and its first administrator atomically
func (s *TenantService) Provision(ctx context.Context, input CreateTenantInput) (*CreateTenantResult, error) {
	tenant, err := identity.NewTenant(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	exists, err := s.tenantRepo.ExistsByCode(ctx, tenant.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Club code already exists")
	}

	admin, err := identity.NewUser(tenant.ID, input.AdminUsername, input.AdminPassword, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.tenantRepo.Save(txCtx, tenant); err != nil {
			return err
		}
		return s.userRepo.Save(txCtx, admin)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Club provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code),
		zap.String("admin", admin.Username))

	return &CreateTenantResult{Tenant: ToTenantResponse(tenant), Admin: ToUserResponse(admin)}, nil
}

// Get returns a club
func (s *TenantService) Get(ctx context.Context, tenantID uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// Update replaces the club's contact data and timezone
func (s *TenantService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	addr, err := req.Address.ToAddress()
	if err != nil {
		return nil, err
	}
	if err := tenant.UpdateContact(req.Name, req.Document, req.ResponsiblePerson, req.Phone, req.Email, addr); err != nil {
		return nil, err
	}
	if tz := strings.TrimSpace(req.Timezone); tz != "" && tz != tenant.Timezone {
		if err := tenant.SetTimezone(tz); err != nil {
			return nil, err
		}
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// ListActive returns the active clubs
func (s *TenantService) ListActive(ctx context.Context) ([]TenantResponse, error) {
	tenants, err := s.tenantRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TenantResponse, len(tenants))
	for i := range tenants {
		out[i] = ToTenantResponse(&tenants[i])
	}
	return out, nil
}

// Suspend blocks every login of a club
func (s *TenantService) Suspend(ctx context.Context, code string) error {
	tenant, err := s.tenantRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := tenant.Suspend(); err != nil {
		return err
	}
	s.logger.Warn("Club suspended", zap.String("code", tenant.Code))
	return s.tenantRepo.Save(ctx, tenant)
}

// Activate restores a suspended club
func (s *TenantService) Activate(ctx context.Context, code string) error {
	tenant, err := s.tenantRepo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if err := tenant.Activate(); err != nil {
		return err
	}
	s.logger.Info("Club activated", zap.String("code", tenant.Code))
	return s.tenantRepo.Save(ctx, tenant)
}
