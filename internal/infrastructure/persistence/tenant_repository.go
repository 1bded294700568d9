package persistence

import (
	"context"
	"strings"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var m models.TenantModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByCode finds a tenant by its login code
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	var m models.TenantModel
	if err := conn(ctx, r.db).Where("code = ?", strings.ToLower(strings.TrimSpace(code))).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindActive lists every active tenant ordered by code
func (r *GormTenantRepository) FindActive(ctx context.Context) ([]identity.Tenant, error) {
	var rows []models.TenantModel
	if err := conn(ctx, r.db).Where("status = ?", identity.TenantStatusActive).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	tenants := make([]identity.Tenant, len(rows))
	for i := range rows {
		tenants[i] = *rows[i].ToDomain()
	}
	return tenants, nil
}

// ExistsByCode checks if a tenant with the given code exists
func (r *GormTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.TenantModel{}).Where("code = ?", strings.ToLower(strings.TrimSpace(code))))
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return translate(conn(ctx, r.db).Save(models.TenantModelFromDomain(tenant)).Error)
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
