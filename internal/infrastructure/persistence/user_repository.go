package persistence

import (
	"context"
	"strings"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByIDForTenant finds a user by ID within a tenant
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var m models.UserModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByUsername finds a user by username within a tenant
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	var m models.UserModel
	err := conn(ctx, r.db).
		Where("tenant_id = ? AND username = ?", tenantID, strings.ToLower(strings.TrimSpace(username))).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant finds all users for a tenant with filtering
func (r *GormUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) ([]identity.User, error) {
	var rows []models.UserModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter.Filter, UserSortFields, "username").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, nil
}

// CountForTenant counts users for a tenant with filtering
func (r *GormUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// ExistsByUsername checks if a username exists within a tenant
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.UserModel{}).
		Where("tenant_id = ? AND username = ?", tenantID, strings.ToLower(strings.TrimSpace(username))))
}

// CountActiveAdmins counts the tenant's active administrators
func (r *GormUserRepository) CountActiveAdmins(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.UserModel{}).
		Where("tenant_id = ? AND role = ? AND status = ?", tenantID, identity.RoleAdmin, identity.UserStatusActive).
		Count(&count).Error
	return count, err
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return translate(conn(ctx, r.db).Save(models.UserModelFromDomain(user)).Error)
}

// DeleteForTenant deletes a user within a tenant
func (r *GormUserRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.UserModel{}))
}

func (r *GormUserRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter identity.UserFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.UserModel{}).Where("tenant_id = ?", tenantID)
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := likePattern(s)
		query = query.Where("LOWER(username) LIKE ? OR LOWER(display_name) LIKE ? OR LOWER(email) LIKE ?", p, p, p)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	return query
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
