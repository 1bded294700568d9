package persistence

import (
	"context"
	"strings"

	"github.com/clube/backend/internal/domain/partner"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/clube/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByIDForTenant finds a supplier by ID within a tenant
func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var m models.SupplierModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant finds all suppliers for a tenant with filtering
func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.SupplierFilter) ([]partner.Supplier, error) {
	var rows []models.SupplierModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter.Filter, SupplierSortFields, "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, nil
}

// CountForTenant counts suppliers for a tenant with optional filters
func (r *GormSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter partner.SupplierFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// ExistsByDocument checks the CPF/CNPJ digits among the tenant's other suppliers
func (r *GormSupplierRepository) ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string, excludeID *uuid.UUID) (bool, error) {
	digits := valueobject.OnlyDigits(document)
	if digits == "" {
		return false, nil
	}
	query := conn(ctx, r.db).Model(&models.SupplierModel{}).Where("tenant_id = ? AND document = ?", tenantID, digits)
	return exists(excluding(query, excludeID))
}

// IsReferenced reports whether payable accounts reference the supplier
func (r *GormSupplierRepository) IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.AccountModel{}).Where("tenant_id = ? AND supplier_id = ?", tenantID, id))
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return translate(conn(ctx, r.db).Save(models.SupplierModelFromDomain(supplier)).Error)
}

// DeleteForTenant deletes a supplier within a tenant
func (r *GormSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.SupplierModel{}))
}

func (r *GormSupplierRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter partner.SupplierFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.SupplierModel{}).Where("tenant_id = ?", tenantID)
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := likePattern(s)
		if digits := valueobject.OnlyDigits(s); digits != "" {
			query = query.Where("LOWER(name) LIKE ? OR LOWER(trade_name) LIKE ? OR document LIKE ?", p, p, "%"+digits+"%")
		} else {
			query = query.Where("LOWER(name) LIKE ? OR LOWER(trade_name) LIKE ?", p, p)
		}
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
