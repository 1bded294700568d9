package persistence

import (
	"context"
	"strings"

	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/clube/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMemberRepository implements membership.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByIDForTenant loads a member with its dependents
func (r *GormMemberRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*membership.Member, error) {
	var m models.MemberModel
	err := conn(ctx, r.db).
		Preload("Dependents", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByIDsForTenant loads several members without dependents
func (r *GormMemberRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]membership.Member, error) {
	if len(ids) == 0 {
		return []membership.Member{}, nil
	}
	var rows []models.MemberModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMembers(rows), nil
}

// FindAllForTenant lists members matching the filter, without dependents
func (r *GormMemberRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter membership.MemberFilter) ([]membership.Member, error) {
	var rows []models.MemberModel
	query := paginate(r.filtered(ctx, tenantID, filter), filter.Filter, MemberSortFields, "name")
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMembers(rows), nil
}

// CountForTenant counts members matching the filter
func (r *GormMemberRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter membership.MemberFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, tenantID, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByRegistration checks the registration number among the tenant's other members
func (r *GormMemberRepository) ExistsByRegistration(ctx context.Context, tenantID uuid.UUID, registration string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.MemberModel{}).
		Where("tenant_id = ? AND registration_number = ?", tenantID, strings.TrimSpace(registration))
	return exists(excluding(query, excludeID))
}

// ExistsByCPF checks the CPF digits among the tenant's other members
func (r *GormMemberRepository) ExistsByCPF(ctx context.Context, tenantID uuid.UUID, cpf string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.MemberModel{}).
		Where("tenant_id = ? AND cpf = ?", tenantID, valueobject.OnlyDigits(cpf))
	return exists(excluding(query, excludeID))
}

// Save upserts the member and replaces its dependents as a set
func (r *GormMemberRepository) Save(ctx context.Context, member *membership.Member) error {
	model := &models.MemberModel{}
	model.FromDomain(member)
	dependents := model.Dependents
	model.Dependents = nil

	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("tenant_id = ? AND member_id = ?", member.TenantID, member.ID).
			Delete(&models.DependentModel{}).Error; err != nil {
			return err
		}
		if len(dependents) == 0 {
			return nil
		}
		return translate(tx.Create(&dependents).Error)
	})
}

// DeleteForTenant deletes a member and its dependents
func (r *GormMemberRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND member_id = ?", tenantID, id).
			Delete(&models.DependentModel{}).Error; err != nil {
			return err
		}
		return deleted(tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.MemberModel{}))
	})
}

func (r *GormMemberRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter membership.MemberFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.MemberModel{}).Where("tenant_id = ?", tenantID)
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := likePattern(s)
		if digits := valueobject.OnlyDigits(s); digits != "" {
			query = query.Where("LOWER(name) LIKE ? OR LOWER(registration_number) LIKE ? OR cpf LIKE ?",
				pattern, pattern, "%"+digits+"%")
		} else {
			query = query.Where("LOWER(name) LIKE ? OR LOWER(registration_number) LIKE ?", pattern, pattern)
		}
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AffiliationID != nil {
		query = query.Where("affiliation_id = ?", *filter.AffiliationID)
	}
	return query
}

func toMembers(rows []models.MemberModel) []membership.Member {
	members := make([]membership.Member, len(rows))
	for i := range rows {
		members[i] = *rows[i].ToDomain()
	}
	return members
}

// GormCategoryRepository implements membership.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForTenant finds a category by ID within a tenant
func (r *GormCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*membership.Category, error) {
	var m models.CategoryModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists categories, searching by name
func (r *GormCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]membership.Category, error) {
	var rows []models.CategoryModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter, CategorySortFields, "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]membership.Category, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts categories matching the filter
func (r *GormCategoryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// ExistsByName checks the name case-insensitively among the tenant's other categories
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.CategoryModel{}).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name)))
	return exists(excluding(query, excludeID))
}

// IsInUse reports whether any member references the category
func (r *GormCategoryRepository) IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.MemberModel{}).Where("tenant_id = ? AND category_id = ?", tenantID, id))
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *membership.Category) error {
	m := &models.CategoryModel{}
	m.FromDomain(category)
	return translate(conn(ctx, r.db).Save(m).Error)
}

// DeleteForTenant deletes a category within a tenant
func (r *GormCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.CategoryModel{}))
}

func (r *GormCategoryRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.CategoryModel{}).Where("tenant_id = ?", tenantID)
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

// GormAffiliationRepository implements membership.AffiliationRepository using GORM
type GormAffiliationRepository struct {
	db *gorm.DB
}

// NewGormAffiliationRepository creates a new GormAffiliationRepository
func NewGormAffiliationRepository(db *gorm.DB) *GormAffiliationRepository {
	return &GormAffiliationRepository{db: db}
}

// FindByIDForTenant finds an affiliation by ID within a tenant
func (r *GormAffiliationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*membership.Affiliation, error) {
	var m models.AffiliationModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists affiliations, searching by name or contact company
func (r *GormAffiliationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]membership.Affiliation, error) {
	var rows []models.AffiliationModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter, AffiliationSortFields, "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]membership.Affiliation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts affiliations matching the filter
func (r *GormAffiliationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// ExistsByName checks the name case-insensitively among the tenant's other affiliations
func (r *GormAffiliationRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.AffiliationModel{}).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name)))
	return exists(excluding(query, excludeID))
}

// IsInUse reports whether any member references the affiliation
func (r *GormAffiliationRepository) IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.MemberModel{}).Where("tenant_id = ? AND affiliation_id = ?", tenantID, id))
}

// Save creates or updates an affiliation
func (r *GormAffiliationRepository) Save(ctx context.Context, affiliation *membership.Affiliation) error {
	m := &models.AffiliationModel{}
	m.FromDomain(affiliation)
	return translate(conn(ctx, r.db).Save(m).Error)
}

// DeleteForTenant deletes an affiliation within a tenant
func (r *GormAffiliationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.AffiliationModel{}))
}

func (r *GormAffiliationRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.AffiliationModel{}).Where("tenant_id = ?", tenantID)
	if strings.TrimSpace(filter.Search) != "" {
		p := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(contact_company) LIKE ?", p, p)
	}
	return query
}

var (
	_ membership.MemberRepository      = (*GormMemberRepository)(nil)
	_ membership.CategoryRepository    = (*GormCategoryRepository)(nil)
	_ membership.AffiliationRepository = (*GormAffiliationRepository)(nil)
)
