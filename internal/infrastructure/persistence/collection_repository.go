package persistence

import (
	"context"
	"strings"

	"github.com/clube/backend/internal/domain/collection"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTemplateRepository implements collection.TemplateRepository using GORM
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewGormTemplateRepository creates a new GormTemplateRepository
func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// FindByIDForTenant finds a template by ID within a tenant
func (r *GormTemplateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*collection.Template, error) {
	var m models.TemplateModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists templates
func (r *GormTemplateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]collection.Template, error) {
	var rows []models.TemplateModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter, TemplateSortFields, "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]collection.Template, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts templates
func (r *GormTemplateRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// IsInUse reports whether a campaign uses the template
func (r *GormTemplateRepository) IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.CampaignModel{}).Where("tenant_id = ? AND template_id = ?", tenantID, id))
}

// Save creates or updates a template
func (r *GormTemplateRepository) Save(ctx context.Context, tmpl *collection.Template) error {
	m := &models.TemplateModel{}
	m.FromDomain(tmpl)
	return translate(conn(ctx, r.db).Save(m).Error)
}

// DeleteForTenant deletes a template within a tenant
func (r *GormTemplateRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.TemplateModel{}))
}

func (r *GormTemplateRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.TemplateModel{}).Where("tenant_id = ?", tenantID)
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

// GormCampaignRepository implements collection.CampaignRepository using GORM
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository
func NewGormCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// FindByIDForTenant finds a campaign by ID within a tenant
func (r *GormCampaignRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*collection.Campaign, error) {
	var m models.CampaignModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists campaigns
func (r *GormCampaignRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]collection.Campaign, error) {
	var rows []models.CampaignModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter, CampaignSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]collection.Campaign, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts campaigns
func (r *GormCampaignRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// Save creates or updates a campaign
func (r *GormCampaignRepository) Save(ctx context.Context, campaign *collection.Campaign) error {
	m := &models.CampaignModel{}
	m.FromDomain(campaign)
	return translate(conn(ctx, r.db).Save(m).Error)
}

// DeleteForTenant deletes a campaign and its dispatches
func (r *GormCampaignRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND campaign_id = ?", tenantID, id).
			Delete(&models.DispatchModel{}).Error; err != nil {
			return err
		}
		return deleted(tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.CampaignModel{}))
	})
}

func (r *GormCampaignRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.CampaignModel{}).Where("tenant_id = ?", tenantID)
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	return query
}

// GormDispatchRepository implements collection.DispatchRepository using GORM
type GormDispatchRepository struct {
	db *gorm.DB
}

// NewGormDispatchRepository creates a new GormDispatchRepository
func NewGormDispatchRepository(db *gorm.DB) *GormDispatchRepository {
	return &GormDispatchRepository{db: db}
}

// FindByCampaign lists a page of the campaign's dispatches
func (r *GormDispatchRepository) FindByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter collection.DispatchFilter) ([]collection.Dispatch, error) {
	var rows []models.DispatchModel
	if err := paginate(r.filtered(ctx, tenantID, campaignID, filter), filter.Filter, DispatchSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]collection.Dispatch, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountByCampaign counts the campaign's dispatches
func (r *GormDispatchRepository) CountByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID, filter collection.DispatchFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, campaignID, filter).Count(&count).Error
	return count, err
}

// FindAllByCampaign returns every dispatch of the campaign keyed by member and record
func (r *GormDispatchRepository) FindAllByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) (map[collection.DispatchKey]*collection.Dispatch, error) {
	var rows []models.DispatchModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND campaign_id = ?", tenantID, campaignID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[collection.DispatchKey]*collection.Dispatch, len(rows))
	for i := range rows {
		d := rows[i].ToDomain()
		out[collection.DispatchKey{MemberID: d.MemberID, DuesRecordID: d.DuesRecordID}] = d
	}
	return out, nil
}

// Create inserts new dispatches
func (r *GormDispatchRepository) Create(ctx context.Context, dispatches []*collection.Dispatch) error {
	if len(dispatches) == 0 {
		return nil
	}
	rows := make([]*models.DispatchModel, len(dispatches))
	for i, d := range dispatches {
		rows[i] = &models.DispatchModel{}
		rows[i].FromDomain(d)
	}
	return translate(conn(ctx, r.db).CreateInBatches(rows, 200).Error)
}

// Save updates a dispatch after a send attempt
func (r *GormDispatchRepository) Save(ctx context.Context, dispatch *collection.Dispatch) error {
	m := &models.DispatchModel{}
	m.FromDomain(dispatch)
	return translate(conn(ctx, r.db).Save(m).Error)
}

func (r *GormDispatchRepository) filtered(ctx context.Context, tenantID, campaignID uuid.UUID, filter collection.DispatchFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.DispatchModel{}).
		Where("tenant_id = ? AND campaign_id = ?", tenantID, campaignID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(recipient) LIKE ?", likePattern(filter.Search))
	}
	return query
}

var (
	_ collection.TemplateRepository = (*GormTemplateRepository)(nil)
	_ collection.CampaignRepository = (*GormCampaignRepository)(nil)
	_ collection.DispatchRepository = (*GormDispatchRepository)(nil)
)
