package persistence

import (
	"context"
	"strings"

	"github.com/clube/backend/internal/domain/clubevent"
	"github.com/clube/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEventRepository implements clubevent.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GormEventRepository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// FindByIDForTenant finds an event by ID within a tenant
func (r *GormEventRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*clubevent.Event, error) {
	var m models.EventModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate loads the event with SELECT ... FOR UPDATE
func (r *GormEventRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*clubevent.Event, error) {
	var m models.EventModel
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists events matching the filter
func (r *GormEventRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter clubevent.EventFilter) ([]clubevent.Event, error) {
	var rows []models.EventModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter.Filter, EventSortFields, "starts_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]clubevent.Event, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts events matching the filter
func (r *GormEventRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter clubevent.EventFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, event *clubevent.Event) error {
	m := &models.EventModel{}
	m.FromDomain(event)
	return translate(conn(ctx, r.db).Save(m).Error)
}

// DeleteForTenant deletes an event and its registrations
func (r *GormEventRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND event_id = ?", tenantID, id).
			Delete(&models.RegistrationModel{}).Error; err != nil {
			return err
		}
		return deleted(tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.EventModel{}))
	})
}

func (r *GormEventRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter clubevent.EventFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.EventModel{}).Where("tenant_id = ?", tenantID)
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := likePattern(s)
		query = query.Where("LOWER(title) LIKE ? OR LOWER(venue) LIKE ?", p, p)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("starts_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("starts_at <= ?", *filter.To)
	}
	return query
}

// GormRegistrationRepository implements clubevent.RegistrationRepository using GORM
type GormRegistrationRepository struct {
	db *gorm.DB
}

// NewGormRegistrationRepository creates a new GormRegistrationRepository
func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

// FindByIDForTenant finds a registration by ID within a tenant
func (r *GormRegistrationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*clubevent.Registration, error) {
	var m models.RegistrationModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByEvent lists an event's registrations in arrival order
func (r *GormRegistrationRepository) FindByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]clubevent.Registration, error) {
	var rows []models.RegistrationModel
	err := conn(ctx, r.db).
		Where("tenant_id = ? AND event_id = ?", tenantID, eventID).
		Order("registered_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]clubevent.Registration, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsForMember reports whether the member has a confirmed registration for the event
func (r *GormRegistrationRepository) ExistsForMember(ctx context.Context, tenantID, eventID, memberID uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.RegistrationModel{}).
		Where("tenant_id = ? AND event_id = ? AND member_id = ? AND status = ?",
			tenantID, eventID, memberID, clubevent.RegistrationConfirmed))
}

// OccupiedSeats sums 1 + guests over confirmed registrations
func (r *GormRegistrationRepository) OccupiedSeats(ctx context.Context, tenantID, eventID uuid.UUID) (int, error) {
	var row struct {
		Seats int
	}
	err := conn(ctx, r.db).Model(&models.RegistrationModel{}).
		Select("COALESCE(SUM(1 + guests), 0) AS seats").
		Where("tenant_id = ? AND event_id = ? AND status = ?", tenantID, eventID, clubevent.RegistrationConfirmed).
		Scan(&row).Error
	return row.Seats, err
}

// Save creates or updates a registration
func (r *GormRegistrationRepository) Save(ctx context.Context, registration *clubevent.Registration) error {
	m := &models.RegistrationModel{}
	m.FromDomain(registration)
	return translate(conn(ctx, r.db).Save(m).Error)
}

var (
	_ clubevent.EventRepository        = (*GormEventRepository)(nil)
	_ clubevent.RegistrationRepository = (*GormRegistrationRepository)(nil)
)
