package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/domain/shared/valueobject"
	"github.com/clube/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDuesRepository implements dues.DuesRepository using GORM
type GormDuesRepository struct {
	db *gorm.DB
}

// NewGormDuesRepository creates a new GormDuesRepository
func NewGormDuesRepository(db *gorm.DB) *GormDuesRepository {
	return &GormDuesRepository{db: db}
}

// FindByIDForTenant finds a dues record by ID within a tenant
func (r *GormDuesRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*dues.DuesRecord, error) {
	var m models.DuesRecordModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate loads the record with SELECT ... FOR UPDATE
func (r *GormDuesRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*dues.DuesRecord, error) {
	var m models.DuesRecordModel
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists dues records matching the filter
func (r *GormDuesRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter dues.DuesFilter) ([]dues.DuesRecord, error) {
	var rows []models.DuesRecordModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter.Filter, DuesSortFields, "due_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDuesRecords(rows), nil
}

// CountForTenant counts dues records matching the filter
func (r *GormDuesRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter dues.DuesFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// ExistingForPeriods loads the (period, member) pairs already billed
func (r *GormDuesRepository) ExistingForPeriods(ctx context.Context, tenantID uuid.UUID, periods []dues.Period) (dues.ExistingSet, error) {
	set := dues.ExistingSet{}
	if len(periods) == 0 {
		return set, nil
	}
	days := make([]time.Time, len(periods))
	for i, p := range periods {
		days[i] = p.FirstDay()
	}

	var rows []struct {
		MemberID uuid.UUID
		Period   time.Time
	}
	err := conn(ctx, r.db).Model(&models.DuesRecordModel{}).
		Select("member_id, period").
		Where("tenant_id = ? AND period IN ?", tenantID, days).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		set.Add(dues.PeriodOf(row.Period), row.MemberID)
	}
	return set, nil
}

// ExistsForMemberPeriod checks the (tenant, member, period) uniqueness key
func (r *GormDuesRepository) ExistsForMemberPeriod(ctx context.Context, tenantID, memberID uuid.UUID, period dues.Period) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.DuesRecordModel{}).
		Where("tenant_id = ? AND member_id = ? AND period = ?", tenantID, memberID, period.FirstDay()))
}

// ExistsForMember reports whether the member has any dues record
func (r *GormDuesRepository) ExistsForMember(ctx context.Context, tenantID, memberID uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.DuesRecordModel{}).
		Where("tenant_id = ? AND member_id = ?", tenantID, memberID))
}

// CreateBatch inserts the records in one transaction
func (r *GormDuesRepository) CreateBatch(ctx context.Context, records []*dues.DuesRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]*models.DuesRecordModel, len(records))
	for i, rec := range records {
		rows[i] = models.DuesRecordModelFromDomain(rec)
	}
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		return translate(tx.CreateInBatches(rows, 200).Error)
	})
}

// Save creates or updates a dues record
func (r *GormDuesRepository) Save(ctx context.Context, record *dues.DuesRecord) error {
	return translate(conn(ctx, r.db).Save(models.DuesRecordModelFromDomain(record)).Error)
}

// SaveWithLock updates the record only if the stored version is the one it was loaded with
func (r *GormDuesRepository) SaveWithLock(ctx context.Context, record *dues.DuesRecord) error {
	m := models.DuesRecordModelFromDomain(record)
	result := conn(ctx, r.db).Model(&models.DuesRecordModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", record.ID, record.TenantID, record.Version-1).
		Updates(map[string]any{
			"amount":        m.Amount,
			"interest":      m.Interest,
			"discount":      m.Discount,
			"due_date":      m.DueDate,
			"payment_date":  m.PaymentDate,
			"status":        m.Status,
			"cash_box_id":   m.CashBoxID,
			"notes":         m.Notes,
			"canceled_at":   m.CanceledAt,
			"cancel_reason": m.CancelReason,
			"version":       m.Version,
			"updated_at":    m.UpdatedAt,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant deletes a dues record within a tenant
func (r *GormDuesRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.DuesRecordModel{}))
}

// MarkOverdue moves PENDING records due before today to OVERDUE
func (r *GormDuesRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&models.DuesRecordModel{}).
		Where("tenant_id = ? AND status = ? AND due_date < ?", tenantID, finance.StatusPending, finance.DateOnly(today)).
		Updates(map[string]any{
			"status":     finance.StatusOverdue,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// FindDelinquent lists open records with the member they bill, ordered by member name
func (r *GormDuesRepository) FindDelinquent(ctx context.Context, tenantID uuid.UUID, filter dues.DelinquencyFilter) ([]dues.DelinquentDues, error) {
	var rows []struct {
		models.DuesRecordModel
		MemberName         string
		RegistrationNumber string
	}
	query := conn(ctx, r.db).Table("dues_records AS d").
		Select("d.*, m.name AS member_name, m.registration_number AS registration_number").
		Joins("JOIN members m ON m.id = d.member_id AND m.tenant_id = d.tenant_id").
		Where("d.tenant_id = ? AND d.status IN ?", tenantID,
			[]finance.ObligationStatus{finance.StatusPending, finance.StatusOverdue})
	if filter.Period != nil {
		query = query.Where("d.period = ?", filter.Period.FirstDay())
	}
	if err := query.Order("m.name ASC, d.period ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dues.DelinquentDues, len(rows))
	for i := range rows {
		out[i] = dues.DelinquentDues{
			Record:             *rows[i].ToDomain(),
			MemberName:         rows[i].MemberName,
			RegistrationNumber: rows[i].RegistrationNumber,
		}
	}
	return out, nil
}

func (r *GormDuesRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter dues.DuesFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.DuesRecordModel{}).Where("tenant_id = ?", tenantID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.PeriodFrom != nil {
		query = query.Where("period >= ?", filter.PeriodFrom.FirstDay())
	}
	if filter.PeriodTo != nil {
		query = query.Where("period <= ?", filter.PeriodTo.FirstDay())
	}
	if filter.PaidFrom != nil {
		query = query.Where("payment_date >= ?", finance.DateOnly(*filter.PaidFrom))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		members := conn(ctx, r.db).Model(&models.MemberModel{}).Select("id").Where("tenant_id = ?", tenantID)
		pattern := likePattern(s)
		if digits := valueobject.OnlyDigits(s); digits != "" {
			members = members.Where("LOWER(name) LIKE ? OR LOWER(registration_number) LIKE ? OR cpf LIKE ?",
				pattern, pattern, "%"+digits+"%")
		} else {
			members = members.Where("LOWER(name) LIKE ? OR LOWER(registration_number) LIKE ?", pattern, pattern)
		}
		query = query.Where("member_id IN (?)", members)
	}
	return query
}

func toDuesRecords(rows []models.DuesRecordModel) []dues.DuesRecord {
	out := make([]dues.DuesRecord, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormBillableMemberSource implements dues.BillableMemberSource by joining
// active members with their category
type GormBillableMemberSource struct {
	db *gorm.DB
}

// NewGormBillableMemberSource creates a new GormBillableMemberSource
func NewGormBillableMemberSource(db *gorm.DB) *GormBillableMemberSource {
	return &GormBillableMemberSource{db: db}
}

// ListBillable returns active members with their category fee and due day.
// A member whose category is missing comes back with a zero fee.
func (s *GormBillableMemberSource) ListBillable(ctx context.Context, tenantID uuid.UUID, affiliationID *uuid.UUID) ([]dues.Billable, error) {
	var rows []struct {
		MemberID uuid.UUID
		Fee      decimal.NullDecimal
		DueDay   *int
	}
	query := conn(ctx, s.db).Table("members AS m").
		Select("m.id AS member_id, c.monthly_fee AS fee, c.due_day AS due_day").
		Joins("LEFT JOIN member_categories c ON c.id = m.category_id AND c.tenant_id = m.tenant_id").
		Where("m.tenant_id = ? AND m.status = ?", tenantID, membership.MemberStatusActive)
	if affiliationID != nil {
		query = query.Where("m.affiliation_id = ?", *affiliationID)
	}
	if err := query.Order("m.name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]dues.Billable, len(rows))
	for i, row := range rows {
		b := dues.Billable{MemberID: row.MemberID}
		if row.Fee.Valid {
			b.Fee = row.Fee.Decimal
		}
		if row.DueDay != nil {
			b.DueDay = *row.DueDay
		}
		out[i] = b
	}
	return out, nil
}

var (
	_ dues.DuesRepository       = (*GormDuesRepository)(nil)
	_ dues.BillableMemberSource = (*GormBillableMemberSource)(nil)
)
