package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/clube/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCashBoxRepository implements finance.CashBoxRepository using GORM
type GormCashBoxRepository struct {
	db *gorm.DB
}

// NewGormCashBoxRepository creates a new GormCashBoxRepository
func NewGormCashBoxRepository(db *gorm.DB) *GormCashBoxRepository {
	return &GormCashBoxRepository{db: db}
}

// FindByIDForTenant finds a cash box by ID within a tenant
func (r *GormCashBoxRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashBox, error) {
	var m models.CashBoxModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists cash boxes matching the filter
func (r *GormCashBoxRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.CashBoxFilter) ([]finance.CashBox, error) {
	var rows []models.CashBoxModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter.Filter, CashBoxSortFields, "name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.CashBox, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts cash boxes matching the filter
func (r *GormCashBoxRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.CashBoxFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// ExistsByName checks the name case-insensitively among the tenant's other cash boxes
func (r *GormCashBoxRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.CashBoxModel{}).
		Where("tenant_id = ? AND LOWER(name) = ?", tenantID, strings.ToLower(strings.TrimSpace(name)))
	return exists(excluding(query, excludeID))
}

// Save creates or updates a cash box
func (r *GormCashBoxRepository) Save(ctx context.Context, box *finance.CashBox) error {
	m := &models.CashBoxModel{}
	m.FromDomain(box)
	return translate(conn(ctx, r.db).Save(m).Error)
}

func (r *GormCashBoxRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter finance.CashBoxFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.CashBoxModel{}).Where("tenant_id = ?", tenantID)
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}

// GormChartAccountRepository implements finance.ChartAccountRepository using GORM
type GormChartAccountRepository struct {
	db *gorm.DB
}

// NewGormChartAccountRepository creates a new GormChartAccountRepository
func NewGormChartAccountRepository(db *gorm.DB) *GormChartAccountRepository {
	return &GormChartAccountRepository{db: db}
}

// FindByIDForTenant finds a chart account by ID within a tenant
func (r *GormChartAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.ChartAccount, error) {
	var m models.ChartAccountModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists chart accounts, ordered by code unless asked otherwise
func (r *GormChartAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ChartAccountFilter) ([]finance.ChartAccount, error) {
	var rows []models.ChartAccountModel
	f := filter.Filter
	if f.OrderBy == "" {
		f.OrderBy, f.OrderDir = "code", "asc"
	}
	if err := paginate(r.filtered(ctx, tenantID, filter), f, ChartAccountSortFields, "code").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.ChartAccount, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts chart accounts matching the filter
func (r *GormChartAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ChartAccountFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// ExistsByCode checks the code among the tenant's other chart accounts
func (r *GormChartAccountRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	query := conn(ctx, r.db).Model(&models.ChartAccountModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.TrimSpace(code))
	return exists(excluding(query, excludeID))
}

// HasChildren reports whether any chart account has id as parent
func (r *GormChartAccountRepository) HasChildren(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.ChartAccountModel{}).Where("tenant_id = ? AND parent_id = ?", tenantID, id))
}

// IsReferenced reports whether ledger entries, accounts or finance settings point to the chart account
func (r *GormChartAccountRepository) IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	db := conn(ctx, r.db)
	checks := []*gorm.DB{
		db.Model(&models.LedgerEntryModel{}).Where("tenant_id = ? AND chart_account_id = ?", tenantID, id),
		db.Model(&models.AccountModel{}).Where("tenant_id = ? AND chart_account_id = ?", tenantID, id),
		db.Model(&models.TenantSettingsModel{}).
			Where("tenant_id = ? AND (dues_revenue_account_id = ? OR interest_revenue_account_id = ?)", tenantID, id, id),
	}
	for _, q := range checks {
		found, err := exists(q)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

// Save creates or updates a chart account
func (r *GormChartAccountRepository) Save(ctx context.Context, account *finance.ChartAccount) error {
	m := &models.ChartAccountModel{}
	m.FromDomain(account)
	return translate(conn(ctx, r.db).Save(m).Error)
}

// DeleteForTenant deletes a chart account within a tenant
func (r *GormChartAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.ChartAccountModel{}))
}

func (r *GormChartAccountRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter finance.ChartAccountFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.ChartAccountModel{}).Where("tenant_id = ?", tenantID)
	if s := strings.TrimSpace(filter.Search); s != "" {
		p := likePattern(s)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", p, p)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.PostableOnly {
		query = query.Where("grouping_only = ? AND active = ?", false, true)
	}
	return query
}

// GormLedgerEntryRepository implements finance.LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByIDForTenant finds a ledger entry by ID within a tenant
func (r *GormLedgerEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.LedgerEntry, error) {
	var m models.LedgerEntryModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists ledger entries, newest first by default
func (r *GormLedgerEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter.Filter, LedgerEntrySortFields, "entry_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toLedgerEntries(rows), nil
}

// CountForTenant counts ledger entries matching the filter
func (r *GormLedgerEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.LedgerEntryFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// FindBySource returns the entries posted by one dues record or account
func (r *GormLedgerEntryRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, source finance.EntrySource, sourceID uuid.UUID) ([]finance.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	err := conn(ctx, r.db).
		Where("tenant_id = ? AND source = ? AND source_id = ?", tenantID, source, sourceID).
		Order("entry_date ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toLedgerEntries(rows), nil
}

// FindInRange returns the entries of a cash box dated within [from, to], oldest first
func (r *GormLedgerEntryRepository) FindInRange(ctx context.Context, tenantID, cashBoxID uuid.UUID, from, to time.Time) ([]finance.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	err := conn(ctx, r.db).
		Where("tenant_id = ? AND cash_box_id = ? AND entry_date >= ? AND entry_date <= ?",
			tenantID, cashBoxID, finance.DateOnly(from), finance.DateOnly(to)).
		Order("entry_date ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toLedgerEntries(rows), nil
}

// SumBefore returns the signed sum of a cash box's entries dated before date
func (r *GormLedgerEntryRepository) SumBefore(ctx context.Context, tenantID, cashBoxID uuid.UUID, date time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := conn(ctx, r.db).Model(&models.LedgerEntryModel{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("tenant_id = ? AND cash_box_id = ? AND entry_date < ?", tenantID, cashBoxID, finance.DateOnly(date)).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// SumByChartAccount groups the positive or negative entries in [from, to] by chart account
func (r *GormLedgerEntryRepository) SumByChartAccount(ctx context.Context, tenantID uuid.UUID, from, to time.Time, positive bool) ([]finance.ChartAccountTotal, error) {
	sign := "e.amount > 0"
	if !positive {
		sign = "e.amount < 0"
	}
	var rows []struct {
		ChartAccountID *uuid.UUID
		Name           string
		Total          decimal.Decimal
	}
	err := conn(ctx, r.db).Table("ledger_entries AS e").
		Select("e.chart_account_id AS chart_account_id, COALESCE(c.name, '') AS name, SUM(e.amount) AS total").
		Joins("LEFT JOIN chart_accounts c ON c.id = e.chart_account_id AND c.tenant_id = e.tenant_id").
		Where("e.tenant_id = ? AND e.entry_date >= ? AND e.entry_date <= ?", tenantID, finance.DateOnly(from), finance.DateOnly(to)).
		Where(sign).
		Group("e.chart_account_id, c.name").
		Order("name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]finance.ChartAccountTotal, len(rows))
	for i, row := range rows {
		out[i] = finance.ChartAccountTotal{ChartAccountID: row.ChartAccountID, Name: row.Name, Total: row.Total}
	}
	return out, nil
}

// Create inserts ledger entries
func (r *GormLedgerEntryRepository) Create(ctx context.Context, entries ...*finance.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.LedgerEntryModel, len(entries))
	for i, e := range entries {
		rows[i] = &models.LedgerEntryModel{}
		rows[i].FromDomain(e)
	}
	return translate(conn(ctx, r.db).Create(&rows).Error)
}

// UpdateDescription rewrites only the description of an entry
func (r *GormLedgerEntryRepository) UpdateDescription(ctx context.Context, entry *finance.LedgerEntry) error {
	result := conn(ctx, r.db).Model(&models.LedgerEntryModel{}).
		Where("tenant_id = ? AND id = ?", entry.TenantID, entry.ID).
		Updates(map[string]any{
			"description": entry.Description,
			"updated_at":  entry.UpdatedAt,
			"version":     entry.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForTenant deletes a ledger entry within a tenant
func (r *GormLedgerEntryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.LedgerEntryModel{}))
}

func (r *GormLedgerEntryRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter finance.LedgerEntryFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.LedgerEntryModel{}).Where("tenant_id = ?", tenantID)
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(description) LIKE ?", likePattern(filter.Search))
	}
	if filter.CashBoxID != nil {
		query = query.Where("cash_box_id = ?", *filter.CashBoxID)
	}
	if filter.ChartAccountID != nil {
		query = query.Where("chart_account_id = ?", *filter.ChartAccountID)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}
	if filter.SourceID != nil {
		query = query.Where("source_id = ?", *filter.SourceID)
	}
	if filter.From != nil {
		query = query.Where("entry_date >= ?", finance.DateOnly(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("entry_date <= ?", finance.DateOnly(*filter.To))
	}
	return query
}

func toLedgerEntries(rows []models.LedgerEntryModel) []finance.LedgerEntry {
	out := make([]finance.LedgerEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// GormAccountRepository implements finance.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForTenant finds an account by ID within a tenant
func (r *GormAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	var m models.AccountModel
	if err := conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate loads the account with SELECT ... FOR UPDATE
func (r *GormAccountRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	var m models.AccountModel
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindAllForTenant lists accounts matching the filter
func (r *GormAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountFilter) ([]finance.Account, error) {
	var rows []models.AccountModel
	if err := paginate(r.filtered(ctx, tenantID, filter), filter.Filter, AccountSortFields, "due_date").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]finance.Account, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts accounts matching the filter
func (r *GormAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, tenantID, filter).Count(&count).Error
	return count, err
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	m := &models.AccountModel{}
	m.FromDomain(account)
	return translate(conn(ctx, r.db).Save(m).Error)
}

// SaveWithLock updates the account only if the stored version is the one it was loaded with
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *finance.Account) error {
	m := &models.AccountModel{}
	m.FromDomain(account)
	result := conn(ctx, r.db).Model(&models.AccountModel{}).
		Where("id = ? AND tenant_id = ? AND version = ?", account.ID, account.TenantID, account.Version-1).
		Updates(map[string]any{
			"description":   m.Description,
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

// DeleteForTenant deletes an account within a tenant
func (r *GormAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(conn(ctx, r.db).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.AccountModel{}))
}

// MarkOverdue moves PENDING accounts due before today to OVERDUE
func (r *GormAccountRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error) {
	result := conn(ctx, r.db).Model(&models.AccountModel{}).
		Where("tenant_id = ? AND status = ? AND due_date < ?", tenantID, finance.StatusPending, finance.DateOnly(today)).
		Updates(map[string]any{
			"status":     finance.StatusOverdue,
			"updated_at": time.Now(),
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func (r *GormAccountRepository) filtered(ctx context.Context, tenantID uuid.UUID, filter finance.AccountFilter) *gorm.DB {
	query := conn(ctx, r.db).Model(&models.AccountModel{}).Where("tenant_id = ?", tenantID)
	if strings.TrimSpace(filter.Search) != "" {
		query = query.Where("LOWER(description) LIKE ?", likePattern(filter.Search))
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", finance.DateOnly(*filter.DueFrom))
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", finance.DateOnly(*filter.DueTo))
	}
	return query
}

// GormSettingsRepository implements finance.SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindForTenant returns the tenant's finance settings
func (r *GormSettingsRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*finance.TenantSettings, error) {
	var m models.TenantSettingsModel
	if err := conn(ctx, r.db).Where("tenant_id = ?", tenantID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// Save upserts the settings row keyed by tenant
func (r *GormSettingsRepository) Save(ctx context.Context, settings *finance.TenantSettings) error {
	m := &models.TenantSettingsModel{}
	m.FromDomain(settings)
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		UpdateAll: true,
	}).Create(m).Error
}

var (
	_ finance.CashBoxRepository      = (*GormCashBoxRepository)(nil)
	_ finance.ChartAccountRepository = (*GormChartAccountRepository)(nil)
	_ finance.LedgerEntryRepository  = (*GormLedgerEntryRepository)(nil)
	_ finance.AccountRepository      = (*GormAccountRepository)(nil)
	_ finance.SettingsRepository     = (*GormSettingsRepository)(nil)
)
