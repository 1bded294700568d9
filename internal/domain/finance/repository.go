package finance

import (
	"context"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Every repository method takes the tenant explicitly; there is no unscoped lookup.

// CashBoxFilter defines filtering options for cash box queries
type CashBoxFilter struct {
	shared.Filter
	Active *bool
}

// CashBoxRepository defines persistence for cash boxes
type CashBoxRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CashBox, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter CashBoxFilter) ([]CashBox, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter CashBoxFilter) (int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, box *CashBox) error
}

// ChartAccountFilter defines filtering options for chart-of-accounts queries
type ChartAccountFilter struct {
	shared.Filter
	Kind         *ChartAccountKind
	ParentID     *uuid.UUID
	PostableOnly bool
}

// ChartAccountRepository defines persistence for chart-of-accounts entries
type ChartAccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ChartAccount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ChartAccountFilter) ([]ChartAccount, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ChartAccountFilter) (int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error)
	HasChildren(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error)
	Save(ctx context.Context, account *ChartAccount) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// LedgerEntryFilter defines filtering options for ledger queries
type LedgerEntryFilter struct {
	shared.Filter
	CashBoxID      *uuid.UUID
	ChartAccountID *uuid.UUID
	Source         *EntrySource
	SourceID       *uuid.UUID
	From           *time.Time
	To             *time.Time
}

// LedgerEntryRepository defines persistence for ledger entries.
// There is deliberately no update of the amount column.
type LedgerEntryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntry, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter LedgerEntryFilter) ([]LedgerEntry, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter LedgerEntryFilter) (int64, error)
	FindBySource(ctx context.Context, tenantID uuid.UUID, source EntrySource, sourceID uuid.UUID) ([]LedgerEntry, error)
	// FindInRange returns the entries of a cash box dated within [from, to], oldest first
	FindInRange(ctx context.Context, tenantID, cashBoxID uuid.UUID, from, to time.Time) ([]LedgerEntry, error)
	// SumBefore returns the signed sum of entries of a cash box dated strictly before date
	SumBefore(ctx context.Context, tenantID, cashBoxID uuid.UUID, date time.Time) (decimal.Decimal, error)
	// SumByChartAccount returns per-account totals of positive (positive=true) or negative entries in [from, to]
	SumByChartAccount(ctx context.Context, tenantID uuid.UUID, from, to time.Time, positive bool) ([]ChartAccountTotal, error)
	Create(ctx context.Context, entries ...*LedgerEntry) error
	UpdateDescription(ctx context.Context, entry *LedgerEntry) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// AccountFilter defines filtering options for ad-hoc account queries
type AccountFilter struct {
	shared.Filter
	Kind       *AccountKind
	Status     *ObligationStatus
	MemberID   *uuid.UUID
	SupplierID *uuid.UUID
	DueFrom    *time.Time
	DueTo      *time.Time
}

// AccountRepository defines persistence for ad-hoc receivables and payables
type AccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	// FindByIDForUpdate loads the row with a write lock; call inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountFilter) ([]Account, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter AccountFilter) (int64, error)
	Save(ctx context.Context, account *Account) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, account *Account) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	// MarkOverdue bulk-updates pending accounts due strictly before today
	MarkOverdue(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error)
}

// SettingsRepository stores the typed tenant finance configuration
type SettingsRepository interface {
	// FindForTenant returns shared.ErrNotFound when the tenant never saved settings
	FindForTenant(ctx context.Context, tenantID uuid.UUID) (*TenantSettings, error)
	Save(ctx context.Context, settings *TenantSettings) error
}
