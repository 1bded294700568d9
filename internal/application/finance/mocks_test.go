package finance

import (
	"context"
	"time"

	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/partner"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockCashBoxRepository struct {
	mock.Mock
}

func (m *MockCashBoxRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashBox, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CashBox), args.Error(1)
}

func (m *MockCashBoxRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.CashBoxFilter) ([]finance.CashBox, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.CashBox), args.Error(1)
}

func (m *MockCashBoxRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.CashBoxFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCashBoxRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCashBoxRepository) Save(ctx context.Context, box *finance.CashBox) error {
	args := m.Called(ctx, box)
	return args.Error(0)
}

type MockChartAccountRepository struct {
	mock.Mock
}

func (m *MockChartAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.ChartAccount, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.ChartAccount), args.Error(1)
}

func (m *MockChartAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ChartAccountFilter) ([]finance.ChartAccount, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.ChartAccount), args.Error(1)
}

func (m *MockChartAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ChartAccountFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChartAccountRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChartAccountRepository) HasChildren(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockChartAccountRepository) IsReferenced(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockChartAccountRepository) Save(ctx context.Context, account *finance.ChartAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockChartAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.LedgerEntryFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, source finance.EntrySource, sourceID uuid.UUID) ([]finance.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, source, sourceID)
	return args.Get(0).([]finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindInRange(ctx context.Context, tenantID, cashBoxID uuid.UUID, from, to time.Time) ([]finance.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, cashBoxID, from, to)
	return args.Get(0).([]finance.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) SumBefore(ctx context.Context, tenantID, cashBoxID uuid.UUID, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, cashBoxID, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerEntryRepository) SumByChartAccount(ctx context.Context, tenantID uuid.UUID, from, to time.Time, positive bool) ([]finance.ChartAccountTotal, error) {
	args := m.Called(ctx, tenantID, from, to, positive)
	return args.Get(0).([]finance.ChartAccountTotal), args.Error(1)
}

func (m *MockLedgerEntryRepository) Create(ctx context.Context, entries ...*finance.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) UpdateDescription(ctx context.Context, entry *finance.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*finance.Account, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountFilter) ([]finance.Account, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Account), args.Error(1)
}

func (m *MockAccountRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveWithLock(ctx context.Context, account *finance.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockAccountRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*finance.TenantSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.TenantSettings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, settings *finance.TenantSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockMemberRepository only answers FindByIDForTenant
type MockMemberRepository struct {
	membership.MemberRepository
	mock.Mock
}

func (m *MockMemberRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*membership.Member, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Member), args.Error(1)
}

// MockSupplierRepository only answers FindByIDForTenant
type MockSupplierRepository struct {
	partner.SupplierRepository
	mock.Mock
}

func (m *MockSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Supplier), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// MockTransactionManager runs the function inline
type MockTransactionManager struct {
	calls int
}

func (m *MockTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
