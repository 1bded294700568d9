package dues

import (
	"context"
	"time"

	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockDuesRepository struct {
	mock.Mock
}

func (m *MockDuesRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*dues.DuesRecord, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dues.DuesRecord), args.Error(1)
}

func (m *MockDuesRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*dues.DuesRecord, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dues.DuesRecord), args.Error(1)
}

func (m *MockDuesRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter dues.DuesFilter) ([]dues.DuesRecord, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]dues.DuesRecord), args.Error(1)
}

func (m *MockDuesRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter dues.DuesFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDuesRepository) ExistingForPeriods(ctx context.Context, tenantID uuid.UUID, periods []dues.Period) (dues.ExistingSet, error) {
	args := m.Called(ctx, tenantID, periods)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dues.ExistingSet), args.Error(1)
}

func (m *MockDuesRepository) ExistsForMemberPeriod(ctx context.Context, tenantID, memberID uuid.UUID, period dues.Period) (bool, error) {
	args := m.Called(ctx, tenantID, memberID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockDuesRepository) ExistsForMember(ctx context.Context, tenantID, memberID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDuesRepository) CreateBatch(ctx context.Context, records []*dues.DuesRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockDuesRepository) Save(ctx context.Context, record *dues.DuesRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDuesRepository) SaveWithLock(ctx context.Context, record *dues.DuesRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDuesRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockDuesRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDuesRepository) FindDelinquent(ctx context.Context, tenantID uuid.UUID, filter dues.DelinquencyFilter) ([]dues.DelinquentDues, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]dues.DelinquentDues), args.Error(1)
}

type MockBillableMemberSource struct {
	mock.Mock
}

func (m *MockBillableMemberSource) ListBillable(ctx context.Context, tenantID uuid.UUID, affiliationID *uuid.UUID) ([]dues.Billable, error) {
	args := m.Called(ctx, tenantID, affiliationID)
	return args.Get(0).([]dues.Billable), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*membership.Member, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]membership.Member, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]membership.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter membership.MemberFilter) ([]membership.Member, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]membership.Member), args.Error(1)
}

func (m *MockMemberRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter membership.MemberFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) ExistsByRegistration(ctx context.Context, tenantID uuid.UUID, registration string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, registration, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) ExistsByCPF(ctx context.Context, tenantID uuid.UUID, cpf string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, cpf, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *membership.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*membership.Category, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]membership.Category, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]membership.Category), args.Error(1)
}

func (m *MockCategoryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) IsInUse(ctx context.Context, tenantID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *membership.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

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

// MockTransactionManager runs the function inline and counts calls
type MockTransactionManager struct {
	calls int
}

func (m *MockTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type recordedMetrics struct {
	created, ignored int
	settled          decimal.Decimal
	overdue          int64
}

func (r *recordedMetrics) RecordGeneration(_ context.Context, _ uuid.UUID, created, ignored int) {
	r.created += created
	r.ignored += ignored
}

func (r *recordedMetrics) RecordSettlement(_ context.Context, _ uuid.UUID, amount decimal.Decimal) {
	r.settled = r.settled.Add(amount)
}

func (r *recordedMetrics) RecordOverdue(_ context.Context, _ uuid.UUID, updated int64) {
	r.overdue += updated
}
