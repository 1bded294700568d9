package report

import (
	"context"
	"time"

	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockLedgerEntryRepository struct {
	finance.LedgerEntryRepository
	mock.Mock
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

type MockCashBoxRepository struct {
	finance.CashBoxRepository
	mock.Mock
}

func (m *MockCashBoxRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashBox, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CashBox), args.Error(1)
}

type MockChartAccountRepository struct {
	finance.ChartAccountRepository
	mock.Mock
}

func (m *MockChartAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.ChartAccountFilter) ([]finance.ChartAccount, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.ChartAccount), args.Error(1)
}

type MockAccountRepository struct {
	finance.AccountRepository
	mock.Mock
}

func (m *MockAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter finance.AccountFilter) ([]finance.Account, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.Account), args.Error(1)
}

func (m *MockAccountRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockSettingsRepository struct {
	finance.SettingsRepository
	mock.Mock
}

func (m *MockSettingsRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID) (*finance.TenantSettings, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.TenantSettings), args.Error(1)
}

type MockDuesRepository struct {
	dues.DuesRepository
	mock.Mock
}

func (m *MockDuesRepository) MarkOverdue(ctx context.Context, tenantID uuid.UUID, today time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDuesRepository) FindDelinquent(ctx context.Context, tenantID uuid.UUID, filter dues.DelinquencyFilter) ([]dues.DelinquentDues, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]dues.DelinquentDues), args.Error(1)
}

func (m *MockDuesRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter dues.DuesFilter) ([]dues.DuesRecord, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]dues.DuesRecord), args.Error(1)
}

func (m *MockDuesRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter dues.DuesFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockMemberRepository struct {
	membership.MemberRepository
	mock.Mock
}

func (m *MockMemberRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter membership.MemberFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]membership.Member, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]membership.Member), args.Error(1)
}

type MockTenantRepository struct {
	identity.TenantRepository
	mock.Mock
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

// =============================================================================
// Mock Export Ports
// =============================================================================

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, doc *Document) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockArchive) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
