package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartAccount_Hierarchy(t *testing.T) {
	tenantID := uuid.New()
	group, err := NewChartAccount(tenantID, "3", "Receitas", ChartAccountKindRevenue, nil, true)
	require.NoError(t, err)

	child, err := NewChartAccount(tenantID, "3.1", "Mensalidades", ChartAccountKindRevenue, group, false)
	require.NoError(t, err)
	assert.Equal(t, group.ID, *child.ParentID)

	_, err = NewChartAccount(tenantID, "3.1.1", "Sub", ChartAccountKindRevenue, child, false)
	assert.True(t, errors.Is(err, shared.ErrValidation), "posting accounts cannot have children")

	_, err = NewChartAccount(tenantID, "4.1", "Energia", ChartAccountKindExpense, group, false)
	assert.True(t, errors.Is(err, shared.ErrValidation), "kind must match the parent")

	assert.True(t, errors.Is(group.EnsurePostable(), shared.ErrInvalidState))
	assert.NoError(t, child.EnsurePostable())
	child.Deactivate()
	assert.True(t, errors.Is(child.EnsurePostable(), shared.ErrInvalidState))
}

func TestNewManualEntry(t *testing.T) {
	tenantID := uuid.New()
	box := newTestCashBox(t, tenantID)
	expense := newTestChart(t, tenantID, ChartAccountKindExpense)
	date := time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC)

	entry, err := NewManualEntry(tenantID, box, expense, "Conta de luz", date, decimal.RequireFromString("-230.45"))
	require.NoError(t, err)
	assert.False(t, entry.IsAutoGenerated())
	assert.False(t, entry.IsInflow())
	assert.Equal(t, time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), entry.EntryDate)
	assert.NoError(t, entry.EnsureDeletable())
	assert.Len(t, entry.GetDomainEvents(), 1)

	_, err = NewManualEntry(tenantID, box, expense, "Conta de luz", date, decimal.RequireFromString("230.45"))
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = NewManualEntry(tenantID, box, nil, "Ajuste", date, decimal.Zero)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestSettlementEntry_CannotBeDeleted(t *testing.T) {
	tenantID := uuid.New()
	box := newTestCashBox(t, tenantID)
	revenue := newTestChart(t, tenantID, ChartAccountKindRevenue)

	entry, err := NewSettlementEntry(tenantID, Posting{
		CashBox:      box,
		ChartAccount: revenue,
		Description:  "Mensalidade 2026-04",
		Date:         time.Now(),
		Amount:       decimal.RequireFromString("150.00"),
		Source:       EntrySourceDues,
		SourceID:     uuid.New(),
	})
	require.NoError(t, err)
	assert.True(t, entry.IsAutoGenerated())
	assert.True(t, errors.Is(entry.EnsureDeletable(), shared.ErrInvalidState))

	_, err = NewSettlementEntry(tenantID, Posting{CashBox: box, Description: "x", Date: time.Now(), Amount: decimal.NewFromInt(1), Source: EntrySourceDues})
	assert.Error(t, err)
}

func TestTenantSettings_RequireSettlementAccounts(t *testing.T) {
	settings := NewTenantSettings(uuid.New())

	_, err := settings.RequireSettlementAccounts()
	assert.True(t, errors.Is(err, shared.ErrConfiguration))

	dues := uuid.New()
	settings.MapAccounts(&dues, nil, nil)
	_, err = settings.RequireSettlementAccounts()
	assert.True(t, errors.Is(err, shared.ErrConfiguration))

	interest := uuid.New()
	settings.MapAccounts(&dues, &interest, nil)
	accounts, err := settings.RequireSettlementAccounts()
	require.NoError(t, err)
	assert.Equal(t, dues, accounts.DuesRevenueAccountID)
	assert.Equal(t, interest, accounts.InterestRevenueAccountID)

	var missing *TenantSettings
	_, err = missing.RequireSettlementAccounts()
	assert.True(t, errors.Is(err, shared.ErrConfiguration))
}

func TestTenantSettings_ResolveCashBox(t *testing.T) {
	settings := NewTenantSettings(uuid.New())
	_, err := settings.ResolveCashBox(nil)
	assert.True(t, errors.Is(err, shared.ErrConfiguration))

	def := uuid.New()
	settings.MapAccounts(nil, nil, &def)
	id, err := settings.ResolveCashBox(nil)
	require.NoError(t, err)
	assert.Equal(t, def, id)

	explicit := uuid.New()
	id, err = settings.ResolveCashBox(&explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, id)
}

func TestTenantSettings_SuggestedInterest(t *testing.T) {
	settings := NewTenantSettings(uuid.New())
	require.NoError(t, settings.SetRates(decimal.RequireFromString("3"), decimal.RequireFromString("2"), 5))

	amount := decimal.RequireFromString("150.00")
	assert.True(t, settings.SuggestedInterest(amount, 5).IsZero(), "inside the grace period")
	// 2% fee = 3.00; 3%/30 per day over 10 days = 1.50
	assert.Equal(t, "4.5", settings.SuggestedInterest(amount, 10).String())

	err := settings.SetRates(decimal.NewFromInt(-1), decimal.Zero, 0)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestBuildCashFlowStatement(t *testing.T) {
	tenantID := uuid.New()
	box := newTestCashBox(t, tenantID)
	d := func(day int) time.Time { return time.Date(2026, 4, day, 0, 0, 0, 0, time.UTC) }

	entries := []LedgerEntry{
		{CashBoxID: box.ID, EntryDate: d(3), Description: "Mensalidade", Amount: decimal.RequireFromString("150.00"), Source: EntrySourceDues},
		{CashBoxID: box.ID, EntryDate: d(5), Description: "Energia", Amount: decimal.RequireFromString("-80.00"), Source: EntrySourceManual},
		{CashBoxID: box.ID, EntryDate: d(9), Description: "Juros", Amount: decimal.RequireFromString("15.00"), Source: EntrySourceDues},
	}

	st := BuildCashFlowStatement(box, d(1), d(30), decimal.RequireFromString("200.00"), entries)

	assert.Equal(t, "1200", st.BalanceBefore.String())
	require.Len(t, st.Rows, 3)
	assert.Equal(t, "1350", st.Rows[0].RunningBalance.String())
	assert.Equal(t, "1270", st.Rows[1].RunningBalance.String())
	assert.Equal(t, "1285", st.Rows[2].RunningBalance.String())
	assert.Equal(t, "1285", st.ClosingBalance.String())
	assert.Equal(t, "165", st.TotalInflow.String())
	assert.Equal(t, "80", st.TotalOutflow.String())
}

func TestBuildIncomeStatement(t *testing.T) {
	st := BuildIncomeStatement(time.Now(), time.Now(),
		[]ChartAccountTotal{{Name: "Mensalidades", Total: decimal.NewFromInt(3000)}, {Name: "Juros", Total: decimal.NewFromInt(45)}},
		[]ChartAccountTotal{{Name: "Energia", Total: decimal.NewFromInt(-800)}},
	)
	assert.Equal(t, "3045", st.TotalRevenue.String())
	assert.Equal(t, "800", st.TotalExpenses.String())
	assert.Equal(t, "800", st.Expenses[0].Total.String())
	assert.Equal(t, "2245", st.Result.String())
}
