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

func newTestChart(t *testing.T, tenantID uuid.UUID, kind ChartAccountKind) *ChartAccount {
	t.Helper()
	chart, err := NewChartAccount(tenantID, "3.1.01", "Mensalidades", kind, nil, false)
	require.NoError(t, err)
	return chart
}

func newTestCashBox(t *testing.T, tenantID uuid.UUID) *CashBox {
	t.Helper()
	box, err := NewCashBox(tenantID, "Caixa Principal", decimal.RequireFromString("1000"))
	require.NoError(t, err)
	return box
}

func newTestAccount(t *testing.T, tenantID uuid.UUID, kind AccountKind, chart *ChartAccount) *Account {
	t.Helper()
	account, err := NewAccount(tenantID, NewAccountInput{
		Kind:         kind,
		Description:  "Aluguel do salão",
		Amount:       decimal.RequireFromString("300.00"),
		DueDate:      time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		ChartAccount: chart,
	})
	require.NoError(t, err)
	return account
}

func TestNewAccount_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewAccount(tenantID, NewAccountInput{Kind: "LOAN"})
	require.Error(t, err)
	var v *shared.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Len(t, v.Fields, 5)

	expense := newTestChart(t, tenantID, ChartAccountKindExpense)
	_, err = NewAccount(tenantID, NewAccountInput{
		Kind:         AccountKindReceivable,
		Description:  "Venda de camisetas",
		Amount:       decimal.NewFromInt(50),
		DueDate:      time.Now(),
		ChartAccount: expense,
	})
	assert.True(t, errors.Is(err, shared.ErrValidation))

	foreign := newTestChart(t, uuid.New(), ChartAccountKindRevenue)
	_, err = NewAccount(tenantID, NewAccountInput{
		Kind:         AccountKindReceivable,
		Description:  "Venda de camisetas",
		Amount:       decimal.NewFromInt(50),
		DueDate:      time.Now(),
		ChartAccount: foreign,
	})
	assert.ErrorIs(t, err, shared.ErrCrossTenant)
}

func TestAccount_SettleReceivable(t *testing.T) {
	tenantID := uuid.New()
	chart := newTestChart(t, tenantID, ChartAccountKindRevenue)
	box := newTestCashBox(t, tenantID)
	account := newTestAccount(t, tenantID, AccountKindReceivable, chart)

	paidOn := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	result, err := account.Settle(box, chart, paidOn, decimal.RequireFromString("6.00"), decimal.RequireFromString("1.00"))
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, account.Status)
	assert.Equal(t, paidOn, *account.PaymentDate)
	assert.True(t, result.Entry.Amount.Equal(decimal.RequireFromString("305.00")))
	assert.Equal(t, EntrySourceAccount, result.Entry.Source)
	assert.Equal(t, account.ID, *result.Entry.SourceID)
	assert.Equal(t, box.ID, result.Entry.CashBoxID)
	assert.Equal(t, 2, account.Version)
}

func TestAccount_SettlePayablePostsOutflow(t *testing.T) {
	tenantID := uuid.New()
	chart := newTestChart(t, tenantID, ChartAccountKindExpense)
	box := newTestCashBox(t, tenantID)
	account := newTestAccount(t, tenantID, AccountKindPayable, chart)

	result, err := account.Settle(box, chart, time.Now(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, result.Entry.Amount.Equal(decimal.RequireFromString("-300.00")))
}

func TestAccount_SettleRejectsSecondSettlementAndCanceled(t *testing.T) {
	tenantID := uuid.New()
	chart := newTestChart(t, tenantID, ChartAccountKindRevenue)
	box := newTestCashBox(t, tenantID)

	account := newTestAccount(t, tenantID, AccountKindReceivable, chart)
	_, err := account.Settle(box, chart, time.Now(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	_, err = account.Settle(box, chart, time.Now(), decimal.Zero, decimal.Zero)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	canceled := newTestAccount(t, tenantID, AccountKindReceivable, chart)
	require.NoError(t, canceled.Cancel("duplicated"))
	_, err = canceled.Settle(box, chart, time.Now(), decimal.Zero, decimal.Zero)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	assert.Equal(t, StatusCanceled, canceled.Status)
}

func TestAccount_SettleRejectsForeignCashBox(t *testing.T) {
	tenantID := uuid.New()
	chart := newTestChart(t, tenantID, ChartAccountKindRevenue)
	account := newTestAccount(t, tenantID, AccountKindReceivable, chart)

	_, err := account.Settle(newTestCashBox(t, uuid.New()), chart, time.Now(), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrCrossTenant)
	assert.Equal(t, StatusPending, account.Status)
}

func TestAccount_LifecycleAndDelete(t *testing.T) {
	tenantID := uuid.New()
	chart := newTestChart(t, tenantID, ChartAccountKindRevenue)
	account := newTestAccount(t, tenantID, AccountKindReceivable, chart)

	assert.False(t, account.MarkOverdue(time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)))
	assert.True(t, account.MarkOverdue(time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, StatusOverdue, account.Status)
	assert.Equal(t, 5, account.DaysOverdue(time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, errors.Is(account.Reopen(), shared.ErrInvalidState))

	require.NoError(t, account.Cancel("negotiated"))
	assert.NoError(t, account.EnsureDeletable())
	require.NoError(t, account.Reopen())
	assert.Equal(t, StatusPending, account.Status)

	_, err := account.Settle(newTestCashBox(t, tenantID), chart, time.Now(), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, errors.Is(account.EnsureDeletable(), shared.ErrInvalidState))
}
