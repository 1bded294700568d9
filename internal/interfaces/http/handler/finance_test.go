package handler

import (
	"net/http"
	"testing"

	financeapp "github.com/clube/backend/internal/application/finance"
	"github.com/clube/backend/internal/infrastructure/persistence"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountFinance(env *testEnv) func(r gin.IRouter) {
	h := NewFinanceHandler(FinanceServices{
		CashBoxes: financeapp.NewCashBoxService(env.cashes),
		Chart:     financeapp.NewChartAccountService(env.chart),
		Ledger:    financeapp.NewLedgerService(env.ledger, env.cashes, env.chart, nil),
		Accounts: financeapp.NewAccountService(financeapp.AccountServiceConfig{
			AccountRepo:  env.accounts,
			ChartRepo:    env.chart,
			CashBoxRepo:  env.cashes,
			LedgerRepo:   env.ledger,
			SettingsRepo: env.settings,
			MemberRepo:   env.members,
			SupplierRepo: persistence.NewGormSupplierRepository(env.db),
			TxManager:    env.tx,
			Calendar:     env.calendar,
		}),
		Settings: financeapp.NewSettingsService(env.settings, env.chart, env.cashes),
	})
	return func(r gin.IRouter) {
		r.POST("/finance/cash-boxes", h.CreateCashBox)
		r.POST("/finance/chart-accounts", h.CreateChartAccount)
		r.GET("/finance/ledger", h.ListLedgerEntries)
		r.POST("/finance/ledger", h.CreateLedgerEntry)
		r.POST("/finance/accounts", h.CreateAccount)
		r.POST("/finance/accounts/:id/settle", h.SettleAccount)
	}
}

func createCashBox(t *testing.T, r http.Handler, name string) financeapp.CashBoxResponse {
	t.Helper()
	rec, resp := doJSON(t, r, http.MethodPost, "/finance/cash-boxes", map[string]any{"name": name, "opening_balance": "0"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[financeapp.CashBoxResponse](t, resp)
}

func createChartAccount(t *testing.T, r http.Handler, code, name, kind string) financeapp.ChartAccountResponse {
	t.Helper()
	rec, resp := doJSON(t, r, http.MethodPost, "/finance/chart-accounts", map[string]any{"code": code, "name": name, "kind": kind})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[financeapp.ChartAccountResponse](t, resp)
}

func TestFinanceHandler_PayableSettlementPostsNegativeEntry(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountFinance(env))
	box := createCashBox(t, r, "Tesouraria")
	electricity := createChartAccount(t, r, "2.01", "Energia elétrica", "EXPENSE")

	rec, resp := doJSON(t, r, http.MethodPost, "/finance/accounts", map[string]any{
		"kind":             "PAYABLE",
		"description":      "Conta de luz",
		"amount":           "250.00",
		"due_date":         "2030-03-10T00:00:00Z",
		"chart_account_id": electricity.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	account := decodeData[financeapp.AccountResponse](t, resp)
	assert.Equal(t, "PENDING", account.Status)

	settle := "/finance/accounts/" + account.ID.String() + "/settle"
	body := map[string]any{
		"cash_box_id":  box.ID,
		"payment_date": "2030-03-12T00:00:00Z",
		"interest":     "5.00",
	}
	rec, resp = doJSON(t, r, http.MethodPost, settle, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decodeData[financeapp.AccountResponse](t, resp)
	assert.Equal(t, "PAID", paid.Status)
	assert.Equal(t, "255", paid.TotalDue.String())

	rec, resp = doJSON(t, r, http.MethodGet, "/finance/ledger?cash_box_id="+box.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	entries := decodeData[[]financeapp.LedgerEntryResponse](t, resp)
	require.Len(t, entries, 1)
	assert.Equal(t, "-255", entries[0].Amount.String())
	assert.Equal(t, "ACCOUNT", entries[0].Source)

	rec, resp = doJSON(t, r, http.MethodPost, settle, body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
}

func TestFinanceHandler_AccountClassificationMustMatchKind(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountFinance(env))
	rent := createChartAccount(t, r, "1.05", "Aluguel do salão", "REVENUE")

	rec, resp := doJSON(t, r, http.MethodPost, "/finance/accounts", map[string]any{
		"kind":             "PAYABLE",
		"description":      "Fornecedor de gelo",
		"amount":           "80.00",
		"due_date":         "2030-03-10T00:00:00Z",
		"chart_account_id": rent.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
}

func TestFinanceHandler_ManualLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountFinance(env))
	box := createCashBox(t, r, "Bar")

	rec, resp := doJSON(t, r, http.MethodPost, "/finance/ledger", map[string]any{
		"cash_box_id": box.ID,
		"description": "Troco inicial",
		"entry_date":  "2030-01-02T00:00:00Z",
		"amount":      "150.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decodeData[financeapp.LedgerEntryResponse](t, resp)
	assert.Equal(t, "MANUAL", entry.Source)
	assert.Equal(t, "150", entry.Amount.String())

	t.Run("unknown cash box", func(t *testing.T) {
		rec, _ := doJSON(t, r, http.MethodPost, "/finance/ledger", map[string]any{
			"cash_box_id": env.userID,
			"description": "Sangria",
			"entry_date":  "2030-01-02T00:00:00Z",
			"amount":      "-20.00",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad cash box filter", func(t *testing.T) {
		rec, _ := doJSON(t, r, http.MethodGet, "/finance/ledger?cash_box_id=nope", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
