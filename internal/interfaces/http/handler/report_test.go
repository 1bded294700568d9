package handler

import (
	"context"
	"net/http"
	"testing"

	reportapp "github.com/clube/backend/internal/application/report"
	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountReports(env *testEnv) func(r gin.IRouter) {
	h := NewReportHandler(reportapp.NewReportService(reportapp.ReportServiceConfig{
		LedgerRepo:   env.ledger,
		CashBoxRepo:  env.cashes,
		ChartRepo:    env.chart,
		AccountRepo:  env.accounts,
		SettingsRepo: env.settings,
		DuesRepo:     env.dues,
		MemberRepo:   env.members,
		Calendar:     env.calendar,
	}), nil)
	return func(r gin.IRouter) {
		r.GET("/reports/dashboard", h.Dashboard)
		r.GET("/reports/cash-flow", h.CashFlow)
		r.GET("/reports/income-statement", h.IncomeStatement)
		r.GET("/reports/delinquency", h.Delinquency)
		r.GET("/reports/accounts", h.Accounts)
	}
}

func TestReportHandler_PDFWithoutExporter(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountReports(env))

	rec, resp := doJSON(t, r, http.MethodGet, "/reports/income-statement?from=2025-01-01&to=2025-01-31&format=pdf", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeConfiguration, resp.Error.Code)
}

func TestReportHandler_RejectsBadQuery(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountReports(env))

	tests := []struct {
		name string
		path string
	}{
		{"unknown format", "/reports/income-statement?from=2025-01-01&to=2025-01-31&format=xlsx"},
		{"malformed date", "/reports/income-statement?from=01/01/2025&to=2025-01-31"},
		{"cash flow without cash box", "/reports/cash-flow?from=2025-01-01&to=2025-01-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, r, http.MethodGet, tt.path, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.False(t, resp.Success)
		})
	}
}

func TestReportHandler_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	today := env.calendar.Today(ctx, env.tenant.ID)
	current := dues.PeriodOf(today)

	ana := env.seedMember(env.tenant.ID, "Ana Souza", "150.00")
	bruno := env.seedMember(env.tenant.ID, "Bruno Lima", "100.00")
	other := env.newTenant("clube-verde")
	env.seedMember(other.ID, "Carla Dias", "90.00")

	january := dues.Period{Year: 2024, Month: 1}
	late, err := dues.NewDuesRecord(env.tenant.ID, bruno.ID, january, decimal.NewFromInt(100), january.DueDate(10), dues.OriginManual)
	require.NoError(t, err)
	require.NoError(t, env.dues.Save(ctx, late))

	paid, err := dues.NewDuesRecord(env.tenant.ID, ana.ID, current, decimal.NewFromInt(150), current.DueDate(28), dues.OriginGenerated)
	require.NoError(t, err)
	paid.Status = finance.StatusPaid
	paid.PaymentDate = &today
	require.NoError(t, env.dues.Save(ctx, paid))

	r := env.engine(env.tenant.ID, mountReports(env))
	rec, resp := doJSON(t, r, http.MethodGet, "/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	d := decodeData[reportapp.Dashboard](t, resp)

	assert.Equal(t, int64(2), d.ActiveMembers)
	assert.True(t, d.MonthRevenue.Equal(decimal.NewFromInt(150)), d.MonthRevenue.String())
	assert.Equal(t, int64(1), d.OpenDues)
	assert.True(t, d.DelinquencyRate.Equal(decimal.NewFromInt(50)), d.DelinquencyRate.String())

	require.Len(t, d.RevenueByMonth, 6)
	assert.Equal(t, current.String(), d.RevenueByMonth[5].Period)
	assert.True(t, d.RevenueByMonth[5].Total.Equal(decimal.NewFromInt(150)))

	require.Len(t, d.RecentPayments, 1)
	assert.Equal(t, "Ana Souza", d.RecentPayments[0].MemberName)
	require.Len(t, d.OldestOverdue, 1)
	assert.Equal(t, "Bruno Lima", d.OldestOverdue[0].MemberName)
	assert.Positive(t, d.OldestOverdue[0].DaysOverdue)

	stored, err := env.dues.FindByIDForTenant(ctx, env.tenant.ID, late.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.StatusOverdue, stored.Status)
}
