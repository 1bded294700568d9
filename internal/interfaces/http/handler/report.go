package handler

import (
	"context"
	"fmt"
	"net/http"

	reportapp "github.com/clube/backend/internal/application/report"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler serves the financial reports as JSON or, with format=pdf,
// as a printed file or an archived download link
type ReportHandler struct {
	BaseHandler
	reports  *reportapp.ReportService
	exporter *reportapp.PDFExporter
}

// NewReportHandler creates a new ReportHandler. exporter may be nil, in which
// case PDF requests answer with a configuration error.
func NewReportHandler(reports *reportapp.ReportService, exporter *reportapp.PDFExporter) *ReportHandler {
	return &ReportHandler{reports: reports, exporter: exporter}
}

// reportFormat is the output selector shared by every report
type reportFormat struct {
	Format  string `form:"format" binding:"omitempty,oneof=json pdf"`
	Archive bool   `form:"archive"`
}

func (f reportFormat) pdf() bool { return f.Format == "pdf" }

func (f reportFormat) options() reportapp.ExportOptions {
	return reportapp.ExportOptions{Archive: f.Archive}
}

// CashFlow godoc
// @ID           getCashFlowReport
// @Summary      Cash flow statement
// @Description  Entries of one cash box between two dates with opening and closing balances
// @Tags         reports
// @Produce      json
// @Produce      application/pdf
// @Param        cash_box_id query string true "Cash box ID" format(uuid)
// @Param        from query string true "Start date (YYYY-MM-DD)"
// @Param        to query string true "End date (YYYY-MM-DD)"
// @Param        format query string false "Output format" Enums(json, pdf) default(json)
// @Param        archive query bool false "With format=pdf, store the PDF and return an ExportResult link instead of the file"
// @Success      200 {object} APIResponse[reportapp.CashFlowReport]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/cash-flow [get]
func (h *ReportHandler) CashFlow(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var format reportFormat
	var rng reportapp.DateRange
	if !h.bindQuery(c, &format) || !h.bindQuery(c, &rng) {
		return
	}
	cashBoxID, err := uuid.Parse(c.Query("cash_box_id"))
	if err != nil {
		h.BadRequest(c, "cash_box_id is required")
		return
	}
	filter := reportapp.CashFlowFilter{DateRange: rng, CashBoxID: cashBoxID}

	h.render(c, format,
		func(ctx context.Context) (any, error) { return h.reports.CashFlow(ctx, tenantID, filter) },
		func(ctx context.Context) (*reportapp.ExportResult, error) {
			return h.exporter.CashFlow(ctx, tenantID, filter, format.options())
		})
}

// IncomeStatement godoc
// @ID           getIncomeStatement
// @Summary      Income statement
// @Description  Revenues and expenses between two dates grouped by chart account
// @Tags         reports
// @Produce      json
// @Produce      application/pdf
// @Param        from query string true "Start date (YYYY-MM-DD)"
// @Param        to query string true "End date (YYYY-MM-DD)"
// @Param        format query string false "Output format" Enums(json, pdf) default(json)
// @Param        archive query bool false "With format=pdf, store the PDF and return an ExportResult link instead of the file"
// @Success      200 {object} APIResponse[reportapp.IncomeStatementReport]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/income-statement [get]
func (h *ReportHandler) IncomeStatement(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var format reportFormat
	var rng reportapp.DateRange
	if !h.bindQuery(c, &format) || !h.bindQuery(c, &rng) {
		return
	}

	h.render(c, format,
		func(ctx context.Context) (any, error) { return h.reports.IncomeStatement(ctx, tenantID, rng) },
		func(ctx context.Context) (*reportapp.ExportResult, error) {
			return h.exporter.IncomeStatement(ctx, tenantID, rng, format.options())
		})
}

// Delinquency godoc
// @ID           getDelinquencyReport
// @Summary      Delinquency report
// @Description  Refreshes overdue dues, then lists the unpaid ones, optionally for one reference month
// @Tags         reports
// @Produce      json
// @Produce      application/pdf
// @Param        month query int false "Reference month" minimum(1) maximum(12)
// @Param        year query int false "Reference year"
// @Param        format query string false "Output format" Enums(json, pdf) default(json)
// @Param        archive query bool false "With format=pdf, store the PDF and return an ExportResult link instead of the file"
// @Success      200 {object} APIResponse[reportapp.DelinquencyReport]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/delinquency [get]
func (h *ReportHandler) Delinquency(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var format reportFormat
	var filter reportapp.DelinquencyFilter
	if !h.bindQuery(c, &format) || !h.bindQuery(c, &filter) {
		return
	}

	h.render(c, format,
		func(ctx context.Context) (any, error) { return h.reports.Delinquency(ctx, tenantID, filter) },
		func(ctx context.Context) (*reportapp.ExportResult, error) {
			return h.exporter.Delinquency(ctx, tenantID, filter, format.options())
		})
}

// Accounts godoc
// @ID           getAccountsReport
// @Summary      Accounts report
// @Description  Payable and receivable accounts with totals
// @Tags         reports
// @Produce      json
// @Produce      application/pdf
// @Param        due_from query string false "Due date from (YYYY-MM-DD)"
// @Param        due_to query string false "Due date to (YYYY-MM-DD)"
// @Param        kind query string false "Account kind" Enums(PAYABLE, RECEIVABLE)
// @Param        status query string false "Status filter"
// @Param        format query string false "Output format" Enums(json, pdf) default(json)
// @Param        archive query bool false "With format=pdf, store the PDF and return an ExportResult link instead of the file"
// @Success      200 {object} APIResponse[reportapp.AccountsReport]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/accounts [get]
func (h *ReportHandler) Accounts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var format reportFormat
	var filter reportapp.AccountsFilter
	if !h.bindQuery(c, &format) || !h.bindQuery(c, &filter) {
		return
	}

	h.render(c, format,
		func(ctx context.Context) (any, error) { return h.reports.Accounts(ctx, tenantID, filter) },
		func(ctx context.Context) (*reportapp.ExportResult, error) {
			return h.exporter.Accounts(ctx, tenantID, filter, format.options())
		})
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Club dashboard
// @Description  Refresh overdue dues, then summarize active members, this month's paid dues, open dues, the delinquency rate, six months of paid revenue, the latest payments and the oldest overdue records
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[reportapp.Dashboard]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	dashboard, err := h.reports.Dashboard(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

func (h *ReportHandler) render(
	c *gin.Context,
	format reportFormat,
	build func(context.Context) (any, error),
	export func(context.Context) (*reportapp.ExportResult, error),
) {
	ctx := c.Request.Context()
	if !format.pdf() {
		report, err := build(ctx)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, report)
		return
	}

	if h.exporter == nil {
		h.HandleError(c, shared.NewConfigurationError("PDF export is not configured"))
		return
	}
	result, err := export(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.URL != "" {
		h.Success(c, result)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}
