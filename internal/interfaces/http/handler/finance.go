package handler

import (
	"time"

	financeapp "github.com/clube/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// FinanceServices groups the services behind the finance routes
type FinanceServices struct {
	CashBoxes *financeapp.CashBoxService
	Chart     *financeapp.ChartAccountService
	Ledger    *financeapp.LedgerService
	Accounts  *financeapp.AccountService
	Settings  *financeapp.SettingsService
}

// FinanceHandler handles cash boxes, the chart of accounts, the ledger,
// payable and receivable accounts and the finance settings of a club
type FinanceHandler struct {
	BaseHandler
	cashBoxes *financeapp.CashBoxService
	chart     *financeapp.ChartAccountService
	ledger    *financeapp.LedgerService
	accounts  *financeapp.AccountService
	settings  *financeapp.SettingsService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(s FinanceServices) *FinanceHandler {
	return &FinanceHandler{
		cashBoxes: s.CashBoxes,
		chart:     s.Chart,
		ledger:    s.Ledger,
		accounts:  s.Accounts,
		settings:  s.Settings,
	}
}

// ===================== Cash boxes =====================

type cashBoxListQuery struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListCashBoxes godoc
// @ID           listCashBoxes
// @Summary      List cash boxes
// @Description  Returns a page of cash boxes
// @Tags         finance
// @Produce      json
// @Param        search query string false "Search term"
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]financeapp.CashBoxResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/cash-boxes [get]
func (h *FinanceHandler) ListCashBoxes(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q cashBoxListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.cashBoxes.List(c.Request.Context(), tenantID, financeapp.CashBoxListFilter{
		Search:   q.Search,
		Active:   q.Active,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetCashBox godoc
// @ID           getCashBox
// @Summary      Get cash box
// @Description  Returns one cash box
// @Tags         finance
// @Produce      json
// @Param        id path string true "Cash box ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CashBoxResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/cash-boxes/{id} [get]
func (h *FinanceHandler) GetCashBox(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	box, err := h.cashBoxes.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, box)
}

// CreateCashBox godoc
// @ID           createCashBox
// @Summary      Create cash box
// @Description  Creates a cash box
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CashBoxRequest true "Cash box request"
// @Success      201 {object} APIResponse[financeapp.CashBoxResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/cash-boxes [post]
func (h *FinanceHandler) CreateCashBox(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CashBoxRequest
	if !h.bindJSON(c, &req) {
		return
	}
	box, err := h.cashBoxes.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, box)
}

// UpdateCashBox godoc
// @ID           updateCashBox
// @Summary      Update cash box
// @Description  Renames a cash box or changes its opening balance
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Cash box ID" format(uuid)
// @Param        request body financeapp.CashBoxRequest true "Cash box request"
// @Success      200 {object} APIResponse[financeapp.CashBoxResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/cash-boxes/{id} [put]
func (h *FinanceHandler) UpdateCashBox(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req financeapp.CashBoxRequest
	if !h.bindJSON(c, &req) {
		return
	}
	box, err := h.cashBoxes.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, box)
}

// ActivateCashBox godoc
// @ID           activateCashBox
// @Summary      Activate cash box
// @Description  Reopens a cash box for movements
// @Tags         finance
// @Produce      json
// @Param        id path string true "Cash box ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CashBoxResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/cash-boxes/{id}/activate [post]
func (h *FinanceHandler) ActivateCashBox(c *gin.Context) {
	h.setCashBoxActive(c, true)
}

// DeactivateCashBox godoc
// @ID           deactivateCashBox
// @Summary      Deactivate cash box
// @Description  Closes a cash box for new movements
// @Tags         finance
// @Produce      json
// @Param        id path string true "Cash box ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CashBoxResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/cash-boxes/{id}/deactivate [post]
func (h *FinanceHandler) DeactivateCashBox(c *gin.Context) {
	h.setCashBoxActive(c, false)
}

func (h *FinanceHandler) setCashBoxActive(c *gin.Context, active bool) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	box, err := h.cashBoxes.SetActive(c.Request.Context(), tenantID, id, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, box)
}

// ===================== Chart of accounts =====================

type chartListQuery struct {
	Search       string `form:"search"`
	Kind         string `form:"kind"`
	PostableOnly bool   `form:"postable_only"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// ListChartAccounts godoc
// @ID           listChartAccounts
// @Summary      List chart accounts
// @Description  Returns a page of the chart of accounts
// @Tags         finance
// @Produce      json
// @Param        search query string false "Search term"
// @Param        kind query string false "Kind filter"
// @Param        postable_only query bool false "Postable only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        parent_id query string false "Parent chart account ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.ChartAccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/chart-accounts [get]
func (h *FinanceHandler) ListChartAccounts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q chartListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	parentID, ok := h.queryUUID(c, "parent_id")
	if !ok {
		return
	}
	page, err := h.chart.List(c.Request.Context(), tenantID, financeapp.ChartAccountListFilter{
		Search:       q.Search,
		Kind:         q.Kind,
		ParentID:     parentID,
		PostableOnly: q.PostableOnly,
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetChartAccount godoc
// @ID           getChartAccount
// @Summary      Get chart account
// @Description  Returns one chart entry
// @Tags         finance
// @Produce      json
// @Param        id path string true "Chart account ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ChartAccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/chart-accounts/{id} [get]
func (h *FinanceHandler) GetChartAccount(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	account, err := h.chart.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// CreateChartAccount godoc
// @ID           createChartAccount
// @Summary      Create chart account
// @Description  Adds an entry to the chart of accounts
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.ChartAccountRequest true "Chart account request"
// @Success      201 {object} APIResponse[financeapp.ChartAccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/chart-accounts [post]
func (h *FinanceHandler) CreateChartAccount(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.ChartAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.chart.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// UpdateChartAccount godoc
// @ID           updateChartAccount
// @Summary      Update chart account
// @Description  Replaces a chart entry
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Chart account ID" format(uuid)
// @Param        request body financeapp.ChartAccountRequest true "Chart account request"
// @Success      200 {object} APIResponse[financeapp.ChartAccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/chart-accounts/{id} [put]
func (h *FinanceHandler) UpdateChartAccount(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req financeapp.ChartAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.chart.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// DeleteChartAccount godoc
// @ID           deleteChartAccount
// @Summary      Delete chart account
// @Description  Removes an unused chart entry
// @Tags         finance
// @Produce      json
// @Param        id path string true "Chart account ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/chart-accounts/{id} [delete]
func (h *FinanceHandler) DeleteChartAccount(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.chart.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ===================== Ledger =====================

type ledgerListQuery struct {
	Source   string     `form:"source"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Search   string     `form:"search"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListLedgerEntries godoc
// @ID           listLedgerEntries
// @Summary      List ledger entries
// @Description  Returns a page of ledger entries
// @Tags         finance
// @Produce      json
// @Param        source query string false "Source"
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        cash_box_id query string false "Cash box ID" format(uuid)
// @Param        chart_account_id query string false "Chart account ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/ledger [get]
func (h *FinanceHandler) ListLedgerEntries(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q ledgerListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	cashBoxID, ok := h.queryUUID(c, "cash_box_id")
	if !ok {
		return
	}
	chartID, ok := h.queryUUID(c, "chart_account_id")
	if !ok {
		return
	}
	page, err := h.ledger.List(c.Request.Context(), tenantID, financeapp.LedgerEntryListFilter{
		CashBoxID:      cashBoxID,
		ChartAccountID: chartID,
		Source:         q.Source,
		From:           q.From,
		To:             q.To,
		Search:         q.Search,
		Page:           q.Page,
		PageSize:       q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetLedgerEntry godoc
// @ID           getLedgerEntry
// @Summary      Get ledger entry
// @Description  Returns one ledger entry
// @Tags         finance
// @Produce      json
// @Param        id path string true "Ledger entry ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/ledger/{id} [get]
func (h *FinanceHandler) GetLedgerEntry(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	entry, err := h.ledger.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// CreateLedgerEntry godoc
// @ID           createLedgerEntry
// @Summary      Create ledger entry
// @Description  Records a manual cash movement
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateLedgerEntryRequest true "Create ledger entry request"
// @Success      201 {object} APIResponse[financeapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/ledger [post]
func (h *FinanceHandler) CreateLedgerEntry(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CreateLedgerEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}
	entry, err := h.ledger.CreateManual(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// UpdateLedgerEntry godoc
// @ID           updateLedgerEntry
// @Summary      Update ledger entry
// @Description  Changes the description of an entry
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Ledger entry ID" format(uuid)
// @Param        request body financeapp.UpdateLedgerEntryRequest true "Update ledger entry request"
// @Success      200 {object} APIResponse[financeapp.LedgerEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/ledger/{id} [put]
func (h *FinanceHandler) UpdateLedgerEntry(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req financeapp.UpdateLedgerEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.ledger.UpdateDescription(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// DeleteLedgerEntry godoc
// @ID           deleteLedgerEntry
// @Summary      Delete ledger entry
// @Description  Removes a manual entry
// @Tags         finance
// @Produce      json
// @Param        id path string true "Ledger entry ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/ledger/{id} [delete]
func (h *FinanceHandler) DeleteLedgerEntry(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.ledger.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ===================== Accounts payable / receivable =====================

type accountListQuery struct {
	Kind     string     `form:"kind"`
	Status   string     `form:"status"`
	DueFrom  *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo    *time.Time `form:"due_to" time_format:"2006-01-02"`
	Search   string     `form:"search"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListAccounts godoc
// @ID           listAccounts
// @Summary      List accounts
// @Description  Returns a page of payable and receivable accounts
// @Tags         finance
// @Produce      json
// @Param        kind query string false "Kind filter"
// @Param        status query string false "Status filter"
// @Param        due_from query string false "Due date from (YYYY-MM-DD)"
// @Param        due_to query string false "Due date to (YYYY-MM-DD)"
// @Param        search query string false "Search term"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        member_id query string false "Member ID" format(uuid)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.AccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/accounts [get]
func (h *FinanceHandler) ListAccounts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q accountListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	memberID, ok := h.queryUUID(c, "member_id")
	if !ok {
		return
	}
	supplierID, ok := h.queryUUID(c, "supplier_id")
	if !ok {
		return
	}
	page, err := h.accounts.List(c.Request.Context(), tenantID, financeapp.AccountListFilter{
		Kind:       q.Kind,
		Status:     q.Status,
		MemberID:   memberID,
		SupplierID: supplierID,
		DueFrom:    q.DueFrom,
		DueTo:      q.DueTo,
		Search:     q.Search,
		OrderBy:    q.OrderBy,
		OrderDir:   q.OrderDir,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetAccount godoc
// @ID           getAccount
// @Summary      Get account
// @Description  Returns one account
// @Tags         finance
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.AccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/accounts/{id} [get]
func (h *FinanceHandler) GetAccount(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	account, err := h.accounts.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// CreateAccount godoc
// @ID           createAccount
// @Summary      Create account
// @Description  Records a bill to pay or an amount to receive
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateAccountRequest true "Create account request"
// @Success      201 {object} APIResponse[financeapp.AccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/accounts [post]
func (h *FinanceHandler) CreateAccount(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}
	account, err := h.accounts.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// SettleAccount godoc
// @ID           settleAccount
// @Summary      Settle account
// @Description  Registers the payment of an account and posts it to the ledger
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body financeapp.SettleAccountRequest false "Settle account request"
// @Success      200 {object} APIResponse[financeapp.AccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/accounts/{id}/settle [post]
func (h *FinanceHandler) SettleAccount(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req financeapp.SettleAccountRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accounts.Settle(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// CancelAccount godoc
// @ID           cancelAccount
// @Summary      Cancel account
// @Description  Cancels an open account
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body financeapp.CancelAccountRequest false "Cancel account request"
// @Success      200 {object} APIResponse[financeapp.AccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/accounts/{id}/cancel [post]
func (h *FinanceHandler) CancelAccount(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req financeapp.CancelAccountRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accounts.Cancel(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// ReopenAccount godoc
// @ID           reopenAccount
// @Summary      Reopen account
// @Description  Brings a canceled account back
// @Tags         finance
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.AccountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/accounts/{id}/reopen [post]
func (h *FinanceHandler) ReopenAccount(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	account, err := h.accounts.Reopen(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// DeleteAccount godoc
// @ID           deleteAccount
// @Summary      Delete account
// @Description  Removes an unpaid account
// @Tags         finance
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/accounts/{id} [delete]
func (h *FinanceHandler) DeleteAccount(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RefreshOverdueAccounts godoc
// @ID           refreshOverdueAccounts
// @Summary      Refresh overdue accounts
// @Description  Marks open accounts past their due date as overdue
// @Tags         finance
// @Produce      json
// @Success      200 {object} APIResponse[OverdueRefreshResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/accounts/refresh-overdue [post]
func (h *FinanceHandler) RefreshOverdueAccounts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	updated, err := h.accounts.RefreshOverdue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, OverdueRefreshResponse{Updated: updated})
}

// OverdueRefreshResponse is the number of accounts moved to overdue
type OverdueRefreshResponse struct {
	Updated int64 `json:"updated"`
}

// ===================== Settings =====================

// GetSettings godoc
// @ID           getSettings
// @Summary      Get settings
// @Description  Returns the finance settings of the club
// @Tags         finance
// @Produce      json
// @Success      200 {object} APIResponse[financeapp.SettingsResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/settings [get]
func (h *FinanceHandler) GetSettings(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	settings, err := h.settings.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSettings godoc
// @ID           updateSettings
// @Summary      Update settings
// @Description  Replaces the finance settings of the club
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.UpdateSettingsRequest true "Update settings request"
// @Success      200 {object} APIResponse[financeapp.SettingsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/settings [put]
func (h *FinanceHandler) UpdateSettings(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.UpdateSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	settings, err := h.settings.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}
