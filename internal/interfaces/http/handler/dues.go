package handler

import (
	duesapp "github.com/clube/backend/internal/application/dues"
	"github.com/gin-gonic/gin"
)

// DuesHandler exposes the dues engine: generation, overdue refresh,
// settlement and the manual maintenance of dues records
type DuesHandler struct {
	BaseHandler
	duesService *duesapp.DuesService
}

// NewDuesHandler creates a new DuesHandler
func NewDuesHandler(duesService *duesapp.DuesService) *DuesHandler {
	return &DuesHandler{duesService: duesService}
}

// duesListQuery is the query string of GET /dues
type duesListQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search     string `form:"search"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status     string `form:"status"`
	PeriodFrom string `form:"period_from" binding:"omitempty,yearmonth"`
	PeriodTo   string `form:"period_to" binding:"omitempty,yearmonth"`
}

// List godoc
// @ID           listDues
// @Summary      List dues records
// @Description  Returns a page of dues records
// @Tags         dues
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search term"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        status query string false "Status filter"
// @Param        period_from query string false "First period (YYYY-MM)"
// @Param        period_to query string false "Last period (YYYY-MM)"
// @Param        member_id query string false "Member ID" format(uuid)
// @Success      200 {object} APIResponse[[]duesapp.DuesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues [get]
func (h *DuesHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q duesListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	memberID, ok := h.queryUUID(c, "member_id")
	if !ok {
		return
	}

	page, err := h.duesService.List(c.Request.Context(), tenantID, duesapp.DuesListFilter{
		Page:       q.Page,
		PageSize:   q.PageSize,
		Search:     q.Search,
		OrderBy:    q.OrderBy,
		OrderDir:   q.OrderDir,
		Status:     q.Status,
		MemberID:   memberID,
		PeriodFrom: q.PeriodFrom,
		PeriodTo:   q.PeriodTo,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getDues
// @Summary      Get dues record by ID
// @Description  Returns one dues record
// @Tags         dues
// @Produce      json
// @Param        id path string true "Dues record ID" format(uuid)
// @Success      200 {object} APIResponse[duesapp.DuesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues/{id} [get]
func (h *DuesHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	record, err := h.duesService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Create godoc
// @ID           createDues
// @Summary      Create a dues record
// @Description  Records a manual charge for one member and period
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        request body duesapp.CreateDuesRequest true "Create dues request"
// @Success      201 {object} APIResponse[duesapp.DuesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues [post]
func (h *DuesHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req duesapp.CreateDuesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	record, err := h.duesService.CreateManual(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// Generate godoc
// @ID           generateDues
// @Summary      Generate dues
// @Description  Creates the dues of the coming months for every billable member
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        request body duesapp.GenerateDuesRequest false "Generate dues request"
// @Success      200 {object} APIResponse[duesapp.GenerateDuesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues/generate [post]
func (h *DuesHandler) Generate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req duesapp.GenerateDuesRequest
	// an empty body means the default lookahead
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	result, err := h.duesService.Generate(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RefreshOverdue godoc
// @ID           refreshOverdueDues
// @Summary      Refresh overdue dues
// @Description  Marks the open records past their due date as overdue
// @Tags         dues
// @Produce      json
// @Success      200 {object} APIResponse[duesapp.RefreshOverdueResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues/refresh-overdue [post]
func (h *DuesHandler) RefreshOverdue(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	result, err := h.duesService.RefreshOverdue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Settle godoc
// @ID           settleDues
// @Summary      Settle a dues record
// @Description  Registers the payment of a dues record
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        id path string true "Dues record ID" format(uuid)
// @Param        request body duesapp.SettleDuesRequest false "Settle dues request"
// @Success      200 {object} APIResponse[duesapp.DuesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues/{id}/settle [post]
func (h *DuesHandler) Settle(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req duesapp.SettleDuesRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	record, err := h.duesService.Settle(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Cancel godoc
// @ID           cancelDues
// @Summary      Cancel a dues record
// @Description  Cancels an unpaid dues record
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        id path string true "Dues record ID" format(uuid)
// @Param        request body duesapp.CancelDuesRequest false "Cancel dues request"
// @Success      200 {object} APIResponse[duesapp.DuesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues/{id}/cancel [post]
func (h *DuesHandler) Cancel(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req duesapp.CancelDuesRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	record, err := h.duesService.Cancel(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Reopen godoc
// @ID           reopenDues
// @Summary      Reopen a dues record
// @Description  Brings a canceled record back
// @Tags         dues
// @Produce      json
// @Param        id path string true "Dues record ID" format(uuid)
// @Success      200 {object} APIResponse[duesapp.DuesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues/{id}/reopen [post]
func (h *DuesHandler) Reopen(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	record, err := h.duesService.Reopen(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Update godoc
// @ID           updateDues
// @Summary      Update a dues record
// @Description  Changes amount, due date and notes of an open record
// @Tags         dues
// @Accept       json
// @Produce      json
// @Param        id path string true "Dues record ID" format(uuid)
// @Param        request body duesapp.UpdateDuesRequest true "Update dues request"
// @Success      200 {object} APIResponse[duesapp.DuesResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues/{id} [put]
func (h *DuesHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req duesapp.UpdateDuesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, err := h.duesService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete godoc
// @ID           deleteDues
// @Summary      Delete a dues record
// @Description  Removes an unpaid dues record
// @Tags         dues
// @Produce      json
// @Param        id path string true "Dues record ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dues/{id} [delete]
func (h *DuesHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.duesService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
