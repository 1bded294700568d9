package handler

import (
	partnerapp "github.com/clube/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// SupplierHandler handles supplier-related API endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
	}
}

// List godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Description  Returns a page of suppliers
// @Tags         suppliers
// @Produce      json
// @Param        search query string false "Search term"
// @Param        status query string false "Status filter" Enums(ACTIVE, INACTIVE)
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter partnerapp.SupplierListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.supplierService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getSupplier
// @Summary      Get supplier by ID
// @Description  Returns one supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a supplier
// @Description  Registers a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.SupplierRequest true "Supplier request"
// @Success      201 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req partnerapp.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// Update godoc
// @ID           updateSupplier
// @Summary      Update a supplier
// @Description  Replaces a supplier's data
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body partnerapp.SupplierRequest true "Supplier request"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Activate godoc
// @ID           activateSupplier
// @Summary      Activate a supplier
// @Description  Reactivates a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/activate [post]
func (h *SupplierHandler) Activate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.Activate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Deactivate godoc
// @ID           deactivateSupplier
// @Summary      Deactivate a supplier
// @Description  Hides a supplier from new accounts
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id}/deactivate [post]
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.supplierService.Deactivate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Delete godoc
// @ID           deleteSupplier
// @Summary      Delete a supplier
// @Description  Removes a supplier without accounts
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.supplierService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
