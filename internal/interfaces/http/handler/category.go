package handler

import (
	"github.com/clube/backend/internal/application/membership"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles member categories
type CategoryHandler struct {
	BaseHandler
	categoryService *membership.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *membership.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List godoc
// @ID           listCategories
// @Summary      List categories
// @Description  Returns a page of categories
// @Tags         categories
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search term"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]membership.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter membership.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.categoryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getCategory
// @Summary      Get category by ID
// @Description  Returns one category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[membership.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	category, err := h.categoryService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Create godoc
// @ID           createCategory
// @Summary      Create a category
// @Description  Creates a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body membership.CategoryRequest true "Category request"
// @Success      201 {object} APIResponse[membership.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req membership.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update godoc
// @ID           updateCategory
// @Summary      Update a category
// @Description  Replaces a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body membership.CategoryRequest true "Category request"
// @Success      200 {object} APIResponse[membership.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req membership.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete godoc
// @ID           deleteCategory
// @Summary      Delete a category
// @Description  Removes a category no member uses
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AffiliationHandler handles affiliations, the partner companies whose
// employees get a discount on dues
type AffiliationHandler struct {
	BaseHandler
	affiliationService *membership.AffiliationService
}

// NewAffiliationHandler creates a new AffiliationHandler
func NewAffiliationHandler(affiliationService *membership.AffiliationService) *AffiliationHandler {
	return &AffiliationHandler{affiliationService: affiliationService}
}

// List godoc
// @ID           listAffiliations
// @Summary      List affiliations
// @Description  Returns a page of affiliations
// @Tags         affiliations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search term"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]membership.AffiliationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /affiliations [get]
func (h *AffiliationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter membership.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.affiliationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getAffiliation
// @Summary      Get affiliation by ID
// @Description  Returns one affiliation
// @Tags         affiliations
// @Produce      json
// @Param        id path string true "Affiliation ID" format(uuid)
// @Success      200 {object} APIResponse[membership.AffiliationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /affiliations/{id} [get]
func (h *AffiliationHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	affiliation, err := h.affiliationService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, affiliation)
}

// Create godoc
// @ID           createAffiliation
// @Summary      Create an affiliation
// @Description  Creates an affiliation
// @Tags         affiliations
// @Accept       json
// @Produce      json
// @Param        request body membership.AffiliationRequest true "Affiliation request"
// @Success      201 {object} APIResponse[membership.AffiliationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /affiliations [post]
func (h *AffiliationHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req membership.AffiliationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	affiliation, err := h.affiliationService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, affiliation)
}

// Update godoc
// @ID           updateAffiliation
// @Summary      Update an affiliation
// @Description  Replaces an affiliation
// @Tags         affiliations
// @Accept       json
// @Produce      json
// @Param        id path string true "Affiliation ID" format(uuid)
// @Param        request body membership.AffiliationRequest true "Affiliation request"
// @Success      200 {object} APIResponse[membership.AffiliationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /affiliations/{id} [put]
func (h *AffiliationHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req membership.AffiliationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	affiliation, err := h.affiliationService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, affiliation)
}

// Delete godoc
// @ID           deleteAffiliation
// @Summary      Delete an affiliation
// @Description  Removes an affiliation no member uses
// @Tags         affiliations
// @Produce      json
// @Param        id path string true "Affiliation ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /affiliations/{id} [delete]
func (h *AffiliationHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.affiliationService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
