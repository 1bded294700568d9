package handler

import (
	"github.com/clube/backend/internal/application/collection"
	"github.com/gin-gonic/gin"
)

// CollectionHandler handles message templates and the collection campaigns
// that remind members of open dues
type CollectionHandler struct {
	BaseHandler
	templates *collection.TemplateService
	campaigns *collection.CampaignService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(templates *collection.TemplateService, campaigns *collection.CampaignService) *CollectionHandler {
	return &CollectionHandler{templates: templates, campaigns: campaigns}
}

// ===================== Templates =====================

// ListTemplates godoc
// @ID           listTemplates
// @Summary      List templates
// @Description  Returns a page of message templates
// @Tags         collection
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search term"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]collection.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/templates [get]
func (h *CollectionHandler) ListTemplates(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q listQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.templates.List(c.Request.Context(), tenantID, q.filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetTemplate godoc
// @ID           getTemplate
// @Summary      Get template
// @Description  Returns one template
// @Tags         collection
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[collection.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/templates/{id} [get]
func (h *CollectionHandler) GetTemplate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	tmpl, err := h.templates.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tmpl)
}

// CreateTemplate godoc
// @ID           createTemplate
// @Summary      Create template
// @Description  Creates a template
// @Tags         collection
// @Accept       json
// @Produce      json
// @Param        request body collection.TemplateRequest true "Template request"
// @Success      201 {object} APIResponse[collection.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/templates [post]
func (h *CollectionHandler) CreateTemplate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req collection.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tmpl, err := h.templates.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tmpl)
}

// UpdateTemplate godoc
// @ID           updateTemplate
// @Summary      Update template
// @Description  Replaces a template
// @Tags         collection
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body collection.TemplateRequest true "Template request"
// @Success      200 {object} APIResponse[collection.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/templates/{id} [put]
func (h *CollectionHandler) UpdateTemplate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req collection.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tmpl, err := h.templates.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tmpl)
}

// ActivateTemplate godoc
// @ID           activateTemplate
// @Summary      Activate template
// @Description  Makes a template usable by campaigns
// @Tags         collection
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[collection.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/templates/{id}/activate [post]
func (h *CollectionHandler) ActivateTemplate(c *gin.Context) { h.setTemplateActive(c, true) }

// DeactivateTemplate godoc
// @ID           deactivateTemplate
// @Summary      Deactivate template
// @Description  Retires a template
// @Tags         collection
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[collection.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/templates/{id}/deactivate [post]
func (h *CollectionHandler) DeactivateTemplate(c *gin.Context) { h.setTemplateActive(c, false) }

func (h *CollectionHandler) setTemplateActive(c *gin.Context, active bool) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	tmpl, err := h.templates.SetActive(c.Request.Context(), tenantID, id, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tmpl)
}

// PreviewTemplate godoc
// @ID           previewTemplate
// @Summary      Preview template
// @Description  Renders a template with sample data
// @Tags         collection
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[collection.PreviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/templates/{id}/preview [get]
func (h *CollectionHandler) PreviewTemplate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	preview, err := h.templates.Preview(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, preview)
}

// DeleteTemplate godoc
// @ID           deleteTemplate
// @Summary      Delete template
// @Description  Removes a template no campaign uses
// @Tags         collection
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/templates/{id} [delete]
func (h *CollectionHandler) DeleteTemplate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.templates.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ===================== Campaigns =====================

// CampaignStatusRequest changes the status of a campaign
type CampaignStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE PAUSED FINISHED"`
}

// ListCampaigns godoc
// @ID           listCampaigns
// @Summary      List campaigns
// @Description  Returns a page of campaigns
// @Tags         collection
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search term"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]collection.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/campaigns [get]
func (h *CollectionHandler) ListCampaigns(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q listQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.campaigns.List(c.Request.Context(), tenantID, q.filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetCampaign godoc
// @ID           getCampaign
// @Summary      Get campaign
// @Description  Returns one campaign
// @Tags         collection
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[collection.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/campaigns/{id} [get]
func (h *CollectionHandler) GetCampaign(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	campaign, err := h.campaigns.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, campaign)
}

// CreateCampaign godoc
// @ID           createCampaign
// @Summary      Create campaign
// @Description  Creates a draft campaign
// @Tags         collection
// @Accept       json
// @Produce      json
// @Param        request body collection.CampaignRequest true "Campaign request"
// @Success      201 {object} APIResponse[collection.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/campaigns [post]
func (h *CollectionHandler) CreateCampaign(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req collection.CampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}
	campaign, err := h.campaigns.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, campaign)
}

// UpdateCampaign godoc
// @ID           updateCampaign
// @Summary      Update campaign
// @Description  Replaces the filters and template of a campaign
// @Tags         collection
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body collection.CampaignRequest true "Campaign request"
// @Success      200 {object} APIResponse[collection.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/campaigns/{id} [put]
func (h *CollectionHandler) UpdateCampaign(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req collection.CampaignRequest
	if !h.bindJSON(c, &req) {
		return
	}
	campaign, err := h.campaigns.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, campaign)
}

// ChangeCampaignStatus godoc
// @ID           changeCampaignStatus
// @Summary      Change campaign status
// @Description  Activates, pauses or finishes a campaign
// @Tags         collection
// @Accept       json
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        request body CampaignStatusRequest true "Campaign status request"
// @Success      200 {object} APIResponse[collection.CampaignResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/campaigns/{id}/status [post]
func (h *CollectionHandler) ChangeCampaignStatus(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req CampaignStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	campaign, err := h.campaigns.ChangeStatus(c.Request.Context(), tenantID, id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, campaign)
}

// DeleteCampaign godoc
// @ID           deleteCampaign
// @Summary      Delete campaign
// @Description  Removes a campaign that never ran
// @Tags         collection
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/campaigns/{id} [delete]
func (h *CollectionHandler) DeleteCampaign(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.campaigns.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RunCampaign godoc
// @ID           runCampaign
// @Summary      Run campaign
// @Description  Dispatches the campaign's message to every matching member now
// @Tags         collection
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Success      200 {object} APIResponse[collection.RunResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/campaigns/{id}/run [post]
func (h *CollectionHandler) RunCampaign(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	result, err := h.campaigns.Run(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListDispatches godoc
// @ID           listDispatches
// @Summary      List dispatches
// @Description  Returns the delivery history of a campaign
// @Tags         collection
// @Produce      json
// @Param        id path string true "Campaign ID" format(uuid)
// @Param        status query string false "Status filter"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]collection.DispatchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /collection/campaigns/{id}/dispatches [get]
func (h *CollectionHandler) ListDispatches(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var filter collection.DispatchListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.campaigns.ListDispatches(c.Request.Context(), tenantID, id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}
