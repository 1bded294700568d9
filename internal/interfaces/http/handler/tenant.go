package handler

import (
	"github.com/clube/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// TenantHandler serves the profile of the caller's own club
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identity.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// GetCurrent godoc
// @ID           getClub
// @Summary      Get club
// @Description  Returns the club of the token
// @Tags         club
// @Produce      json
// @Success      200 {object} APIResponse[identity.TenantResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /club [get]
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	tenant, err := h.tenantService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// UpdateCurrent godoc
// @ID           updateClub
// @Summary      Update club
// @Description  Replaces the contact data and timezone of the club
// @Tags         club
// @Accept       json
// @Produce      json
// @Param        request body identity.UpdateTenantRequest true "Update tenant request"
// @Success      200 {object} APIResponse[identity.TenantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /club [put]
func (h *TenantHandler) UpdateCurrent(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req identity.UpdateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}
