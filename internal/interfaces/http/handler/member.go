package handler

import (
	"github.com/clube/backend/internal/application/membership"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MemberHandler handles member enrollment, status changes and dependents
type MemberHandler struct {
	BaseHandler
	memberService *membership.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *membership.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

type memberListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status   string `form:"status"`
}

// List godoc
// @ID           listMembers
// @Summary      List members
// @Description  Returns a page of members
// @Tags         members
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search term"
// @Param        order_by query string false "Order by field"
// @Param        order_dir query string false "Order direction" Enums(asc, desc)
// @Param        status query string false "Status filter"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        affiliation_id query string false "Affiliation ID" format(uuid)
// @Success      200 {object} APIResponse[[]membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q memberListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	categoryID, ok := h.queryUUID(c, "category_id")
	if !ok {
		return
	}
	affiliationID, ok := h.queryUUID(c, "affiliation_id")
	if !ok {
		return
	}

	page, err := h.memberService.List(c.Request.Context(), tenantID, membership.MemberListFilter{
		Page:          q.Page,
		PageSize:      q.PageSize,
		Search:        q.Search,
		OrderBy:       q.OrderBy,
		OrderDir:      q.OrderDir,
		Status:        q.Status,
		CategoryID:    categoryID,
		AffiliationID: affiliationID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getMember
// @Summary      Get member by ID
// @Description  Returns a member with dependents and dues summary
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Success      200 {object} APIResponse[membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id} [get]
func (h *MemberHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	member, err := h.memberService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Create godoc
// @ID           createMember
// @Summary      Create a member
// @Description  Enrolls a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body membership.CreateMemberRequest true "Create member request"
// @Success      201 {object} APIResponse[membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req membership.CreateMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	member, err := h.memberService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// Update godoc
// @ID           updateMember
// @Summary      Update a member
// @Description  Replaces a member's registration data
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Param        request body membership.UpdateMemberRequest true "Update member request"
// @Success      200 {object} APIResponse[membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req membership.UpdateMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// ChangeStatus godoc
// @ID           changeStatusMember
// @Summary      Change member status
// @Description  Activates, suspends or deactivates a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Param        request body membership.ChangeMemberStatusRequest true "Change member status request"
// @Success      200 {object} APIResponse[membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id}/status [post]
func (h *MemberHandler) ChangeStatus(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req membership.ChangeMemberStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.ChangeStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Delete godoc
// @ID           deleteMember
// @Summary      Delete a member
// @Description  Removes a member without financial history
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id} [delete]
func (h *MemberHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.memberService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddDependent godoc
// @ID           addDependent
// @Summary      Add a dependent
// @Description  Attaches a dependent to a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Param        request body membership.AddDependentRequest true "Add dependent request"
// @Success      201 {object} APIResponse[membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id}/dependents [post]
func (h *MemberHandler) AddDependent(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req membership.AddDependentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.AddDependent(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// RemoveDependent godoc
// @ID           removeDependent
// @Summary      Remove a dependent
// @Description  Detaches a dependent
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID" format(uuid)
// @Param        dependentId path string true "Dependent ID" format(uuid)
// @Success      200 {object} APIResponse[membership.MemberResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /members/{id}/dependents/{dependentId} [delete]
func (h *MemberHandler) RemoveDependent(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	dependentID, err := uuid.Parse(c.Param("dependentId"))
	if err != nil {
		h.BadRequest(c, "Invalid dependentId format")
		return
	}

	member, err := h.memberService.RemoveDependent(c.Request.Context(), tenantID, id, dependentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}
