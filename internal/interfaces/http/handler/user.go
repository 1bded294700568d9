package handler

import (
	"github.com/clube/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles the back-office users of a club
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  Returns a page of users
// @Tags         users
// @Produce      json
// @Param        search query string false "Search term"
// @Param        status query string false "Status filter"
// @Param        role query string false "Role filter"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter identity.UserListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.userService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getUser
// @Summary      Get user by ID
// @Description  Returns one user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Create godoc
// @ID           createUser
// @Summary      Create a user
// @Description  Adds a user to the club
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateUserRequest true "Create user request"
// @Success      201 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req identity.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Update godoc
// @ID           updateUser
// @Summary      Update a user
// @Description  Changes a user's profile and role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body identity.UpdateUserRequest true "Update user request"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req identity.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetPassword godoc
// @ID           resetPassword
// @Summary      Reset a user password
// @Description  Sets a new password for another user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body identity.ResetPasswordRequest true "Reset password request"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req identity.ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.userService.ResetPassword(c.Request.Context(), tenantID, id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @ID           activateUser
// @Summary      Activate a user
// @Description  Reactivates a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Activate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Deactivate godoc
// @ID           deactivateUser
// @Summary      Deactivate a user
// @Description  Blocks a user and revokes their sessions
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	tenantID, id, actorID, ok := h.actorAndTarget(c)
	if !ok {
		return
	}
	user, err := h.userService.Deactivate(c.Request.Context(), tenantID, actorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete godoc
// @ID           deleteUser
// @Summary      Delete a user
// @Description  Removes a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	tenantID, id, actorID, ok := h.actorAndTarget(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), tenantID, actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *UserHandler) actorAndTarget(c *gin.Context) (tenantID, id, actorID uuid.UUID, ok bool) {
	tenantID, id, ok = h.tenantAndID(c, "id")
	if !ok {
		return
	}
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return tenantID, id, uuid.Nil, false
	}
	return tenantID, id, actorID, true
}
