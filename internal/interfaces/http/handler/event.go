package handler

import (
	"context"

	"github.com/clube/backend/internal/application/clubevent"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EventHandler handles club events, their lifecycle and member registrations
type EventHandler struct {
	BaseHandler
	eventService *clubevent.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *clubevent.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List godoc
// @ID           listEvents
// @Summary      List events
// @Description  Returns a page of events
// @Tags         events
// @Produce      json
// @Param        status query string false "Status filter"
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events [get]
func (h *EventHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter clubevent.EventListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.eventService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID godoc
// @ID           getEvent
// @Summary      Get event by ID
// @Description  Returns one event
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id} [get]
func (h *EventHandler) GetByID(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	event, err := h.eventService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// Create godoc
// @ID           createEvent
// @Summary      Create an event
// @Description  Schedules a draft event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body clubevent.EventRequest true "Event request"
// @Success      201 {object} APIResponse[clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req clubevent.EventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	event, err := h.eventService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, event)
}

// Update godoc
// @ID           updateEvent
// @Summary      Update an event
// @Description  Replaces the details of an event that has not started
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Param        request body clubevent.EventRequest true "Event request"
// @Success      200 {object} APIResponse[clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req clubevent.EventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// Delete godoc
// @ID           deleteEvent
// @Summary      Delete an event
// @Description  Removes a draft event
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Publish godoc
// @ID           publishEvent
// @Summary      Publish an event
// @Description  Opens a draft event for registrations
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/publish [post]
func (h *EventHandler) Publish(c *gin.Context) { h.transition(c, h.eventService.Publish) }

// Start godoc
// @ID           startEvent
// @Summary      Start an event
// @Description  Marks an event as in progress
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/start [post]
func (h *EventHandler) Start(c *gin.Context) { h.transition(c, h.eventService.Start) }

// Finish godoc
// @ID           finishEvent
// @Summary      Finish an event
// @Description  Closes an event
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/finish [post]
func (h *EventHandler) Finish(c *gin.Context) { h.transition(c, h.eventService.Finish) }

// Cancel godoc
// @ID           cancelEvent
// @Summary      Cancel an event
// @Description  Cancels an event that has not finished
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/cancel [post]
func (h *EventHandler) Cancel(c *gin.Context) { h.transition(c, h.eventService.Cancel) }

// OpenRegistration godoc
// @ID           openRegistration
// @Summary      Open event registration
// @Description  Reopens registrations of a published event
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/registration/open [post]
func (h *EventHandler) OpenRegistration(c *gin.Context) { h.setRegistrationOpen(c, true) }

// CloseRegistration godoc
// @ID           closeRegistration
// @Summary      Close event registration
// @Description  Stops new registrations
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/registration/close [post]
func (h *EventHandler) CloseRegistration(c *gin.Context) { h.setRegistrationOpen(c, false) }

func (h *EventHandler) setRegistrationOpen(c *gin.Context, open bool) {
	h.transition(c, func(ctx context.Context, tenantID, id uuid.UUID) (*clubevent.EventResponse, error) {
		return h.eventService.SetRegistrationOpen(ctx, tenantID, id, open)
	})
}

func (h *EventHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) (*clubevent.EventResponse, error)) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	event, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// Register godoc
// @ID           registerEvent
// @Summary      Register for an event
// @Description  Signs a member, and optionally guests, up for an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Param        request body clubevent.RegisterRequest true "Register request"
// @Success      201 {object} APIResponse[clubevent.RegistrationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/registrations [post]
func (h *EventHandler) Register(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	var req clubevent.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	registration, err := h.eventService.Register(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, registration)
}

// CancelRegistration godoc
// @ID           cancelRegistration
// @Summary      Cancel an event registration
// @Description  Withdraws a registration
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Param        registrationId path string true "Registration ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.RegistrationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/registrations/{registrationId} [delete]
func (h *EventHandler) CancelRegistration(c *gin.Context) {
	h.registrationAction(c, h.eventService.CancelRegistration)
}

// CheckIn godoc
// @ID           checkIn
// @Summary      Check in a registration
// @Description  Records the attendance of a registration
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Param        registrationId path string true "Registration ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.RegistrationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/registrations/{registrationId}/check-in [post]
func (h *EventHandler) CheckIn(c *gin.Context) {
	h.registrationAction(c, h.eventService.CheckIn)
}

func (h *EventHandler) registrationAction(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*clubevent.RegistrationResponse, error)) {
	tenantID, eventID, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	registrationID, err := uuid.Parse(c.Param("registrationId"))
	if err != nil {
		h.BadRequest(c, "Invalid registrationId format")
		return
	}
	registration, err := fn(c.Request.Context(), tenantID, eventID, registrationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, registration)
}

// Attendance godoc
// @ID           getEventAttendance
// @Summary      Get event attendance
// @Description  Returns the registrations of an event with attendance totals
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[clubevent.AttendanceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id}/attendance [get]
func (h *EventHandler) Attendance(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c, "id")
	if !ok {
		return
	}
	attendance, err := h.eventService.Attendance(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, attendance)
}
