package handler

import (
	"net/http"
	"testing"

	"github.com/clube/backend/internal/application/clubevent"
	"github.com/clube/backend/internal/infrastructure/persistence"
	"github.com/clube/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountEvents(env *testEnv) func(r gin.IRouter) {
	h := NewEventHandler(clubevent.NewEventService(
		persistence.NewGormEventRepository(env.db),
		persistence.NewGormRegistrationRepository(env.db),
		env.members,
		env.tx,
		nil,
	))
	return func(r gin.IRouter) {
		r.GET("/events", h.List)
		r.POST("/events", h.Create)
		r.GET("/events/:id", h.GetByID)
		r.DELETE("/events/:id", h.Delete)
		r.POST("/events/:id/publish", h.Publish)
		r.POST("/events/:id/start", h.Start)
		r.POST("/events/:id/registrations", h.Register)
		r.DELETE("/events/:id/registrations/:registrationId", h.CancelRegistration)
		r.POST("/events/:id/registrations/:registrationId/check-in", h.CheckIn)
		r.GET("/events/:id/attendance", h.Attendance)
	}
}

func churrasco(capacity int) map[string]any {
	return map[string]any{
		"title":          "Churrasco de aniversário",
		"venue":          "Salão social",
		"starts_at":      "2030-05-10T12:00:00Z",
		"ends_at":        "2030-05-10T18:00:00Z",
		"capacity":       capacity,
		"member_price":   "40.00",
		"guest_price":    "60.00",
		"guests_allowed": true,
	}
}

func TestEventHandler_RegistrationFlow(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountEvents(env))
	ana := env.seedMember(env.tenant.ID, "Ana Souza", "100.00")
	bruno := env.seedMember(env.tenant.ID, "Bruno Lima", "100.00")

	rec, resp := doJSON(t, r, http.MethodPost, "/events", churrasco(2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decodeData[clubevent.EventResponse](t, resp)
	assert.Equal(t, "DRAFT", event.Status)
	base := "/events/" + event.ID.String()

	// drafts take no registrations
	rec, resp = doJSON(t, r, http.MethodPost, base+"/registrations", map[string]any{"member_id": ana.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)

	rec, _ = doJSON(t, r, http.MethodPost, base+"/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, resp = doJSON(t, r, http.MethodPost, base+"/registrations", map[string]any{"member_id": ana.ID, "guests": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registration := decodeData[clubevent.RegistrationResponse](t, resp)
	assert.Equal(t, "CONFIRMED", registration.Status)
	assert.Equal(t, "100", registration.TotalAmount.String())

	// the first registration took both seats
	rec, resp = doJSON(t, r, http.MethodPost, base+"/registrations", map[string]any{"member_id": bruno.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	rec, resp = doJSON(t, r, http.MethodPost, base+"/registrations", map[string]any{"member_id": ana.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	checkIn := base + "/registrations/" + registration.ID.String() + "/check-in"
	rec, resp = doJSON(t, r, http.MethodPost, checkIn, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, decodeData[clubevent.RegistrationResponse](t, resp).CheckedInAt)

	rec, resp = doJSON(t, r, http.MethodPost, checkIn, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)

	rec, resp = doJSON(t, r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[clubevent.EventResponse](t, resp)
	require.NotNil(t, got.OccupiedSeats)
	assert.Equal(t, 2, *got.OccupiedSeats)
}

func TestEventHandler_CancelRegistrationFreesSeats(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountEvents(env))
	ana := env.seedMember(env.tenant.ID, "Ana Souza", "100.00")
	bruno := env.seedMember(env.tenant.ID, "Bruno Lima", "100.00")

	_, resp := doJSON(t, r, http.MethodPost, "/events", churrasco(1))
	event := decodeData[clubevent.EventResponse](t, resp)
	base := "/events/" + event.ID.String()
	doJSON(t, r, http.MethodPost, base+"/publish", nil)

	_, resp = doJSON(t, r, http.MethodPost, base+"/registrations", map[string]any{"member_id": ana.ID})
	registration := decodeData[clubevent.RegistrationResponse](t, resp)

	rec, resp := doJSON(t, r, http.MethodDelete, base+"/registrations/"+registration.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "CANCELED", decodeData[clubevent.RegistrationResponse](t, resp).Status)

	rec, _ = doJSON(t, r, http.MethodPost, base+"/registrations", map[string]any{"member_id": bruno.ID})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestEventHandler_Validation(t *testing.T) {
	env := newTestEnv(t)
	r := env.engine(env.tenant.ID, mountEvents(env))

	t.Run("ends before it starts", func(t *testing.T) {
		body := churrasco(0)
		body["ends_at"] = "2030-05-10T10:00:00Z"
		rec, resp := doJSON(t, r, http.MethodPost, "/events", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("guest cheaper than member", func(t *testing.T) {
		body := churrasco(0)
		body["guest_price"] = "10.00"
		rec, _ := doJSON(t, r, http.MethodPost, "/events", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing title", func(t *testing.T) {
		body := churrasco(0)
		delete(body, "title")
		rec, _ := doJSON(t, r, http.MethodPost, "/events", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad registration id", func(t *testing.T) {
		_, resp := doJSON(t, r, http.MethodPost, "/events", churrasco(0))
		event := decodeData[clubevent.EventResponse](t, resp)
		rec, _ := doJSON(t, r, http.MethodPost, "/events/"+event.ID.String()+"/registrations/x/check-in", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
