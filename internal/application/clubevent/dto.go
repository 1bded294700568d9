package clubevent

import (
	"time"

	"github.com/clube/backend/internal/domain/clubevent"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Event DTOs
// =============================================================================

// EventRequest holds the editable fields of an event
type EventRequest struct {
	Title              string          `json:"title" binding:"required,min=1,max=200"`
	Description        string          `json:"description"`
	Kind               string          `json:"kind"`
	Venue              string          `json:"venue" binding:"required"`
	StartsAt           time.Time       `json:"starts_at" binding:"required"`
	EndsAt             time.Time       `json:"ends_at" binding:"required"`
	Capacity           int             `json:"capacity" binding:"min=0"`
	MemberPrice        decimal.Decimal `json:"member_price"`
	GuestPrice         decimal.Decimal `json:"guest_price"`
	GuestsAllowed      bool            `json:"guests_allowed"`
	MaxGuestsPerMember *int            `json:"max_guests_per_member"`
	Notes              string          `json:"notes"`
}

func (r EventRequest) toDetails() clubevent.EventDetails {
	return clubevent.EventDetails{
		Title:              r.Title,
		Description:        r.Description,
		Kind:               clubevent.EventKind(r.Kind),
		Venue:              r.Venue,
		StartsAt:           r.StartsAt,
		EndsAt:             r.EndsAt,
		Capacity:           r.Capacity,
		MemberPrice:        r.MemberPrice,
		GuestPrice:         r.GuestPrice,
		GuestsAllowed:      r.GuestsAllowed,
		MaxGuestsPerMember: r.MaxGuestsPerMember,
		Notes:              r.Notes,
	}
}

// EventListFilter represents query parameters of the event list
type EventListFilter struct {
	Status   string     `form:"status"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Search   string     `form:"search"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Kind               string          `json:"kind"`
	Venue              string          `json:"venue"`
	StartsAt           time.Time       `json:"starts_at"`
	EndsAt             time.Time       `json:"ends_at"`
	Capacity           int             `json:"capacity"`
	MemberPrice        decimal.Decimal `json:"member_price"`
	GuestPrice         decimal.Decimal `json:"guest_price"`
	GuestsAllowed      bool            `json:"guests_allowed"`
	MaxGuestsPerMember int             `json:"max_guests_per_member"`
	RegistrationOpen   bool            `json:"registration_open"`
	Status             string          `json:"status"`
	Notes              string          `json:"notes"`
	// OccupiedSeats is only filled on single-event reads
	OccupiedSeats  *int      `json:"occupied_seats,omitempty"`
	SeatsAvailable *int      `json:"seats_available,omitempty"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToEventResponse converts a domain Event to EventResponse
func ToEventResponse(e *clubevent.Event) EventResponse {
	return EventResponse{
		ID:                 e.ID,
		Title:              e.Title,
		Description:        e.Description,
		Kind:               string(e.Kind),
		Venue:              e.Venue,
		StartsAt:           e.StartsAt,
		EndsAt:             e.EndsAt,
		Capacity:           e.Capacity,
		MemberPrice:        e.MemberPrice,
		GuestPrice:         e.GuestPrice,
		GuestsAllowed:      e.GuestsAllowed,
		MaxGuestsPerMember: e.MaxGuestsPerMember,
		RegistrationOpen:   e.RegistrationOpen,
		Status:             string(e.Status),
		Notes:              e.Notes,
		Version:            e.Version,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// =============================================================================
// Registration DTOs
// =============================================================================

// RegisterRequest signs a member up for an event
type RegisterRequest struct {
	MemberID uuid.UUID `json:"member_id" binding:"required"`
	Guests   int       `json:"guests" binding:"min=0"`
	Notes    string    `json:"notes" binding:"max=500"`
}

// RegistrationResponse represents an RSVP in API responses
type RegistrationResponse struct {
	ID           uuid.UUID       `json:"id"`
	EventID      uuid.UUID       `json:"event_id"`
	MemberID     uuid.UUID       `json:"member_id"`
	MemberName   string          `json:"member_name,omitempty"`
	Guests       int             `json:"guests"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	RegisteredAt time.Time       `json:"registered_at"`
	CheckedInAt  *time.Time      `json:"checked_in_at,omitempty"`
	CanceledAt   *time.Time      `json:"canceled_at,omitempty"`
	Notes        string          `json:"notes"`
}

// ToRegistrationResponse converts a domain Registration to RegistrationResponse
func ToRegistrationResponse(r *clubevent.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:           r.ID,
		EventID:      r.EventID,
		MemberID:     r.MemberID,
		Guests:       r.Guests,
		Status:       string(r.Status),
		TotalAmount:  r.TotalAmount,
		RegisteredAt: r.RegisteredAt,
		CheckedInAt:  r.CheckedInAt,
		CanceledAt:   r.CanceledAt,
		Notes:        r.Notes,
	}
}

// AttendanceResponse lists the registrations of an event with totals
type AttendanceResponse struct {
	EventID        uuid.UUID              `json:"event_id"`
	Registrations  []RegistrationResponse `json:"registrations"`
	Confirmed      int                    `json:"confirmed"`
	CheckedIn      int                    `json:"checked_in"`
	OccupiedSeats  int                    `json:"occupied_seats"`
	ExpectedIncome decimal.Decimal        `json:"expected_income"`
}
