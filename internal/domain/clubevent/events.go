package clubevent

import (
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	EventTypeEventStatusChanged    = "EventStatusChanged"
	EventTypeRegistrationConfirmed = "RegistrationConfirmed"
)

// EventStatusChangedEvent is published when an event is created or changes status
type EventStatusChangedEvent struct {
	shared.BaseDomainEvent
	Title     string      `json:"title"`
	OldStatus EventStatus `json:"old_status,omitempty"`
	NewStatus EventStatus `json:"new_status"`
}

// NewEventStatusChangedEvent creates a new EventStatusChangedEvent
func NewEventStatusChangedEvent(e *Event, old EventStatus) *EventStatusChangedEvent {
	return &EventStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEventStatusChanged, "Event", e.ID, e.TenantID),
		Title:           e.Title,
		OldStatus:       old,
		NewStatus:       e.Status,
	}
}

// RegistrationConfirmedEvent is published when a member signs up
type RegistrationConfirmedEvent struct {
	shared.BaseDomainEvent
	ClubEventID uuid.UUID `json:"event_id"`
	MemberID    uuid.UUID `json:"member_id"`
	Guests      int       `json:"guests"`
}

// NewRegistrationConfirmedEvent creates a new RegistrationConfirmedEvent
func NewRegistrationConfirmedEvent(r *Registration) *RegistrationConfirmedEvent {
	return &RegistrationConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegistrationConfirmed, "Registration", r.ID, r.TenantID),
		ClubEventID:     r.EventID,
		MemberID:        r.MemberID,
		Guests:          r.Guests,
	}
}
