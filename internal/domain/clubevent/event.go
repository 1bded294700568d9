package clubevent

import (
	"fmt"
	"strings"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventStatus is the lifecycle state of a club event
type EventStatus string

const (
	EventStatusDraft      EventStatus = "DRAFT"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusInProgress EventStatus = "IN_PROGRESS"
	EventStatusFinished   EventStatus = "FINISHED"
	EventStatusCanceled   EventStatus = "CANCELED"
)

var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:      {EventStatusPublished, EventStatusCanceled},
	EventStatusPublished:  {EventStatusInProgress, EventStatusCanceled, EventStatusDraft},
	EventStatusInProgress: {EventStatusFinished, EventStatusCanceled},
	EventStatusFinished:   {},
	EventStatusCanceled:   {},
}

// IsValid checks if the status is known
func (s EventStatus) IsValid() bool {
	_, ok := eventTransitions[s]
	return ok
}

// CanTransitionTo reports whether the event may move from s to target
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	for _, allowed := range eventTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AcceptsRegistrations reports whether members can sign up in this status
func (s EventStatus) AcceptsRegistrations() bool {
	return s == EventStatusPublished || s == EventStatusInProgress
}

// EventKind classifies events
type EventKind string

const (
	EventKindSocial    EventKind = "SOCIAL"
	EventKindSports    EventKind = "SPORTS"
	EventKindCultural  EventKind = "CULTURAL"
	EventKindFamily    EventKind = "FAMILY"
	EventKindCorporate EventKind = "CORPORATE"
	EventKindOther     EventKind = "OTHER"
)

// IsValid checks if the kind is known
func (k EventKind) IsValid() bool {
	switch k {
	case EventKindSocial, EventKindSports, EventKindCultural, EventKindFamily, EventKindCorporate, EventKindOther:
		return true
	}
	return false
}

// DefaultMaxGuestsPerMember applies when an event does not set its own cap
const DefaultMaxGuestsPerMember = 2

// Event is a club event members can register for
type Event struct {
	shared.TenantAggregateRoot
	Title              string
	Description        string
	Kind               EventKind
	Venue              string
	StartsAt           time.Time
	EndsAt             time.Time
	Capacity           int
	MemberPrice        decimal.Decimal
	GuestPrice         decimal.Decimal
	GuestsAllowed      bool
	MaxGuestsPerMember int
	RegistrationOpen   bool
	Status             EventStatus
	Notes              string
}

// EventDetails holds the editable fields of an event
type EventDetails struct {
	Title              string
	Description        string
	Kind               EventKind
	Venue              string
	StartsAt           time.Time
	EndsAt             time.Time
	Capacity           int
	MemberPrice        decimal.Decimal
	GuestPrice         decimal.Decimal
	GuestsAllowed      bool
	MaxGuestsPerMember *int
	Notes              string
}

// NewEvent creates a draft event
func NewEvent(tenantID uuid.UUID, details EventDetails) (*Event, error) {
	e := &Event{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              EventStatusDraft,
		RegistrationOpen:    true,
	}
	if err := e.apply(details); err != nil {
		return nil, err
	}
	e.AddDomainEvent(NewEventStatusChangedEvent(e, ""))
	return e, nil
}

// Update replaces the event details. Finished or canceled events are frozen.
func (e *Event) Update(details EventDetails) error {
	if e.Status == EventStatusFinished || e.Status == EventStatusCanceled {
		return shared.NewInvalidStateError(fmt.Sprintf("Event %q is %s and cannot be edited", e.Title, e.Status))
	}
	if err := e.apply(details); err != nil {
		return err
	}
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

func (e *Event) apply(d EventDetails) error {
	title := strings.TrimSpace(d.Title)
	kind := EventKind(strings.ToUpper(string(d.Kind)))
	maxGuests := DefaultMaxGuestsPerMember
	if d.MaxGuestsPerMember != nil {
		maxGuests = *d.MaxGuestsPerMember
	}

	v := &shared.ValidationError{}
	if title == "" {
		v.Add("title", "Title is required")
	} else if len(title) > 200 {
		v.Add("title", "Title cannot exceed 200 characters")
	}
	if kind == "" {
		kind = EventKindSocial
	} else if !kind.IsValid() {
		v.Add("kind", "Unknown event kind")
	}
	if strings.TrimSpace(d.Venue) == "" {
		v.Add("venue", "Venue is required")
	}
	if d.StartsAt.IsZero() {
		v.Add("starts_at", "Start date is required")
	}
	if !d.EndsAt.After(d.StartsAt) {
		v.Add("ends_at", "End date must be after the start date")
	}
	if d.Capacity < 0 {
		v.Add("capacity", "Capacity cannot be negative")
	}
	if d.MemberPrice.IsNegative() {
		v.Add("member_price", "Price cannot be negative")
	}
	if d.GuestPrice.LessThan(d.MemberPrice) {
		v.Add("guest_price", "Guest price cannot be lower than the member price")
	}
	if maxGuests < 0 {
		v.Add("max_guests_per_member", "Cannot be negative")
	}
	if err := v.Err(); err != nil {
		return err
	}

	e.Title = title
	e.Description = strings.TrimSpace(d.Description)
	e.Kind = kind
	e.Venue = strings.TrimSpace(d.Venue)
	e.StartsAt = d.StartsAt
	e.EndsAt = d.EndsAt
	e.Capacity = d.Capacity
	e.MemberPrice = d.MemberPrice.Round(2)
	e.GuestPrice = d.GuestPrice.Round(2)
	e.GuestsAllowed = d.GuestsAllowed
	e.MaxGuestsPerMember = maxGuests
	e.Notes = strings.TrimSpace(d.Notes)
	return nil
}

// ChangeStatus moves the event through its lifecycle
func (e *Event) ChangeStatus(target EventStatus) error {
	if !e.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError(fmt.Sprintf("Event cannot change from %s to %s", e.Status, target))
	}
	old := e.Status
	e.Status = target
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	e.AddDomainEvent(NewEventStatusChangedEvent(e, old))
	return nil
}

// Publish opens the event to registrations
func (e *Event) Publish() error { return e.ChangeStatus(EventStatusPublished) }

// Start marks the event as happening
func (e *Event) Start() error { return e.ChangeStatus(EventStatusInProgress) }

// Finish closes the event
func (e *Event) Finish() error { return e.ChangeStatus(EventStatusFinished) }

// Cancel cancels the event
func (e *Event) Cancel() error { return e.ChangeStatus(EventStatusCanceled) }

// SetRegistrationOpen toggles sign-ups without changing the status
func (e *Event) SetRegistrationOpen(open bool) {
	e.RegistrationOpen = open
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// SeatsAvailable returns the free seats given the occupied ones, or -1 when unlimited
func (e *Event) SeatsAvailable(occupied int) int {
	if e.Capacity == 0 {
		return -1
	}
	free := e.Capacity - occupied
	if free < 0 {
		return 0
	}
	return free
}

// TicketTotal returns the price of a registration with guests
func (e *Event) TicketTotal(guests int) decimal.Decimal {
	return e.MemberPrice.Add(e.GuestPrice.Mul(decimal.NewFromInt(int64(guests))))
}

// EnsureDeletable allows deleting only drafts and canceled events
func (e *Event) EnsureDeletable() error {
	if e.Status != EventStatusDraft && e.Status != EventStatusCanceled {
		return shared.NewInvalidStateError("Only draft or canceled events can be deleted")
	}
	return nil
}

// Register signs memberID up with guests. occupied is the number of seats taken by
// confirmed registrations, each counting 1 plus its guests.
func (e *Event) Register(memberID uuid.UUID, guests, occupied int) (*Registration, error) {
	if !e.Status.AcceptsRegistrations() || !e.RegistrationOpen {
		return nil, shared.NewInvalidStateError(fmt.Sprintf("Event %q is not open for registration", e.Title))
	}

	v := &shared.ValidationError{}
	if memberID == uuid.Nil {
		v.Add("member_id", "Member is required")
	}
	switch {
	case guests < 0:
		v.Add("guests", "Guests cannot be negative")
	case guests > 0 && !e.GuestsAllowed:
		v.Add("guests", "This event does not allow guests")
	case guests > e.MaxGuestsPerMember:
		v.Add("guests", fmt.Sprintf("At most %d guests per member", e.MaxGuestsPerMember))
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if free := e.SeatsAvailable(occupied); free >= 0 && 1+guests > free {
		return nil, shared.NewValidationError("guests", fmt.Sprintf("Only %d seats left for this event", free))
	}

	return newRegistration(e, memberID, guests), nil
}
