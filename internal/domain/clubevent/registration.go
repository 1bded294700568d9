package clubevent

import (
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegistrationStatus is the state of an RSVP
type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationCanceled  RegistrationStatus = "CANCELED"
)

// Registration is one member's RSVP to an event; at most one per (event, member)
type Registration struct {
	shared.TenantAggregateRoot
	EventID      uuid.UUID
	MemberID     uuid.UUID
	Guests       int
	Status       RegistrationStatus
	TotalAmount  decimal.Decimal
	RegisteredAt time.Time
	CheckedInAt  *time.Time
	CanceledAt   *time.Time
	Notes        string
}

func newRegistration(e *Event, memberID uuid.UUID, guests int) *Registration {
	r := &Registration{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(e.TenantID),
		EventID:             e.ID,
		MemberID:            memberID,
		Guests:              guests,
		Status:              RegistrationConfirmed,
		TotalAmount:         e.TicketTotal(guests),
		RegisteredAt:        time.Now(),
	}
	r.AddDomainEvent(NewRegistrationConfirmedEvent(r))
	return r
}

// Seats returns the seats the registration occupies
func (r *Registration) Seats() int {
	return 1 + r.Guests
}

// Cancel releases the seats. Checked-in registrations cannot be canceled.
func (r *Registration) Cancel() error {
	if r.Status == RegistrationCanceled {
		return shared.NewInvalidStateError("Registration is already canceled")
	}
	if r.CheckedInAt != nil {
		return shared.NewInvalidStateError("Registration was already checked in")
	}
	now := time.Now()
	r.Status = RegistrationCanceled
	r.CanceledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// CheckIn records the member's arrival once
func (r *Registration) CheckIn(at time.Time) error {
	if r.Status != RegistrationConfirmed {
		return shared.NewInvalidStateError("Only confirmed registrations can check in")
	}
	if r.CheckedInAt != nil {
		return shared.NewInvalidStateError("Member already checked in at " + r.CheckedInAt.Format("02/01/2006 15:04"))
	}
	r.CheckedInAt = &at
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}
