package clubevent

import (
	"context"
	"time"

	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventFilter defines filtering options for event queries
type EventFilter struct {
	shared.Filter
	Status *EventStatus
	From   *time.Time
	To     *time.Time
}

// EventRepository defines persistence for events
type EventRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Event, error)
	// FindByIDForUpdate locks the event row so registrations are serialized per event
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Event, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter EventFilter) ([]Event, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter EventFilter) (int64, error)
	Save(ctx context.Context, event *Event) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// RegistrationRepository defines persistence for RSVPs
type RegistrationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Registration, error)
	FindByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]Registration, error)
	ExistsForMember(ctx context.Context, tenantID, eventID, memberID uuid.UUID) (bool, error)
	// OccupiedSeats sums 1 + guests over confirmed registrations of the event
	OccupiedSeats(ctx context.Context, tenantID, eventID uuid.UUID) (int, error)
	Save(ctx context.Context, registration *Registration) error
}
