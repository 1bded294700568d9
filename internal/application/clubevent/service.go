package clubevent

import (
	"context"
	"errors"
	"time"

	"github.com/clube/backend/internal/domain/clubevent"
	"github.com/clube/backend/internal/domain/membership"
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EventService handles club events and member RSVPs
type EventService struct {
	eventRepo        clubevent.EventRepository
	registrationRepo clubevent.RegistrationRepository
	memberRepo       membership.MemberRepository
	txManager        shared.TransactionManager
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
	now              func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo clubevent.EventRepository,
	registrationRepo clubevent.RegistrationRepository,
	memberRepo membership.MemberRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		memberRepo:       memberRepo,
		txManager:        txManager,
		logger:           logger.Named("events"),
		now:              time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *EventService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create schedules a draft event
func (s *EventService) Create(ctx context.Context, tenantID uuid.UUID, req EventRequest) (*EventResponse, error) {
	event, err := clubevent.NewEvent(tenantID, req.toDetails())
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	s.publish(ctx, event)

	s.logger.Info("Event created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("event_id", event.ID.String()),
		zap.String("title", event.Title))

	resp := ToEventResponse(event)
	return &resp, nil
}

// GetByID returns an event with its seat usage
func (s *EventService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	event, err := s.eventRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	occupied, err := s.registrationRepo.OccupiedSeats(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEventResponse(event)
	available := event.SeatsAvailable(occupied)
	resp.OccupiedSeats = &occupied
	resp.SeatsAvailable = &available
	return &resp, nil
}

// List retrieves a page of events
func (s *EventService) List(ctx context.Context, tenantID uuid.UUID, filter EventListFilter) (*shared.Paginated[EventResponse], error) {
	f := clubevent.EventFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  "starts_at",
			OrderDir: "asc",
		}.Normalize(),
		From: filter.From,
		To:   filter.To,
	}
	if filter.Status != "" {
		status := clubevent.EventStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("status", "Unknown event status")
		}
		f.Status = &status
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, shared.NewValidationError("to", "End date must not be before start date")
	}

	events, err := s.eventRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.eventRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]EventResponse, len(events))
	for i := range events {
		items[i] = ToEventResponse(&events[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update edits an event that is not finished or canceled
func (s *EventService) Update(ctx context.Context, tenantID, id uuid.UUID, req EventRequest) (*EventResponse, error) {
	event, err := s.eventRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := event.Update(req.toDetails()); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	resp := ToEventResponse(event)
	return &resp, nil
}

// Delete removes a draft or canceled event
func (s *EventService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	event, err := s.eventRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := event.EnsureDeletable(); err != nil {
		return err
	}
	if err := s.eventRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Event deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("event_id", id.String()))
	return nil
}

// Publish opens the event to members
func (s *EventService) Publish(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	return s.transition(ctx, tenantID, id, (*clubevent.Event).Publish)
}

// Start marks the event as in progress
func (s *EventService) Start(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	return s.transition(ctx, tenantID, id, (*clubevent.Event).Start)
}

// Finish closes the event
func (s *EventService) Finish(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	return s.transition(ctx, tenantID, id, (*clubevent.Event).Finish)
}

// Cancel cancels the event
func (s *EventService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*EventResponse, error) {
	return s.transition(ctx, tenantID, id, (*clubevent.Event).Cancel)
}

// SetRegistrationOpen pauses or resumes sign-ups
func (s *EventService) SetRegistrationOpen(ctx context.Context, tenantID, id uuid.UUID, open bool) (*EventResponse, error) {
	return s.transition(ctx, tenantID, id, func(e *clubevent.Event) error {
		e.SetRegistrationOpen(open)
		return nil
	})
}

func (s *EventService) transition(ctx context.Context, tenantID, id uuid.UUID, apply func(*clubevent.Event) error) (*EventResponse, error) {
	event, err := s.eventRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(event); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}
	s.publish(ctx, event)

	resp := ToEventResponse(event)
	return &resp, nil
}

// =============================================================================
// Registrations
// =============================================================================

// Register signs an active member up. The event row is locked so concurrent
// sign-ups cannot oversell the capacity.
func (s *EventService) Register(ctx context.Context, tenantID, eventID uuid.UUID, req RegisterRequest) (*RegistrationResponse, error) {
	var registration *clubevent.Registration
	var member *membership.Member
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		event, err := s.eventRepo.FindByIDForUpdate(txCtx, tenantID, eventID)
		if err != nil {
			return err
		}
		member, err = s.memberRepo.FindByIDForTenant(txCtx, tenantID, req.MemberID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Member")
		}
		if err != nil {
			return err
		}
		if !member.IsActive() {
			return shared.NewInvalidStateError("Only active members can register for events")
		}

		exists, err := s.registrationRepo.ExistsForMember(txCtx, tenantID, eventID, req.MemberID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Member is already registered for this event")
		}
		occupied, err := s.registrationRepo.OccupiedSeats(txCtx, tenantID, eventID)
		if err != nil {
			return err
		}

		registration, err = event.Register(req.MemberID, req.Guests, occupied)
		if err != nil {
			return err
		}
		registration.Notes = req.Notes
		return s.registrationRepo.Save(txCtx, registration)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, registration)

	s.logger.Info("Member registered for event",
		zap.String("tenant_id", tenantID.String()),
		zap.String("event_id", eventID.String()),
		zap.String("member_id", req.MemberID.String()),
		zap.Int("guests", req.Guests))

	resp := ToRegistrationResponse(registration)
	resp.MemberName = member.Name
	return &resp, nil
}

// CancelRegistration releases the seats of a registration
func (s *EventService) CancelRegistration(ctx context.Context, tenantID, eventID, registrationID uuid.UUID) (*RegistrationResponse, error) {
	return s.updateRegistration(ctx, tenantID, eventID, registrationID, (*clubevent.Registration).Cancel)
}

// CheckIn records the member's arrival
func (s *EventService) CheckIn(ctx context.Context, tenantID, eventID, registrationID uuid.UUID) (*RegistrationResponse, error) {
	return s.updateRegistration(ctx, tenantID, eventID, registrationID, func(r *clubevent.Registration) error {
		return r.CheckIn(s.now())
	})
}

func (s *EventService) updateRegistration(ctx context.Context, tenantID, eventID, registrationID uuid.UUID, apply func(*clubevent.Registration) error) (*RegistrationResponse, error) {
	registration, err := s.registrationRepo.FindByIDForTenant(ctx, tenantID, registrationID)
	if err != nil {
		return nil, err
	}
	if registration.EventID != eventID {
		return nil, shared.NewNotFoundError("Registration")
	}
	if err := apply(registration); err != nil {
		return nil, err
	}
	if err := s.registrationRepo.Save(ctx, registration); err != nil {
		return nil, err
	}
	resp := ToRegistrationResponse(registration)
	return &resp, nil
}

// Attendance lists the registrations of an event with member names and totals
func (s *EventService) Attendance(ctx context.Context, tenantID, eventID uuid.UUID) (*AttendanceResponse, error) {
	if _, err := s.eventRepo.FindByIDForTenant(ctx, tenantID, eventID); err != nil {
		return nil, err
	}
	registrations, err := s.registrationRepo.FindByEvent(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(registrations))
	for i := range registrations {
		ids = append(ids, registrations[i].MemberID)
	}
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) > 0 {
		members, err := s.memberRepo.FindByIDsForTenant(ctx, tenantID, ids)
		if err != nil {
			return nil, err
		}
		for i := range members {
			names[members[i].ID] = members[i].Name
		}
	}

	resp := &AttendanceResponse{
		EventID:        eventID,
		Registrations:  make([]RegistrationResponse, len(registrations)),
		ExpectedIncome: decimal.Zero,
	}
	for i := range registrations {
		r := &registrations[i]
		item := ToRegistrationResponse(r)
		item.MemberName = names[r.MemberID]
		resp.Registrations[i] = item
		if r.Status != clubevent.RegistrationConfirmed {
			continue
		}
		resp.Confirmed++
		resp.OccupiedSeats += r.Seats()
		resp.ExpectedIncome = resp.ExpectedIncome.Add(r.TotalAmount)
		if r.CheckedInAt != nil {
			resp.CheckedIn++
		}
	}
	return resp, nil
}

func (s *EventService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, agg); err != nil {
		s.logger.Warn("Failed to publish event domain events",
			zap.String("aggregate_id", agg.GetID().String()),
			zap.Error(err))
	}
}
