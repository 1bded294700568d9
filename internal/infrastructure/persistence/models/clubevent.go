package models

import (
	"time"

	"github.com/clube/backend/internal/domain/clubevent"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventModel is the persistence model for the club Event aggregate.
type EventModel struct {
	TenantAggregateModel
	Title              string                `gorm:"type:varchar(200);not null"`
	Description        string                `gorm:"type:text"`
	Kind               clubevent.EventKind   `gorm:"type:varchar(20);not null;default:'SOCIAL'"`
	Venue              string                `gorm:"type:varchar(200)"`
	StartsAt           time.Time             `gorm:"not null;index"`
	EndsAt             time.Time             `gorm:"not null"`
	Capacity           int                   `gorm:"not null;default:0"`
	MemberPrice        decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	GuestPrice         decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	GuestsAllowed      bool                  `gorm:"not null;default:false"`
	MaxGuestsPerMember int                   `gorm:"not null;default:2"`
	RegistrationOpen   bool                  `gorm:"not null;default:true"`
	Status             clubevent.EventStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Notes              string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (EventModel) TableName() string {
	return "club_events"
}

// ToDomain converts the persistence model to a domain Event.
func (m *EventModel) ToDomain() *clubevent.Event {
	e := &clubevent.Event{
		Title:              m.Title,
		Description:        m.Description,
		Kind:               m.Kind,
		Venue:              m.Venue,
		StartsAt:           m.StartsAt,
		EndsAt:             m.EndsAt,
		Capacity:           m.Capacity,
		MemberPrice:        m.MemberPrice,
		GuestPrice:         m.GuestPrice,
		GuestsAllowed:      m.GuestsAllowed,
		MaxGuestsPerMember: m.MaxGuestsPerMember,
		RegistrationOpen:   m.RegistrationOpen,
		Status:             m.Status,
		Notes:              m.Notes,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the persistence model from a domain Event.
func (m *EventModel) FromDomain(e *clubevent.Event) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Title = e.Title
	m.Description = e.Description
	m.Kind = e.Kind
	m.Venue = e.Venue
	m.StartsAt = e.StartsAt
	m.EndsAt = e.EndsAt
	m.Capacity = e.Capacity
	m.MemberPrice = e.MemberPrice
	m.GuestPrice = e.GuestPrice
	m.GuestsAllowed = e.GuestsAllowed
	m.MaxGuestsPerMember = e.MaxGuestsPerMember
	m.RegistrationOpen = e.RegistrationOpen
	m.Status = e.Status
	m.Notes = e.Notes
}

// RegistrationModel is the persistence model for an event Registration.
type RegistrationModel struct {
	TenantAggregateModel
	EventID      uuid.UUID                    `gorm:"type:uuid;not null;index:idx_registration_event_member,priority:1"`
	MemberID     uuid.UUID                    `gorm:"type:uuid;not null;index:idx_registration_event_member,priority:2"`
	Guests       int                          `gorm:"not null;default:0"`
	Status       clubevent.RegistrationStatus `gorm:"type:varchar(20);not null;default:'CONFIRMED'"`
	TotalAmount  decimal.Decimal              `gorm:"type:decimal(12,2);not null;default:0"`
	RegisteredAt time.Time                    `gorm:"not null"`
	CheckedInAt  *time.Time
	CanceledAt   *time.Time
	Notes        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RegistrationModel) TableName() string {
	return "event_registrations"
}

// ToDomain converts the persistence model to a domain Registration.
func (m *RegistrationModel) ToDomain() *clubevent.Registration {
	r := &clubevent.Registration{
		EventID:      m.EventID,
		MemberID:     m.MemberID,
		Guests:       m.Guests,
		Status:       m.Status,
		TotalAmount:  m.TotalAmount,
		RegisteredAt: m.RegisteredAt,
		CheckedInAt:  m.CheckedInAt,
		CanceledAt:   m.CanceledAt,
		Notes:        m.Notes,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain Registration.
func (m *RegistrationModel) FromDomain(r *clubevent.Registration) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.EventID = r.EventID
	m.MemberID = r.MemberID
	m.Guests = r.Guests
	m.Status = r.Status
	m.TotalAmount = r.TotalAmount
	m.RegisteredAt = r.RegisteredAt
	m.CheckedInAt = r.CheckedInAt
	m.CanceledAt = r.CanceledAt
	m.Notes = r.Notes
}
