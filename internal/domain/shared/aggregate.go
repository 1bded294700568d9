package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// TenantAggregateRoot scopes an aggregate to one club (tenant).
// A tenant aggregate may only reference aggregates of the same tenant.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  uuid.UUID
	CreatedBy *uuid.UUID
}

// NewTenantAggregateRoot creates a new tenant-scoped aggregate root
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
	}
}

// SetCreatedBy records the staff user who created the aggregate
func (t *TenantAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	t.CreatedBy = &userID
}

// BelongsTo reports whether the aggregate is owned by tenantID
func (t *TenantAggregateRoot) BelongsTo(tenantID uuid.UUID) bool {
	return t.TenantID == tenantID
}

// EnsureSameTenant fails with ErrCrossTenant when other belongs to a different tenant
func EnsureSameTenant(tenantID uuid.UUID, other *TenantAggregateRoot) error {
	if other == nil || other.TenantID != tenantID {
		return ErrCrossTenant
	}
	return nil
}
