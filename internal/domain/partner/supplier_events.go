package partner

import (
	"github.com/clube/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Supplier
const AggregateTypeSupplier = "Supplier"

// Event type constants for Supplier
const (
	EventTypeSupplierCreated = "SupplierCreated"
	EventTypeSupplierUpdated = "SupplierUpdated"
)

// SupplierCreatedEvent is published when a new supplier is created
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
	Document   string    `json:"document,omitempty"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(supplier *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, supplier.ID, supplier.TenantID),
		SupplierID:      supplier.ID,
		Name:            supplier.Name,
		Document:        supplier.Document.Digits(),
	}
}

// SupplierUpdatedEvent is published when a supplier is updated
type SupplierUpdatedEvent struct {
	shared.BaseDomainEvent
	SupplierID uuid.UUID `json:"supplier_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
}

// NewSupplierUpdatedEvent creates a new SupplierUpdatedEvent
func NewSupplierUpdatedEvent(supplier *Supplier) *SupplierUpdatedEvent {
	return &SupplierUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierUpdated, AggregateTypeSupplier, supplier.ID, supplier.TenantID),
		SupplierID:      supplier.ID,
		Name:            supplier.Name,
		Email:           supplier.Email,
		Phone:           supplier.Phone,
	}
}
