package identity

import (
	"github.com/clube/backend/internal/domain/shared"
)

const AggregateTypeTenant = "Tenant"

const (
	EventTypeTenantCreated = "TenantCreated"
)

// TenantCreatedEvent is published when a club is provisioned
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, tenant.ID, tenant.ID),
		Code:            tenant.Code,
		Name:            tenant.Name,
	}
}
