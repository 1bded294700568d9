// Package calendar resolves the current date of a club.
package calendar

import (
	"context"
	"time"

	"github.com/clube/backend/internal/domain/identity"
	"github.com/clube/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Calendar returns today's date for a tenant as a UTC midnight
type Calendar interface {
	Today(ctx context.Context, tenantID uuid.UUID) time.Time
}

// TenantCalendar reads the tenant's timezone from its record
type TenantCalendar struct {
	tenants identity.TenantRepository
	now     func() time.Time
}

// NewTenantCalendar creates a TenantCalendar using the wall clock
func NewTenantCalendar(tenants identity.TenantRepository) *TenantCalendar {
	return &TenantCalendar{tenants: tenants, now: time.Now}
}

// Today returns the tenant's current date. An unknown tenant falls back to the UTC date.
func (c *TenantCalendar) Today(ctx context.Context, tenantID uuid.UUID) time.Time {
	now := c.now()
	tenant, err := c.tenants.FindByID(ctx, tenantID)
	if err != nil {
		logger.L(ctx).Warn("Falling back to UTC date", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return tenant.Today(now)
}

// Fixed always returns the same date
type Fixed time.Time

// Today returns the fixed date truncated to midnight UTC
func (f Fixed) Today(context.Context, uuid.UUID) time.Time {
	t := time.Time(f)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
