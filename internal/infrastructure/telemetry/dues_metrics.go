package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/clube/backend/internal/domain/dues"
	"github.com/clube/backend/internal/domain/finance"
	"github.com/clube/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ActiveTenants lists the clubs whose gauges are refreshed
type ActiveTenants interface {
	FindActive(ctx context.Context) ([]identity.Tenant, error)
}

// DuesCounter counts dues records by filter
type DuesCounter interface {
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter dues.DuesFilter) (int64, error)
}

// DuesMetrics records dues engine outcomes as OpenTelemetry instruments
type DuesMetrics struct {
	generated *Counter
	ignored   *Counter
	overdue   *Counter
	settled   *FloatCounter
	open      *Gauge

	tenants ActiveTenants
	records DuesCounter
	logger  *zap.Logger
}

// NewDuesMetrics creates the dues instruments on meter. tenants and records
// may be nil when the overdue gauge is not collected.
func NewDuesMetrics(meter metric.Meter, tenants ActiveTenants, records DuesCounter, logger *zap.Logger) (*DuesMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &DuesMetrics{tenants: tenants, records: records, logger: logger.Named("dues_metrics")}
	var err error
	if m.generated, err = NewCounter(meter, "clube.dues.generated", "Dues records created by generation runs", "{record}"); err != nil {
		return nil, fmt.Errorf("failed to create dues generated counter: %w", err)
	}
	if m.ignored, err = NewCounter(meter, "clube.dues.ignored", "Member periods skipped because a record already existed", "{record}"); err != nil {
		return nil, fmt.Errorf("failed to create dues ignored counter: %w", err)
	}
	if m.overdue, err = NewCounter(meter, "clube.dues.overdue_marked", "Dues records moved to overdue", "{record}"); err != nil {
		return nil, fmt.Errorf("failed to create dues overdue counter: %w", err)
	}
	if m.settled, err = NewFloatCounter(meter, "clube.dues.settled_amount", "Amount received on dues settlements", "BRL"); err != nil {
		return nil, fmt.Errorf("failed to create dues settled counter: %w", err)
	}
	if m.open, err = NewGauge(meter, "clube.dues.overdue_open", "Dues records currently overdue", "{record}"); err != nil {
		return nil, fmt.Errorf("failed to create dues overdue gauge: %w", err)
	}
	return m, nil
}

// RecordGeneration records one generation run
func (m *DuesMetrics) RecordGeneration(ctx context.Context, tenantID uuid.UUID, created, ignored int) {
	attr := AttrTenantID.String(tenantID.String())
	m.generated.Add(ctx, int64(created), attr)
	m.ignored.Add(ctx, int64(ignored), attr)
}

// RecordSettlement records the total received for one settled record
func (m *DuesMetrics) RecordSettlement(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal) {
	m.settled.Add(ctx, amount.InexactFloat64(), AttrTenantID.String(tenantID.String()))
}

// RecordOverdue records how many records an overdue refresh updated
func (m *DuesMetrics) RecordOverdue(ctx context.Context, tenantID uuid.UUID, updated int64) {
	m.overdue.Add(ctx, updated, AttrTenantID.String(tenantID.String()))
}

// CollectOverdue refreshes the overdue gauge for every active club.
// A failing club is logged and skipped.
func (m *DuesMetrics) CollectOverdue(ctx context.Context) error {
	if m.tenants == nil || m.records == nil {
		return nil
	}
	tenants, err := m.tenants.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active clubs: %w", err)
	}
	status := finance.StatusOverdue
	for _, tenant := range tenants {
		count, err := m.records.CountForTenant(ctx, tenant.ID, dues.DuesFilter{Status: &status})
		if err != nil {
			m.logger.Warn("Failed to count overdue dues",
				zap.String("tenant_id", tenant.ID.String()),
				zap.Error(err))
			continue
		}
		m.open.Record(ctx, count, AttrTenantID.String(tenant.ID.String()))
	}
	return nil
}

// StartCollector runs CollectOverdue every interval until ctx is done
func (m *DuesMetrics) StartCollector(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if err := m.CollectOverdue(ctx); err != nil {
				m.logger.Warn("Overdue gauge collection failed", zap.Error(err))
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
