package event

import (
	"context"

	"github.com/clube/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ActivityLogHandler writes one structured log line per domain event,
// giving every club an audit trail in the log pipeline.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates the handler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityLogHandler{logger: logger.Named("activity")}
}

// Handle logs the event
func (h *ActivityLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info(event.EventType(),
		zap.String("event_id", event.EventID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()))
	return nil
}

// EventTypes is empty so the handler receives every event
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}
