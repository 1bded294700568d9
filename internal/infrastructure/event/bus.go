// Package event dispatches domain events to in-process handlers.
package event

import (
	"context"
	"fmt"

	"github.com/clube/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// InMemoryEventBus implements EventBus with synchronous in-process delivery.
// Handler failures are logged and never reach the publisher.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	tracer   trace.Tracer
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger.Named("event_bus"),
		tracer:   otel.Tracer("clube/event"),
	}
}

// Publish delivers every event to its handlers in registration order
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("tenant_id", event.TenantID().String()),
					zap.Error(err))
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for its own EventTypes when none are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start is a no-op; delivery is synchronous
func (b *InMemoryEventBus) Start(context.Context) error {
	b.logger.Info("Event bus started", zap.Int("handlers", b.registry.Count()))
	return nil
}

// Stop is a no-op; delivery is synchronous
func (b *InMemoryEventBus) Stop(context.Context) error {
	b.logger.Info("Event bus stopped")
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	ctx, span := b.tracer.Start(ctx, "event."+event.EventType(), trace.WithAttributes(
		attribute.String("event.id", event.EventID().String()),
		attribute.String("event.aggregate_type", event.AggregateType()),
		attribute.String("tenant.id", event.TenantID().String()),
	))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
