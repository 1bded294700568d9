package shared

import "context"

// EventHandler handles domain events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in.
	// An empty slice means the handler receives all events.
	EventTypes() []string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus combines publishing and subscription
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// PublishAndClear publishes the pending events of an aggregate and clears them.
// A nil publisher is a no-op.
func PublishAndClear(ctx context.Context, publisher EventPublisher, aggregates ...AggregateRoot) error {
	if publisher == nil {
		for _, agg := range aggregates {
			agg.ClearDomainEvents()
		}
		return nil
	}
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil {
			return err
		}
		agg.ClearDomainEvents()
	}
	return nil
}
