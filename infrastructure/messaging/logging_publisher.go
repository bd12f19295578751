package messaging

import (
	"context"

	"go.uber.org/zap"

	"casegraph/application/ports"
	"casegraph/domain/events"
)

// LoggingPublisher is the development stand-in for the EventBridge
// publisher: events go to the log instead of a bus.
type LoggingPublisher struct {
	logger *zap.Logger
}

// NewLoggingPublisher creates a publisher that logs events.
func NewLoggingPublisher(logger *zap.Logger) ports.EventPublisher {
	return &LoggingPublisher{logger: logger}
}

// Publish logs a single event.
func (p *LoggingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch logs each event in the batch.
func (p *LoggingPublisher) PublishBatch(_ context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		p.logger.Debug("Domain event",
			zap.String("type", event.GetEventType()),
			zap.String("aggregate_id", event.GetAggregateID()),
		)
	}
	return nil
}
