package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"casegraph/application/ports"
	"casegraph/domain/events"
)

const eventSource = "casegraph.view"
const putEventsLimit = 10

// Publisher sends domain events to an EventBridge bus so downstream
// consumers (detail sidebar, audit trail) can react to view changes.
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) ports.EventPublisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish sends a single event
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

// PublishBatch sends events in PutEvents-sized chunks.
func (p *Publisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for start := 0; start < len(batch); start += putEventsLimit {
		end := start + putEventsLimit
		if end > len(batch) {
			end = len(batch)
		}

		entries := make([]types.PutEventsRequestEntry, 0, end-start)
		for _, event := range batch[start:end] {
			detail, err := json.Marshal(event)
			if err != nil {
				p.logger.Warn("Skipping unserializable event",
					zap.String("type", event.GetEventType()),
					zap.Error(err),
				)
				continue
			}
			entries = append(entries, types.PutEventsRequestEntry{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(event.GetEventType()),
				Detail:       aws.String(string(detail)),
			})
		}
		if len(entries) == 0 {
			continue
		}

		out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
		if err != nil {
			return fmt.Errorf("failed to put events: %w", err)
		}
		if out.FailedEntryCount > 0 {
			p.logger.Warn("Some events failed to publish",
				zap.Int32("failed", out.FailedEntryCount),
			)
		}
	}
	return nil
}
