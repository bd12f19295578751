package ports

import (
	"context"

	"casegraph/domain/events"
)

// EventPublisher defines the interface for publishing domain events.
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// NodePosition is one node's layout coordinates within a pushed frame.
type NodePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// PositionFrame is the per-tick layout snapshot streamed to connected
// clients.
type PositionFrame struct {
	CaseID     string         `json:"case_id"`
	Generation int            `json:"generation"`
	Tick       int            `json:"tick"`
	Alpha      float64        `json:"alpha"`
	Positions  []NodePosition `json:"positions"`
}

// RealtimePublisher streams position frames to subscribed connections.
type RealtimePublisher interface {
	// PushFrame fans one frame out to every connection watching the case.
	PushFrame(ctx context.Context, frame PositionFrame) error
}

// MetricsPublisher records operational measurements for the layout engine.
type MetricsPublisher interface {
	// RecordTick records one simulation step and its duration.
	RecordTick(ctx context.Context, caseID string, alpha float64, durationMs float64)

	// RecordRebuild records a model rebuild with its resulting sizes.
	RecordRebuild(ctx context.Context, caseID string, nodeCount, edgeCount int)
}
