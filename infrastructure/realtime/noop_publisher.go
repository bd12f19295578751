package realtime

import (
	"context"

	"casegraph/application/ports"
)

// NoopPublisher drops frames. Used when no WebSocket endpoint is configured.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that drops frames.
func NewNoopPublisher() ports.RealtimePublisher {
	return NoopPublisher{}
}

// PushFrame discards the frame.
func (NoopPublisher) PushFrame(context.Context, ports.PositionFrame) error {
	return nil
}
