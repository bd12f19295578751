package cloudwatch

import (
	"context"

	"casegraph/application/ports"
)

// NoopMetrics discards measurements. Used when metrics are disabled.
type NoopMetrics struct{}

// NewNoopMetrics creates a metrics publisher that discards measurements.
func NewNoopMetrics() ports.MetricsPublisher {
	return NoopMetrics{}
}

// RecordTick discards the measurement.
func (NoopMetrics) RecordTick(context.Context, string, float64, float64) {}

// RecordRebuild discards the measurement.
func (NoopMetrics) RecordRebuild(context.Context, string, int, int) {}
