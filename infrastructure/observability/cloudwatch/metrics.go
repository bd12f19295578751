package cloudwatch

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"casegraph/application/ports"
)

const metricNamespace = "CaseGraph/Layout"

// MetricsPublisher reports layout engine measurements to CloudWatch.
// Failures are logged and swallowed: metrics must never break a tick.
type MetricsPublisher struct {
	client *cloudwatch.Client
	logger *zap.Logger
}

// NewMetricsPublisher creates a new CloudWatch metrics publisher
func NewMetricsPublisher(client *cloudwatch.Client, logger *zap.Logger) ports.MetricsPublisher {
	return &MetricsPublisher{
		client: client,
		logger: logger,
	}
}

// RecordTick records one simulation step and its duration.
func (m *MetricsPublisher) RecordTick(ctx context.Context, caseID string, alpha float64, durationMs float64) {
	m.put(ctx, caseID,
		datum("TickDuration", durationMs, types.StandardUnitMilliseconds),
		datum("Alpha", alpha, types.StandardUnitNone),
	)
}

// RecordRebuild records a model rebuild with its resulting sizes.
func (m *MetricsPublisher) RecordRebuild(ctx context.Context, caseID string, nodeCount, edgeCount int) {
	m.put(ctx, caseID,
		datum("NodeCount", float64(nodeCount), types.StandardUnitCount),
		datum("EdgeCount", float64(edgeCount), types.StandardUnitCount),
	)
}

func (m *MetricsPublisher) put(ctx context.Context, caseID string, data ...types.MetricDatum) {
	now := time.Now()
	dimension := types.Dimension{
		Name:  aws.String("CaseID"),
		Value: aws.String(caseID),
	}
	for i := range data {
		data[i].Timestamp = aws.Time(now)
		data[i].Dimensions = []types.Dimension{dimension}
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(metricNamespace),
		MetricData: data,
	})
	if err != nil {
		m.logger.Debug("Failed to put metric data", zap.Error(err))
	}
}

func datum(name string, value float64, unit types.StandardUnit) types.MetricDatum {
	return types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(value),
		Unit:       unit,
	}
}
