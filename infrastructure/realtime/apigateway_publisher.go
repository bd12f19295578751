package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"go.uber.org/zap"

	"casegraph/application/ports"
)

// APIGatewayPublisher fans position frames out to WebSocket connections via
// the API Gateway Management API. Gone connections are pruned from the store
// instead of failing the frame.
type APIGatewayPublisher struct {
	client      *apigatewaymanagementapi.Client
	connections ConnectionStore
	logger      *zap.Logger
}

// NewAPIGatewayPublisher creates a new realtime publisher
func NewAPIGatewayPublisher(client *apigatewaymanagementapi.Client, connections ConnectionStore, logger *zap.Logger) ports.RealtimePublisher {
	return &APIGatewayPublisher{
		client:      client,
		connections: connections,
		logger:      logger,
	}
}

// PushFrame sends one frame to every connection watching the case.
func (p *APIGatewayPublisher) PushFrame(ctx context.Context, frame ports.PositionFrame) error {
	ids, err := p.connections.ListByCase(ctx, frame.CaseID)
	if err != nil {
		return fmt.Errorf("failed to list connections: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	for _, connectionID := range ids {
		_, err := p.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})
		if err == nil {
			continue
		}

		var gone *types.GoneException
		if errors.As(err, &gone) {
			if delErr := p.connections.Delete(ctx, frame.CaseID, connectionID); delErr != nil {
				p.logger.Warn("Failed to prune gone connection",
					zap.String("connection_id", connectionID),
					zap.Error(delErr),
				)
			}
			continue
		}

		p.logger.Warn("Failed to post frame to connection",
			zap.String("connection_id", connectionID),
			zap.Error(err),
		)
	}
	return nil
}
