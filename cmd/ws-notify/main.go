// Package main implements the event notification Lambda. Domain events put
// on the event bus are forwarded to the WebSocket clients watching the case,
// so viewers learn about rebuilds and selection changes made elsewhere.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"casegraph/infrastructure/realtime"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

var (
	logger      *zap.Logger
	connections realtime.ConnectionStore
	apiGwClient *apigatewaymanagementapi.Client
)

// notification is the message format sent to clients
type notification struct {
	Type      string          `json:"type"`
	CaseID    string          `json:"case_id"`
	Timestamp int64           `json:"timestamp"`
	Detail    json.RawMessage `json:"detail"`
}

func init() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}

	tableName := os.Getenv("CONNECTIONS_TABLE")
	if tableName == "" {
		tableName = "casegraph-connections"
	}
	connections = realtime.NewDynamoConnectionStore(dynamodb.NewFromConfig(cfg), tableName, logger)

	endpoint := os.Getenv("WEBSOCKET_ENDPOINT")
	if endpoint == "" {
		logger.Fatal("WEBSOCKET_ENDPOINT is required")
	}
	apiGwClient = apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
}

// caseIDFromDetail pulls the aggregate id out of the event payload.
func caseIDFromDetail(detail json.RawMessage) string {
	var payload struct {
		AggregateID string `json:"aggregate_id"`
		CaseID      string `json:"case_id"`
	}
	if err := json.Unmarshal(detail, &payload); err != nil {
		return ""
	}
	if payload.CaseID != "" {
		return payload.CaseID
	}
	return payload.AggregateID
}

func handler(ctx context.Context, event events.CloudWatchEvent) error {
	caseID := caseIDFromDetail(event.Detail)
	if caseID == "" {
		logger.Warn("Event without case id", zap.String("detail_type", event.DetailType))
		return nil
	}

	ids, err := connections.ListByCase(ctx, caseID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	payload, err := json.Marshal(notification{
		Type:      event.DetailType,
		CaseID:    caseID,
		Timestamp: time.Now().UnixMilli(),
		Detail:    event.Detail,
	})
	if err != nil {
		return err
	}

	for _, connectionID := range ids {
		_, err := apiGwClient.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})
		if err == nil {
			continue
		}

		var gone *apigwtypes.GoneException
		if errors.As(err, &gone) {
			if delErr := connections.Delete(ctx, caseID, connectionID); delErr != nil {
				logger.Warn("Failed to prune gone connection", zap.Error(delErr))
			}
			continue
		}

		logger.Warn("Failed to notify connection",
			zap.String("connection_id", connectionID),
			zap.Error(err),
		)
	}

	logger.Info("Notified case watchers",
		zap.String("case_id", caseID),
		zap.String("event_type", event.DetailType),
		zap.Int("connections", len(ids)),
	)
	return nil
}

func main() {
	lambda.Start(handler)
}
