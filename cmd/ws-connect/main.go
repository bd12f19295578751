// Package main implements the WebSocket connect/disconnect Lambda handler.
// Clients connect with a case id and a JWT; the connection is registered in
// the connection table so the frame publisher can reach it.
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"casegraph/infrastructure/realtime"
	"casegraph/pkg/auth"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

var (
	logger      *zap.Logger
	connections realtime.ConnectionStore
	validator   *auth.JWTValidator
)

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

	validator, err = auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     os.Getenv("JWT_SECRET"),
		Issuer:        os.Getenv("JWT_ISSUER"),
	})
	if err != nil {
		logger.Fatal("Failed to create JWT validator", zap.Error(err))
	}
}

func handler(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	caseID := request.QueryStringParameters["case_id"]

	switch request.RequestContext.RouteKey {
	case "$connect":
		if caseID == "" {
			return respond(http.StatusBadRequest, "missing case_id"), nil
		}

		token := request.QueryStringParameters["token"]
		if token == "" {
			return respond(http.StatusUnauthorized, "missing token"), nil
		}
		claims, err := validator.ValidateToken(token)
		if err != nil {
			logger.Warn("Rejected WebSocket connection",
				zap.String("connection_id", connectionID),
				zap.Error(err),
			)
			return respond(http.StatusUnauthorized, "invalid token"), nil
		}

		if err := connections.Save(ctx, caseID, connectionID); err != nil {
			logger.Error("Failed to save connection", zap.Error(err))
			return respond(http.StatusInternalServerError, "connection failed"), nil
		}

		logger.Info("WebSocket connected",
			zap.String("connection_id", connectionID),
			zap.String("case_id", caseID),
			zap.String("user_id", claims.UserID),
		)
		return respond(http.StatusOK, "connected"), nil

	case "$disconnect":
		if caseID != "" {
			if err := connections.Delete(ctx, caseID, connectionID); err != nil {
				logger.Warn("Failed to delete connection", zap.Error(err))
			}
		}

		logger.Info("WebSocket disconnected",
			zap.String("connection_id", connectionID),
			zap.String("case_id", caseID),
		)
		return respond(http.StatusOK, "disconnected"), nil

	default:
		return respond(http.StatusBadRequest, "unknown route"), nil
	}
}

func respond(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: status, Body: body}
}

func main() {
	lambda.Start(handler)
}
