package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ConnectionStore tracks which WebSocket connections watch which case.
type ConnectionStore interface {
	// Save registers a connection as watching a case.
	Save(ctx context.Context, caseID, connectionID string) error

	// Delete removes a connection registration.
	Delete(ctx context.Context, caseID, connectionID string) error

	// ListByCase returns the connection ids watching a case.
	ListByCase(ctx context.Context, caseID string) ([]string, error)
}

// DynamoConnectionStore implements ConnectionStore on a DynamoDB table with
// PK=CASE#<caseID>, SK=CONN#<connectionID>.
type DynamoConnectionStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewDynamoConnectionStore creates a new connection store
func NewDynamoConnectionStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *DynamoConnectionStore {
	return &DynamoConnectionStore{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type connectionItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	CaseID       string `dynamodbav:"CaseID"`
	ConnectionID string `dynamodbav:"ConnectionID"`
	ConnectedAt  string `dynamodbav:"ConnectedAt"`
}

func connectionPK(caseID string) string { return fmt.Sprintf("CASE#%s", caseID) }

// Save registers a connection as watching a case.
func (s *DynamoConnectionStore) Save(ctx context.Context, caseID, connectionID string) error {
	av, err := attributevalue.MarshalMap(connectionItem{
		PK:           connectionPK(caseID),
		SK:           fmt.Sprintf("CONN#%s", connectionID),
		CaseID:       caseID,
		ConnectionID: connectionID,
		ConnectedAt:  time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal connection: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to save connection: %w", err)
	}
	return nil
}

// Delete removes a connection registration.
func (s *DynamoConnectionStore) Delete(ctx context.Context, caseID, connectionID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: connectionPK(caseID)},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("CONN#%s", connectionID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}
	return nil
}

// ListByCase returns the connection ids watching a case.
func (s *DynamoConnectionStore) ListByCase(ctx context.Context, caseID string) ([]string, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(connectionPK(caseID))).
			And(expression.Key("SK").BeginsWith("CONN#"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build connection query: %w", err)
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	var ids []string
	for _, raw := range out.Items {
		var item connectionItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			s.logger.Warn("Skipping unreadable connection item", zap.Error(err))
			continue
		}
		ids = append(ids, item.ConnectionID)
	}
	return ids, nil
}
