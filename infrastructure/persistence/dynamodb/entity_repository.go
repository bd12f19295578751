package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"casegraph/application/ports"
	"casegraph/domain/core/valueobjects"
	"casegraph/pkg/observability"
)

const batchWriteLimit = 25

// EntityRepository implements ports.EntityRepository using DynamoDB.
// Items live under PK=CASE#<caseID>, SK=ENTITY#<entityID>.
type EntityRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
	tracer    *observability.Tracer
}

// NewEntityRepository creates a new EntityRepository
func NewEntityRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.EntityRepository {
	return &EntityRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
		tracer:    observability.NewTracer("casegraph-dynamodb"),
	}
}

// entityItem represents the DynamoDB item structure for an entity record
type entityItem struct {
	PK          string   `dynamodbav:"PK"`
	SK          string   `dynamodbav:"SK"`
	EntityID    string   `dynamodbav:"EntityID"`
	EntityType  string   `dynamodbav:"EntityType"`
	Name        string   `dynamodbav:"Name"`
	Degree      int      `dynamodbav:"Degree"`
	Domain      string   `dynamodbav:"Domain,omitempty"`
	Domains     []string `dynamodbav:"Domains,omitempty"`
	Aliases     []string `dynamodbav:"Aliases,omitempty"`
	Description string   `dynamodbav:"Description,omitempty"`
}

func entityPK(caseID string) string { return fmt.Sprintf("CASE#%s", caseID) }

// ReplaceForCase atomically swaps the stored entity collection for a case.
func (r *EntityRepository) ReplaceForCase(ctx context.Context, caseID string, entities []valueobjects.EntityRecord) error {
	existing, err := r.keysForCase(ctx, caseID)
	if err != nil {
		return err
	}

	keep := make(map[string]bool, len(entities))
	var writes []types.WriteRequest

	for _, record := range entities {
		sk := fmt.Sprintf("ENTITY#%s", record.ID)
		keep[sk] = true

		av, err := attributevalue.MarshalMap(entityItem{
			PK:          entityPK(caseID),
			SK:          sk,
			EntityID:    record.ID,
			EntityType:  record.Type,
			Name:        record.Name,
			Degree:      record.Degree,
			Domain:      record.Domain,
			Domains:     record.Domains,
			Aliases:     record.Aliases,
			Description: record.Description,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal entity %s: %w", record.ID, err)
		}
		writes = append(writes, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: av},
		})
	}

	for _, sk := range existing {
		if keep[sk] {
			continue
		}
		writes = append(writes, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: entityPK(caseID)},
					"SK": &types.AttributeValueMemberS{Value: sk},
				},
			},
		})
	}

	if err := r.flush(ctx, writes); err != nil {
		r.logger.Error("Failed to replace entities",
			zap.Error(err),
			zap.String("caseID", caseID),
		)
		return err
	}

	r.logger.Debug("Replaced entity collection",
		zap.String("caseID", caseID),
		zap.Int("count", len(entities)),
	)
	return nil
}

// GetByCaseID retrieves the entity collection for a case.
func (r *EntityRepository) GetByCaseID(ctx context.Context, caseID string) ([]valueobjects.EntityRecord, error) {
	var records []valueobjects.EntityRecord
	err := r.tracer.TraceFunction(ctx, "EntityRepository.GetByCaseID", func(ctx context.Context) error {
		var err error
		records, err = r.queryByCase(ctx, caseID)
		return err
	})
	return records, err
}

func (r *EntityRepository) queryByCase(ctx context.Context, caseID string) ([]valueobjects.EntityRecord, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(entityPK(caseID))).
			And(expression.Key("SK").BeginsWith("ENTITY#"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	var records []valueobjects.EntityRecord
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query entities: %w", err)
		}

		for _, raw := range out.Items {
			var item entityItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping unreadable entity item", zap.Error(err))
				continue
			}
			records = append(records, valueobjects.EntityRecord{
				ID:          item.EntityID,
				Type:        item.EntityType,
				Name:        item.Name,
				Degree:      item.Degree,
				Domain:      item.Domain,
				Domains:     item.Domains,
				Aliases:     item.Aliases,
				Description: item.Description,
			})
		}

		if out.LastEvaluatedKey == nil {
			return records, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// DeleteByCaseID removes all entities for a case.
func (r *EntityRepository) DeleteByCaseID(ctx context.Context, caseID string) error {
	return r.ReplaceForCase(ctx, caseID, nil)
}

func (r *EntityRepository) keysForCase(ctx context.Context, caseID string) ([]string, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(entityPK(caseID))).
			And(expression.Key("SK").BeginsWith("ENTITY#"))).
		WithProjection(expression.NamesList(expression.Name("SK"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key expression: %w", err)
	}

	var keys []string
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list entity keys: %w", err)
		}

		for _, raw := range out.Items {
			if sk, ok := raw["SK"].(*types.AttributeValueMemberS); ok {
				keys = append(keys, sk.Value)
			}
		}

		if out.LastEvaluatedKey == nil {
			return keys, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *EntityRepository) flush(ctx context.Context, writes []types.WriteRequest) error {
	for start := 0; start < len(writes); start += batchWriteLimit {
		end := start + batchWriteLimit
		if end > len(writes) {
			end = len(writes)
		}

		batch := map[string][]types.WriteRequest{r.tableName: writes[start:end]}
		for len(batch[r.tableName]) > 0 {
			out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: batch,
			})
			if err != nil {
				return fmt.Errorf("batch write failed: %w", err)
			}
			if len(out.UnprocessedItems) == 0 {
				break
			}
			batch = out.UnprocessedItems
		}
	}
	return nil
}
