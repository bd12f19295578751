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

// RelationshipRepository implements ports.RelationshipRepository using
// DynamoDB. Items live under PK=CASE#<caseID>, SK=REL#<relationshipID>.
type RelationshipRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
	tracer    *observability.Tracer
}

// NewRelationshipRepository creates a new RelationshipRepository
func NewRelationshipRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.RelationshipRepository {
	return &RelationshipRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
		tracer:    observability.NewTracer("casegraph-dynamodb"),
	}
}

// relationshipItem represents the DynamoDB item structure for a relationship
type relationshipItem struct {
	PK                 string  `dynamodbav:"PK"`
	SK                 string  `dynamodbav:"SK"`
	RelationshipID     string  `dynamodbav:"RelationshipID"`
	SourceEntityID     string  `dynamodbav:"SourceEntityID"`
	TargetEntityID     string  `dynamodbav:"TargetEntityID"`
	Label              string  `dynamodbav:"Label,omitempty"`
	RelationshipType   string  `dynamodbav:"RelationshipType,omitempty"`
	Strength           float64 `dynamodbav:"Strength"`
	Confidence         float64 `dynamodbav:"Confidence,omitempty"`
	CorroborationCount int     `dynamodbav:"CorroborationCount,omitempty"`
	TemporalContext    string  `dynamodbav:"TemporalContext,omitempty"`
	EvidenceExcerpt    string  `dynamodbav:"EvidenceExcerpt,omitempty"`
}

// ReplaceForCase atomically swaps the stored relationship collection.
func (r *RelationshipRepository) ReplaceForCase(ctx context.Context, caseID string, relationships []valueobjects.RelationshipRecord) error {
	existing, err := r.keysForCase(ctx, caseID)
	if err != nil {
		return err
	}

	keep := make(map[string]bool, len(relationships))
	var writes []types.WriteRequest

	for _, record := range relationships {
		sk := fmt.Sprintf("REL#%s", record.ID)
		keep[sk] = true

		av, err := attributevalue.MarshalMap(relationshipItem{
			PK:                 entityPK(caseID),
			SK:                 sk,
			RelationshipID:     record.ID,
			SourceEntityID:     record.SourceEntityID,
			TargetEntityID:     record.TargetEntityID,
			Label:              record.Label,
			RelationshipType:   record.RelationshipType,
			Strength:           record.Strength,
			Confidence:         record.Confidence,
			CorroborationCount: record.CorroborationCount,
			TemporalContext:    record.TemporalContext,
			EvidenceExcerpt:    record.EvidenceExcerpt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal relationship %s: %w", record.ID, err)
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

	if err := r.flushWrites(ctx, writes); err != nil {
		r.logger.Error("Failed to replace relationships",
			zap.Error(err),
			zap.String("caseID", caseID),
		)
		return err
	}

	r.logger.Debug("Replaced relationship collection",
		zap.String("caseID", caseID),
		zap.Int("count", len(relationships)),
	)
	return nil
}

// GetByCaseID retrieves the relationship collection for a case.
func (r *RelationshipRepository) GetByCaseID(ctx context.Context, caseID string) ([]valueobjects.RelationshipRecord, error) {
	var records []valueobjects.RelationshipRecord
	err := r.tracer.TraceFunction(ctx, "RelationshipRepository.GetByCaseID", func(ctx context.Context) error {
		var err error
		records, err = r.queryByCase(ctx, caseID)
		return err
	})
	return records, err
}

func (r *RelationshipRepository) queryByCase(ctx context.Context, caseID string) ([]valueobjects.RelationshipRecord, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(entityPK(caseID))).
			And(expression.Key("SK").BeginsWith("REL#"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	var records []valueobjects.RelationshipRecord
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
			return nil, fmt.Errorf("failed to query relationships: %w", err)
		}

		for _, raw := range out.Items {
			var item relationshipItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Skipping unreadable relationship item", zap.Error(err))
				continue
			}
			records = append(records, valueobjects.RelationshipRecord{
				ID:                 item.RelationshipID,
				SourceEntityID:     item.SourceEntityID,
				TargetEntityID:     item.TargetEntityID,
				Label:              item.Label,
				RelationshipType:   item.RelationshipType,
				Strength:           item.Strength,
				Confidence:         item.Confidence,
				CorroborationCount: item.CorroborationCount,
				TemporalContext:    item.TemporalContext,
				EvidenceExcerpt:    item.EvidenceExcerpt,
			})
		}

		if out.LastEvaluatedKey == nil {
			return records, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// DeleteByCaseID removes all relationships for a case.
func (r *RelationshipRepository) DeleteByCaseID(ctx context.Context, caseID string) error {
	return r.ReplaceForCase(ctx, caseID, nil)
}

func (r *RelationshipRepository) keysForCase(ctx context.Context, caseID string) ([]string, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(entityPK(caseID))).
			And(expression.Key("SK").BeginsWith("REL#"))).
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
			return nil, fmt.Errorf("failed to list relationship keys: %w", err)
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

func (r *RelationshipRepository) flushWrites(ctx context.Context, writes []types.WriteRequest) error {
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
