package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DistributedRateLimiter is a fixed-window counter backed by DynamoDB, so the
// limit holds across Lambda instances. With a nil client every request is
// allowed, which keeps local development working without AWS.
type DistributedRateLimiter struct {
	client    *dynamodb.Client
	tableName string
	limit     int
	window    time.Duration
	scope     string
}

// NewDistributedUserRateLimiter creates a per-user limiter.
func NewDistributedUserRateLimiter(client *dynamodb.Client, tableName string, requestsPerMinute int) *DistributedRateLimiter {
	return &DistributedRateLimiter{
		client:    client,
		tableName: tableName,
		limit:     requestsPerMinute,
		window:    time.Minute,
		scope:     "USER",
	}
}

// NewDistributedIPRateLimiter creates a per-IP limiter.
func NewDistributedIPRateLimiter(client *dynamodb.Client, tableName string, requestsPerMinute int) *DistributedRateLimiter {
	return &DistributedRateLimiter{
		client:    client,
		tableName: tableName,
		limit:     requestsPerMinute,
		window:    time.Minute,
		scope:     "IP",
	}
}

func (r *DistributedRateLimiter) windowKeys(key string, windowStart time.Time) (string, string) {
	pk := fmt.Sprintf("RATELIMIT#%s#%s", r.scope, key)
	sk := fmt.Sprintf("WINDOW#%d", windowStart.Unix())
	return pk, sk
}

// Allow atomically increments the counter for the current window. The
// conditional update rejects the increment once the limit is reached. On
// DynamoDB failures the limiter fails open and reports the error so the
// caller can log it.
func (r *DistributedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.client == nil {
		return true, nil
	}

	windowStart := time.Now().Truncate(r.window)
	pk, sk := r.windowKeys(key, windowStart)
	expiresAt := windowStart.Add(r.window + time.Hour).Unix()

	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
		UpdateExpression:    aws.String("SET RequestCount = if_not_exists(RequestCount, :zero) + :one, ExpiresAt = :expires"),
		ConditionExpression: aws.String("attribute_not_exists(RequestCount) OR RequestCount < :limit"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":zero":    &types.AttributeValueMemberN{Value: "0"},
			":one":     &types.AttributeValueMemberN{Value: "1"},
			":limit":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", r.limit)},
			":expires": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expiresAt)},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return false, nil
		}
		return true, fmt.Errorf("rate limiter failing open: %w", err)
	}

	return true, nil
}

// Reset clears the current window for a key.
func (r *DistributedRateLimiter) Reset(ctx context.Context, key string) error {
	if r.client == nil {
		return nil
	}

	pk, sk := r.windowKeys(key, time.Now().Truncate(r.window))
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	return err
}

// Limit returns the configured requests-per-window limit.
func (r *DistributedRateLimiter) Limit() int {
	return r.limit
}
