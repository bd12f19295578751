package ports

import (
	"context"

	"casegraph/domain/core/valueobjects"
)

// EntityRepository persists the upstream entity collection per case.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation.
type EntityRepository interface {
	// ReplaceForCase atomically replaces the stored entity collection.
	ReplaceForCase(ctx context.Context, caseID string, entities []valueobjects.EntityRecord) error

	// GetByCaseID retrieves the entity collection for a case.
	GetByCaseID(ctx context.Context, caseID string) ([]valueobjects.EntityRecord, error)

	// DeleteByCaseID removes all entities for a case.
	DeleteByCaseID(ctx context.Context, caseID string) error
}

// RelationshipRepository persists the upstream relationship collection per
// case.
type RelationshipRepository interface {
	// ReplaceForCase atomically replaces the stored relationship collection.
	ReplaceForCase(ctx context.Context, caseID string, relationships []valueobjects.RelationshipRecord) error

	// GetByCaseID retrieves the relationship collection for a case.
	GetByCaseID(ctx context.Context, caseID string) ([]valueobjects.RelationshipRecord, error)

	// DeleteByCaseID removes all relationships for a case.
	DeleteByCaseID(ctx context.Context, caseID string) error
}

// Cache defines the interface for caching derived read models.
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
