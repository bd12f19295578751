package memory

import (
	"context"
	"sync"

	"casegraph/application/ports"
	"casegraph/domain/core/valueobjects"
)

// EntityRepository is an in-memory ports.EntityRepository for development
// and tests.
type EntityRepository struct {
	mu   sync.RWMutex
	data map[string][]valueobjects.EntityRecord
}

// NewEntityRepository creates an empty in-memory entity repository.
func NewEntityRepository() *EntityRepository {
	return &EntityRepository{data: make(map[string][]valueobjects.EntityRecord)}
}

// ReplaceForCase swaps the stored entity collection.
func (r *EntityRepository) ReplaceForCase(_ context.Context, caseID string, entities []valueobjects.EntityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]valueobjects.EntityRecord, len(entities))
	copy(stored, entities)
	r.data[caseID] = stored
	return nil
}

// GetByCaseID returns the stored entity collection.
func (r *EntityRepository) GetByCaseID(_ context.Context, caseID string) ([]valueobjects.EntityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.data[caseID]
	out := make([]valueobjects.EntityRecord, len(stored))
	copy(out, stored)
	return out, nil
}

// DeleteByCaseID removes the stored entity collection.
func (r *EntityRepository) DeleteByCaseID(_ context.Context, caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, caseID)
	return nil
}

// RelationshipRepository is an in-memory ports.RelationshipRepository.
type RelationshipRepository struct {
	mu   sync.RWMutex
	data map[string][]valueobjects.RelationshipRecord
}

// NewRelationshipRepository creates an empty in-memory relationship
// repository.
func NewRelationshipRepository() *RelationshipRepository {
	return &RelationshipRepository{data: make(map[string][]valueobjects.RelationshipRecord)}
}

// ReplaceForCase swaps the stored relationship collection.
func (r *RelationshipRepository) ReplaceForCase(_ context.Context, caseID string, relationships []valueobjects.RelationshipRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]valueobjects.RelationshipRecord, len(relationships))
	copy(stored, relationships)
	r.data[caseID] = stored
	return nil
}

// GetByCaseID returns the stored relationship collection.
func (r *RelationshipRepository) GetByCaseID(_ context.Context, caseID string) ([]valueobjects.RelationshipRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.data[caseID]
	out := make([]valueobjects.RelationshipRecord, len(stored))
	copy(out, stored)
	return out, nil
}

// DeleteByCaseID removes the stored relationship collection.
func (r *RelationshipRepository) DeleteByCaseID(_ context.Context, caseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, caseID)
	return nil
}

var _ ports.EntityRepository = (*EntityRepository)(nil)
var _ ports.RelationshipRepository = (*RelationshipRepository)(nil)
