package entities

import (
	"strings"

	"casegraph/domain/core/valueobjects"
)

// Edge is the deduplicated, undirected visual representation of every
// relationship between one entity pair. Invariant: at most one edge exists
// per unordered pair, and Count() equals the number of backing relationships.
type Edge struct {
	id        string
	endpointA string
	endpointB string
	backing   []valueobjects.RelationshipRecord
}

// PairKey builds the canonical key for an unordered entity pair.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// NewEdge creates an edge for a pair key with its backing relationships in
// original input order.
func NewEdge(a, b string, backing []valueobjects.RelationshipRecord) *Edge {
	if b < a {
		a, b = b, a
	}
	return &Edge{
		id:        a + "|" + b,
		endpointA: a,
		endpointB: b,
		backing:   backing,
	}
}

// ID returns the canonical pair key.
func (e *Edge) ID() string {
	return e.id
}

// EndpointA returns the lexically smaller endpoint id.
func (e *Edge) EndpointA() string {
	return e.endpointA
}

// EndpointB returns the lexically larger endpoint id.
func (e *Edge) EndpointB() string {
	return e.endpointB
}

// Touches reports whether the edge is incident to the given entity.
func (e *Edge) Touches(entityID string) bool {
	return e.endpointA == entityID || e.endpointB == entityID
}

// Other returns the opposite endpoint, or "" if the id is not an endpoint.
func (e *Edge) Other(entityID string) string {
	switch entityID {
	case e.endpointA:
		return e.endpointB
	case e.endpointB:
		return e.endpointA
	}
	return ""
}

// Count returns the number of backing relationships.
func (e *Edge) Count() int {
	return len(e.backing)
}

// Relationships returns the backing relationships in input order.
func (e *Edge) Relationships() []valueobjects.RelationshipRecord {
	backing := make([]valueobjects.RelationshipRecord, len(e.backing))
	copy(backing, e.backing)
	return backing
}

// MatchesLabel reports whether any backing relationship label contains the
// given lowercase token.
func (e *Edge) MatchesLabel(token string) bool {
	for _, rel := range e.backing {
		if strings.Contains(strings.ToLower(rel.Label), token) {
			return true
		}
	}
	return false
}
