package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields. EventID lets consumers dedupe
// events delivered more than once by the bus.
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func newBaseEvent(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.NewString(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
	}
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// Graph events

// GraphRebuilt is raised when the node/edge model is rebuilt from fresh
// entity and relationship collections.
type GraphRebuilt struct {
	BaseEvent
	CaseID       string `json:"case_id"`
	NodeCount    int    `json:"node_count"`
	EdgeCount    int    `json:"edge_count"`
	NewNodeCount int    `json:"new_node_count"`
	DroppedEdges int    `json:"dropped_edges"`
}

// NewGraphRebuilt creates a GraphRebuilt event
func NewGraphRebuilt(caseID string, nodeCount, edgeCount, newNodeCount, droppedEdges int, timestamp time.Time) GraphRebuilt {
	return GraphRebuilt{
		BaseEvent:    newBaseEvent(caseID, "graph.rebuilt", timestamp),
		CaseID:       caseID,
		NodeCount:    nodeCount,
		EdgeCount:    edgeCount,
		NewNodeCount: newNodeCount,
		DroppedEdges: droppedEdges,
	}
}

// Selection events

// SelectionChanged is raised when the selected entity changes.
// EntityID is empty when the selection was cleared.
type SelectionChanged struct {
	BaseEvent
	EntityID    string `json:"entity_id,omitempty"`
	ClusterSize int    `json:"cluster_size"`
}

// NewSelectionChanged creates a SelectionChanged event
func NewSelectionChanged(caseID, entityID string, clusterSize int, timestamp time.Time) SelectionChanged {
	return SelectionChanged{
		BaseEvent:   newBaseEvent(caseID, "selection.changed", timestamp),
		EntityID:    entityID,
		ClusterSize: clusterSize,
	}
}

// Simulation events

// SimulationStateChanged is raised when the layout engine moves between
// running, idle and stopped states.
type SimulationStateChanged struct {
	BaseEvent
	State string  `json:"state"`
	Alpha float64 `json:"alpha"`
	Ticks int     `json:"ticks"`
}

// NewSimulationStateChanged creates a SimulationStateChanged event
func NewSimulationStateChanged(caseID, state string, alpha float64, ticks int, timestamp time.Time) SimulationStateChanged {
	return SimulationStateChanged{
		BaseEvent: newBaseEvent(caseID, "simulation.state_changed", timestamp),
		State:     state,
		Alpha:     alpha,
		Ticks:     ticks,
	}
}

// Viewport events

// ViewportChanged is raised when a programmatic viewport operation lands on
// its final transform.
type ViewportChanged struct {
	BaseEvent
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Scale      float64 `json:"scale"`
}

// NewViewportChanged creates a ViewportChanged event
func NewViewportChanged(caseID string, tx, ty, scale float64, timestamp time.Time) ViewportChanged {
	return ViewportChanged{
		BaseEvent:  newBaseEvent(caseID, "viewport.changed", timestamp),
		TranslateX: tx,
		TranslateY: ty,
		Scale:      scale,
	}
}
