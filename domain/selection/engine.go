package selection

import (
	"time"

	"casegraph/domain/core/aggregates"
	"casegraph/domain/events"
)

// ClusterState is the derived single-hop neighborhood of the selected node.
// It is recomputed on every selection change and never persisted.
type ClusterState struct {
	SelectedNodeID string          `json:"selected_node_id,omitempty"`
	MemberIDs      map[string]bool `json:"member_ids"`
	MemberEdgeIDs  map[string]bool `json:"member_edge_ids"`
}

// Active reports whether a selection is in effect.
func (c ClusterState) Active() bool {
	return c.SelectedNodeID != ""
}

// Contains reports cluster membership for a node id.
func (c ClusterState) Contains(nodeID string) bool {
	return c.MemberIDs[nodeID]
}

// ContainsEdge reports whether both endpoints of an edge lie in the cluster.
func (c ClusterState) ContainsEdge(edgeID string) bool {
	return c.MemberEdgeIDs[edgeID]
}

func emptyCluster() ClusterState {
	return ClusterState{
		MemberIDs:     make(map[string]bool),
		MemberEdgeIDs: make(map[string]bool),
	}
}

// Engine owns the selected-node state and derives the cluster from the
// graph's adjacency. Selecting the selected node again clears the selection;
// selecting an id absent from the node set is a plain deselection.
type Engine struct {
	graph   *aggregates.GraphView
	cluster ClusterState
	events  []events.DomainEvent
}

// NewEngine creates a selection engine over the given graph.
func NewEngine(graph *aggregates.GraphView) *Engine {
	return &Engine{
		graph:   graph,
		cluster: emptyCluster(),
	}
}

// Cluster returns the current cluster state.
func (e *Engine) Cluster() ClusterState {
	return e.cluster
}

// SelectedNodeID returns the selected entity id, or "" when nothing is
// selected.
func (e *Engine) SelectedNodeID() string {
	return e.cluster.SelectedNodeID
}

// Select toggles selection of a node. A repeated click on the selected node
// clears the selection, and so does an id that is not in the current node
// set.
func (e *Engine) Select(nodeID string) {
	if nodeID == e.cluster.SelectedNodeID || !e.graph.HasNode(nodeID) {
		e.Clear()
		return
	}

	e.cluster = e.buildCluster(nodeID)
	e.addEvent(events.NewSelectionChanged(
		e.graph.CaseID(), nodeID, len(e.cluster.MemberIDs), time.Now(),
	))
}

// Clear drops any active selection.
func (e *Engine) Clear() {
	if !e.cluster.Active() {
		return
	}
	e.cluster = emptyCluster()
	e.addEvent(events.NewSelectionChanged(e.graph.CaseID(), "", 0, time.Now()))
}

// Refresh recomputes the cluster after a graph rebuild. A selection whose
// node disappeared from the new generation is cleared.
func (e *Engine) Refresh() {
	if !e.cluster.Active() {
		return
	}
	if !e.graph.HasNode(e.cluster.SelectedNodeID) {
		e.Clear()
		return
	}
	e.cluster = e.buildCluster(e.cluster.SelectedNodeID)
}

// GetUncommittedEvents returns all uncommitted domain events
func (e *Engine) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, len(e.events))
	copy(all, e.events)
	return all
}

// MarkEventsAsCommitted clears all uncommitted events
func (e *Engine) MarkEventsAsCommitted() {
	e.events = nil
}

func (e *Engine) addEvent(event events.DomainEvent) {
	e.events = append(e.events, event)
}

// buildCluster computes {node} plus its neighbors, and every edge whose both
// endpoints lie inside that set.
func (e *Engine) buildCluster(nodeID string) ClusterState {
	members := e.graph.Neighbors(nodeID)
	members[nodeID] = true

	memberEdges := make(map[string]bool)
	for _, edge := range e.graph.Edges() {
		if members[edge.EndpointA()] && members[edge.EndpointB()] {
			memberEdges[edge.ID()] = true
		}
	}

	return ClusterState{
		SelectedNodeID: nodeID,
		MemberIDs:      members,
		MemberEdgeIDs:  memberEdges,
	}
}
