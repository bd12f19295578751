package queries

import (
	"casegraph/domain/core/valueobjects"
	"casegraph/domain/filtering"
	"casegraph/pkg/errors"
)

// GetViewState returns the full renderable state of a case's view: filtered
// nodes and edges with emphasis applied, the viewport transform and the
// engine state.
type GetViewState struct {
	CaseID string `json:"case_id"`
}

// Validate checks the query
func (q GetViewState) Validate() error {
	if q.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// GetFacetCounts returns per-type and per-domain entity counts computed from
// the unfiltered collection.
type GetFacetCounts struct {
	CaseID string `json:"case_id"`
}

// Validate checks the query
func (q GetFacetCounts) Validate() error {
	if q.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// GetSelection returns the active selection and its cluster.
type GetSelection struct {
	CaseID string `json:"case_id"`
}

// Validate checks the query
func (q GetSelection) Validate() error {
	if q.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// GetTooltip resolves tooltip content and a clamped on-screen placement for
// a node under the pointer.
type GetTooltip struct {
	CaseID    string  `json:"case_id"`
	NodeID    string  `json:"node_id"`
	PointerX  float64 `json:"pointer_x"`
	PointerY  float64 `json:"pointer_y"`
	TipWidth  float64 `json:"tip_width"`
	TipHeight float64 `json:"tip_height"`
}

// Validate checks the query
func (q GetTooltip) Validate() error {
	if q.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	if q.NodeID == "" {
		return errors.NewValidationError("node_id is required")
	}
	return nil
}

// Read models

// NodeView is one renderable node.
type NodeView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Domains     []string `json:"domains,omitempty"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Radius      float64  `json:"radius"`
	Color       string   `json:"color"`
	Degree      int      `json:"degree"`
	Opacity     float64  `json:"opacity"`
	Accent      bool     `json:"accent,omitempty"`
	Highlighted bool     `json:"highlighted,omitempty"`
	Pinned      bool     `json:"pinned,omitempty"`
}

// EdgeView is one renderable edge.
type EdgeView struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Count   int     `json:"count"`
	Label   string  `json:"label,omitempty"`
	Opacity float64 `json:"opacity"`
	Accent  bool    `json:"accent,omitempty"`
}

// SimulationView is the engine state exposed for a play/pause affordance.
type SimulationView struct {
	State   string  `json:"state"`
	Alpha   float64 `json:"alpha"`
	Ticks   int     `json:"ticks"`
	Running bool    `json:"running"`
}

// ViewStateResult is the full renderable state of one case's view.
type ViewStateResult struct {
	CaseID         string                     `json:"case_id"`
	Generation     int                        `json:"generation"`
	Nodes          []NodeView                 `json:"nodes"`
	Edges          []EdgeView                 `json:"edges"`
	Transform      valueobjects.ViewTransform `json:"transform"`
	Simulation     SimulationView             `json:"simulation"`
	Filter         filtering.State            `json:"filter"`
	SelectedNodeID string                     `json:"selected_node_id,omitempty"`
}

// FacetCountsResult carries badge counts for one case.
type FacetCountsResult struct {
	CaseID string               `json:"case_id"`
	Counts filtering.FacetCounts `json:"counts"`
}

// SelectionResult is the active cluster in wire form.
type SelectionResult struct {
	SelectedNodeID string   `json:"selected_node_id,omitempty"`
	MemberIDs      []string `json:"member_ids"`
	MemberEdgeIDs  []string `json:"member_edge_ids"`
}

// TooltipResult is resolved tooltip content plus its clamped placement.
type TooltipResult struct {
	NodeID      string  `json:"node_id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Degree      int     `json:"degree"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}
