package commands

import "casegraph/pkg/errors"

// SelectNode toggles selection of a node. Selecting the selected node, or an
// id no longer in the node set, clears the selection.
type SelectNode struct {
	CaseID string `json:"case_id"`
	NodeID string `json:"node_id"`
}

// Validate checks the command
func (c SelectNode) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	if c.NodeID == "" {
		return errors.NewValidationError("node_id is required")
	}
	return nil
}

// ClearSelection drops any active selection.
type ClearSelection struct {
	CaseID string `json:"case_id"`
}

// Validate checks the command
func (c ClearSelection) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// PointerPress starts a pointer gesture. NodeID is empty for a press on open
// canvas.
type PointerPress struct {
	CaseID string  `json:"case_id"`
	NodeID string  `json:"node_id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Validate checks the command
func (c PointerPress) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// PointerMove continues a pointer gesture.
type PointerMove struct {
	CaseID string  `json:"case_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Validate checks the command
func (c PointerMove) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// PointerRelease finishes a pointer gesture, resolving it to a click or a
// drag end.
type PointerRelease struct {
	CaseID string  `json:"case_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Validate checks the command
func (c PointerRelease) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// ToggleSimulation flips the layout engine between running and frozen.
type ToggleSimulation struct {
	CaseID string `json:"case_id"`
}

// Validate checks the command
func (c ToggleSimulation) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}
