package commands

import "casegraph/pkg/errors"

// ZoomIn animates one zoom step in about the viewport center.
type ZoomIn struct {
	CaseID string `json:"case_id"`
}

// Validate checks the command
func (c ZoomIn) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// ZoomOut animates one zoom step out about the viewport center.
type ZoomOut struct {
	CaseID string `json:"case_id"`
}

// Validate checks the command
func (c ZoomOut) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// ResetViewport animates back to the identity transform.
type ResetViewport struct {
	CaseID string `json:"case_id"`
}

// Validate checks the command
func (c ResetViewport) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// ZoomToNode animates the viewport so the node lands centered at the focus
// scale.
type ZoomToNode struct {
	CaseID string `json:"case_id"`
	NodeID string `json:"node_id"`
}

// Validate checks the command
func (c ZoomToNode) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	if c.NodeID == "" {
		return errors.NewValidationError("node_id is required")
	}
	return nil
}

// PanViewport applies an immediate screen-space translation.
type PanViewport struct {
	CaseID string  `json:"case_id"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

// Validate checks the command
func (c PanViewport) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// WheelZoom applies an immediate zoom about the pointer. Factors above one
// zoom in; the resulting scale is clamped, never rejected.
type WheelZoom struct {
	CaseID string  `json:"case_id"`
	Factor float64 `json:"factor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Validate checks the command
func (c WheelZoom) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	if c.Factor <= 0 {
		return errors.NewValidationError("zoom factor must be positive")
	}
	return nil
}
