package commands

import (
	"casegraph/domain/core/valueobjects"
	"casegraph/pkg/errors"
)

// UpdateGraphData replaces a case's entity and relationship collections and
// rebuilds the view model from them.
type UpdateGraphData struct {
	CaseID        string                             `json:"case_id"`
	Entities      []valueobjects.EntityRecord        `json:"entities"`
	Relationships []valueobjects.RelationshipRecord  `json:"relationships"`
}

// Validate checks the command
func (c UpdateGraphData) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// ResizeViewport records new viewport dimensions for a case's view.
type ResizeViewport struct {
	CaseID string  `json:"case_id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Validate checks the command
func (c ResizeViewport) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.NewValidationError("viewport dimensions must be positive")
	}
	return nil
}
