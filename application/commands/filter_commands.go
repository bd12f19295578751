package commands

import "casegraph/pkg/errors"

// ToggleDomainFilter flips one domain's inclusion in the filter.
type ToggleDomainFilter struct {
	CaseID string `json:"case_id"`
	Domain string `json:"domain"`
}

// Validate checks the command
func (c ToggleDomainFilter) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	if c.Domain == "" {
		return errors.NewValidationError("domain is required")
	}
	return nil
}

// ToggleTypeFilter flips one entity type's inclusion in the filter.
type ToggleTypeFilter struct {
	CaseID string `json:"case_id"`
	Type   string `json:"type"`
}

// Validate checks the command
func (c ToggleTypeFilter) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	if c.Type == "" {
		return errors.NewValidationError("type is required")
	}
	return nil
}

// SetKeywordFilter replaces the keyword filter terms. An empty keyword
// clears keyword filtering.
type SetKeywordFilter struct {
	CaseID  string `json:"case_id"`
	Keyword string `json:"keyword"`
}

// Validate checks the command
func (c SetKeywordFilter) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}

// SetSearchQuery replaces the non-destructive highlight query.
type SetSearchQuery struct {
	CaseID string `json:"case_id"`
	Query  string `json:"query"`
}

// Validate checks the command
func (c SetSearchQuery) Validate() error {
	if c.CaseID == "" {
		return errors.NewValidationError("case_id is required")
	}
	return nil
}
