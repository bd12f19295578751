package handlers

import (
	"context"
	"fmt"

	"casegraph/application/commands"
	"casegraph/application/commands/bus"
	"casegraph/application/services"
)

// FilterHandler routes filter commands to the view service.
type FilterHandler struct {
	views *services.ViewService
}

// NewFilterHandler creates the handler.
func NewFilterHandler(views *services.ViewService) *FilterHandler {
	return &FilterHandler{views: views}
}

// Handle implements bus.CommandHandler.
func (h *FilterHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case commands.ToggleDomainFilter:
		return h.views.ToggleDomainFilter(ctx, c.CaseID, c.Domain)
	case commands.ToggleTypeFilter:
		return h.views.ToggleTypeFilter(ctx, c.CaseID, c.Type)
	case commands.SetKeywordFilter:
		return h.views.SetKeywordFilter(ctx, c.CaseID, c.Keyword)
	case commands.SetSearchQuery:
		return h.views.SetSearchQuery(ctx, c.CaseID, c.Query)
	default:
		return fmt.Errorf("unexpected command type %T", cmd)
	}
}
