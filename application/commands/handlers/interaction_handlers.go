package handlers

import (
	"context"
	"fmt"

	"casegraph/application/commands"
	"casegraph/application/commands/bus"
	"casegraph/application/services"
)

// InteractionHandler routes selection, pointer and simulation commands to
// the view service.
type InteractionHandler struct {
	views *services.ViewService
}

// NewInteractionHandler creates the handler.
func NewInteractionHandler(views *services.ViewService) *InteractionHandler {
	return &InteractionHandler{views: views}
}

// Handle implements bus.CommandHandler.
func (h *InteractionHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case commands.SelectNode:
		return h.views.SelectNode(ctx, c.CaseID, c.NodeID)
	case commands.ClearSelection:
		return h.views.ClearSelection(ctx, c.CaseID)
	case commands.PointerPress:
		return h.views.PointerPress(ctx, c.CaseID, c.NodeID, c.X, c.Y)
	case commands.PointerMove:
		return h.views.PointerMove(ctx, c.CaseID, c.X, c.Y)
	case commands.PointerRelease:
		return h.views.PointerRelease(ctx, c.CaseID, c.X, c.Y)
	case commands.ToggleSimulation:
		_, err := h.views.ToggleSimulation(ctx, c.CaseID)
		return err
	default:
		return fmt.Errorf("unexpected command type %T", cmd)
	}
}
