package handlers

import (
	"context"
	"fmt"

	"casegraph/application/commands"
	"casegraph/application/commands/bus"
	"casegraph/application/services"
)

// UpdateGraphHandler applies a data update to a case's view.
type UpdateGraphHandler struct {
	views *services.ViewService
}

// NewUpdateGraphHandler creates the handler.
func NewUpdateGraphHandler(views *services.ViewService) *UpdateGraphHandler {
	return &UpdateGraphHandler{views: views}
}

// Handle implements bus.CommandHandler.
func (h *UpdateGraphHandler) Handle(ctx context.Context, cmd bus.Command) error {
	update, ok := cmd.(commands.UpdateGraphData)
	if !ok {
		return fmt.Errorf("unexpected command type %T", cmd)
	}
	return h.views.UpdateGraphData(ctx, update.CaseID, update.Entities, update.Relationships)
}
