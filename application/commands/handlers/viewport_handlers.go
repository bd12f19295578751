package handlers

import (
	"context"
	"fmt"

	"casegraph/application/commands"
	"casegraph/application/commands/bus"
	"casegraph/application/services"
)

// ViewportHandler routes viewport commands to the view service.
type ViewportHandler struct {
	views *services.ViewService
}

// NewViewportHandler creates the handler.
func NewViewportHandler(views *services.ViewService) *ViewportHandler {
	return &ViewportHandler{views: views}
}

// Handle implements bus.CommandHandler.
func (h *ViewportHandler) Handle(ctx context.Context, cmd bus.Command) error {
	switch c := cmd.(type) {
	case commands.ZoomIn:
		return h.views.ZoomIn(ctx, c.CaseID)
	case commands.ZoomOut:
		return h.views.ZoomOut(ctx, c.CaseID)
	case commands.ResetViewport:
		return h.views.ResetViewport(ctx, c.CaseID)
	case commands.ZoomToNode:
		return h.views.ZoomToNode(ctx, c.CaseID, c.NodeID)
	case commands.PanViewport:
		return h.views.PanViewport(ctx, c.CaseID, c.DX, c.DY)
	case commands.WheelZoom:
		return h.views.WheelZoom(ctx, c.CaseID, c.Factor, c.X, c.Y)
	case commands.ResizeViewport:
		return h.views.ResizeViewport(ctx, c.CaseID, c.Width, c.Height)
	default:
		return fmt.Errorf("unexpected command type %T", cmd)
	}
}
