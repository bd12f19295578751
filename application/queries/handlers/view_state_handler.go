package handlers

import (
	"context"
	"fmt"

	"casegraph/application/queries"
	"casegraph/application/queries/bus"
	"casegraph/application/services"
)

// ViewStateHandler serves all read queries from the view service.
type ViewStateHandler struct {
	views *services.ViewService
}

// NewViewStateHandler creates the handler.
func NewViewStateHandler(views *services.ViewService) *ViewStateHandler {
	return &ViewStateHandler{views: views}
}

// Handle implements bus.QueryHandler.
func (h *ViewStateHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	switch q := query.(type) {
	case queries.GetViewState:
		return h.views.ViewState(ctx, q.CaseID)
	case queries.GetFacetCounts:
		return h.views.FacetCounts(ctx, q.CaseID)
	case queries.GetSelection:
		return h.views.Selection(ctx, q.CaseID)
	case queries.GetTooltip:
		return h.views.Tooltip(ctx, q.CaseID, q.NodeID, q.PointerX, q.PointerY, q.TipWidth, q.TipHeight)
	default:
		return nil, fmt.Errorf("unexpected query type %T", query)
	}
}
