package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"casegraph/application/commands"
	"casegraph/application/commands/bus"
	"casegraph/application/queries"
	querybus "casegraph/application/queries/bus"
	"casegraph/domain/core/valueobjects"
	"casegraph/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ViewHandler handles graph data updates and view state reads
type ViewHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *errors.ErrorHandler
	logger     *zap.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *errors.ErrorHandler, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// graphDataRequest is the PUT /cases/{caseID}/graph body
type graphDataRequest struct {
	Entities      []valueobjects.EntityRecord       `json:"entities"`
	Relationships []valueobjects.RelationshipRecord `json:"relationships"`
}

// UpdateGraph handles PUT /cases/{caseID}/graph
func (h *ViewHandler) UpdateGraph(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	var req graphDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.UpdateGraphData{
		CaseID:        caseID,
		Entities:      req.Entities,
		Relationships: req.Relationships,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusAccepted, map[string]interface{}{
		"case_id":       caseID,
		"entities":      len(req.Entities),
		"relationships": len(req.Relationships),
	})
}

// GetView handles GET /cases/{caseID}/view
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetViewState{CaseID: caseID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// GetCounts handles GET /cases/{caseID}/view/counts
func (h *ViewHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetFacetCounts{CaseID: caseID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// GetTooltip handles GET /cases/{caseID}/tooltip/{nodeID}
func (h *ViewHandler) GetTooltip(w http.ResponseWriter, r *http.Request) {
	query := queries.GetTooltip{
		CaseID:    chi.URLParam(r, "caseID"),
		NodeID:    chi.URLParam(r, "nodeID"),
		PointerX:  queryFloat(r, "x"),
		PointerY:  queryFloat(r, "y"),
		TipWidth:  queryFloat(r, "w"),
		TipHeight: queryFloat(r, "h"),
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// Resize handles POST /cases/{caseID}/viewport/resize
func (h *ViewHandler) Resize(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.ResizeViewport{CaseID: caseID, Width: req.Width, Height: req.Height}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondAccepted(w, h.logger)
}

// Helper functions shared by the rest handlers.

func queryFloat(r *http.Request, key string) float64 {
	v, _ := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	return v
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

func respondAccepted(w http.ResponseWriter, logger *zap.Logger) {
	respondJSON(w, logger, http.StatusAccepted, map[string]interface{}{"accepted": true})
}
