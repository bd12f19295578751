package handlers

import (
	"encoding/json"
	"net/http"

	"casegraph/application/commands"
	"casegraph/application/commands/bus"
	"casegraph/application/queries"
	querybus "casegraph/application/queries/bus"
	"casegraph/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InteractionHandler handles selection, pointer and simulation requests
type InteractionHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *errors.ErrorHandler
	logger     *zap.Logger
}

// NewInteractionHandler creates a new interaction handler
func NewInteractionHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errorHandler *errors.ErrorHandler, logger *zap.Logger) *InteractionHandler {
	return &InteractionHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// GetSelection handles GET /cases/{caseID}/selection
func (h *InteractionHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetSelection{CaseID: caseID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// Select handles POST /cases/{caseID}/selection/{nodeID}
func (h *InteractionHandler) Select(w http.ResponseWriter, r *http.Request) {
	cmd := commands.SelectNode{
		CaseID: chi.URLParam(r, "caseID"),
		NodeID: chi.URLParam(r, "nodeID"),
	}
	h.send(w, r, cmd)
}

// ClearSelection handles DELETE /cases/{caseID}/selection
func (h *InteractionHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ClearSelection{CaseID: chi.URLParam(r, "caseID")})
}

// pointerRequest is the body for pointer press and move events
type pointerRequest struct {
	NodeID string  `json:"node_id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// PointerPress handles POST /cases/{caseID}/pointer/press
func (h *InteractionHandler) PointerPress(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.PointerPress{
		CaseID: chi.URLParam(r, "caseID"),
		NodeID: req.NodeID,
		X:      req.X,
		Y:      req.Y,
	}
	h.send(w, r, cmd)
}

// PointerMove handles POST /cases/{caseID}/pointer/move
func (h *InteractionHandler) PointerMove(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.PointerMove{
		CaseID: chi.URLParam(r, "caseID"),
		X:      req.X,
		Y:      req.Y,
	}
	h.send(w, r, cmd)
}

// PointerRelease handles POST /cases/{caseID}/pointer/release
func (h *InteractionHandler) PointerRelease(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.PointerRelease{
		CaseID: chi.URLParam(r, "caseID"),
		X:      req.X,
		Y:      req.Y,
	}
	h.send(w, r, cmd)
}

// GetSimulation handles GET /cases/{caseID}/simulation
func (h *InteractionHandler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")

	result, err := h.queryBus.Ask(r.Context(), queries.GetViewState{CaseID: caseID})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	state, ok := result.(*queries.ViewStateResult)
	if !ok {
		h.errors.Handle(w, r, errors.NewInternalError("unexpected query result"))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, state.Simulation)
}

// ToggleSimulation handles POST /cases/{caseID}/simulation/toggle
func (h *InteractionHandler) ToggleSimulation(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ToggleSimulation{CaseID: chi.URLParam(r, "caseID")})
}

func (h *InteractionHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondAccepted(w, h.logger)
}
