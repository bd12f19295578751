package handlers

import (
	"encoding/json"
	"net/http"

	"casegraph/application/commands"
	"casegraph/application/commands/bus"
	"casegraph/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FilterHandler handles facet and search requests
type FilterHandler struct {
	commandBus *bus.CommandBus
	errors     *errors.ErrorHandler
	logger     *zap.Logger
}

// NewFilterHandler creates a new filter handler
func NewFilterHandler(commandBus *bus.CommandBus, errorHandler *errors.ErrorHandler, logger *zap.Logger) *FilterHandler {
	return &FilterHandler{
		commandBus: commandBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// ToggleDomain handles POST /cases/{caseID}/filters/domains/{domain}/toggle
func (h *FilterHandler) ToggleDomain(w http.ResponseWriter, r *http.Request) {
	cmd := commands.ToggleDomainFilter{
		CaseID: chi.URLParam(r, "caseID"),
		Domain: chi.URLParam(r, "domain"),
	}
	h.send(w, r, cmd)
}

// ToggleType handles POST /cases/{caseID}/filters/types/{type}/toggle
func (h *FilterHandler) ToggleType(w http.ResponseWriter, r *http.Request) {
	cmd := commands.ToggleTypeFilter{
		CaseID: chi.URLParam(r, "caseID"),
		Type:   chi.URLParam(r, "type"),
	}
	h.send(w, r, cmd)
}

// queryRequest is the body for keyword and search updates
type queryRequest struct {
	Query string `json:"query"`
}

// SetKeyword handles PUT /cases/{caseID}/filters/keyword
func (h *FilterHandler) SetKeyword(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.SetKeywordFilter{
		CaseID:  chi.URLParam(r, "caseID"),
		Keyword: req.Query,
	}
	h.send(w, r, cmd)
}

// SetSearch handles PUT /cases/{caseID}/filters/search
func (h *FilterHandler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.SetSearchQuery{
		CaseID: chi.URLParam(r, "caseID"),
		Query:  req.Query,
	}
	h.send(w, r, cmd)
}

func (h *FilterHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondAccepted(w, h.logger)
}
