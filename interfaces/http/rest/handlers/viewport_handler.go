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

// ViewportHandler handles camera requests
type ViewportHandler struct {
	commandBus *bus.CommandBus
	errors     *errors.ErrorHandler
	logger     *zap.Logger
}

// NewViewportHandler creates a new viewport handler
func NewViewportHandler(commandBus *bus.CommandBus, errorHandler *errors.ErrorHandler, logger *zap.Logger) *ViewportHandler {
	return &ViewportHandler{
		commandBus: commandBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// ZoomIn handles POST /cases/{caseID}/viewport/zoom-in
func (h *ViewportHandler) ZoomIn(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ZoomIn{CaseID: chi.URLParam(r, "caseID")})
}

// ZoomOut handles POST /cases/{caseID}/viewport/zoom-out
func (h *ViewportHandler) ZoomOut(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ZoomOut{CaseID: chi.URLParam(r, "caseID")})
}

// Reset handles POST /cases/{caseID}/viewport/reset
func (h *ViewportHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ResetViewport{CaseID: chi.URLParam(r, "caseID")})
}

// ZoomToNode handles POST /cases/{caseID}/viewport/zoom-to/{nodeID}
func (h *ViewportHandler) ZoomToNode(w http.ResponseWriter, r *http.Request) {
	cmd := commands.ZoomToNode{
		CaseID: chi.URLParam(r, "caseID"),
		NodeID: chi.URLParam(r, "nodeID"),
	}
	h.send(w, r, cmd)
}

// Pan handles POST /cases/{caseID}/viewport/pan
func (h *ViewportHandler) Pan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.PanViewport{
		CaseID: chi.URLParam(r, "caseID"),
		DX:     req.DX,
		DY:     req.DY,
	}
	h.send(w, r, cmd)
}

// Wheel handles POST /cases/{caseID}/viewport/wheel
func (h *ViewportHandler) Wheel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Factor float64 `json:"factor"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.Handle(w, r, errors.NewValidationError("invalid request body"))
		return
	}

	cmd := commands.WheelZoom{
		CaseID: chi.URLParam(r, "caseID"),
		Factor: req.Factor,
		X:      req.X,
		Y:      req.Y,
	}
	h.send(w, r, cmd)
}

func (h *ViewportHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondAccepted(w, h.logger)
}
