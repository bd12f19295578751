package v1

import (
	"encoding/json"
	"net/http"

	"casegraph/application/queries"
	querybus "casegraph/application/queries/bus"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates the legacy v1 API router. v1 is read only: clients that
// predate the interactive API can still poll view state and facet counts.
func NewRouter(queryBus *querybus.QueryBus, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	v1 := router.PathPrefix("/api/v1").Subrouter()

	h := &legacyHandler{queryBus: queryBus, logger: logger}

	v1.HandleFunc("/cases/{caseID}/graph-data", h.getGraphData).Methods("GET")
	v1.HandleFunc("/cases/{caseID}/view", h.getView).Methods("GET")
	v1.HandleFunc("/cases/{caseID}/view/counts", h.getCounts).Methods("GET")
	v1.HandleFunc("/health", healthCheck).Methods("GET")

	v1.Use(versionHeaders)

	return router
}

type legacyHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// legacyNode and legacyLink are the flat graph-data shape the previous
// frontend consumed.
type legacyNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type legacyLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type legacyGraphData struct {
	Nodes []legacyNode `json:"nodes"`
	Links []legacyLink `json:"links"`
}

func (h *legacyHandler) getGraphData(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseID"]

	result, err := h.queryBus.Ask(r.Context(), queries.GetViewState{CaseID: caseID})
	if err != nil {
		h.respondError(w, http.StatusNotFound, "View not found")
		return
	}

	state, ok := result.(*queries.ViewStateResult)
	if !ok {
		h.respondError(w, http.StatusInternalServerError, "Unexpected query result")
		return
	}

	data := legacyGraphData{
		Nodes: make([]legacyNode, 0, len(state.Nodes)),
		Links: make([]legacyLink, 0, len(state.Edges)),
	}
	for _, n := range state.Nodes {
		data.Nodes = append(data.Nodes, legacyNode{
			ID:    n.ID,
			Label: n.Name,
			Type:  n.Type,
			X:     n.X,
			Y:     n.Y,
		})
	}
	for _, e := range state.Edges {
		data.Links = append(data.Links, legacyLink{Source: e.Source, Target: e.Target})
	}

	h.respondJSON(w, http.StatusOK, data)
}

func (h *legacyHandler) getView(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseID"]

	result, err := h.queryBus.Ask(r.Context(), queries.GetViewState{CaseID: caseID})
	if err != nil {
		h.respondError(w, http.StatusNotFound, "View not found")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *legacyHandler) getCounts(w http.ResponseWriter, r *http.Request) {
	caseID := mux.Vars(r)["caseID"]

	result, err := h.queryBus.Ask(r.Context(), queries.GetFacetCounts{CaseID: caseID})
	if err != nil {
		h.respondError(w, http.StatusNotFound, "View not found")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

func (h *legacyHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *legacyHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}

// versionHeaders adds API version headers to responses
func versionHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		w.Header().Set("X-API-Deprecated", "true")
		next.ServeHTTP(w, r)
	})
}

// healthCheck provides a health check endpoint
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","version":"v1"}`))
}
