package rest

import (
	"net/http"
	"strings"

	"casegraph/application/commands/bus"
	querybus "casegraph/application/queries/bus"
	"casegraph/infrastructure/config"
	"casegraph/interfaces/http/rest/handlers"
	"casegraph/interfaces/http/rest/middleware"
	v1 "casegraph/interfaces/http/rest/v1"
	"casegraph/pkg/auth"
	"casegraph/pkg/errors"
	"casegraph/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg          *config.Config
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	errorHandler *errors.ErrorHandler
	rateLimiter  *auth.DistributedRateLimiter
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *errors.ErrorHandler,
	rateLimiter *auth.DistributedRateLimiter,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:          cfg,
		commandBus:   commandBus,
		queryBus:     queryBus,
		errorHandler: errorHandler,
		rateLimiter:  rateLimiter,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	router.Use(versionMiddleware)

	if rt.cfg.EnableTracing {
		router.Use(observability.Middleware("casegraph-api"))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.casegraph.io"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes (legacy, read only)
	router.Mount("/api/v1", v1.NewRouter(rt.queryBus, rt.logger))

	viewHandler := handlers.NewViewHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	interactionHandler := handlers.NewInteractionHandler(rt.commandBus, rt.queryBus, rt.errorHandler, rt.logger)
	viewportHandler := handlers.NewViewportHandler(rt.commandBus, rt.errorHandler, rt.logger)
	filterHandler := handlers.NewFilterHandler(rt.commandBus, rt.errorHandler, rt.logger)

	// API v2 routes (current)
	router.Route("/api/v2", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.cfg, rt.rateLimiter, rt.logger))

		r.Route("/cases/{caseID}", func(r chi.Router) {
			// Graph data and view reads
			r.Put("/graph", viewHandler.UpdateGraph)
			r.Get("/view", viewHandler.GetView)
			r.Get("/view/counts", viewHandler.GetCounts)
			r.Get("/tooltip/{nodeID}", viewHandler.GetTooltip)

			// Selection
			r.Get("/selection", interactionHandler.GetSelection)
			r.Post("/selection/{nodeID}", interactionHandler.Select)
			r.Delete("/selection", interactionHandler.ClearSelection)

			// Pointer gestures
			r.Post("/pointer/press", interactionHandler.PointerPress)
			r.Post("/pointer/move", interactionHandler.PointerMove)
			r.Post("/pointer/release", interactionHandler.PointerRelease)

			// Simulation control
			r.Get("/simulation", interactionHandler.GetSimulation)
			r.Post("/simulation/toggle", interactionHandler.ToggleSimulation)

			// Viewport
			r.Route("/viewport", func(r chi.Router) {
				r.Post("/zoom-in", viewportHandler.ZoomIn)
				r.Post("/zoom-out", viewportHandler.ZoomOut)
				r.Post("/reset", viewportHandler.Reset)
				r.Post("/zoom-to/{nodeID}", viewportHandler.ZoomToNode)
				r.Post("/pan", viewportHandler.Pan)
				r.Post("/wheel", viewportHandler.Wheel)
				r.Post("/resize", viewHandler.Resize)
			})

			// Filters and search
			r.Route("/filters", func(r chi.Router) {
				r.Post("/domains/{domain}/toggle", filterHandler.ToggleDomain)
				r.Post("/types/{type}/toggle", filterHandler.ToggleType)
				r.Put("/keyword", filterHandler.SetKeyword)
				r.Put("/search", filterHandler.SetSearch)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version := "v2"
		if strings.Contains(r.URL.Path, "/api/v1") {
			version = "v1"
		}

		w.Header().Set("X-API-Version", version)
		w.Header().Set("X-API-Latest", "v2")

		if version == "v1" {
			w.Header().Set("X-API-Deprecated", "true")
		}

		next.ServeHTTP(w, r)
	})
}
