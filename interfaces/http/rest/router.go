package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"lists-ms/application/ports"
	"lists-ms/interfaces/http/rest/handlers"
	"lists-ms/interfaces/http/rest/middleware"
	"lists-ms/pkg/common"
	pkgerrors "lists-ms/pkg/errors"
	"lists-ms/pkg/observability"
)

// Options holds the router switches taken from configuration
type Options struct {
	EnableCORS    bool
	CORSOrigins   []string
	EnableMetrics bool
}

// Router creates and configures the HTTP router
type Router struct {
	lists         *handlers.ListHandler
	tasks         *handlers.TaskHandler
	authenticator *middleware.Authenticator
	errors        *pkgerrors.ErrorHandler
	collector     *observability.Collector
	tracer        *observability.Tracer
	health        []ports.HealthChecker
	options       Options
	logger        *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	listHandler *handlers.ListHandler,
	taskHandler *handlers.TaskHandler,
	authenticator *middleware.Authenticator,
	errHandler *pkgerrors.ErrorHandler,
	collector *observability.Collector,
	tracer *observability.Tracer,
	health []ports.HealthChecker,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		lists:         listHandler,
		tasks:         taskHandler,
		authenticator: authenticator,
		errors:        errHandler,
		collector:     collector,
		tracer:        tracer,
		health:        health,
		options:       options,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.collector != nil {
		router.Use(rt.collector.HTTPMiddleware)
	}
	if rt.tracer != nil {
		router.Use(rt.tracer.Middleware)
	}

	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.options.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Location", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.options.EnableMetrics && rt.collector != nil {
		router.Handle("/metrics", rt.collector.Handler())
	}

	// The gateway stage maps the resource root onto "/"; local servers and
	// clients that prefer a prefix use /v1/lists.
	router.Route("/v1/lists", rt.apiRoutes)
	router.Group(rt.apiRoutes)

	return router
}

func (rt *Router) apiRoutes(r chi.Router) {
	r.Use(rt.authenticator.Middleware)

	r.Get("/", rt.lists.ReadAll)
	r.Post("/", rt.lists.Create)
	r.Put("/{uuid}", rt.lists.Update)
	r.Delete("/{uuid}", rt.lists.Delete)

	r.Post("/{uuid}/tasks", rt.tasks.Create)
	r.Put("/{uuid}/tasks/{taskUuid}", rt.tasks.Update)
	r.Delete("/{uuid}/tasks/{taskUuid}", rt.tasks.Delete)
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck pings every backing store
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	for _, checker := range rt.health {
		if err := checker.Ping(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			common.RespondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	common.RespondJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
