// Package rest assembles the HTTP router.
package rest

import (
	"net/http"

	"samarth/internal/config"
	"samarth/internal/infrastructure/observability"
	"samarth/internal/interfaces/http/handlers"
	"samarth/internal/middleware"
	"samarth/pkg/api"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	questions *handlers.QuestionHandler
	health    *handlers.HealthHandler
	collector *observability.Collector
	cfg       *config.Config
	logger    *zap.Logger
}

// NewRouter creates a new router instance. collector may be nil when
// metrics are disabled.
func NewRouter(
	questions *handlers.QuestionHandler,
	health *handlers.HealthHandler,
	collector *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		questions: questions,
		health:    health,
		collector: collector,
		cfg:       cfg,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	if rt.cfg.Tracing.Enabled {
		router.Use(observability.TracingMiddleware(rt.cfg.Tracing.ServiceName))
	}
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Recovery(rt.logger))
	if rt.collector != nil {
		router.Use(observability.MetricsMiddleware(rt.collector))
	}

	if rt.cfg.CORS.Enabled {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.CORS.AllowedOrigins,
			AllowedMethods: rt.cfg.CORS.AllowedMethods,
			AllowedHeaders: rt.cfg.CORS.AllowedHeaders,
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         rt.cfg.CORS.MaxAge,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.Error(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		api.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Probes
	router.Get("/health", rt.health.Health)
	router.Get("/ready", rt.health.Ready)
	if rt.collector != nil && rt.cfg.Metrics.Enabled {
		router.Handle(rt.cfg.Metrics.Path, rt.collector.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(rt.cfg.Server.RequestTimeout))

		r.Post("/ask", rt.questions.Ask)
		r.Get("/suggestions", rt.questions.Suggestions)
		r.Get("/dataset", rt.questions.Dataset)
	})

	return router
}
