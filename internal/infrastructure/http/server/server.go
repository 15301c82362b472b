// Package server provides the HTTP server: compatibility API routes,
// static frontend serving and the operational endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/reseptori/backend/internal/infrastructure/config"
	"github.com/reseptori/backend/internal/infrastructure/http/handlers"
	"github.com/reseptori/backend/internal/infrastructure/http/middleware"
	"github.com/reseptori/backend/internal/ports/inbound"
)

// Server represents the HTTP server
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *chi.Mux
	server   *http.Server
	registry *prometheus.Registry

	enrichment inbound.EnrichmentService
	suggestion inbound.SuggestionService
	stores     inbound.StoreService
	pantry     inbound.PantryService
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	registry *prometheus.Registry,
	enrichment inbound.EnrichmentService,
	suggestion inbound.SuggestionService,
	stores inbound.StoreService,
	pantry inbound.PantryService,
) *Server {
	s := &Server{
		config:     cfg,
		logger:     logger,
		registry:   registry,
		enrichment: enrichment,
		suggestion: suggestion,
		stores:     stores,
		pantry:     pantry,
	}

	s.router = s.setupRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	return s
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger, s.config.Monitoring))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config.Server))
	r.Use(middleware.RateLimit(s.config.RateLimit))
	r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	r.Use(chimiddleware.Compress(5))

	if s.config.Monitoring.EnableMetrics {
		httpMetrics := middleware.NewHTTPMetrics(s.registry)
		r.Use(httpMetrics.Metrics())
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath,
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	api := handlers.NewAPIHandlers(
		s.enrichment, s.suggestion, s.stores, s.pantry,
		s.logger, s.config.App.Version,
	)

	r.Get(s.config.Monitoring.HealthCheckPath, api.HealthCheck)

	// Compatibility API surface
	r.Route("/api", func(r chi.Router) {
		r.Get("/get_rich_recipe/{recipeID}", api.GetRichRecipe)
		r.Get("/recipe_suggestions/{items}", api.RecipeSuggestions)
		r.Get("/get_stores/{zipCode}", api.GetStores)
		r.Get("/possibly_remaining_ingredients/", api.PossiblyRemainingIngredients)
	})

	// Anything else is a frontend asset; the root serves the entry
	// document.
	frontend := handlers.NewFrontendHandler(s.config.Server.FrontendDistDir, s.logger)
	r.Get("/", frontend.Index)
	r.NotFound(frontend.Asset)

	return r
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	// Enable HTTP/2
	if err := http2.ConfigureServer(s.server, nil); err != nil {
		s.logger.Error("Failed to configure HTTP/2", zap.Error(err))
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, for tests
func (s *Server) Handler() http.Handler {
	return s.router
}
