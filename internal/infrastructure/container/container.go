// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/reseptori/backend/internal/application/enrichment"
	"github.com/reseptori/backend/internal/application/pantry"
	"github.com/reseptori/backend/internal/application/suggestion"
	"github.com/reseptori/backend/internal/infrastructure/config"
	"github.com/reseptori/backend/internal/infrastructure/http/server"
	"github.com/reseptori/backend/internal/infrastructure/model"
	"github.com/reseptori/backend/internal/infrastructure/retailer"
	"github.com/reseptori/backend/internal/ports/inbound"
	"github.com/reseptori/backend/internal/ports/outbound"
	"github.com/reseptori/backend/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	GatewayModule,
	ModelModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MetricsModule provides the Prometheus registry
var MetricsModule = fx.Provide(
	func() *prometheus.Registry {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		return registry
	},
)

// GatewayModule provides the retailer API client
var GatewayModule = fx.Provide(
	func(registry *prometheus.Registry) *retailer.Metrics {
		return retailer.NewMetrics(registry)
	},
	fx.Annotate(
		func(cfg *config.Config, log *zap.Logger, metrics *retailer.Metrics) *retailer.Client {
			return retailer.NewClient(cfg.Retailer, log, metrics)
		},
		fx.As(new(outbound.RetailerGateway)),
	),
)

// ModelModule provides the process-wide recommender model singleton
var ModelModule = fx.Provide(
	fx.Annotate(
		func(cfg *config.Config, log *zap.Logger) *model.Provider {
			return model.NewProvider(cfg.Model, cfg.AWS, log)
		},
		fx.As(new(outbound.ModelProvider)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		func(gateway outbound.RetailerGateway, cfg *config.Config, log *zap.Logger) *enrichment.Service {
			return enrichment.NewService(gateway, cfg.Retailer, cfg.Enrichment, log)
		},
		fx.As(new(inbound.EnrichmentService)),
		fx.As(new(inbound.StoreService)),
	),
	fx.Annotate(
		func(provider outbound.ModelProvider, cfg *config.Config, log *zap.Logger) *suggestion.Service {
			return suggestion.NewService(provider, cfg.Model, log)
		},
		fx.As(new(inbound.SuggestionService)),
	),
	fx.Annotate(
		func(cfg *config.Config, log *zap.Logger) *pantry.Service {
			return pantry.NewService(cfg.Pantry, log)
		},
		fx.As(new(inbound.PantryService)),
	),
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	provider outbound.ModelProvider,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			// Warm the model off the startup path. A failed load is not
			// fatal: suggestion requests answer 503 until the process is
			// restarted with a readable checkpoint.
			go func() {
				if _, err := provider.Model(); err != nil {
					log.Warn("Model warm-up failed", zap.Error(err))
				}
			}()

			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}
