package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/vidinfra/churnalytics/internal/api"
	v1 "github.com/vidinfra/churnalytics/internal/api/v1"
	"github.com/vidinfra/churnalytics/internal/cache"
	"github.com/vidinfra/churnalytics/internal/clickhouse"
	"github.com/vidinfra/churnalytics/internal/config"
	"github.com/vidinfra/churnalytics/internal/logger"
	"github.com/vidinfra/churnalytics/internal/repository"
	"github.com/vidinfra/churnalytics/internal/sentry"
	"github.com/vidinfra/churnalytics/internal/service"
	"github.com/vidinfra/churnalytics/internal/validator"
)

// @title Churnalytics API
// @version 1.0
// @description Subscriber churn analytics service
// @BasePath /v1

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			sentry.NewSentryService,

			// Cache
			cache.Initialize,

			// Clickhouse
			clickhouse.NewClickHouseStore,

			// Repositories
			repository.NewSubscriptionEventRepository,

			// Services
			service.NewServiceParams,
			service.NewChurnService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			startAPIServer,
		),
	)

	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	churnService service.ChurnService,
) api.Handlers {
	return api.Handlers{
		Health: v1.NewHealthHandler(logger),
		Churn:  v1.NewChurnHandler(churnService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
