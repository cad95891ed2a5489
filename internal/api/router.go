package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/vidinfra/churnalytics/internal/api/v1"
	"github.com/vidinfra/churnalytics/internal/config"
	"github.com/vidinfra/churnalytics/internal/logger"
	"github.com/vidinfra/churnalytics/internal/rest/middleware"
)

type Handlers struct {
	Health *v1.HealthHandler
	Churn  *v1.ChurnHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.LoggerWithConfig(gin.LoggerConfig{
			Output:    logger.GetGinLogger(),
			SkipPaths: []string{"/health"},
		}),
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.TenantMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	analytics := router.Group("/analytics")
	{
		analytics.GET("/churn", handlers.Churn.GetChurnAnalytics)
		analytics.GET("/churn/options", handlers.Churn.GetChurnOptions)
	}
}
