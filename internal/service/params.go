package service

import (
	"github.com/vidinfra/churnalytics/internal/cache"
	"github.com/vidinfra/churnalytics/internal/config"
	"github.com/vidinfra/churnalytics/internal/domain/subscription"
	"github.com/vidinfra/churnalytics/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache

	// Repositories
	SubscriptionEventRepo subscription.Repository
}

// NewServiceParams builds the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	subscriptionEventRepo subscription.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:                logger,
		Config:                config,
		Cache:                 cache,
		SubscriptionEventRepo: subscriptionEventRepo,
	}
}
