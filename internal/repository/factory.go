package repository

import (
	ch "github.com/vidinfra/churnalytics/internal/clickhouse"
	"github.com/vidinfra/churnalytics/internal/domain/subscription"
	"github.com/vidinfra/churnalytics/internal/logger"
	clickhouseRepo "github.com/vidinfra/churnalytics/internal/repository/clickhouse"
)

// NewSubscriptionEventRepository creates the raw subscription event store
func NewSubscriptionEventRepository(store *ch.ClickHouseStore, logger *logger.Logger) subscription.Repository {
	return clickhouseRepo.NewSubscriptionEventRepository(store, logger)
}
