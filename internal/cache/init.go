package cache

import (
	"github.com/vidinfra/churnalytics/internal/config"
	"github.com/vidinfra/churnalytics/internal/logger"
	redisClient "github.com/vidinfra/churnalytics/internal/redis"
)

// Initialize picks the cache backend from configuration. The redis backend
// needs a live connection; when it is unavailable the service degrades to
// the in-process cache instead of failing startup.
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	if cfg.Cache.Backend == "redis" {
		client, err := redisClient.NewClient(cfg, log)
		if err == nil {
			log.Info("using redis cache backend")
			return NewRedisCache(client, log, cfg)
		}
		log.Warnw("redis unavailable, falling back to in-memory cache", "error", err)
	}

	log.Info("using in-memory cache backend")
	return NewInMemoryCache(cfg)
}
