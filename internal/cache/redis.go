package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/vidinfra/churnalytics/internal/config"
	"github.com/vidinfra/churnalytics/internal/logger"
	redisClient "github.com/vidinfra/churnalytics/internal/redis"
)

// ScanCount determines how many keys to scan at once when using SCAN
const ScanCount = 100

// RedisCache implements the Cache interface using Redis. Values are stored
// as JSON strings, so Get returns a string that the caller unmarshals.
type RedisCache struct {
	client *goRedis.Client
	log    *logger.Logger
	cfg    *config.Configuration
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(client *redisClient.Client, log *logger.Logger, cfg *config.Configuration) *RedisCache {
	return &RedisCache{
		client: client.GetClient(),
		log:    log,
		cfg:    cfg,
	}
}

// Get retrieves a value from the cache
func (c *RedisCache) Get(ctx context.Context, key string) (interface{}, bool) {
	if !c.cfg.Cache.Enabled {
		return nil, false
	}

	span := StartCacheSpan(ctx, "redis", "get", map[string]interface{}{"key": key})
	defer FinishSpan(span)

	value, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, goRedis.Nil) {
			// an unreachable cache degrades to a miss, never to a failure
			c.log.Errorw("redis GET error", "key", key, "error", err)
			SetSpanError(span, err)
		}
		return nil, false
	}

	return value, true
}

// Set adds a value to the cache with the specified expiration
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.cfg.Cache.Enabled {
		return
	}

	span := StartCacheSpan(ctx, "redis", "set", map[string]interface{}{"key": key})
	defer FinishSpan(span)

	payload, err := json.Marshal(value)
	if err != nil {
		c.log.Errorw("redis SET marshal error", "key", key, "error", err)
		SetSpanError(span, err)
		return
	}

	if err := c.client.Set(ctx, key, payload, expiration).Err(); err != nil {
		c.log.Errorw("redis SET error", "key", key, "error", err)
		SetSpanError(span, err)
	}
}

// Delete removes a key from the cache
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if !c.cfg.Cache.Enabled {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.Errorw("redis DEL error", "key", key, "error", err)
	}
}

// DeleteByPrefix removes all keys with the given prefix
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) {
	if !c.cfg.Cache.Enabled {
		return
	}

	iter := c.client.Scan(ctx, 0, prefix+"*", ScanCount).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Errorw("redis DEL error", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Errorw("redis SCAN error", "prefix", prefix, "error", err)
	}
}

// Flush removes all items from the cache
func (c *RedisCache) Flush(ctx context.Context) {
	if !c.cfg.Cache.Enabled {
		return
	}
	if err := c.client.FlushDB(ctx).Err(); err != nil {
		c.log.Errorw("redis FLUSHDB error", "error", err)
	}
}
