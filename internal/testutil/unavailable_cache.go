package testutil

import (
	"context"
	"time"
)

// UnavailableCache simulates a cache backend that is down. Every read
// misses and every write is dropped, so callers must fall back to a
// direct rebuild.
type UnavailableCache struct{}

func NewUnavailableCache() *UnavailableCache {
	return &UnavailableCache{}
}

func (c *UnavailableCache) Get(ctx context.Context, key string) (interface{}, bool) {
	return nil, false
}

func (c *UnavailableCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
}

func (c *UnavailableCache) Delete(ctx context.Context, key string) {}

func (c *UnavailableCache) DeleteByPrefix(ctx context.Context, prefix string) {}

func (c *UnavailableCache) Flush(ctx context.Context) {}
