package cache

import (
	"context"
	"time"
)

// LayeredCache is a two-level cache: an in-process L1 in front of Redis.
// Writes go through to Redis; reads fill L1 on a miss.
type LayeredCache struct {
	mem   *MemoryCache
	redis *RedisCache
}

// NewLayeredCache creates a layered cache over an existing Redis cache.
func NewLayeredCache(redisCache *RedisCache, opts ...LayeredOption) *LayeredCache {
	cfg := &LayeredConfig{
		MemoryMaxSize: 1000,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &LayeredCache{
		mem:   NewMemoryCache(WithMemoryMaxSize(cfg.MemoryMaxSize)),
		redis: redisCache,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.redis.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.mem.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.mem.Get(ctx, key, dest); err == nil {
		return nil
	}

	if err := lc.redis.Get(ctx, key, dest); err != nil {
		return err
	}

	// Backfill L1 with the value, not the pointer dest happens to be.
	if sp, ok := dest.(*string); ok {
		_ = lc.mem.Set(ctx, key, *sp, 0)
	}
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.mem.Delete(ctx, keys...)
	return lc.redis.Delete(ctx, keys...)
}

func (lc *LayeredCache) DeleteByPattern(ctx context.Context, pattern string) error {
	_ = lc.mem.DeleteByPattern(ctx, pattern)
	return lc.redis.DeleteByPattern(ctx, pattern)
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	return lc.redis.Exists(ctx, keys...)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.mem.Close()
	return lc.redis.Close()
}
