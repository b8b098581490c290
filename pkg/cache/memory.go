package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    interface{}
	expireAt time.Time
	lastUsed time.Time
}

func (m *memoryItem) expired() bool {
	return time.Now().After(m.expireAt)
}

// MemoryCache is an in-process cache with LRU eviction and a background
// sweep for expired entries.
type MemoryCache struct {
	mu      sync.Mutex
	data    map[string]*memoryItem
	maxSize int
	ticker  *time.Ticker
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxSize:         1000,
		CleanupInterval: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		data:    make(map[string]*memoryItem),
		maxSize: cfg.MaxSize,
		ticker:  time.NewTicker(cfg.CleanupInterval),
	}

	go mc.sweep()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.data) >= mc.maxSize {
		mc.evictOldest()
	}

	if expiration <= 0 {
		expiration = 7 * 24 * time.Hour
	}

	now := time.Now()
	mc.data[key] = &memoryItem{
		value:    value,
		expireAt: now.Add(expiration),
		lastUsed: now,
	}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	item, ok := mc.data[key]
	if !ok || item.expired() {
		if ok {
			delete(mc.data, key)
		}
		return ErrCacheMiss
	}

	item.lastUsed = time.Now()

	if strPtr, ok := dest.(*string); ok {
		if str, ok := item.value.(string); ok {
			*strPtr = str
			return nil
		}
	}

	*dest.(*interface{}) = item.value
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		delete(mc.data, key)
	}
	return nil
}

// DeleteByPattern drops everything. An in-process map has no key scan worth
// keeping; the sweep repopulates naturally.
func (mc *MemoryCache) DeleteByPattern(_ context.Context, _ string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.data = make(map[string]*memoryItem)
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	for _, key := range keys {
		if item, ok := mc.data[key]; ok && !item.expired() {
			return true, nil
		}
	}
	return false, nil
}

// Close stops the background sweep.
func (mc *MemoryCache) Close() error {
	if mc.ticker != nil {
		mc.ticker.Stop()
	}
	return nil
}

func (mc *MemoryCache) evictOldest() {
	var oldestKey string
	oldest := time.Now()

	for key, item := range mc.data {
		if item.lastUsed.Before(oldest) {
			oldest = item.lastUsed
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(mc.data, oldestKey)
	}
}

func (mc *MemoryCache) sweep() {
	for range mc.ticker.C {
		mc.mu.Lock()
		for key, item := range mc.data {
			if item.expired() {
				delete(mc.data, key)
			}
		}
		mc.mu.Unlock()
	}
}
