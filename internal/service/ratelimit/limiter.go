package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens   float64
	capacity float64
	refill   float64 // tokens per second
	last     time.Time
}

// Limiter is a keyed token bucket. Each key gets its own bucket, created on
// first use with the capacity and refill rate the caller passes.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

func New() *Limiter {
	return &Limiter{buckets: make(map[string]*bucket)}
}

// Allow consumes one token for key, returning false when the bucket is dry.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refill: refillPerSec, last: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.refill
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
