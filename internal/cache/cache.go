// Package cache implements the bounded response cache that maps a
// request fingerprint to a previously normalized result. Eviction is
// pure FIFO by insertion order with no TTL: an entry survives until
// capacity pressure pushes it out, and a read never promotes it.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"helphive-gateway/internal/metrics"
	"helphive-gateway/internal/state"
	"helphive-gateway/pkg/logging/logging"

	"go.uber.org/zap"
)

// DefaultCapacity bounds the persisted cache to 50 entries.
const DefaultCapacity = 50

// ResponseCache stores pipeline results inside the persisted usage
// blob, sharing the state manager's single-writer discipline.
type ResponseCache struct {
	mgr      *state.Manager
	capacity int
}

func NewResponseCache(mgr *state.Manager, capacity int) *ResponseCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ResponseCache{mgr: mgr, capacity: capacity}
}

// Get returns the cached value for key, if present.
func (c *ResponseCache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	start := time.Now()

	var value json.RawMessage
	var hit bool
	c.mgr.View(ctx, func(s *state.UsageState) {
		for _, e := range s.Cache {
			if e.Key == key {
				value = e.Value
				hit = true
				return
			}
		}
	})

	result := "miss"
	if hit {
		result = "hit"
		metrics.CacheHitsTotal.Inc()
	}
	logging.L(ctx).Debug("response_cache_get",
		zap.String("cache_result", result),
		zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000.0),
	)

	return value, hit
}

// Put inserts value under key. An existing key is overwritten in place
// (keeping its slot in the eviction order); otherwise the oldest entry
// is evicted once the cache is full.
func (c *ResponseCache) Put(ctx context.Context, key string, value json.RawMessage) {
	now := c.mgr.Now()

	var evicted string
	c.mgr.Update(ctx, func(s *state.UsageState) {
		for i := range s.Cache {
			if s.Cache[i].Key == key {
				s.Cache[i].Value = value
				s.Cache[i].InsertedAt = now
				return
			}
		}
		if len(s.Cache) >= c.capacity {
			evicted = s.Cache[0].Key
			s.Cache = s.Cache[1:]
		}
		s.Cache = append(s.Cache, state.CacheEntry{
			Key:        key,
			InsertedAt: now,
			Value:      value,
		})
	})

	if evicted != "" {
		logging.L(ctx).Debug("response_cache_evict",
			zap.String("evicted_key", truncateKey(evicted)),
			zap.Int("capacity", c.capacity),
		)
	}
}

// Len returns the current number of cached entries.
func (c *ResponseCache) Len(ctx context.Context) int {
	var n int
	c.mgr.View(ctx, func(s *state.UsageState) {
		n = len(s.Cache)
	})
	return n
}

// truncateKey keeps log lines readable: fingerprints embed the raw
// user text verbatim.
func truncateKey(key string) string {
	const maxLen = 80
	if len(key) <= maxLen {
		return key
	}
	return key[:maxLen] + "..."
}
