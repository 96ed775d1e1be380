// Package respcache caches propagated sample sequences by catalog id and
// horizon so repeated predict calls for the same object do not re-run SGP4.
// Entries expire after a TTL; expired entries are evicted lazily on lookup
// and in bulk by a background sweep.
package respcache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qu4rkn3t/NEOGuard/internal/metrics"
	"github.com/qu4rkn3t/NEOGuard/internal/trajectory"
)

// Config holds cache configuration.
type Config struct {
	TTL           time.Duration // entry lifetime (default: 5m)
	SweepInterval time.Duration // background eviction interval (default: 1m)
}

type key struct {
	noradID int
	minutes int
}

type entry struct {
	samples     []trajectory.Sample
	generatedAt time.Time
}

// Cache is a TTL cache of propagated sample sequences.
// Safe for concurrent use by multiple goroutines.
type Cache struct {
	mu      sync.RWMutex
	entries map[key]*entry

	config Config
	logger *slog.Logger

	// Counters (lock-free).
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a cache with the given configuration.
func New(config Config, logger *slog.Logger) *Cache {
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = time.Minute
	}
	return &Cache{
		entries: make(map[key]*entry),
		config:  config,
		logger:  logger,
	}
}

// Get returns the cached samples for (noradID, minutes), or nil on a miss or
// an expired entry.
func (c *Cache) Get(noradID, minutes int) []trajectory.Sample {
	k := key{noradID: noradID, minutes: minutes}

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()

	if ok && time.Since(e.generatedAt) <= c.config.TTL {
		c.hits.Add(1)
		metrics.IncCacheHits()
		return e.samples
	}

	if ok {
		// Expired: evict eagerly so the map does not accumulate stale keys.
		c.mu.Lock()
		if cur, still := c.entries[k]; still && cur == e {
			delete(c.entries, k)
			c.evictions.Add(1)
		}
		c.mu.Unlock()
	}

	c.misses.Add(1)
	metrics.IncCacheMisses()
	return nil
}

// Put stores samples for (noradID, minutes).
func (c *Cache) Put(noradID, minutes int, samples []trajectory.Sample) {
	k := key{noradID: noradID, minutes: minutes}
	c.mu.Lock()
	c.entries[k] = &entry{samples: samples, generatedAt: time.Now()}
	c.mu.Unlock()
}

// Len returns the number of cached entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns hit, miss, and eviction counts.
func (c *Cache) Stats() (hits, misses, evictions int64) {
	return c.hits.Load(), c.misses.Load(), c.evictions.Load()
}

// Start runs the background sweep until the context is cancelled.
func (c *Cache) Start(ctx context.Context) {
	ticker := time.NewTicker(c.config.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-ctx.Done():
			return
		}
	}
}

// sweep removes every expired entry.
func (c *Cache) sweep() {
	cutoff := time.Now().Add(-c.config.TTL)
	var evicted int

	c.mu.Lock()
	for k, e := range c.entries {
		if e.generatedAt.Before(cutoff) {
			delete(c.entries, k)
			evicted++
		}
	}
	remaining := len(c.entries)
	c.mu.Unlock()

	if evicted > 0 {
		c.evictions.Add(int64(evicted))
		c.logger.Debug("cache sweep", "evicted", evicted, "remaining", remaining)
	}
}
