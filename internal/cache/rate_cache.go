package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/GTDGit/gtd_jewel/internal/metrics"
	"github.com/GTDGit/gtd_jewel/internal/models"
)

// DefaultRateTTL is how long a fetched snapshot is served without refresh.
const DefaultRateTTL = 30 * time.Minute

// DefaultRetryTTL is how long a fallback snapshot is held before the sources
// are tried again.
const DefaultRetryTTL = 30 * time.Second

const refreshKey = "metal-rates"

// Refresher produces a fresh snapshot. It must always return one; fallback
// reports that no live source answered.
type Refresher interface {
	Refresh(ctx context.Context) (snap *models.MetalRateSnapshot, fallback bool)
}

// RateCache serves the last valid metal rate snapshot and refreshes it lazily
// when it is missing or older than the TTL. Concurrent misses share a single
// in-flight refresh.
type RateCache struct {
	refresher Refresher
	store     SnapshotStore
	ttl       time.Duration
	retryTTL  time.Duration
	now       func() time.Time
	group     singleflight.Group
}

// Option customizes a RateCache.
type Option func(*RateCache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *RateCache) { c.now = now }
}

// WithRetryTTL overrides how long a fallback snapshot is held.
func WithRetryTTL(ttl time.Duration) Option {
	return func(c *RateCache) {
		if ttl > 0 {
			c.retryTTL = ttl
		}
	}
}

// WithStore overrides the default in-memory store.
func WithStore(store SnapshotStore) Option {
	return func(c *RateCache) { c.store = store }
}

// NewRateCache creates an empty RateCache.
func NewRateCache(refresher Refresher, ttl time.Duration, opts ...Option) *RateCache {
	if ttl <= 0 {
		ttl = DefaultRateTTL
	}
	c := &RateCache{
		refresher: refresher,
		store:     NewMemoryStore(),
		ttl:       ttl,
		retryTTL:  DefaultRetryTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retryTTL > c.ttl {
		c.retryTTL = c.ttl
	}
	return c
}

// TTL returns the configured freshness window.
func (c *RateCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the current snapshot and whether it was served from cache.
// A held fallback snapshot is never reported as cached.
func (c *RateCache) Get(ctx context.Context) (*models.MetalRateSnapshot, bool) {
	if entry := c.load(ctx); entry.Fresh(c.now()) {
		metrics.RateCacheLookups.WithLabelValues("hit").Inc()
		snap := entry.Snapshot
		return &snap, !entry.Fallback
	}
	metrics.RateCacheLookups.WithLabelValues("miss").Inc()
	return c.refresh(ctx, false), false
}

// ForceRefresh refreshes the snapshot regardless of its age.
func (c *RateCache) ForceRefresh(ctx context.Context) *models.MetalRateSnapshot {
	return c.refresh(ctx, true)
}

// Entry returns the stored entry, if any, without triggering a refresh.
func (c *RateCache) Entry(ctx context.Context) (*models.RateCacheEntry, bool) {
	entry := c.load(ctx)
	return entry, entry != nil
}

// Fresh reports whether entry is within its TTL by the cache's clock.
func (c *RateCache) Fresh(entry *models.RateCacheEntry) bool {
	return entry.Fresh(c.now())
}

func (c *RateCache) refresh(ctx context.Context, force bool) *models.MetalRateSnapshot {
	// The refresh outlives any single caller: waiters share it.
	rctx := context.WithoutCancel(ctx)

	v, _, shared := c.group.Do(refreshKey, func() (interface{}, error) {
		// Another flight may have completed between our load and Do.
		if !force {
			if entry := c.load(rctx); entry.Fresh(c.now()) {
				return entry.Snapshot, nil
			}
		}

		snap, fallback := c.refresher.Refresh(rctx)
		entry := &models.RateCacheEntry{
			Snapshot:  *snap,
			FetchedAt: c.now(),
			TTL:       c.ttl,
			Fallback:  fallback,
		}
		if fallback {
			entry.TTL = c.retryTTL
		}
		if err := c.store.Save(rctx, entry); err != nil {
			log.Warn().Err(err).Msg("Failed to store metal rates")
		}
		return entry.Snapshot, nil
	})
	if shared {
		log.Debug().Msg("Joined in-flight metal rate refresh")
	}

	snap := v.(models.MetalRateSnapshot)
	return &snap
}

func (c *RateCache) load(ctx context.Context) *models.RateCacheEntry {
	entry, err := c.store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load cached metal rates")
		return nil
	}
	return entry
}
