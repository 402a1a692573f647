package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_jewel/internal/models"
)

// SnapshotStore holds the single rate cache entry.
// Load returns (nil, nil) when the slot is empty.
type SnapshotStore interface {
	Load(ctx context.Context) (*models.RateCacheEntry, error)
	Save(ctx context.Context, entry *models.RateCacheEntry) error
}

// MemoryStore keeps the entry in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	entry *models.RateCacheEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored entry.
func (s *MemoryStore) Load(_ context.Context) (*models.RateCacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return nil, nil
	}
	e := *s.entry
	return &e, nil
}

// Save replaces the stored entry with a copy of entry.
func (s *MemoryStore) Save(_ context.Context, entry *models.RateCacheEntry) error {
	e := *entry
	s.mu.Lock()
	s.entry = &e
	s.mu.Unlock()
	return nil
}

// rateEntryKey is the Redis key of the shared rate slot.
const rateEntryKey = "metal_rates:latest"

// redisKV is the subset of RedisClient used by RedisStore.
type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// RedisStore shares the rate slot between replicas through Redis. A local
// copy is kept so a Redis outage degrades to per-process caching instead of
// a refresh on every request.
type RedisStore struct {
	redis redisKV
	local *MemoryStore
	// keep is how long Redis retains the entry; staleness is still decided
	// by the entry's own TTL.
	keep time.Duration
}

// NewRedisStore creates a RedisStore.
func NewRedisStore(redis redisKV, keep time.Duration) *RedisStore {
	return &RedisStore{redis: redis, local: NewMemoryStore(), keep: keep}
}

// Load reads the entry from Redis, using the local copy on Redis errors.
func (s *RedisStore) Load(ctx context.Context) (*models.RateCacheEntry, error) {
	raw, err := s.redis.Get(ctx, rateEntryKey)
	if errors.Is(err, ErrCacheMiss) {
		return s.local.Load(ctx)
	}
	if err != nil {
		log.Warn().Err(err).Msg("Redis rate load failed, using local copy")
		return s.local.Load(ctx)
	}

	var entry models.RateCacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rate entry: %w", err)
	}
	if !entry.Snapshot.Valid() {
		log.Warn().Str("key", rateEntryKey).Msg("Ignoring invalid shared rate entry")
		return s.local.Load(ctx)
	}
	return &entry, nil
}

// Save writes the entry locally and to Redis.
func (s *RedisStore) Save(ctx context.Context, entry *models.RateCacheEntry) error {
	_ = s.local.Save(ctx, entry)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal rate entry: %w", err)
	}
	if err := s.redis.Set(ctx, rateEntryKey, string(data), s.keep); err != nil {
		return fmt.Errorf("failed to store rate entry: %w", err)
	}
	return nil
}
