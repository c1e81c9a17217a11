package cache

import (
	"context"
	"sync"
	"time"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

type memoryEntry struct {
	entries   []domain.LeaderboardEntry
	expiresAt time.Time
}

// MemoryCache implements LeaderboardCache using in-memory storage.
type MemoryCache struct {
	mu    sync.RWMutex
	cache map[string]memoryEntry
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{cache: make(map[string]memoryEntry)}
}

var _ LeaderboardCache = (*MemoryCache)(nil)

// Get retrieves cached entries, treating expired ones as a miss.
func (c *MemoryCache) Get(_ context.Context, key string) ([]domain.LeaderboardEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.entries, nil
}

// Set stores entries with a TTL. Stale entries are overwritten in place;
// there is no background sweeper because the key space is tiny (one key per
// sort key).
func (c *MemoryCache) Set(_ context.Context, key string, entries []domain.LeaderboardEntry, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = memoryEntry{
		entries:   entries,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}
