package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// RedisCache implements LeaderboardCache using Redis, for deployments running
// more than one API instance.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisCache creates a new Redis-backed leaderboard cache.
func NewRedisCache(addr, password string, db int, prefix string, logger *slog.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: client, prefix: prefix, logger: logger}
}

var _ LeaderboardCache = (*RedisCache)(nil)

func (r *RedisCache) key(key string) string {
	return r.prefix + key
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]domain.LeaderboardEntry, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		r.logger.Error("Redis cache get error", "key", key, "error", err)
		return nil, err
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		r.logger.Error("Redis cache unmarshal error", "key", key, "error", err)
		return nil, err
	}
	return entries, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, entries []domain.LeaderboardEntry, ttl time.Duration) error {
	data, err := json.Marshal(entries)
	if err != nil {
		r.logger.Error("Redis cache marshal error", "key", key, "error", err)
		return err
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		r.logger.Error("Redis cache set error", "key", key, "error", err)
		return err
	}
	return nil
}
