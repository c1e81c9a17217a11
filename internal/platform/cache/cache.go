package cache

import (
	"context"
	"time"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// LeaderboardCache buffers computed leaderboard projections. A miss is
// (nil, nil), never an error. The leaderboard tolerates staleness, so cache
// failures are always safe to ignore and fall through to a fresh scan.
type LeaderboardCache interface {
	Get(ctx context.Context, key string) ([]domain.LeaderboardEntry, error)
	Set(ctx context.Context, key string, entries []domain.LeaderboardEntry, ttl time.Duration) error
}
