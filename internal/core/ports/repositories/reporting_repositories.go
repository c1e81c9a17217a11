package repositories

import (
	"context"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// ReportingRepository provides the read-only scan behind the aggregation
// engine. It acquires no locks and tolerates observing a state slightly stale
// relative to the latest committed purchase.
type ReportingRepository interface {
	// GetLeaderboardData returns one unsorted entry per account with its
	// derived coin count and total impact. Ordering is the service's job.
	GetLeaderboardData(ctx context.Context) ([]domain.LeaderboardEntry, error)
}
