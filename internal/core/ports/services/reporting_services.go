package services

import (
	"context"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// ReportingSvcFacade is the aggregation engine's query surface. It is a pure
// read-side projection: results must never authorize or execute a mutation,
// and they may be slightly stale relative to the latest committed purchase.
type ReportingSvcFacade interface {
	// Leaderboard returns accounts ranked descending by the given sort key,
	// ties broken by account id ascending for determinism.
	Leaderboard(ctx context.Context, sortKey domain.LeaderboardSortKey) ([]domain.LeaderboardEntry, error)
}
