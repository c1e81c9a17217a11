package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
	"github.com/verdantlabs/greencoin_backend/internal/platform/cache"
)

// reportingService implements the aggregation engine. It only reads settled
// state; rankings may lag the latest purchase by up to the cache TTL, which
// is fine because nothing here feeds back into a money or ownership decision.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	cache         cache.LeaderboardCache
	cacheTTL      time.Duration
}

// ReportingServiceOption is a functional option for configuring the reporting service.
type ReportingServiceOption func(*reportingService)

// WithLeaderboardCache enables caching of computed leaderboards.
func WithLeaderboardCache(c cache.LeaderboardCache, ttl time.Duration) ReportingServiceOption {
	return func(s *reportingService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// NewReportingService creates a new reporting service with the provided options.
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{reportingRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) Leaderboard(ctx context.Context, sortKey domain.LeaderboardSortKey) ([]domain.LeaderboardEntry, error) {
	if _, ok := domain.ParseLeaderboardSortKey(string(sortKey)); !ok {
		return nil, fmt.Errorf("%w: unknown sort key %q", apperrors.ErrValidation, sortKey)
	}

	cacheKey := "leaderboard:" + string(sortKey)
	if s.cache != nil {
		if entries, err := s.cache.Get(ctx, cacheKey); err == nil && entries != nil {
			return entries, nil
		}
		// Cache errors fall through to a fresh scan.
	}

	entries, err := s.reportingRepo.GetLeaderboardData(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve leaderboard data")
		return nil, fmt.Errorf("failed to retrieve leaderboard data: %w", err)
	}

	sortLeaderboard(entries, sortKey)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, entries, s.cacheTTL); err != nil {
			s.LogWarn(ctx, "Failed to cache leaderboard", slog.String("error", err.Error()))
		}
	}

	s.LogDebug(ctx, "Leaderboard computed",
		slog.String("sort_key", string(sortKey)),
		slog.Int("entry_count", len(entries)))
	return entries, nil
}

// sortLeaderboard orders entries descending by the chosen metric, ties broken
// by account id ascending so repeated queries over identical data return an
// identical order.
func sortLeaderboard(entries []domain.LeaderboardEntry, sortKey domain.LeaderboardSortKey) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch sortKey {
		case domain.SortByCoinCount:
			if a.CoinCount != b.CoinCount {
				return a.CoinCount > b.CoinCount
			}
		case domain.SortByTotalImpact:
			if !a.TotalImpact.Equal(b.TotalImpact) {
				return a.TotalImpact.GreaterThan(b.TotalImpact)
			}
		default: // SortByTreesPlanted
			if a.TreesPlanted != b.TreesPlanted {
				return a.TreesPlanted > b.TreesPlanted
			}
		}
		return a.AccountID < b.AccountID
	})
}
