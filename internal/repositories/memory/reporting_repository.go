package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
)

type reportingRepository struct {
	store *Store
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) GetLeaderboardData(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byOwner := make(map[string]*domain.LeaderboardEntry, len(r.store.accounts))
	result := make([]domain.LeaderboardEntry, 0, len(r.store.accounts))
	for _, acc := range r.store.accounts {
		result = append(result, domain.LeaderboardEntry{
			AccountID:    acc.AccountID,
			DisplayName:  acc.DisplayName,
			TreesPlanted: acc.TreesPlanted,
			TotalImpact:  decimal.Zero,
		})
	}
	for i := range result {
		byOwner[result[i].AccountID] = &result[i]
	}
	for _, coin := range r.store.coins {
		if entry, ok := byOwner[coin.OwnerID]; ok {
			entry.CoinCount++
			entry.TotalImpact = entry.TotalImpact.Add(coin.ImpactKg)
		}
	}
	return result, nil
}
