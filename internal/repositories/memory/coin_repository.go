package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	"github.com/verdantlabs/greencoin_backend/internal/utils/pagination"
)

type coinRepository struct {
	store *Store
}

var _ portsrepo.CoinRepositoryFacade = (*coinRepository)(nil)

func (r *coinRepository) FindCoinByID(ctx context.Context, coinID string) (*domain.Coin, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	coin, ok := r.store.coins[coinID]
	if !ok {
		return nil, fmt.Errorf("%w: coin %s", apperrors.ErrNotFound, coinID)
	}
	return &coin, nil
}

func (r *coinRepository) ListCoinsByOwner(ctx context.Context, ownerID string) ([]domain.Coin, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	coins := make([]domain.Coin, 0)
	for _, c := range r.store.coins {
		if c.OwnerID == ownerID {
			coins = append(coins, c)
		}
	}
	sortCoinsNewestFirst(coins)
	return coins, nil
}

func (r *coinRepository) ListListedCoins(ctx context.Context, excludeOwnerID string, limit int, nextToken *string) ([]domain.Coin, *string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	listed := make([]domain.Coin, 0)
	for _, c := range r.store.coins {
		if c.Listing.ForSale && (excludeOwnerID == "" || c.OwnerID != excludeOwnerID) {
			listed = append(listed, c)
		}
	}
	sortCoinsNewestFirst(listed)

	start := 0
	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		cursorAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		for i, c := range listed {
			if c.CreatedAt.Before(cursorAt) || (c.CreatedAt.Equal(cursorAt) && c.CoinID < fields[1]) {
				start = i
				break
			}
			start = len(listed)
		}
	}

	end := start + limit
	if end > len(listed) {
		end = len(listed)
	}
	page := listed[start:end]

	var token *string
	if end < len(listed) && len(page) > 0 {
		last := page[len(page)-1]
		t := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.CoinID)
		token = &t
	}
	return page, token, nil
}

func (r *coinRepository) UpdateCoinCAS(ctx context.Context, coin domain.Coin) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.casCoinLocked(coin)
}

// casCoinLocked applies a conditional coin write. Caller holds the lock.
func (s *Store) casCoinLocked(coin domain.Coin) error {
	current, ok := s.coins[coin.CoinID]
	if !ok {
		return fmt.Errorf("%w: coin %s", apperrors.ErrNotFound, coin.CoinID)
	}
	if current.Version != coin.Version {
		return fmt.Errorf("%w: coin %s version %d no longer current", apperrors.ErrConflict, coin.CoinID, coin.Version)
	}
	coin.Version++
	s.coins[coin.CoinID] = coin
	return nil
}

func sortCoinsNewestFirst(coins []domain.Coin) {
	sort.Slice(coins, func(i, j int) bool {
		if !coins[i].CreatedAt.Equal(coins[j].CreatedAt) {
			return coins[i].CreatedAt.After(coins[j].CreatedAt)
		}
		return coins[i].CoinID > coins[j].CoinID
	})
}
