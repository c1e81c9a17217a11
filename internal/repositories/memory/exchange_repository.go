package memory

import (
	"context"
	"fmt"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
)

// exchangeRepository applies multi-entity write groups under the store's one
// lock: all version guards are checked before any state changes, so a failed
// guard leaves the store exactly as it was.
type exchangeRepository struct {
	store *Store
}

var _ portsrepo.ExchangeRepository = (*exchangeRepository)(nil)

func (r *exchangeRepository) SaveCoinAndIncrementTrees(ctx context.Context, coin domain.Coin, owner domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.coins[coin.CoinID]; exists {
		return fmt.Errorf("%w: coin %s already exists", apperrors.ErrDuplicate, coin.CoinID)
	}
	current, ok := r.store.accounts[owner.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, owner.AccountID)
	}
	if current.Version != owner.Version {
		return fmt.Errorf("%w: account %s version %d no longer current", apperrors.ErrConflict, owner.AccountID, owner.Version)
	}

	owner.TreesPlanted++
	owner.LastUpdatedAt = coin.CreatedAt
	owner.Version++
	r.store.accounts[owner.AccountID] = owner
	r.store.coins[coin.CoinID] = coin
	return nil
}

func (r *exchangeRepository) ExecutePurchase(ctx context.Context, record domain.TransactionRecord, buyer domain.Account, seller domain.Account, coin domain.Coin) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, used := r.store.txByKey[record.IdempotencyKey]; used {
		return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
	}

	// Check every guard before applying anything.
	for _, acc := range []domain.Account{buyer, seller} {
		current, ok := r.store.accounts[acc.AccountID]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, acc.AccountID)
		}
		if current.Version != acc.Version {
			return fmt.Errorf("%w: account %s version %d no longer current", apperrors.ErrConflict, acc.AccountID, acc.Version)
		}
	}
	currentCoin, ok := r.store.coins[coin.CoinID]
	if !ok {
		return fmt.Errorf("%w: coin %s", apperrors.ErrNotFound, coin.CoinID)
	}
	if currentCoin.Version != coin.Version {
		return fmt.Errorf("%w: coin %s version %d no longer current", apperrors.ErrConflict, coin.CoinID, coin.Version)
	}

	buyer.Version++
	r.store.accounts[buyer.AccountID] = buyer
	seller.Version++
	r.store.accounts[seller.AccountID] = seller
	coin.Version++
	r.store.coins[coin.CoinID] = coin

	r.store.transactions = append(r.store.transactions, record)
	r.store.txByKey[record.IdempotencyKey] = len(r.store.transactions) - 1
	return nil
}
