package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
)

type transactionRepository struct {
	store *Store
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

func (r *transactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.TransactionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	idx, ok := r.store.txByKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: no transaction for idempotency key", apperrors.ErrNotFound)
	}
	record := r.store.transactions[idx]
	return &record, nil
}

func (r *transactionRepository) ListTransactionsByCoin(ctx context.Context, coinID string) ([]domain.TransactionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	records := make([]domain.TransactionRecord, 0)
	for _, t := range r.store.transactions {
		if t.CoinID == coinID {
			records = append(records, t)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].TransactionID < records[j].TransactionID
	})
	return records, nil
}
