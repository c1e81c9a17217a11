package repositories

import (
	"context"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// TransactionReader defines read operations over the append-only ledger trail.
type TransactionReader interface {
	// FindTransactionByIdempotencyKey returns the record previously written
	// for the given caller-supplied key, or apperrors.ErrNotFound.
	FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.TransactionRecord, error)

	// ListTransactionsByCoin returns a coin's records oldest first.
	ListTransactionsByCoin(ctx context.Context, coinID string) ([]domain.TransactionRecord, error)
}

// TransactionRepositoryFacade combines ledger-trail repository interfaces.
// There is deliberately no writer here: records are appended solely inside
// the exchange repository's purchase unit.
type TransactionRepositoryFacade interface {
	TransactionReader
}
