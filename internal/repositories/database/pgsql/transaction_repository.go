package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	"github.com/verdantlabs/greencoin_backend/internal/models"
	"github.com/verdantlabs/greencoin_backend/internal/utils/mapping"
)

const transactionColumns = `transaction_id, coin_id, from_owner_id, to_owner_id, price, idempotency_key, created_at`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository over the ledger trail.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CoinID,
		&m.FromOwnerID,
		&m.ToOwnerID,
		&m.Price,
		&m.IdempotencyKey,
		&m.CreatedAt,
	)
	return m, err
}

// FindTransactionByIdempotencyKey returns the record previously written for
// the given caller-supplied key.
func (r *PgxTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE idempotency_key = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no transaction for idempotency key", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find transaction by idempotency key: %w", err)
	}

	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactionsByCoin returns a coin's records oldest first.
func (r *PgxTransactionRepository) ListTransactionsByCoin(ctx context.Context, coinID string) ([]domain.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE coin_id = $1 ORDER BY created_at ASC, transaction_id ASC;`

	rows, err := r.Pool.Query(ctx, query, coinID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for coin %s: %w", coinID, err)
	}
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(ms), nil
}
