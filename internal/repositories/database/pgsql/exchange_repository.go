package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	"github.com/verdantlabs/greencoin_backend/internal/utils/mapping"
)

// PgxExchangeRepository applies the ledger's multi-entity write groups. Each
// group runs inside one database transaction whose individual writes are the
// same conditional updates the single-entity repositories use, so any stale
// version aborts the whole group with ErrConflict.
type PgxExchangeRepository struct {
	BaseRepository
}

// newPgxExchangeRepository creates the repository for multi-entity write groups.
func newPgxExchangeRepository(pool *pgxpool.Pool) portsrepo.ExchangeRepository {
	return &PgxExchangeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRepository = (*PgxExchangeRepository)(nil)

// SaveCoinAndIncrementTrees persists a freshly minted coin and bumps the
// owner's trees_planted counter in the same transaction.
func (r *PgxExchangeRepository) SaveCoinAndIncrementTrees(ctx context.Context, coin domain.Coin, owner domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	if err := insertCoinTx(ctx, tx, coin); err != nil {
		return err
	}

	owner.TreesPlanted++
	owner.LastUpdatedAt = coin.CreatedAt
	if err := updateAccountCASTx(ctx, tx, owner); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ExecutePurchase applies a settled purchase as one transaction: debit the
// buyer, credit the seller, transfer and delist the coin, append the ledger
// record. Account updates run in ascending account-id order so overlapping
// purchases touching the same pair never circular-wait.
func (r *PgxExchangeRepository) ExecutePurchase(ctx context.Context, record domain.TransactionRecord, buyer domain.Account, seller domain.Account, coin domain.Coin) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	first, second := buyer, seller
	if second.AccountID < first.AccountID {
		first, second = second, first
	}
	if err := updateAccountCASTx(ctx, tx, first); err != nil {
		return err
	}
	if err := updateAccountCASTx(ctx, tx, second); err != nil {
		return err
	}

	if err := updateCoinCASTx(ctx, tx, coin); err != nil {
		return err
	}

	if err := insertTransactionTx(ctx, tx, record); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertCoinTx(ctx context.Context, q querier, coin domain.Coin) error {
	m := mapping.ToModelCoin(coin)

	query := `
		INSERT INTO coins (coin_id, owner_id, creator_id, species, planted_date, location_name, latitude, longitude, impact_kg, notes, image_url, provenance_label, for_sale, sale_price, version, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := q.Exec(ctx, query,
		m.CoinID,
		m.OwnerID,
		m.CreatorID,
		m.Species,
		m.PlantedDate,
		m.LocationName,
		m.Latitude,
		m.Longitude,
		m.ImpactKg,
		m.Notes,
		m.ImageURL,
		m.ProvenanceLabel,
		m.ForSale,
		m.SalePrice,
		m.Version,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: coin %s already exists", apperrors.ErrDuplicate, m.CoinID)
		}
		return fmt.Errorf("failed to insert coin %s: %w", m.CoinID, err)
	}
	return nil
}

func insertTransactionTx(ctx context.Context, q querier, record domain.TransactionRecord) error {
	m := mapping.ToModelTransaction(record)

	query := `
		INSERT INTO transactions (transaction_id, coin_id, from_owner_id, to_owner_id, price, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := q.Exec(ctx, query,
		m.TransactionID,
		m.CoinID,
		m.FromOwnerID,
		m.ToOwnerID,
		m.Price,
		m.IdempotencyKey,
		m.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: idempotency key already used", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}
	return nil
}
