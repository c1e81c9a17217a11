package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	"github.com/verdantlabs/greencoin_backend/internal/models"
	"github.com/verdantlabs/greencoin_backend/internal/utils/mapping"
	"github.com/verdantlabs/greencoin_backend/internal/utils/pagination"
)

const coinColumns = `coin_id, owner_id, creator_id, species, planted_date, location_name, latitude, longitude, impact_kg, notes, image_url, provenance_label, for_sale, sale_price, version, created_at, last_updated_at`

type PgxCoinRepository struct {
	BaseRepository
}

// newPgxCoinRepository creates a new repository for coin data.
func newPgxCoinRepository(pool *pgxpool.Pool) portsrepo.CoinRepositoryFacade {
	return &PgxCoinRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCoinRepository implements the facade
var _ portsrepo.CoinRepositoryFacade = (*PgxCoinRepository)(nil)

func scanCoin(row pgx.Row) (models.Coin, error) {
	var m models.Coin
	err := row.Scan(
		&m.CoinID,
		&m.OwnerID,
		&m.CreatorID,
		&m.Species,
		&m.PlantedDate,
		&m.LocationName,
		&m.Latitude,
		&m.Longitude,
		&m.ImpactKg,
		&m.Notes,
		&m.ImageURL,
		&m.ProvenanceLabel,
		&m.ForSale,
		&m.SalePrice,
		&m.Version,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// FindCoinByID retrieves a coin by its ID.
func (r *PgxCoinRepository) FindCoinByID(ctx context.Context, coinID string) (*domain.Coin, error) {
	query := `SELECT ` + coinColumns + ` FROM coins WHERE coin_id = $1;`

	m, err := scanCoin(r.Pool.QueryRow(ctx, query, coinID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: coin %s", apperrors.ErrNotFound, coinID)
		}
		return nil, fmt.Errorf("failed to find coin by ID %s: %w", coinID, err)
	}

	d := mapping.ToDomainCoin(m)
	return &d, nil
}

// ListCoinsByOwner retrieves all coins currently held by an account, newest first.
func (r *PgxCoinRepository) ListCoinsByOwner(ctx context.Context, ownerID string) ([]domain.Coin, error) {
	query := `SELECT ` + coinColumns + ` FROM coins WHERE owner_id = $1 ORDER BY created_at DESC, coin_id DESC;`

	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list coins for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	ms, err := collectCoins(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainCoinSlice(ms), nil
}

// ListListedCoins retrieves coins currently for sale, newest first, excluding
// those owned by excludeOwnerID. Keyset pagination on (created_at, coin_id).
func (r *PgxCoinRepository) ListListedCoins(ctx context.Context, excludeOwnerID string, limit int, nextToken *string) ([]domain.Coin, *string, error) {
	args := []any{excludeOwnerID}
	query := `SELECT ` + coinColumns + ` FROM coins WHERE for_sale = TRUE AND ($1 = '' OR owner_id != $1)`

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		cursorAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (created_at, coin_id) < ($2, $3)`
		args = append(args, cursorAt, fields[1])
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, coin_id DESC LIMIT $%d;`, len(args)+1)
	// Fetch one extra row to detect whether another page exists.
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list marketplace coins: %w", err)
	}
	defer rows.Close()

	ms, err := collectCoins(rows)
	if err != nil {
		return nil, nil, err
	}

	var token *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		t := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.CoinID)
		token = &t
	}

	return mapping.ToDomainCoinSlice(ms), token, nil
}

// UpdateCoinCAS conditionally overwrites a coin's mutable fields.
func (r *PgxCoinRepository) UpdateCoinCAS(ctx context.Context, coin domain.Coin) error {
	return updateCoinCASTx(ctx, r.Pool, coin)
}

// updateCoinCASTx runs the conditional coin update against any pgx querier so
// the exchange repository can reuse it inside its purchase transaction.
func updateCoinCASTx(ctx context.Context, q querier, coin domain.Coin) error {
	m := mapping.ToModelCoin(coin)

	query := `
		UPDATE coins
		SET owner_id = $1, for_sale = $2, sale_price = $3, version = version + 1, last_updated_at = $4
		WHERE coin_id = $5 AND version = $6;
	`
	cmdTag, err := q.Exec(ctx, query,
		m.OwnerID,
		m.ForSale,
		m.SalePrice,
		m.LastUpdatedAt,
		m.CoinID,
		m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update coin %s: %w", m.CoinID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: coin %s version %d no longer current", apperrors.ErrConflict, m.CoinID, m.Version)
	}
	return nil
}

func collectCoins(rows pgx.Rows) ([]models.Coin, error) {
	var ms []models.Coin
	for rows.Next() {
		m, err := scanCoin(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coin row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating coin rows: %w", err)
	}
	return ms, nil
}
