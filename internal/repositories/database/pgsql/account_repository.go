package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	"github.com/verdantlabs/greencoin_backend/internal/models"
	"github.com/verdantlabs/greencoin_backend/internal/utils/mapping"
)

const accountColumns = `account_id, display_name, email, password_hash, balance, trees_planted, version, created_at, last_updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements the facade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.DisplayName,
		&m.Email,
		&m.PasswordHash,
		&m.Balance,
		&m.TreesPlanted,
		&m.Version,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, display_name, email, password_hash, balance, trees_planted, version, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.DisplayName,
		m.Email,
		m.PasswordHash,
		m.Balance,
		m.TreesPlanted,
		m.Version,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: email %s already registered", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountByEmail retrieves an account by its unique email.
func (r *PgxAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no account for email", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}

	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// ListAccounts retrieves a paginated list of accounts ordered by creation time.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at ASC, account_id ASC LIMIT $1 OFFSET $2;`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating account rows: %w", err)
	}

	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccountCAS conditionally overwrites the stored account. The stored
// version must equal account.Version or the write fails with ErrConflict.
func (r *PgxAccountRepository) UpdateAccountCAS(ctx context.Context, account domain.Account) error {
	return updateAccountCASTx(ctx, r.Pool, account)
}

// updateAccountCASTx runs the conditional account update against any pgx
// querier so the exchange repository can reuse it inside its transactions.
func updateAccountCASTx(ctx context.Context, q querier, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET display_name = $1, balance = $2, trees_planted = $3, version = version + 1, last_updated_at = $4
		WHERE account_id = $5 AND version = $6;
	`
	cmdTag, err := q.Exec(ctx, query,
		m.DisplayName,
		m.Balance,
		m.TreesPlanted,
		m.LastUpdatedAt,
		m.AccountID,
		m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s version %d no longer current", apperrors.ErrConflict, m.AccountID, m.Version)
	}
	return nil
}

// querier is the subset of pgx shared by pools and transactions.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
