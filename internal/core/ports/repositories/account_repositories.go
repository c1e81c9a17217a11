package repositories

import (
	"context"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
// Reads return the current snapshot including its Version token; callers use
// that token for subsequent conditional writes.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by its unique email.
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate when
	// the email is already taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountCAS conditionally overwrites the stored account. The write
	// succeeds only if the stored version equals account.Version (the version
	// the caller read); otherwise it fails with apperrors.ErrConflict and
	// leaves the stored state untouched.
	UpdateAccountCAS(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
