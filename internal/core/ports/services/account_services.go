package services

import (
	"context"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// AccountReaderSvc defines read-only account operations.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account by its identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
}
