package repositories

import (
	"context"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// CoinReader defines read operations for coin data. Snapshots carry the coin's
// Version token for later conditional writes.
type CoinReader interface {
	// FindCoinByID retrieves a specific coin by its unique identifier.
	FindCoinByID(ctx context.Context, coinID string) (*domain.Coin, error)

	// ListCoinsByOwner retrieves all coins currently held by an account.
	ListCoinsByOwner(ctx context.Context, ownerID string) ([]domain.Coin, error)

	// ListListedCoins retrieves coins currently for sale, newest first,
	// excluding those owned by excludeOwnerID (empty string excludes nothing).
	// Pagination uses an opaque token; a nil return token means no more pages.
	ListListedCoins(ctx context.Context, excludeOwnerID string, limit int, nextToken *string) ([]domain.Coin, *string, error)
}

// CoinWriter defines write operations on existing coins. Coin creation is not
// here: new coins only come out of the exchange repository's mint unit, which
// keeps the mint counter and the coin row moving together.
type CoinWriter interface {
	// UpdateCoinCAS conditionally overwrites a coin's mutable fields (owner,
	// listing). Succeeds only if the stored version equals coin.Version;
	// otherwise fails with apperrors.ErrConflict.
	UpdateCoinCAS(ctx context.Context, coin domain.Coin) error
}

// CoinRepositoryFacade combines all coin-related repository interfaces.
type CoinRepositoryFacade interface {
	CoinReader
	CoinWriter
}
