package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	"github.com/verdantlabs/greencoin_backend/internal/dto"
)

// ExchangeMinterSvc mints new coins.
type ExchangeMinterSvc interface {
	// Mint creates a coin owned and created by ownerID and increments that
	// account's trees_planted by exactly 1; both effects become visible
	// together or not at all.
	Mint(ctx context.Context, ownerID string, req dto.MintCoinRequest) (*domain.Coin, error)
}

// ExchangeListingSvc manages a coin's for-sale state.
type ExchangeListingSvc interface {
	// ListForSale puts a coin up for sale at the given price, or replaces the
	// price if the coin is already listed. Only the current owner may call it.
	ListForSale(ctx context.Context, coinID string, callerID string, price decimal.Decimal) (*domain.Coin, error)

	// Unlist takes a coin off sale. Unlisting an unlisted coin is a no-op.
	Unlist(ctx context.Context, coinID string, callerID string) (*domain.Coin, error)
}

// ExchangePurchaseSvc executes purchases, the only operation that moves
// money and ownership together.
type ExchangePurchaseSvc interface {
	// Purchase buys the listed coin for buyerID at its listed price.
	// idempotencyKey deduplicates client retries: a key that already settled
	// returns the original record with no further effect.
	Purchase(ctx context.Context, coinID string, buyerID string, idempotencyKey string) (*domain.TransactionRecord, error)
}

// ExchangeReaderSvc defines read-only coin queries.
type ExchangeReaderSvc interface {
	// GetCoinByID retrieves a coin by its identifier.
	GetCoinByID(ctx context.Context, coinID string) (*domain.Coin, error)

	// ListOwnedCoins retrieves every coin currently held by an account.
	ListOwnedCoins(ctx context.Context, ownerID string) ([]domain.Coin, error)

	// ListMarketplace retrieves listed coins excluding the viewer's own,
	// newest first, with opaque-token pagination.
	ListMarketplace(ctx context.Context, viewerID string, limit int, nextToken *string) ([]domain.Coin, *string, error)

	// CoinHistory returns a coin's ledger records oldest first.
	CoinHistory(ctx context.Context, coinID string) ([]domain.TransactionRecord, error)
}

// ExchangeSvcFacade combines all exchange ledger interfaces.
type ExchangeSvcFacade interface {
	ExchangeMinterSvc
	ExchangeListingSvc
	ExchangePurchaseSvc
	ExchangeReaderSvc
}
