package repositories

import (
	"context"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// ExchangeRepository is the storage contract for the ledger's multi-entity
// units. Each method applies a group of conditional writes as one local atomic
// region: every write inside the group is guarded by the Version its entity
// carries (the version the service read in its snapshot), and if any guard
// fails the whole group is rolled back and apperrors.ErrConflict is returned.
// No partial state is ever observable through the other repository contracts.
type ExchangeRepository interface {
	// SaveCoinAndIncrementTrees persists a freshly minted coin and bumps the
	// owner's trees_planted counter by one. The owner write is CAS-guarded by
	// owner.Version.
	SaveCoinAndIncrementTrees(ctx context.Context, coin domain.Coin, owner domain.Account) error

	// ExecutePurchase applies a settled purchase: the debited buyer, the
	// credited seller, the transferred and delisted coin, and the appended
	// TransactionRecord. Account writes are applied in ascending account-id
	// order so overlapping purchases never circular-wait. Each entity write is
	// CAS-guarded by the Version it carries. A duplicate idempotency key on
	// the record surfaces apperrors.ErrDuplicate.
	ExecutePurchase(ctx context.Context, record domain.TransactionRecord, buyer domain.Account, seller domain.Account, coin domain.Coin) error
}
