package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one append-only ledger entry, written exactly once per
// successful purchase and never mutated or deleted afterwards. The full
// sequence of records for a coin is its provenance trail; replaying it from
// the mint state reproduces the coin's current owner.
type TransactionRecord struct {
	TransactionID string          `json:"transactionID"` // Primary Key (UUID)
	CoinID        string          `json:"coinID"`
	FromOwnerID   string          `json:"fromOwnerID"`
	ToOwnerID     string          `json:"toOwnerID"`
	Price         decimal.Decimal `json:"price"`

	// IdempotencyKey is the caller-supplied deduplication token. Resubmitting
	// a purchase with the same key returns this record unchanged instead of
	// executing again.
	IdempotencyKey string `json:"idempotencyKey"`

	CreatedAt time.Time `json:"createdAt"`
}
