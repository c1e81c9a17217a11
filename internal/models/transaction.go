package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a settled purchase row in the transactions table.
// FromOwnerID is nullable to leave room for ledger entries with no previous
// owner, though every purchase row carries one.
type Transaction struct {
	TransactionID  string          `db:"transaction_id"`
	CoinID         string          `db:"coin_id"`
	FromOwnerID    *string         `db:"from_owner_id"`
	ToOwnerID      string          `db:"to_owner_id"`
	Price          decimal.Decimal `db:"price"`
	IdempotencyKey string          `db:"idempotency_key"`
	CreatedAt      time.Time       `db:"created_at"`
}
