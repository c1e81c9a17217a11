package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a user profile within the exchange: identity, spendable
// balance and the environmental impact counter.
// Balance and TreesPlanted are mutated exclusively through the exchange
// ledger's conditional-write path, never by presentation logic.
type Account struct {
	AccountID    string `json:"accountID"` // Primary Key (UUID)
	DisplayName  string `json:"displayName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // bcrypt hash, never serialized

	// Balance is a non-negative monetary amount. The currency is opaque to
	// the ledger; precision is handled by decimal, not floats.
	Balance decimal.Decimal `json:"balance"`

	// TreesPlanted is a monotonically non-decreasing counter, incremented by
	// exactly 1 per successful mint.
	TreesPlanted int64 `json:"treesPlanted"`

	// Version is the compare-and-set token. Every successful conditional
	// write increments it; a stale version makes the write fail with a
	// conflict instead of silently overwriting.
	Version int64 `json:"-"`

	AuditFields
}

// CanAfford reports whether the account balance covers the given price.
func (a Account) CanAfford(price decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(price)
}
