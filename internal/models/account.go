package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a participant row in the accounts table.
type Account struct {
	AccountID    string          `db:"account_id"`
	DisplayName  string          `db:"display_name"`
	Email        string          `db:"email"`
	PasswordHash string          `db:"password_hash"`
	Balance      decimal.Decimal `db:"balance"`
	TreesPlanted int64           `db:"trees_planted"`
	Version      int64           `db:"version"`
	AuditFields
}
