package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account minus credentials and the version token.
type AccountResponse struct {
	AccountID    string          `json:"accountID"`
	DisplayName  string          `json:"displayName"`
	Email        string          `json:"email"`
	Balance      decimal.Decimal `json:"balance"`
	TreesPlanted int64           `json:"treesPlanted"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		DisplayName:  acc.DisplayName,
		Email:        acc.Email,
		Balance:      acc.Balance,
		TreesPlanted: acc.TreesPlanted,
		CreatedAt:    acc.CreatedAt,
	}
}

// ToListAccountsResponse converts a slice of domain.Account to the list DTO.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: out}
}
