package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
)

// PurchaseRequest carries the caller-supplied idempotency key. The key may
// alternatively arrive in the Idempotency-Key header; the body wins when both
// are present.
type PurchaseRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	CoinID        string          `json:"coinID"`
	FromOwnerID   string          `json:"fromOwnerID"`
	ToOwnerID     string          `json:"toOwnerID"`
	Price         decimal.Decimal `json:"price"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CoinHistoryResponse wraps a coin's provenance trail, oldest first.
type CoinHistoryResponse struct {
	CoinID       string                `json:"coinID"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain.TransactionRecord to its DTO.
func ToTransactionResponse(rec *domain.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		TransactionID: rec.TransactionID,
		CoinID:        rec.CoinID,
		FromOwnerID:   rec.FromOwnerID,
		ToOwnerID:     rec.ToOwnerID,
		Price:         rec.Price,
		CreatedAt:     rec.CreatedAt,
	}
}

// ToCoinHistoryResponse converts a coin's records to the history DTO.
func ToCoinHistoryResponse(coinID string, records []domain.TransactionRecord) CoinHistoryResponse {
	out := make([]TransactionResponse, len(records))
	for i := range records {
		out[i] = ToTransactionResponse(&records[i])
	}
	return CoinHistoryResponse{CoinID: coinID, Transactions: out}
}
