package mapping

import (
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	"github.com/verdantlabs/greencoin_backend/internal/models"
)

// ToModelTransaction converts a domain TransactionRecord to a model Transaction.
// An empty FromOwnerID maps to NULL.
func ToModelTransaction(d domain.TransactionRecord) models.Transaction {
	var from *string
	if d.FromOwnerID != "" {
		f := d.FromOwnerID
		from = &f
	}
	return models.Transaction{
		TransactionID:  d.TransactionID,
		CoinID:         d.CoinID,
		FromOwnerID:    from,
		ToOwnerID:      d.ToOwnerID,
		Price:          d.Price,
		IdempotencyKey: d.IdempotencyKey,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainTransaction converts a model Transaction to a domain TransactionRecord
func ToDomainTransaction(m models.Transaction) domain.TransactionRecord {
	var from string
	if m.FromOwnerID != nil {
		from = *m.FromOwnerID
	}
	return domain.TransactionRecord{
		TransactionID:  m.TransactionID,
		CoinID:         m.CoinID,
		FromOwnerID:    from,
		ToOwnerID:      m.ToOwnerID,
		Price:          m.Price,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain records
func ToDomainTransactionSlice(ms []models.Transaction) []domain.TransactionRecord {
	ds := make([]domain.TransactionRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
