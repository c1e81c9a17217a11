package memory

import (
	"sync"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
)

// Store is an in-process implementation of the repository contracts, used for
// local development and tests. One mutex guards all three tables, which makes
// every write group trivially atomic: version guards are checked and applied
// without the lock ever being released in between.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	coins        map[string]domain.Coin
	transactions []domain.TransactionRecord
	txByKey      map[string]int // idempotency key -> index into transactions
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		coins:    make(map[string]domain.Coin),
		txByKey:  make(map[string]int),
	}
}

// NewRepositoryProvider wires one shared store behind all repository facades.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     &accountRepository{store: store},
		CoinRepo:        &coinRepository{store: store},
		TransactionRepo: &transactionRepository{store: store},
		ExchangeRepo:    &exchangeRepository{store: store},
		ReportingRepo:   &reportingRepository{store: store},
	}
}
