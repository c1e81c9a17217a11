package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/verdantlabs/greencoin_backend/internal/apperrors"
	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
)

type accountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	acc, ok := r.store.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &acc, nil
}

func (r *accountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, acc := range r.store.accounts {
		if acc.Email == email {
			a := acc
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: no account for email", apperrors.ErrNotFound)
}

func (r *accountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	accs := make([]domain.Account, 0, len(r.store.accounts))
	for _, acc := range r.store.accounts {
		accs = append(accs, acc)
	}
	sort.Slice(accs, func(i, j int) bool {
		if !accs[i].CreatedAt.Equal(accs[j].CreatedAt) {
			return accs[i].CreatedAt.Before(accs[j].CreatedAt)
		}
		return accs[i].AccountID < accs[j].AccountID
	})

	if offset >= len(accs) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if end > len(accs) {
		end = len(accs)
	}
	return accs[offset:end], nil
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	for _, acc := range r.store.accounts {
		if acc.Email == account.Email {
			return fmt.Errorf("%w: email %s already registered", apperrors.ErrDuplicate, account.Email)
		}
	}
	r.store.accounts[account.AccountID] = account
	return nil
}

func (r *accountRepository) UpdateAccountCAS(ctx context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.casAccountLocked(account)
}

// casAccountLocked applies a conditional account write. Caller holds the lock.
func (s *Store) casAccountLocked(account domain.Account) error {
	current, ok := s.accounts[account.AccountID]
	if !ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	if current.Version != account.Version {
		return fmt.Errorf("%w: account %s version %d no longer current", apperrors.ErrConflict, account.AccountID, account.Version)
	}
	account.Version++
	s.accounts[account.AccountID] = account
	return nil
}
