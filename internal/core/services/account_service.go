package services

import (
	"context"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
)

// accountService provides read access to account profiles. All balance and
// counter mutations happen in the exchange service; nothing here writes.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}
