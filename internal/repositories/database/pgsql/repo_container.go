package pgsql

import (
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	coinRepo := newPgxCoinRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool)
	exchangeRepo := newPgxExchangeRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		CoinRepo:        coinRepo,
		TransactionRepo: transactionRepo,
		ExchangeRepo:    exchangeRepo,
		ReportingRepo:   reportingRepo,
	}
}
