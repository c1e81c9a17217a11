package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	CoinRepo        CoinRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	ExchangeRepo    ExchangeRepository
	ReportingRepo   ReportingRepository
}
