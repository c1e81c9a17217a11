package services

import (
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	portssvc "github.com/verdantlabs/greencoin_backend/internal/core/ports/services"
	"github.com/verdantlabs/greencoin_backend/internal/platform/cache"
	"github.com/verdantlabs/greencoin_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, leaderboardCache cache.LeaderboardCache) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Auth = NewAuthService(cfg, repos.AccountRepo)
	container.Exchange = NewExchangeService(
		repos.AccountRepo,
		repos.CoinRepo,
		repos.TransactionRepo,
		repos.ExchangeRepo,
	)

	reportingOpts := []ReportingServiceOption{}
	if leaderboardCache != nil {
		reportingOpts = append(reportingOpts, WithLeaderboardCache(leaderboardCache, cfg.LeaderboardCacheTTL))
	}
	container.Reporting = NewReportingService(repos.ReportingRepo, reportingOpts...)

	return container
}
