package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
	"github.com/verdantlabs/greencoin_backend/internal/core/services"
	"github.com/verdantlabs/greencoin_backend/internal/handlers"
	"github.com/verdantlabs/greencoin_backend/internal/middleware"
	"github.com/verdantlabs/greencoin_backend/internal/platform/cache"
	"github.com/verdantlabs/greencoin_backend/internal/platform/config"
	"github.com/verdantlabs/greencoin_backend/internal/repositories/database/pgsql"
	"github.com/verdantlabs/greencoin_backend/internal/repositories/memory"
	"github.com/verdantlabs/greencoin_backend/pkg/database"
)

// @title GreenCoin Exchange API
// @version 1.0
// @description Exchange ledger for tree-backed collectible coins.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	leaderboardCache := buildLeaderboardCache(cfg, logger)
	serviceContainer := services.NewServiceContainer(cfg, repos, leaderboardCache)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())
	if rate, err := limiter.NewRateFromFormatted(cfg.RateLimit); err == nil {
		r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))
	} else {
		logger.Warn("Invalid RATE_LIMIT, rate limiting disabled", slog.String("error", err.Error()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories selects the storage backend: PostgreSQL when a database
// URL is configured, otherwise the in-process store.
func buildRepositories(cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("No database configured, using in-memory stores. Data will not survive restarts.")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies all pending schema migrations using a temporary
// database/sql connection compatible with the main pgx pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// buildLeaderboardCache picks redis when configured, an in-process cache
// otherwise.
func buildLeaderboardCache(cfg *config.Config, logger *slog.Logger) cache.LeaderboardCache {
	if cfg.RedisAddr != "" {
		logger.Info("Using redis leaderboard cache", slog.String("addr", cfg.RedisAddr))
		return cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "gcx", logger)
	}
	return cache.NewMemoryCache()
}
