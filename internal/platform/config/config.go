package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// StartingBalance seeds new accounts so they can participate in the
	// marketplace immediately.
	StartingBalance decimal.Decimal

	// RateLimit uses the limiter formatted syntax, e.g. "100-M".
	RateLimit string

	// Redis is optional; when RedisAddr is empty the leaderboard cache falls
	// back to in-process memory.
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	LeaderboardCacheTTL time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "greencoin-backend")
	viper.SetDefault("STARTING_BALANCE", "100")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LEADERBOARD_CACHE_TTL", "30s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL not set. Falling back to in-memory stores.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION: %w", err)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	startingBalance, err := decimal.NewFromString(viper.GetString("STARTING_BALANCE"))
	if err != nil || startingBalance.IsNegative() {
		return nil, fmt.Errorf("invalid STARTING_BALANCE %q", viper.GetString("STARTING_BALANCE"))
	}
	cfg.StartingBalance = startingBalance

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")

	cacheTTL, err := time.ParseDuration(viper.GetString("LEADERBOARD_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEADERBOARD_CACHE_TTL: %w", err)
	}
	cfg.LeaderboardCacheTTL = cacheTTL

	return cfg, nil
}
