package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// External rate source
	RateSourceURL       string
	RateRefreshCooldown time.Duration
	RateRefreshInterval time.Duration

	// Deal lifecycle
	DealConfirmTTL time.Duration

	// Requests per period for the IP rate limiter, in ulule/limiter
	// formatted-rate notation (e.g. "100-M").
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("NBRB_API_URL", "")
	viper.SetDefault("RATE_REFRESH_COOLDOWN", "24h")
	viper.SetDefault("RATE_REFRESH_INTERVAL", "1h")
	viper.SetDefault("DEAL_CONFIRM_TTL", "30m")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RateSourceURL = viper.GetString("NBRB_API_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	var err error
	if cfg.RateRefreshCooldown, err = time.ParseDuration(viper.GetString("RATE_REFRESH_COOLDOWN")); err != nil {
		return nil, fmt.Errorf("invalid RATE_REFRESH_COOLDOWN: %w", err)
	}
	if cfg.RateRefreshInterval, err = time.ParseDuration(viper.GetString("RATE_REFRESH_INTERVAL")); err != nil {
		return nil, fmt.Errorf("invalid RATE_REFRESH_INTERVAL: %w", err)
	}
	if cfg.DealConfirmTTL, err = time.ParseDuration(viper.GetString("DEAL_CONFIRM_TTL")); err != nil {
		return nil, fmt.Errorf("invalid DEAL_CONFIRM_TTL: %w", err)
	}

	return cfg, nil
}
