package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/finpost/glcore/internal/core/domain"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Ledger amount handling
	LedgerDecimals int32  `mapstructure:"LEDGER_DECIMALS"`
	LedgerRounding string `mapstructure:"LEDGER_ROUNDING"`

	// Rate limiting, e.g. "100-M" for 100 requests per minute per client
	RateLimit string `mapstructure:"RATE_LIMIT"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LEDGER_DECIMALS", 2)
	viper.SetDefault("LEDGER_ROUNDING", "half_up")
	viper.SetDefault("RATE_LIMIT", "300-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.LedgerDecimals = viper.GetInt32("LEDGER_DECIMALS")
	if cfg.LedgerDecimals < 0 {
		log.Printf("Warning: Invalid value for LEDGER_DECIMALS (%d). Defaulting to 2.\n", cfg.LedgerDecimals)
		cfg.LedgerDecimals = 2
	}

	cfg.LedgerRounding = viper.GetString("LEDGER_ROUNDING")
	if _, err := domain.ParseRoundingMode(cfg.LedgerRounding); err != nil {
		log.Printf("Warning: Invalid value for LEDGER_ROUNDING ('%s'). Defaulting to half_up.\n", cfg.LedgerRounding)
		cfg.LedgerRounding = "half_up"
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}

// RoundingPolicy builds the ledger rounding policy from the loaded settings.
func (c *Config) RoundingPolicy() domain.RoundingPolicy {
	mode, err := domain.ParseRoundingMode(c.LedgerRounding)
	if err != nil {
		return domain.DefaultRounding
	}
	return domain.RoundingPolicy{Decimals: c.LedgerDecimals, Mode: mode}
}
