package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Signing modes for the settlement client.
const (
	SigningModeLocal     = "local"
	SigningModeDelegated = "delegated"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Settlement network
	HorizonURL        string
	NetworkPassphrase string
	SigningMode       string // "local" or "delegated"
	VaultSecretKey    string // local mode only; never logged
	VaultAddress      string
	SignerURL         string // delegated mode: external signer endpoint
	SettlementTimeout time.Duration

	// Background reconciliation
	ReconcileInterval time.Duration

	// Rate limiting on mutating routes
	RateLimitRequests int64
	RateLimitPeriod   time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("HORIZON_URL", "https://horizon-testnet.stellar.org")
	viper.SetDefault("NETWORK_PASSPHRASE", "Test SDF Network ; September 2015")
	viper.SetDefault("SIGNING_MODE", SigningModeLocal)
	viper.SetDefault("VAULT_SECRET_KEY", "")
	viper.SetDefault("VAULT_ADDRESS", "")
	viper.SetDefault("SIGNER_URL", "")
	viper.SetDefault("SETTLEMENT_TIMEOUT", "30s")
	viper.SetDefault("RECONCILE_INTERVAL", "1m")
	viper.SetDefault("RATE_LIMIT_REQUESTS", 10)
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.HorizonURL = viper.GetString("HORIZON_URL")
	cfg.NetworkPassphrase = viper.GetString("NETWORK_PASSPHRASE")
	cfg.VaultSecretKey = viper.GetString("VAULT_SECRET_KEY")
	cfg.VaultAddress = viper.GetString("VAULT_ADDRESS")
	cfg.SignerURL = viper.GetString("SIGNER_URL")

	cfg.SigningMode = viper.GetString("SIGNING_MODE")
	switch cfg.SigningMode {
	case SigningModeLocal:
		if cfg.VaultSecretKey == "" {
			return nil, fmt.Errorf("SIGNING_MODE is local but VAULT_SECRET_KEY is not set")
		}
	case SigningModeDelegated:
		if cfg.SignerURL == "" {
			return nil, fmt.Errorf("SIGNING_MODE is delegated but SIGNER_URL is not set")
		}
		if cfg.VaultAddress == "" {
			return nil, fmt.Errorf("SIGNING_MODE is delegated but VAULT_ADDRESS is not set")
		}
	default:
		return nil, fmt.Errorf("invalid SIGNING_MODE %q (expected %q or %q)", cfg.SigningMode, SigningModeLocal, SigningModeDelegated)
	}

	cfg.SettlementTimeout = parseDurationOrDefault("SETTLEMENT_TIMEOUT", 30*time.Second)
	cfg.ReconcileInterval = parseDurationOrDefault("RECONCILE_INTERVAL", time.Minute)
	cfg.RateLimitPeriod = parseDurationOrDefault("RATE_LIMIT_PERIOD", time.Minute)

	cfg.RateLimitRequests = viper.GetInt64("RATE_LIMIT_REQUESTS")
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 10
		log.Printf("Warning: invalid RATE_LIMIT_REQUESTS. Defaulting to %d.\n", cfg.RateLimitRequests)
	}

	return cfg, nil
}

func parseDurationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
