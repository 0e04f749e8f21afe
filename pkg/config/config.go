// Package config loads application configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// TreasuryAccounts names the chart accounts the treasury operations post
// against. The codes must exist in the chart before the first treasury call.
type TreasuryAccounts struct {
	CashCode       string
	CapitalCode    string
	PayableCode    string
	ReceivableCode string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	RateLimit         string

	Treasury TreasuryAccounts
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "ledger-engine")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("TREASURY_CASH_ACCOUNT", "ASSET.CASH")
	viper.SetDefault("TREASURY_CAPITAL_ACCOUNT", "EQUITY.CAPITAL")
	viper.SetDefault("TREASURY_PAYABLE_ACCOUNT", "LIABILITY.PAYABLE")
	viper.SetDefault("TREASURY_RECEIVABLE_ACCOUNT", "ASSET.RECEIVABLE")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.Treasury = TreasuryAccounts{
		CashCode:       viper.GetString("TREASURY_CASH_ACCOUNT"),
		CapitalCode:    viper.GetString("TREASURY_CAPITAL_ACCOUNT"),
		PayableCode:    viper.GetString("TREASURY_PAYABLE_ACCOUNT"),
		ReceivableCode: viper.GetString("TREASURY_RECEIVABLE_ACCOUNT"),
	}

	return cfg, nil
}
