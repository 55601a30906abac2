package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/utils"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	Port            string
	IsProduction    bool
	EnableDBCheck   bool
	JWTSecret       string
	JWTIssuer       string
	LogLevel        string
	FrontendBaseURL string
	MigrationsPath  string

	PosthogAPIKey   string
	PosthogEndpoint string

	// Performance job settings
	SupportedCurrencies     []string
	JobSessionTTL           time.Duration
	JobConcurrency          int
	ReconciliationTolerance decimal.Decimal
	StartRateLimit          string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "portfolio-performance")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	v.SetDefault("SUPPORTED_CURRENCIES", strings.Join(domain.DefaultSupportedCurrencies, ","))
	v.SetDefault("JOB_SESSION_TTL", "30m")
	v.SetDefault("JOB_CONCURRENCY", 4)
	v.SetDefault("RECONCILIATION_TOLERANCE", "0.01")
	v.SetDefault("START_RATE_LIMIT", "20-M")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     v.GetString("DATABASE_URL"),
		Port:            v.GetString("PORT"),
		IsProduction:    v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:   v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTIssuer:       v.GetString("JWT_ISSUER"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		FrontendBaseURL: v.GetString("FRONTEND_BASE_URL"),
		MigrationsPath:  v.GetString("MIGRATIONS_PATH"),
		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: v.GetString("POSTHOG_ENDPOINT"),
		JobConcurrency:  v.GetInt("JOB_CONCURRENCY"),
		StartRateLimit:  v.GetString("START_RATE_LIMIT"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL must be set")
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "dev-only-insecure-secret"
		log.Println("Warning: JWT_SECRET not set. Using an insecure development key.")
	}

	ttl, err := time.ParseDuration(v.GetString("JOB_SESSION_TTL"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid JOB_SESSION_TTL %q", v.GetString("JOB_SESSION_TTL"))
	}
	cfg.JobSessionTTL = ttl

	if cfg.JobConcurrency < 1 {
		log.Printf("Warning: JOB_CONCURRENCY %d is below 1. Defaulting to 1.\n", cfg.JobConcurrency)
		cfg.JobConcurrency = 1
	}

	tolerance, err := decimal.NewFromString(v.GetString("RECONCILIATION_TOLERANCE"))
	if err != nil || tolerance.IsNegative() {
		return nil, fmt.Errorf("invalid RECONCILIATION_TOLERANCE %q", v.GetString("RECONCILIATION_TOLERANCE"))
	}
	cfg.ReconciliationTolerance = tolerance

	cfg.SupportedCurrencies, err = parseCurrencies(v.GetString("SUPPORTED_CURRENCIES"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseCurrencies(raw string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		code := domain.NormalizeCurrency(part)
		if code == "" {
			continue
		}
		if !utils.IsKnownCurrency(code) {
			return nil, fmt.Errorf("SUPPORTED_CURRENCIES contains unknown currency %q", code)
		}
		out = append(out, code)
	}
	if len(out) == 0 {
		return nil, errors.New("SUPPORTED_CURRENCIES must list at least one currency")
	}
	return out, nil
}
