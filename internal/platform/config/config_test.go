package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/perf")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"USD", "EUR", "GBP", "CHF", "RUB", "PLN"}, cfg.SupportedCurrencies)
	assert.Equal(t, 30*time.Minute, cfg.JobSessionTTL)
	assert.Equal(t, 4, cfg.JobConcurrency)
	assert.Equal(t, "0.01", cfg.ReconciliationTolerance.String())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/perf")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SUPPORTED_CURRENCIES", "usd, eur")
	t.Setenv("JOB_CONCURRENCY", "0")
	t.Setenv("JOB_SESSION_TTL", "5m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"USD", "EUR"}, cfg.SupportedCurrencies)
	assert.Equal(t, 1, cfg.JobConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.JobSessionTTL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/perf")
	t.Setenv("JWT_SECRET", "secret")

	t.Run("unknown currency", func(t *testing.T) {
		t.Setenv("SUPPORTED_CURRENCIES", "USD,QQQ")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "QQQ")
	})

	t.Run("bad tolerance", func(t *testing.T) {
		t.Setenv("RECONCILIATION_TOLERANCE", "-1")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("missing database", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
