package apperrors_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchTheirSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"not found", apperrors.NewNotFoundError("selector not found"), apperrors.ErrNotFound, "selector not found: resource not found"},
		{"validation", apperrors.NewValidationError("bad date"), apperrors.ErrValidation, "bad date: validation error"},
		{"forbidden", apperrors.NewForbiddenError("not yours"), apperrors.ErrForbidden, "not yours: forbidden"},
		{
			"missing fx",
			apperrors.NewMissingFXError("GBP", "USD", time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC)),
			apperrors.ErrMissingMarketData,
			"missing FX rate GBP->USD on or before 2022-01-10",
		},
		{
			"reconciliation",
			&apperrors.ReconciliationError{Year: 2022, Currency: "USD", Check: "bop", Expected: decimal.NewFromInt(999), Actual: decimal.NewFromInt(1200)},
			apperrors.ErrReconciliation,
			"reconciliation failed for 2022 (USD, bop): expected 999, got 1200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("computing year: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestNewAppError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperrors.NewAppError(500, "failed to query transactions", cause)

	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "failed to query transactions: connection reset", err.Error())
	assert.Equal(t, 500, err.Code)
}
