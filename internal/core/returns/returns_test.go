package returns_test

import (
	"testing"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/returns"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func flow(date time.Time, amount int64) returns.CashFlow {
	return returns.CashFlow{Date: date, Amount: decimal.NewFromInt(amount)}
}

func TestIRR(t *testing.T) {
	tests := []struct {
		name     string
		flows    []returns.CashFlow
		terminal returns.CashFlow
		want     float64
	}{
		{
			name:     "one year ten percent",
			flows:    []returns.CashFlow{flow(day(2021, 1, 1), -100)},
			terminal: flow(day(2022, 1, 1), 110),
			want:     0.10,
		},
		{
			name:     "loss",
			flows:    []returns.CashFlow{flow(day(2021, 1, 1), -1000)},
			terminal: flow(day(2022, 1, 1), 800),
			want:     -0.20,
		},
		{
			name: "two contributions",
			flows: []returns.CashFlow{
				flow(day(2021, 1, 1), -1000),
				flow(day(2022, 1, 1), -1000),
			},
			terminal: flow(day(2023, 1, 1), 2310),
			want:     0.10,
		},
		{
			name:     "large gain takes the bisection path if needed",
			flows:    []returns.CashFlow{flow(day(2021, 1, 1), -100)},
			terminal: flow(day(2022, 1, 1), 5000),
			want:     49.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := returns.IRR(tt.flows, tt.terminal)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-4)
		})
	}
}

func TestIRR_Undefined(t *testing.T) {
	_, err := returns.IRR([]returns.CashFlow{flow(day(2021, 1, 1), 100)}, flow(day(2022, 1, 1), 100))
	assert.ErrorIs(t, err, returns.ErrUndefined)

	_, err = returns.IRR(nil, flow(day(2022, 1, 1), 0))
	assert.ErrorIs(t, err, returns.ErrUndefined)
}

func TestModifiedDietz(t *testing.T) {
	start := day(2021, 12, 31)
	end := day(2022, 12, 31)

	t.Run("no flows is simple return", func(t *testing.T) {
		got := returns.ModifiedDietz(decimal.NewFromInt(1000), decimal.NewFromInt(1100), nil, start, end)
		require.True(t, got.Valid)
		assert.Equal(t, "10", got.Decimal.String())
	})

	t.Run("flow at start weighs fully", func(t *testing.T) {
		got := returns.ModifiedDietz(decimal.Zero, decimal.NewFromInt(1100),
			[]returns.CashFlow{flow(start, 1000)}, start, end)
		require.True(t, got.Valid)
		assert.Equal(t, "10", got.Decimal.String())
	})

	t.Run("mid year flow weighs partly", func(t *testing.T) {
		got := returns.ModifiedDietz(decimal.NewFromInt(1000), decimal.NewFromInt(2100),
			[]returns.CashFlow{flow(day(2022, 7, 2), 1000)}, start, end)
		require.True(t, got.Valid)
		// basis = 1000 + 1000*182/365
		assert.InDelta(t, 6.6728, got.Decimal.InexactFloat64(), 1e-3)
	})

	t.Run("zero basis is undefined", func(t *testing.T) {
		got := returns.ModifiedDietz(decimal.Zero, decimal.NewFromInt(100),
			[]returns.CashFlow{flow(end, 100)}, start, end)
		assert.False(t, got.Valid)
	})
}
