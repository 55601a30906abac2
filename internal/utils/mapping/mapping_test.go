package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionMapping_KeepsNulls(t *testing.T) {
	cf := decimal.NewFromInt(100)
	d := domain.Transaction{
		TransactionID: "t1",
		Date:          time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		Type:          domain.TransactionCashIn,
		Currency:      "USD",
		CashFlow:      &cf,
	}

	m := ToModelTransaction(d)
	assert.False(t, m.Quantity.Valid)
	assert.False(t, m.Price.Valid)
	assert.True(t, m.CashFlow.Valid)

	back := ToDomainTransaction(m)
	assert.Nil(t, back.Quantity)
	require.NotNil(t, back.CashFlow)
	assert.True(t, back.CashFlow.Equal(cf))
}

func TestFXSnapshotMapping(t *testing.T) {
	m := models.FXRate{
		InvestorID: "inv",
		Date:       time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		USDEUR:     decimal.NewNullDecimal(decimal.RequireFromString("1.10")),
	}
	snap := ToDomainFXSnapshot(m)
	assert.Len(t, snap.Rates, 1)

	f, ok := snap.Factor("EUR", "USD")
	require.True(t, ok)
	assert.Equal(t, "1.1", f.String())

	_, ok = snap.Factor("PLN", "USD")
	assert.False(t, ok)

	back := ToModelFXRate(snap)
	assert.True(t, back.USDEUR.Valid)
	assert.False(t, back.PLNUSD.Valid)
}
