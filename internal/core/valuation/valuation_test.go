package valuation_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/core/valuation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string { return &s }

func cash(date time.Time, typ domain.TransactionType, ccy, amount string) domain.Transaction {
	return domain.Transaction{Date: date, Type: typ, Currency: ccy, CashFlow: ptr(amount)}
}

func trade(date time.Time, sec, ccy, qty, price string) domain.Transaction {
	typ := domain.TransactionBuy
	if dec(qty).IsNegative() {
		typ = domain.TransactionSell
	}
	return domain.Transaction{Date: date, Type: typ, Currency: ccy, SecurityID: strPtr(sec), Quantity: ptr(qty), Price: ptr(price)}
}

// staticMarket serves prices by security and FX factors that do not change over time.
type staticMarket struct {
	prices  map[string][]domain.PriceObservation
	factors map[string]decimal.Decimal
}

func (m staticMarket) Price(_ context.Context, securityID string, date time.Time) (decimal.Decimal, bool, error) {
	var found *domain.PriceObservation
	for i, p := range m.prices[securityID] {
		if !p.Date.After(date) {
			found = &m.prices[securityID][i]
		}
	}
	if found == nil {
		return decimal.Zero, false, nil
	}
	return found.Price, true, nil
}

func (m staticMarket) Factor(_ context.Context, from, to string, date time.Time) (decimal.Decimal, error) {
	f, ok := m.factors[from+to]
	if !ok || f.IsZero() {
		return decimal.Zero, apperrors.NewMissingFXError(from, to, date)
	}
	return f, nil
}

func TestLotQueue_FIFO(t *testing.T) {
	l := valuation.NewLedger([]domain.Transaction{
		trade(day(2022, 1, 1), "S", "USD", "10", "100"),
		trade(day(2022, 2, 1), "S", "USD", "10", "200"),
		trade(day(2022, 3, 1), "S", "USD", "-15", "300"),
	}, nil)

	book, moves := valuation.Replay(l, day(2022, 12, 31))
	assert.Equal(t, "5", book.Position("S").String())

	holdings := book.Holdings()
	require.Len(t, holdings, 1)
	// remaining five units come from the second lot
	assert.Equal(t, "1000", holdings[0].Cost.String())

	realized := decimal.Zero
	for _, m := range moves {
		if m.Kind == valuation.MoveRealized {
			realized = realized.Add(m.Amount)
		}
	}
	// 10*(300-100) + 5*(300-200)
	assert.Equal(t, "2500", realized.String())
}

func TestLotQueue_ShortThenCover(t *testing.T) {
	l := valuation.NewLedger([]domain.Transaction{
		trade(day(2022, 1, 1), "S", "USD", "-10", "50"),
		trade(day(2022, 2, 1), "S", "USD", "15", "40"),
	}, nil)

	book, moves := valuation.Replay(l, day(2022, 12, 31))
	assert.Equal(t, "5", book.Position("S").String())
	assert.Equal(t, "200", book.Holdings()[0].Cost.String())

	var realized decimal.Decimal
	for _, m := range moves {
		if m.Kind == valuation.MoveRealized {
			realized = realized.Add(m.Amount)
		}
	}
	assert.Equal(t, "100", realized.String())
}

func TestOpenPositionAndHistory(t *testing.T) {
	txs := []domain.Transaction{
		trade(day(2020, 1, 1), "S", "USD", "10", "10"),
		trade(day(2020, 6, 1), "S", "USD", "-10", "12"),
		trade(day(2021, 1, 1), "S", "USD", "4", "11"),
		trade(day(2021, 1, 1), "T", "USD", "7", "11"),
	}

	assert.Equal(t, "0", valuation.OpenPosition(txs, "S", day(2020, 12, 31)).String())
	assert.Equal(t, "4", valuation.OpenPosition(txs, "S", day(2021, 12, 31)).String())
	assert.True(t, valuation.OpenPosition(txs, "X", day(2021, 12, 31)).IsZero())

	h := valuation.History(txs, "S", day(2021, 12, 31))
	require.NotNil(t, h.InvestmentDate)
	assert.Equal(t, day(2020, 1, 1), *h.InvestmentDate)
	assert.Equal(t, []time.Time{day(2020, 6, 1)}, h.ExitDates)
	require.Len(t, h.RoundTrips, 2)
	assert.Nil(t, h.RoundTrips[1].Closed)

	none := valuation.History(txs, "X", day(2021, 12, 31))
	assert.Nil(t, none.InvestmentDate)
	assert.True(t, none.Position.IsZero())
}

func TestNAV(t *testing.T) {
	ctx := context.Background()
	l := valuation.NewLedger([]domain.Transaction{
		cash(day(2022, 1, 1), domain.TransactionCashIn, "USD", "1000"),
		trade(day(2022, 1, 2), "S", "USD", "5", "100"),
		cash(day(2022, 1, 3), domain.TransactionCashIn, "EUR", "100"),
	}, nil)
	md := staticMarket{
		prices:  map[string][]domain.PriceObservation{"S": {{SecurityID: "S", Date: day(2022, 6, 1), Price: dec("120")}}},
		factors: map[string]decimal.Decimal{"EURUSD": dec("1.1")},
	}

	nav, err := valuation.NAV(ctx, l, day(2022, 12, 31), "USD", md)
	require.NoError(t, err)
	// 500 cash + 600 market value + 110 from EUR
	assert.Equal(t, "1210", nav.Total.String())

	t.Run("missing price values the position at zero", func(t *testing.T) {
		nav, err := valuation.NAV(ctx, l, day(2022, 3, 1), "USD", md)
		require.NoError(t, err)
		assert.Equal(t, "610", nav.Total.String())

		unrealized, err := valuation.UnrealizedGainLoss(ctx, l, day(2022, 3, 1), "USD", md)
		require.NoError(t, err)
		assert.Equal(t, "-500", unrealized.String())
	})

	t.Run("missing fx rate is an error", func(t *testing.T) {
		_, err := valuation.NAV(ctx, l, day(2022, 12, 31), "GBP", md)
		assert.ErrorIs(t, err, apperrors.ErrMissingMarketData)
	})

	t.Run("same currency never needs fx", func(t *testing.T) {
		usdOnly := valuation.NewLedger(l.Transactions[:2], nil)
		nav, err := valuation.NAV(ctx, usdOnly, day(2022, 12, 31), "USD", staticMarket{prices: md.prices})
		require.NoError(t, err)
		assert.Equal(t, "1100", nav.Total.String())
	})
}

func TestGainsAndDistributions(t *testing.T) {
	ctx := context.Background()
	l := valuation.NewLedger([]domain.Transaction{
		cash(day(2022, 1, 1), domain.TransactionCashIn, "USD", "2000"),
		trade(day(2022, 1, 2), "S", "USD", "10", "100"),
		cash(day(2022, 3, 1), domain.TransactionDividend, "USD", "30"),
		cash(day(2022, 3, 2), domain.TransactionTax, "USD", "-4.5"),
		func() domain.Transaction {
			tx := trade(day(2022, 4, 1), "S", "USD", "-4", "150")
			tx.Commission = ptr("-2")
			return tx
		}(),
		cash(day(2023, 3, 1), domain.TransactionInterest, "USD", "10"),
	}, nil)
	md := staticMarket{prices: map[string][]domain.PriceObservation{"S": {{SecurityID: "S", Date: day(2022, 12, 30), Price: dec("90")}}}}

	realized, err := valuation.RealizedGainLoss(ctx, l, day(2022, 1, 1), day(2022, 12, 31), "USD", md)
	require.NoError(t, err)
	assert.Equal(t, "198", realized.String())

	outside, err := valuation.RealizedGainLoss(ctx, l, day(2023, 1, 1), day(2023, 12, 31), "USD", md)
	require.NoError(t, err)
	assert.True(t, outside.IsZero())

	unrealized, err := valuation.UnrealizedGainLoss(ctx, l, day(2022, 12, 31), "USD", md)
	require.NoError(t, err)
	assert.Equal(t, "-60", unrealized.String())

	dist, err := valuation.CapitalDistribution(ctx, l, day(2022, 1, 1), day(2023, 12, 31), "USD", md)
	require.NoError(t, err)
	assert.Equal(t, "40", dist.String())

	commission, tax, err := valuation.CommissionAndTax(ctx, l, day(2022, 1, 1), day(2022, 12, 31), "USD", md)
	require.NoError(t, err)
	assert.Equal(t, "2", commission.String())
	assert.Equal(t, "4.5", tax.String())
}

func TestTotalsByRoundTrip_SameDayReopen(t *testing.T) {
	withCommission := func(tx domain.Transaction, c string) domain.Transaction {
		tx.Commission = ptr(c)
		return tx
	}
	dividend := cash(day(2022, 6, 1), domain.TransactionDividend, "USD", "7")
	dividend.SecurityID = strPtr("S")

	l := valuation.NewLedger([]domain.Transaction{
		trade(day(2022, 1, 3), "S", "USD", "10", "100"),
		withCommission(trade(day(2022, 6, 1), "S", "USD", "-10", "150"), "2"),
		withCommission(trade(day(2022, 6, 1), "S", "USD", "5", "150"), "1"),
		dividend,
		trade(day(2022, 9, 1), "S", "USD", "-5", "160"),
	}, nil)

	hist := valuation.History(l.Transactions, "S", day(2022, 12, 31))
	require.Len(t, hist.RoundTrips, 2)
	assert.Equal(t, day(2022, 6, 1), hist.RoundTrips[1].Opened)

	totals, err := valuation.TotalsByRoundTrip(context.Background(), l, "S", day(2022, 12, 31), "USD", staticMarket{})
	require.NoError(t, err)
	require.Len(t, totals, 2)

	assert.Equal(t, "498", totals[0].Realized.String())
	assert.Equal(t, "2", totals[0].Commission.String())
	assert.True(t, totals[0].CapitalDistribution.IsZero())

	assert.Equal(t, "50", totals[1].Realized.String())
	assert.Equal(t, "1", totals[1].Commission.String())
	assert.Equal(t, "7", totals[1].CapitalDistribution.String())
}

func TestLastActivityDate(t *testing.T) {
	closed := valuation.NewLedger([]domain.Transaction{
		trade(day(2020, 1, 1), "S", "USD", "10", "10"),
		trade(day(2020, 6, 1), "S", "USD", "-10", "12"),
	}, nil)
	d, ok := valuation.LastActivityDate(closed, day(2024, 5, 5))
	require.True(t, ok)
	assert.Equal(t, day(2020, 6, 1), d)

	open := valuation.NewLedger(closed.Transactions[:1], nil)
	d, ok = valuation.LastActivityDate(open, day(2024, 5, 5))
	require.True(t, ok)
	assert.Equal(t, day(2024, 5, 5), d)

	_, ok = valuation.LastActivityDate(valuation.Ledger{}, day(2024, 5, 5))
	assert.False(t, ok)
}

func TestPeriod_Reconciles(t *testing.T) {
	ctx := context.Background()
	l := valuation.NewLedger([]domain.Transaction{
		cash(day(2022, 1, 1), domain.TransactionCashIn, "USD", "1500"),
		trade(day(2022, 1, 2), "S", "USD", "10", "100"),
		trade(day(2022, 8, 31), "S", "USD", "-10", "120"),
		cash(day(2022, 9, 1), domain.TransactionCashOut, "USD", "-1200"),
	}, nil)

	cur := l.Cursor()
	cur.AdvanceTo(day(2021, 12, 31), nil)
	res, err := valuation.Period(ctx, cur, day(2021, 12, 31), day(2022, 12, 31), "USD", staticMarket{})
	require.NoError(t, err)

	assert.Equal(t, "0", res.Target.BOP.String())
	assert.Equal(t, "500", res.Target.EOP.String())
	assert.Equal(t, "1500", res.Target.Invested.String())
	assert.Equal(t, "-1200", res.Target.CashOut.String())
	assert.Equal(t, "200", res.Target.PriceChange.String())
	assert.True(t, res.Target.FX.IsZero())
	assert.Len(t, res.Flows, 2)

	usd := res.Local["USD"]
	assert.True(t, usd.EOP.Equal(usd.Expected()))
}

func TestPeriod_MultiCurrencyTranslation(t *testing.T) {
	ctx := context.Background()
	l := valuation.NewLedger(
		[]domain.Transaction{
			cash(day(2022, 1, 1), domain.TransactionCashIn, "EUR", "1000"),
			trade(day(2022, 2, 1), "S", "EUR", "2", "100"),
		},
		[]domain.FXTransaction{{
			Date: day(2022, 3, 1), FromCurrency: "EUR", ToCurrency: "USD",
			FromAmount: dec("100"), ToAmount: dec("110"), Commission: ptr("1"),
		}},
	)
	md := staticMarket{
		prices:  map[string][]domain.PriceObservation{"S": {{SecurityID: "S", Date: day(2022, 6, 1), Price: dec("130")}}},
		factors: map[string]decimal.Decimal{"EURUSD": dec("1.2")},
	}

	cur := l.Cursor()
	cur.AdvanceTo(day(2021, 12, 31), nil)
	res, err := valuation.Period(ctx, cur, day(2021, 12, 31), day(2022, 12, 31), "USD", md)
	require.NoError(t, err)

	for ccy, c := range res.Local {
		assert.Truef(t, c.EOP.Equal(c.Expected()), "currency %s does not reconcile", ccy)
	}
	eur := res.Local["EUR"]
	assert.Equal(t, "-100", eur.Transfers.String())
	assert.Equal(t, "1", eur.Commission.String())
	assert.Equal(t, "60", eur.PriceChange.String())

	// EUR: 1000-200-100-1 cash + 260 stock = 959 -> 1150.8 USD, plus 110 USD
	assert.Equal(t, "1260.8", res.Target.EOP.String())
	assert.True(t, res.Target.EOP.Equal(res.Target.Expected()))
	// 110 USD received for 100 EUR worth 120 USD
	assert.Equal(t, "-10", res.Target.FX.String())
}
