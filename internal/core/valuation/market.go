package valuation

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MarketData answers price and FX questions as of a date.
type MarketData interface {
	// Price returns the latest price on or before date; ok is false when none exists.
	Price(ctx context.Context, securityID string, date time.Time) (price decimal.Decimal, ok bool, err error)
	// Factor returns the multiplier converting from into to on date, or a
	// MissingMarketData error.
	Factor(ctx context.Context, from, to string, date time.Time) (decimal.Decimal, error)
}

// Convert expresses amount in currency to. Zero amounts and same-currency
// conversions never touch market data.
func Convert(ctx context.Context, md MarketData, amount decimal.Decimal, from, to string, date time.Time) (decimal.Decimal, error) {
	from, to = domain.NormalizeCurrency(from), domain.NormalizeCurrency(to)
	if amount.IsZero() || from == to {
		return amount, nil
	}
	f, err := md.Factor(ctx, from, to, date)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(f), nil
}

// LocalValue is the value of a book in one currency, before conversion.
type LocalValue struct {
	Cash        decimal.Decimal
	MarketValue decimal.Decimal
	OpenCost    decimal.Decimal
}

// NAV is cash plus market value.
func (v LocalValue) NAV() decimal.Decimal { return v.Cash.Add(v.MarketValue) }

// Unrealized is market value minus the cost of the open lots.
func (v LocalValue) Unrealized() decimal.Decimal { return v.MarketValue.Sub(v.OpenCost) }

// ValuedHolding is a holding with its price on the valuation date.
type ValuedHolding struct {
	Holding
	Price       decimal.NullDecimal
	MarketValue decimal.Decimal
}

// Snapshot is a book valued on a date, grouped by currency.
type Snapshot struct {
	Date     time.Time
	Local    map[string]LocalValue
	Holdings []ValuedHolding
}

// Value prices every open holding of book at date. A security without a
// price has no market value but keeps its cost.
func Value(ctx context.Context, book *Book, date time.Time, md MarketData) (Snapshot, error) {
	snap := Snapshot{Date: date, Local: make(map[string]LocalValue)}
	for ccy, amount := range book.Cash() {
		v := snap.Local[ccy]
		v.Cash = amount
		snap.Local[ccy] = v
	}
	for _, h := range book.Holdings() {
		vh := ValuedHolding{Holding: h}
		price, ok, err := md.Price(ctx, h.SecurityID, date)
		if err != nil {
			return Snapshot{}, err
		}
		if ok {
			vh.Price = decimal.NewNullDecimal(price)
			vh.MarketValue = h.Quantity.Mul(price)
		}
		v := snap.Local[h.Currency]
		v.MarketValue = v.MarketValue.Add(vh.MarketValue)
		v.OpenCost = v.OpenCost.Add(h.Cost)
		snap.Local[h.Currency] = v
		snap.Holdings = append(snap.Holdings, vh)
	}
	return snap, nil
}

// TotalIn converts the snapshot's NAV into target.
func (s Snapshot) TotalIn(ctx context.Context, md MarketData, target string) (decimal.Decimal, error) {
	total := decimal.Zero
	for ccy, v := range s.Local {
		converted, err := Convert(ctx, md, v.NAV(), ccy, target, s.Date)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(converted)
	}
	return total, nil
}

// UnrealizedIn converts the snapshot's unrealized gain into target.
func (s Snapshot) UnrealizedIn(ctx context.Context, md MarketData, target string) (decimal.Decimal, error) {
	total := decimal.Zero
	for ccy, v := range s.Local {
		converted, err := Convert(ctx, md, v.Unrealized(), ccy, target, s.Date)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(converted)
	}
	return total, nil
}
