package valuation

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/returns"
	"github.com/shopspring/decimal"
)

// Components is the additive NAV breakdown of a period in one currency.
// Transfers only appear in local breakdowns; in the target currency their
// translation lands in the FX term.
type Components struct {
	BOP                 decimal.Decimal
	EOP                 decimal.Decimal
	Invested            decimal.Decimal
	CashOut             decimal.Decimal
	PriceChange         decimal.Decimal
	CapitalDistribution decimal.Decimal
	Commission          decimal.Decimal
	Tax                 decimal.Decimal
	Transfers           decimal.Decimal
	FX                  decimal.Decimal
}

// Expected is BOP plus the signed components.
func (c Components) Expected() decimal.Decimal {
	return c.BOP.
		Add(c.Invested).
		Add(c.CashOut).
		Add(c.PriceChange).
		Add(c.CapitalDistribution).
		Sub(c.Commission).
		Sub(c.Tax).
		Add(c.Transfers).
		Add(c.FX)
}

// PeriodResult is the breakdown of (From, To].
type PeriodResult struct {
	From   time.Time
	To     time.Time
	Local  map[string]Components
	Target Components
	// Flows are the external cash flows in the target currency, contributions positive.
	Flows []returns.CashFlow
}

// Period advances cur from its current position (which must be From) to to
// and decomposes the NAV change in each currency and in target. Flows are
// converted at their own date, BOP at from and EOP at to; FX is whatever
// remains, so the target breakdown always adds up.
func Period(ctx context.Context, cur *Cursor, from, to time.Time, target string, md MarketData) (PeriodResult, error) {
	res := PeriodResult{From: from, To: to, Local: make(map[string]Components)}

	bop, err := Value(ctx, cur.Book(), from, md)
	if err != nil {
		return PeriodResult{}, err
	}

	var moves []Movement
	cur.AdvanceTo(to, func(m Movement) { moves = append(moves, m) })

	eop, err := Value(ctx, cur.Book(), to, md)
	if err != nil {
		return PeriodResult{}, err
	}

	local := func(ccy string) Components { return res.Local[ccy] }
	for ccy, v := range bop.Local {
		c := local(ccy)
		c.BOP = v.NAV()
		c.PriceChange = c.PriceChange.Sub(v.Unrealized())
		res.Local[ccy] = c
	}
	for ccy, v := range eop.Local {
		c := local(ccy)
		c.EOP = v.NAV()
		c.PriceChange = c.PriceChange.Add(v.Unrealized())
		res.Local[ccy] = c
	}

	t := &res.Target
	for _, m := range moves {
		converted, err := Convert(ctx, md, m.Amount, m.Currency, target, m.Date)
		if err != nil {
			return PeriodResult{}, err
		}
		c := local(m.Currency)
		switch m.Kind {
		case MoveCashIn:
			c.Invested = c.Invested.Add(m.Amount)
			t.Invested = t.Invested.Add(converted)
			res.Flows = append(res.Flows, returns.CashFlow{Date: m.Date, Amount: converted})
		case MoveCashOut:
			c.CashOut = c.CashOut.Add(m.Amount)
			t.CashOut = t.CashOut.Add(converted)
			res.Flows = append(res.Flows, returns.CashFlow{Date: m.Date, Amount: converted})
		case MoveDistribution:
			c.CapitalDistribution = c.CapitalDistribution.Add(m.Amount)
			t.CapitalDistribution = t.CapitalDistribution.Add(converted)
		case MoveCommission:
			c.Commission = c.Commission.Add(m.Amount)
			t.Commission = t.Commission.Add(converted)
		case MoveTax:
			c.Tax = c.Tax.Add(m.Amount)
			t.Tax = t.Tax.Add(converted)
		case MoveRealized:
			c.PriceChange = c.PriceChange.Add(m.Amount)
			t.PriceChange = t.PriceChange.Add(converted)
		case MoveTransfer:
			c.Transfers = c.Transfers.Add(m.Amount)
		case MoveTrade:
			// offset by the change in open cost, already inside PriceChange
		}
		res.Local[m.Currency] = c
	}

	if t.BOP, err = bop.TotalIn(ctx, md, target); err != nil {
		return PeriodResult{}, err
	}
	if t.EOP, err = eop.TotalIn(ctx, md, target); err != nil {
		return PeriodResult{}, err
	}
	unrealizedEnd, err := eop.UnrealizedIn(ctx, md, target)
	if err != nil {
		return PeriodResult{}, err
	}
	unrealizedStart, err := bop.UnrealizedIn(ctx, md, target)
	if err != nil {
		return PeriodResult{}, err
	}
	t.PriceChange = t.PriceChange.Add(unrealizedEnd).Sub(unrealizedStart)
	t.FX = t.EOP.Sub(t.BOP.
		Add(t.Invested).
		Add(t.CashOut).
		Add(t.PriceChange).
		Add(t.CapitalDistribution).
		Sub(t.Commission).
		Sub(t.Tax))

	return res, nil
}
