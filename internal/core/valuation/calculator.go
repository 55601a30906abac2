package valuation

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenPosition is the signed sum of quantities of securityID dated on or before asOf.
func OpenPosition(txs []domain.Transaction, securityID string, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.SecurityIDOrEmpty() != securityID || tx.Date.After(asOf) {
			continue
		}
		total = total.Add(tx.QuantityOrZero())
	}
	return total
}

// NAVBreakdown is a NAV with the snapshot it was derived from.
type NAVBreakdown struct {
	Total    decimal.Decimal
	Snapshot Snapshot
}

// NAV values the ledger at asOf in target.
func NAV(ctx context.Context, l Ledger, asOf time.Time, target string, md MarketData) (NAVBreakdown, error) {
	book, _ := Replay(l, asOf)
	snap, err := Value(ctx, book, asOf, md)
	if err != nil {
		return NAVBreakdown{}, err
	}
	total, err := snap.TotalIn(ctx, md, target)
	if err != nil {
		return NAVBreakdown{}, err
	}
	return NAVBreakdown{Total: total, Snapshot: snap}, nil
}

// sumMovements converts and sums the movements in [start, end] accepted by keep.
func sumMovements(ctx context.Context, moves []Movement, start, end time.Time, target string, md MarketData, keep func(Movement) (decimal.Decimal, bool)) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range moves {
		if m.Date.Before(start) || m.Date.After(end) {
			continue
		}
		amount, ok := keep(m)
		if !ok {
			continue
		}
		converted, err := Convert(ctx, md, amount, m.Currency, target, m.Date)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(converted)
	}
	return total, nil
}

// RealizedGainLoss sums proceeds minus commission minus FIFO matched cost of
// every closing trade dated in [start, end].
func RealizedGainLoss(ctx context.Context, l Ledger, start, end time.Time, target string, md MarketData) (decimal.Decimal, error) {
	_, moves := Replay(l, end)
	return sumMovements(ctx, moves, start, end, target, md, realizedNet)
}

func realizedNet(m Movement) (decimal.Decimal, bool) {
	switch {
	case m.Kind == MoveRealized:
		return m.Amount, true
	case m.Kind == MoveCommission && m.Closing:
		return m.Amount.Neg(), true
	}
	return decimal.Zero, false
}

// UnrealizedGainLoss is market value minus FIFO cost of the positions open at asOf.
func UnrealizedGainLoss(ctx context.Context, l Ledger, asOf time.Time, target string, md MarketData) (decimal.Decimal, error) {
	book, _ := Replay(l, asOf)
	snap, err := Value(ctx, book, asOf, md)
	if err != nil {
		return decimal.Zero, err
	}
	return snap.UnrealizedIn(ctx, md, target)
}

// CapitalDistribution sums dividend and interest cash flows in [start, end].
func CapitalDistribution(ctx context.Context, l Ledger, start, end time.Time, target string, md MarketData) (decimal.Decimal, error) {
	_, moves := Replay(l, end)
	return sumMovements(ctx, moves, start, end, target, md, ofKind(MoveDistribution))
}

// CommissionAndTax sums commission and tax costs in [start, end].
func CommissionAndTax(ctx context.Context, l Ledger, start, end time.Time, target string, md MarketData) (commission, tax decimal.Decimal, err error) {
	_, moves := Replay(l, end)
	commission, err = sumMovements(ctx, moves, start, end, target, md, ofKind(MoveCommission))
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	tax, err = sumMovements(ctx, moves, start, end, target, md, ofKind(MoveTax))
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return commission, tax, nil
}

func ofKind(kind MovementKind) func(Movement) (decimal.Decimal, bool) {
	return func(m Movement) (decimal.Decimal, bool) {
		return m.Amount, m.Kind == kind
	}
}

// RoundTrip is a period during which a security's position was non-zero.
type RoundTrip struct {
	Opened time.Time
	Closed *time.Time
}

// SecurityHistory describes one security's trading life up to a date.
type SecurityHistory struct {
	InvestmentDate *time.Time
	ExitDates      []time.Time
	Position       decimal.Decimal
	RoundTrips     []RoundTrip
}

// History derives the investment date, exit dates and round trips of securityID.
func History(txs []domain.Transaction, securityID string, asOf time.Time) SecurityHistory {
	var h SecurityHistory
	position := decimal.Zero
	for _, tx := range NewLedger(txs, nil).Transactions {
		if tx.SecurityIDOrEmpty() != securityID || tx.Date.After(asOf) {
			continue
		}
		qty := tx.QuantityOrZero()
		if qty.IsZero() {
			continue
		}
		if h.InvestmentDate == nil {
			d := tx.Date
			h.InvestmentDate = &d
		}
		if position.IsZero() {
			h.RoundTrips = append(h.RoundTrips, RoundTrip{Opened: tx.Date})
		}
		position = position.Add(qty)
		if position.IsZero() {
			d := tx.Date
			h.ExitDates = append(h.ExitDates, d)
			h.RoundTrips[len(h.RoundTrips)-1].Closed = &d
		}
	}
	h.Position = position
	return h
}

// RoundTripTotals are the figures booked during one round trip.
type RoundTripTotals struct {
	Realized            decimal.Decimal
	CapitalDistribution decimal.Decimal
	Commission          decimal.Decimal
}

// TotalsByRoundTrip replays l up to asOf and sums the movements of securityID
// per round trip in target. Element i belongs to History's RoundTrips[i].
// Rows are attributed in replay order, so a position closed and reopened on
// the same day keeps each trip's figures apart.
func TotalsByRoundTrip(ctx context.Context, l Ledger, securityID string, asOf time.Time, target string, md MarketData) ([]RoundTripTotals, error) {
	_, moves := Replay(l, asOf)
	var out []RoundTripTotals
	for _, m := range moves {
		if m.SecurityID != securityID || m.RoundTrip == 0 {
			continue
		}
		for len(out) < m.RoundTrip {
			out = append(out, RoundTripTotals{})
		}
		converted, err := Convert(ctx, md, m.Amount, m.Currency, target, m.Date)
		if err != nil {
			return nil, err
		}
		t := &out[m.RoundTrip-1]
		switch {
		case m.Kind == MoveRealized:
			t.Realized = t.Realized.Add(converted)
		case m.Kind == MoveDistribution:
			t.CapitalDistribution = t.CapitalDistribution.Add(converted)
		case m.Kind == MoveCommission:
			t.Commission = t.Commission.Add(converted)
			if m.Closing {
				t.Realized = t.Realized.Sub(converted)
			}
		}
	}
	return out, nil
}

// LastActivityDate is asOf while any position is open at asOf, otherwise the
// date of the last row on or before asOf. ok is false for an empty ledger.
func LastActivityDate(l Ledger, asOf time.Time) (time.Time, bool) {
	cur := l.Cursor()
	cur.AdvanceTo(asOf, nil)
	last, ok := cur.LastApplied()
	if !ok {
		return time.Time{}, false
	}
	if cur.Book().AnyOpen() {
		return asOf, true
	}
	return last, true
}
