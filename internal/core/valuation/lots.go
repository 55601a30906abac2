package valuation

import (
	"time"

	"github.com/shopspring/decimal"
)

// lot is an open parcel of a position. Quantity and cost carry the same
// sign: long lots are positive, short lots negative.
type lot struct {
	opened   time.Time
	quantity decimal.Decimal
	cost     decimal.Decimal
}

// lotQueue holds the open lots of one security in the order they were opened.
type lotQueue struct {
	currency string
	lots     []lot
}

// trade applies a signed quantity at price and returns the gross realized
// gain of the part that closed existing lots, plus whether anything closed.
func (q *lotQueue) trade(date time.Time, quantity, price decimal.Decimal) (decimal.Decimal, bool) {
	realized := decimal.Zero
	closed := false
	remaining := quantity

	for len(q.lots) > 0 && !remaining.IsZero() && remaining.Sign() != q.lots[0].quantity.Sign() {
		front := &q.lots[0]
		matched := decimal.Min(remaining.Abs(), front.quantity.Abs())
		portion := front.cost.Mul(matched).Div(front.quantity.Abs())
		if matched.Equal(front.quantity.Abs()) {
			portion = front.cost
		}

		// closing value of the matched part, signed like the trade
		value := matched.Mul(price)
		if remaining.IsPositive() {
			realized = realized.Sub(value).Sub(portion)
		} else {
			realized = realized.Add(value).Sub(portion)
		}
		closed = true

		if remaining.IsPositive() {
			remaining = remaining.Sub(matched)
			front.quantity = front.quantity.Add(matched)
		} else {
			remaining = remaining.Add(matched)
			front.quantity = front.quantity.Sub(matched)
		}
		front.cost = front.cost.Sub(portion)
		if front.quantity.IsZero() {
			q.lots = q.lots[1:]
		}
	}

	if !remaining.IsZero() {
		q.lots = append(q.lots, lot{opened: date, quantity: remaining, cost: remaining.Mul(price)})
	}
	return realized, closed
}

func (q *lotQueue) quantity() decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.lots {
		total = total.Add(l.quantity)
	}
	return total
}

func (q *lotQueue) cost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.lots {
		total = total.Add(l.cost)
	}
	return total
}
