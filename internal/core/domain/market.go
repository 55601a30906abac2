package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FXPairs are the quotes carried by every FX snapshot. A pair "XY" quotes
// units of X per one unit of Y.
var FXPairs = []string{"USDEUR", "USDGBP", "CHFGBP", "RUBUSD", "PLNUSD"}

// FXSnapshot is the set of pair rates an investor recorded for one date.
type FXSnapshot struct {
	InvestorID string
	Date       time.Time
	Rates      map[string]decimal.Decimal
}

// Factor returns f such that amount_in_from * f = amount_in_to. Direct,
// inverse and chained quotes are all used. A zero quote is treated as absent.
func (s FXSnapshot) Factor(from, to string) (decimal.Decimal, bool) {
	from, to = NormalizeCurrency(from), NormalizeCurrency(to)
	if from == to {
		return decimal.NewFromInt(1), true
	}

	edges := make(map[string]map[string]decimal.Decimal)
	link := func(a, b string, f decimal.Decimal) {
		if edges[a] == nil {
			edges[a] = make(map[string]decimal.Decimal)
		}
		edges[a][b] = f
	}
	for pair, rate := range s.Rates {
		if len(pair) != 6 || !rate.IsPositive() {
			continue
		}
		x, y := pair[:3], pair[3:]
		// one Y buys rate X
		link(y, x, rate)
		link(x, y, decimal.NewFromInt(1).Div(rate))
	}

	factors := map[string]decimal.Decimal{from: decimal.NewFromInt(1)}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for next, f := range edges[cur] {
			if _, seen := factors[next]; seen {
				continue
			}
			factors[next] = factors[cur].Mul(f)
			if next == to {
				return factors[next], true
			}
			queue = append(queue, next)
		}
	}
	return decimal.Zero, false
}

// PriceObservation is a security's close price on a date.
type PriceObservation struct {
	SecurityID string
	Date       time.Time
	Price      decimal.Decimal
}

// Security is a tradable asset. Its position and gains are derived from
// the ledger, never stored.
type Security struct {
	SecurityID string
	ISIN       string
	Name       string
	Currency   string
	AssetType  string
	AuditFields
}
