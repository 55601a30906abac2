package returns

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ModifiedDietz returns the period return in percent over (start, end]:
//
//	(eop - bop - sum(flows)) / (bop + sum(w_i * flow_i)) * 100
//
// with w_i the share of the period remaining after the flow. Flows are
// signed from the portfolio's view: contributions positive. The result is
// invalid when the denominator is not positive.
func ModifiedDietz(bop, eop decimal.Decimal, flows []CashFlow, start, end time.Time) decimal.NullDecimal {
	totalDays := decimal.NewFromInt(daysBetween(start, end))
	net := decimal.Zero
	weighted := decimal.Zero
	for _, cf := range flows {
		net = net.Add(cf.Amount)
		if !totalDays.IsPositive() {
			continue
		}
		remaining := decimal.NewFromInt(daysBetween(cf.Date, end))
		weighted = weighted.Add(cf.Amount.Mul(remaining).Div(totalDays))
	}

	basis := bop.Add(weighted)
	if !basis.IsPositive() {
		return decimal.NullDecimal{}
	}
	gain := eop.Sub(bop).Sub(net)
	return decimal.NewNullDecimal(gain.Div(basis).Mul(hundred))
}

func daysBetween(a, b time.Time) int64 {
	return int64(b.Sub(a).Hours() / 24)
}
