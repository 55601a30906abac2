package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SecurityPerformance is a per-security line of a portfolio summary, in the
// security's own currency.
type SecurityPerformance struct {
	Security       Security
	Position       decimal.Decimal
	Price          decimal.NullDecimal
	MarketValue    decimal.Decimal
	Realized       decimal.Decimal
	Unrealized     decimal.Decimal
	Distributions  decimal.Decimal
	Commission     decimal.Decimal
	InvestmentDate time.Time
	IRR            *float64
}

// PortfolioSummary values a scope at a date in a target currency.
type PortfolioSummary struct {
	AsOf                time.Time
	Currency            string
	NAV                 decimal.Decimal
	Cash                map[string]decimal.Decimal
	OpenSecurities      int
	FirstInvestment     *time.Time
	Realized            decimal.Decimal
	Unrealized          decimal.Decimal
	CapitalDistribution decimal.Decimal
	Commission          decimal.Decimal
	Tax                 decimal.Decimal
	IRR                 *float64
	Securities          []SecurityPerformance
}

// ClosedPosition is one round trip that ended with the position back at zero.
type ClosedPosition struct {
	Security            Security
	InvestmentDate      time.Time
	ExitDate            time.Time
	Realized            decimal.Decimal
	CapitalDistribution decimal.Decimal
	Commission          decimal.Decimal
}

// Timespan selects the exit-date window of a closed positions report.
type Timespan struct {
	From time.Time
	To   time.Time
}

// Contains reports whether d lies within the span, inclusive.
func (s Timespan) Contains(d time.Time) bool {
	return !d.Before(s.From) && !d.After(s.To)
}
