package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PerformanceKey identifies one annual record.
type PerformanceKey struct {
	InvestorID  string
	AccountType SelectorKind
	AccountID   string
	Year        int
	Currency    string
	Restricted  bool
}

// AnnualPerformance is the NAV breakdown of one scope for one calendar year.
// EOPNAV always equals BOPNAV plus the signed components, see Residual.
type AnnualPerformance struct {
	PerformanceKey
	BOPNAV              decimal.Decimal
	EOPNAV              decimal.Decimal
	Invested            decimal.Decimal
	CashOut             decimal.Decimal
	PriceChange         decimal.Decimal
	CapitalDistribution decimal.Decimal
	Commission          decimal.Decimal
	Tax                 decimal.Decimal
	FX                  decimal.Decimal
	TSR                 decimal.NullDecimal // percentage, invalid when undefined
	UpdatedAt           time.Time
}

// ExpectedEOP sums the beginning NAV and the components.
func (p AnnualPerformance) ExpectedEOP() decimal.Decimal {
	return p.BOPNAV.
		Add(p.Invested).
		Add(p.CashOut).
		Add(p.PriceChange).
		Add(p.CapitalDistribution).
		Sub(p.Commission).
		Sub(p.Tax).
		Add(p.FX)
}

// Residual is EOPNAV minus ExpectedEOP; zero for a reconciled record.
func (p AnnualPerformance) Residual() decimal.Decimal {
	return p.EOPNAV.Sub(p.ExpectedEOP())
}

// Reconciles reports whether the residual is within tolerance.
func (p AnnualPerformance) Reconciles(tolerance decimal.Decimal) bool {
	return p.Residual().Abs().LessThanOrEqual(tolerance)
}

// PerformanceFilter narrows a listing of stored records.
type PerformanceFilter struct {
	InvestorID  string
	AccountType SelectorKind
	AccountID   string
	Currency    string // empty for any
	Restricted  *bool  // nil for any
}
