package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnnualPerformance is a row of the annual_performance table.
type AnnualPerformance struct {
	InvestorID          string              `db:"investor_id"`
	AccountType         string              `db:"account_type"`
	AccountID           string              `db:"account_id"`
	Year                int                 `db:"year"`
	Currency            string              `db:"currency"`
	Restricted          bool                `db:"restricted"`
	BOPNAV              decimal.Decimal     `db:"bop_nav"`
	EOPNAV              decimal.Decimal     `db:"eop_nav"`
	Invested            decimal.Decimal     `db:"invested"`
	CashOut             decimal.Decimal     `db:"cash_out"`
	PriceChange         decimal.Decimal     `db:"price_change"`
	CapitalDistribution decimal.Decimal     `db:"capital_distribution"`
	Commission          decimal.Decimal     `db:"commission"`
	Tax                 decimal.Decimal     `db:"tax"`
	FX                  decimal.Decimal     `db:"fx"`
	TSR                 decimal.NullDecimal `db:"tsr"`
	UpdatedAt           time.Time           `db:"updated_at"`
}
