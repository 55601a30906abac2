package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Security is a row of the securities table.
type Security struct {
	SecurityID string `db:"security_id"`
	ISIN       string `db:"isin"`
	Name       string `db:"name"`
	Currency   string `db:"currency"`
	AssetType  string `db:"asset_type"`
	AuditFields
}

// Price is a row of the prices table.
type Price struct {
	SecurityID string          `db:"security_id"`
	Date       time.Time       `db:"date"`
	Price      decimal.Decimal `db:"price"`
}

// FXRate is a row of the fx_rates table: one column per quoted pair.
type FXRate struct {
	InvestorID string              `db:"investor_id"`
	Date       time.Time           `db:"date"`
	USDEUR     decimal.NullDecimal `db:"usdeur"`
	USDGBP     decimal.NullDecimal `db:"usdgbp"`
	CHFGBP     decimal.NullDecimal `db:"chfgbp"`
	RUBUSD     decimal.NullDecimal `db:"rubusd"`
	PLNUSD     decimal.NullDecimal `db:"plnusd"`
}
