package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table. Nullable numeric
// columns stay nullable so cash rows keep quantity and price NULL.
type Transaction struct {
	TransactionID string              `db:"transaction_id"`
	InvestorID    string              `db:"investor_id"`
	AccountID     string              `db:"account_id"`
	SecurityID    *string             `db:"security_id"`
	Date          time.Time           `db:"date"`
	Type          string              `db:"type"`
	Currency      string              `db:"currency"`
	Quantity      decimal.NullDecimal `db:"quantity"`
	Price         decimal.NullDecimal `db:"price"`
	CashFlow      decimal.NullDecimal `db:"cash_flow"`
	Commission    decimal.NullDecimal `db:"commission"`
	AuditFields
}

// FXTransaction is a row of the fx_transactions table.
type FXTransaction struct {
	FXTransactionID string              `db:"fx_transaction_id"`
	InvestorID      string              `db:"investor_id"`
	AccountID       string              `db:"account_id"`
	Date            time.Time           `db:"date"`
	FromCurrency    string              `db:"from_currency"`
	ToCurrency      string              `db:"to_currency"`
	FromAmount      decimal.Decimal     `db:"from_amount"`
	ToAmount        decimal.Decimal     `db:"to_amount"`
	Commission      decimal.NullDecimal `db:"commission"`
	AuditFields
}
