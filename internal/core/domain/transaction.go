package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger row.
type TransactionType string

const (
	TransactionBuy              TransactionType = "Buy"
	TransactionSell             TransactionType = "Sell"
	TransactionCashIn           TransactionType = "Cash in"
	TransactionCashOut          TransactionType = "Cash out"
	TransactionDividend         TransactionType = "Dividend"
	TransactionInterest         TransactionType = "Interest"
	TransactionCommission       TransactionType = "Commission"
	TransactionBrokerCommission TransactionType = "Broker commission"
	TransactionTax              TransactionType = "Tax"
)

// TransactionTypes lists every accepted TransactionType.
var TransactionTypes = []TransactionType{
	TransactionBuy, TransactionSell, TransactionCashIn, TransactionCashOut, TransactionDividend,
	TransactionInterest, TransactionCommission, TransactionBrokerCommission, TransactionTax,
}

// IsTrade reports whether rows of this type move a security position.
func (t TransactionType) IsTrade() bool {
	return t == TransactionBuy || t == TransactionSell
}

// IsDistribution reports whether the cash flow counts as capital distribution.
func (t TransactionType) IsDistribution() bool {
	return t == TransactionDividend || t == TransactionInterest
}

// IsCommission reports whether the cash flow itself is a commission charge.
func (t TransactionType) IsCommission() bool {
	return t == TransactionCommission || t == TransactionBrokerCommission
}

// Valid reports whether t is a known type.
func (t TransactionType) Valid() bool {
	for _, known := range TransactionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Transaction is one immutable ledger row of a broker account.
// Quantity is signed: buys positive, sells negative.
type Transaction struct {
	TransactionID string
	InvestorID    string
	AccountID     string
	SecurityID    *string
	Date          time.Time
	Type          TransactionType
	Currency      string
	Quantity      *decimal.Decimal
	Price         *decimal.Decimal
	CashFlow      *decimal.Decimal
	Commission    *decimal.Decimal
	AuditFields
}

// QuantityOrZero returns the signed quantity or zero for cash rows.
func (t Transaction) QuantityOrZero() decimal.Decimal { return orZero(t.Quantity) }

// PriceOrZero returns the price or zero.
func (t Transaction) PriceOrZero() decimal.Decimal { return orZero(t.Price) }

// CashFlowOrZero returns the signed cash flow or zero.
func (t Transaction) CashFlowOrZero() decimal.Decimal { return orZero(t.CashFlow) }

// CommissionCost returns the commission as a non-negative cost whatever its stored sign.
func (t Transaction) CommissionCost() decimal.Decimal { return orZero(t.Commission).Abs() }

// SecurityIDOrEmpty returns the security reference or "".
func (t Transaction) SecurityIDOrEmpty() string {
	if t.SecurityID == nil {
		return ""
	}
	return *t.SecurityID
}

// FXTransaction converts cash between two currencies within one account.
// Commission is charged in the from currency.
type FXTransaction struct {
	FXTransactionID string
	InvestorID      string
	AccountID       string
	Date            time.Time
	FromCurrency    string
	ToCurrency      string
	FromAmount      decimal.Decimal
	ToAmount        decimal.Decimal
	Commission      *decimal.Decimal
	AuditFields
}

// CommissionCost returns the commission as a non-negative cost.
func (t FXTransaction) CommissionCost() decimal.Decimal { return orZero(t.Commission).Abs() }

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
