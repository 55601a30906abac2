package utils

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// NotAvailable is shown for returns that could not be computed.
const NotAvailable = "N/A"

// IsKnownCurrency reports whether code is an ISO 4217 code.
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// FormatMoney renders amount with the currency's symbol and fraction digits,
// e.g. 1234.5 USD as "$1,234.50". Unknown codes fall back to "1234.50 XXX".
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), code).Display()
}

// FormatPercentage renders a ratio already expressed in percent, or N/A.
func FormatPercentage(value *float64) string {
	if value == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", *value)
}

// FormatNullPercentage renders a nullable percentage, or N/A.
func FormatNullPercentage(value decimal.NullDecimal) string {
	if !value.Valid {
		return NotAvailable
	}
	return value.Decimal.StringFixed(2) + "%"
}
