package domain

import (
	"slices"
	"strings"
)

// AllCurrencies selects every supported currency in a job request.
const AllCurrencies = "All"

// DefaultSupportedCurrencies are the currencies the FX snapshot can price.
var DefaultSupportedCurrencies = []string{"USD", "EUR", "GBP", "CHF", "RUB", "PLN"}

// NormalizeCurrency upper-cases and trims an ISO code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CurrencyScope expands a requested currency into the list to compute.
func CurrencyScope(requested string, supported []string) []string {
	if requested == AllCurrencies {
		return slices.Clone(supported)
	}
	return []string{NormalizeCurrency(requested)}
}
