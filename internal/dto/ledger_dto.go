package dto

import (
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BrokerImport is a broker row of an import batch.
type BrokerImport struct {
	BrokerID string `json:"broker_id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Country  string `json:"country"`
}

// AccountImport is a broker account row.
type AccountImport struct {
	AccountID  string `json:"account_id" binding:"required"`
	BrokerID   string `json:"broker_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	NativeID   string `json:"native_id"`
	Restricted bool   `json:"restricted"`
}

// GroupImport is an account group with its members.
type GroupImport struct {
	GroupID    string   `json:"group_id" binding:"required"`
	Name       string   `json:"name" binding:"required"`
	AccountIDs []string `json:"account_ids" binding:"required,min=1"`
}

// SecurityImport is a security the investor holds.
type SecurityImport struct {
	SecurityID string `json:"security_id" binding:"required"`
	ISIN       string `json:"isin" binding:"omitempty,len=12,alphanum"`
	Name       string `json:"name" binding:"required"`
	Currency   string `json:"currency" binding:"required,len=3"`
	AssetType  string `json:"type"`
}

// TransactionImport is one ledger row. An empty id gets a generated one.
type TransactionImport struct {
	TransactionID string           `json:"transaction_id"`
	AccountID     string           `json:"account_id" binding:"required"`
	SecurityID    *string          `json:"security_id"`
	Date          string           `json:"date" binding:"required,datetime=2006-01-02"`
	Type          string           `json:"type" binding:"required"`
	Currency      string           `json:"currency" binding:"required,len=3"`
	Quantity      *decimal.Decimal `json:"quantity"`
	Price         *decimal.Decimal `json:"price"`
	CashFlow      *decimal.Decimal `json:"cash_flow"`
	Commission    *decimal.Decimal `json:"commission"`
}

// FXTransactionImport is one currency conversion.
type FXTransactionImport struct {
	FXTransactionID string           `json:"fx_transaction_id"`
	AccountID       string           `json:"account_id" binding:"required"`
	Date            string           `json:"date" binding:"required,datetime=2006-01-02"`
	FromCurrency    string           `json:"from_currency" binding:"required,len=3"`
	ToCurrency      string           `json:"to_currency" binding:"required,len=3,nefield=FromCurrency"`
	FromAmount      decimal.Decimal  `json:"from_amount"`
	ToAmount        decimal.Decimal  `json:"to_amount"`
	Commission      *decimal.Decimal `json:"commission"`
}

// PriceImport is one close price.
type PriceImport struct {
	SecurityID string          `json:"security_id" binding:"required"`
	Date       string          `json:"date" binding:"required,datetime=2006-01-02"`
	Price      decimal.Decimal `json:"price"`
}

// FXRateImport is one day's FX snapshot. Pair XY quotes X per one Y.
type FXRateImport struct {
	Date   string           `json:"date" binding:"required,datetime=2006-01-02"`
	USDEUR *decimal.Decimal `json:"USDEUR"`
	USDGBP *decimal.Decimal `json:"USDGBP"`
	CHFGBP *decimal.Decimal `json:"CHFGBP"`
	RUBUSD *decimal.Decimal `json:"RUBUSD"`
	PLNUSD *decimal.Decimal `json:"PLNUSD"`
}

// Rates returns the quotes present in the row keyed by pair.
func (r FXRateImport) Rates() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for pair, v := range map[string]*decimal.Decimal{
		"USDEUR": r.USDEUR, "USDGBP": r.USDGBP, "CHFGBP": r.CHFGBP, "RUBUSD": r.RUBUSD, "PLNUSD": r.PLNUSD,
	} {
		if v != nil {
			out[pair] = *v
		}
	}
	return out
}

// LedgerImportRequest is a batch of rows from an external data source.
type LedgerImportRequest struct {
	Brokers        []BrokerImport        `json:"brokers" binding:"omitempty,dive"`
	Accounts       []AccountImport       `json:"accounts" binding:"omitempty,dive"`
	Groups         []GroupImport         `json:"groups" binding:"omitempty,dive"`
	Securities     []SecurityImport      `json:"securities" binding:"omitempty,dive"`
	Transactions   []TransactionImport   `json:"transactions" binding:"omitempty,dive"`
	FXTransactions []FXTransactionImport `json:"fx_transactions" binding:"omitempty,dive"`
	Prices         []PriceImport         `json:"prices" binding:"omitempty,dive"`
	FXRates        []FXRateImport        `json:"fx_rates" binding:"omitempty,dive"`
}

// LedgerImportResponse reports the rows written.
type LedgerImportResponse struct {
	Imported domain.ImportCounts `json:"imported"`
}
