package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
)

// LedgerScope selects the rows of some broker accounts of one investor.
type LedgerScope struct {
	InvestorID string
	AccountIDs []string
}

// LedgerReader reads ledger rows and market data. It does no computation.
type LedgerReader interface {
	// TransactionsFor returns rows dated in [from, to] ordered by date. A zero from is unbounded.
	TransactionsFor(ctx context.Context, scope LedgerScope, from, to time.Time) ([]domain.Transaction, error)
	// FXTransactionsFor returns FX conversions dated in [from, to] ordered by date.
	FXTransactionsFor(ctx context.Context, scope LedgerScope, from, to time.Time) ([]domain.FXTransaction, error)
	// FXRateOnOrBefore returns the latest snapshot on or before date, or ErrNotFound.
	FXRateOnOrBefore(ctx context.Context, investorID string, date time.Time) (*domain.FXSnapshot, error)
	// PriceOnOrBefore returns the latest observation on or before date, or ErrNotFound.
	PriceOnOrBefore(ctx context.Context, securityID string, date time.Time) (*domain.PriceObservation, error)
	FindSecuritiesByIDs(ctx context.Context, securityIDs []string) (map[string]domain.Security, error)
}

// LedgerWriter stores batches from external data sources.
type LedgerWriter interface {
	ImportLedger(ctx context.Context, investorID string, batch domain.LedgerBatch) (domain.ImportCounts, error)
}

// LedgerRepositoryFacade combines read and write access to the ledger.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
