package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	"github.com/SscSPs/portfolio_performance_app/internal/core/valuation"
	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

// ledgerMarketData answers valuation lookups from the ledger store and
// memoizes them for the lifetime of one job or request.
type ledgerMarketData struct {
	ledger     portsrepo.LedgerReader
	investorID string
	memo       *gocache.Cache
}

type priceLookup struct {
	price decimal.Decimal
	ok    bool
}

// NewLedgerMarketData returns a MarketData scoped to investorID. Entries
// never expire; the value is discarded with the job.
func NewLedgerMarketData(ledger portsrepo.LedgerReader, investorID string) valuation.MarketData {
	return &ledgerMarketData{
		ledger:     ledger,
		investorID: investorID,
		memo:       gocache.New(gocache.NoExpiration, 0),
	}
}

var _ valuation.MarketData = (*ledgerMarketData)(nil)

func (m *ledgerMarketData) Price(ctx context.Context, securityID string, date time.Time) (decimal.Decimal, bool, error) {
	key := fmt.Sprintf("price:%s:%s", securityID, date.Format(time.DateOnly))
	if v, found := m.memo.Get(key); found {
		p := v.(priceLookup)
		return p.price, p.ok, nil
	}

	obs, err := m.ledger.PriceOnOrBefore(ctx, securityID, date)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		m.memo.SetDefault(key, priceLookup{})
		return decimal.Zero, false, nil
	case err != nil:
		return decimal.Zero, false, fmt.Errorf("price of %s on %s: %w", securityID, date.Format(time.DateOnly), err)
	}
	m.memo.SetDefault(key, priceLookup{price: obs.Price, ok: true})
	return obs.Price, true, nil
}

func (m *ledgerMarketData) Factor(ctx context.Context, from, to string, date time.Time) (decimal.Decimal, error) {
	from, to = domain.NormalizeCurrency(from), domain.NormalizeCurrency(to)
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	snap, err := m.snapshot(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}
	if snap == nil {
		return decimal.Zero, apperrors.NewMissingFXError(from, to, date)
	}
	f, ok := snap.Factor(from, to)
	if !ok {
		return decimal.Zero, apperrors.NewMissingFXError(from, to, date)
	}
	return f, nil
}

// snapshot returns nil without error when no snapshot exists on or before date.
func (m *ledgerMarketData) snapshot(ctx context.Context, date time.Time) (*domain.FXSnapshot, error) {
	key := "fx:" + date.Format(time.DateOnly)
	if v, found := m.memo.Get(key); found {
		return v.(*domain.FXSnapshot), nil
	}

	snap, err := m.ledger.FXRateOnOrBefore(ctx, m.investorID, date)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		snap = nil
	case err != nil:
		return nil, fmt.Errorf("fx snapshot on %s: %w", date.Format(time.DateOnly), err)
	}
	m.memo.SetDefault(key, snap)
	return snap, nil
}
