package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	"github.com/SscSPs/portfolio_performance_app/internal/core/returns"
	"github.com/SscSPs/portfolio_performance_app/internal/core/valuation"
	"github.com/shopspring/decimal"
)

// DefaultReconciliationTolerance is the largest residual accepted when
// checking a year's breakdown.
var DefaultReconciliationTolerance = decimal.RequireFromString("0.01")

// AggregationScope is one (target, currency, restriction) combination with
// the ledger of its accounts.
type AggregationScope struct {
	InvestorID   string
	Target       domain.PerformanceTarget
	Currency     string
	Restricted   bool
	Ledger       valuation.Ledger
	Effective    time.Time
	SkipExisting bool
}

// Years returns the inclusive range of calendar years the scope spans.
// ok is false when the ledger has nothing dated on or before Effective.
func (s AggregationScope) Years() (first, last int, ok bool) {
	start, found := s.Ledger.FirstDate()
	if !found || start.After(s.Effective) {
		return 0, 0, false
	}
	end, found := valuation.LastActivityDate(s.Ledger, s.Effective)
	if !found {
		return 0, 0, false
	}
	return start.Year(), end.Year(), true
}

func (s AggregationScope) key(year int) domain.PerformanceKey {
	return domain.PerformanceKey{
		InvestorID:  s.InvestorID,
		AccountType: s.Target.AccountType,
		AccountID:   s.Target.AccountID,
		Year:        year,
		Currency:    s.Currency,
		Restricted:  s.Restricted,
	}
}

// YearOutcome reports one finished year. Record is nil when Skipped.
type YearOutcome struct {
	Year    int
	Skipped bool
	Record  *domain.AnnualPerformance
}

// AnnualAggregator walks a scope year by year, chaining each year's ending
// NAV into the next and persisting one record per year.
type AnnualAggregator struct {
	BaseService
	store     portsrepo.ResultStore
	tolerance decimal.Decimal
	now       func() time.Time
}

// AggregatorOption is a functional option for configuring the aggregator
type AggregatorOption func(*AnnualAggregator)

// WithReconciliationTolerance overrides DefaultReconciliationTolerance.
func WithReconciliationTolerance(tolerance decimal.Decimal) AggregatorOption {
	return func(a *AnnualAggregator) {
		a.tolerance = tolerance
	}
}

// WithClock sets the clock used for UpdatedAt.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *AnnualAggregator) {
		a.now = now
	}
}

// NewAnnualAggregator creates an aggregator writing to store.
func NewAnnualAggregator(store portsrepo.ResultStore, options ...AggregatorOption) *AnnualAggregator {
	a := &AnnualAggregator{
		store:     store,
		tolerance: DefaultReconciliationTolerance,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Run computes every year of scope in ascending order and calls onYear
// after each one is stored or skipped. The first error stops the run;
// years already written stay written.
func (a *AnnualAggregator) Run(ctx context.Context, scope AggregationScope, md valuation.MarketData, onYear func(YearOutcome) error) error {
	firstYear, lastYear, ok := scope.Years()
	if !ok {
		return nil
	}

	logger := a.GetLogger(ctx).With(
		slog.String("account_type", string(scope.Target.AccountType)),
		slog.String("account_id", scope.Target.AccountID),
		slog.String("currency", scope.Currency),
		slog.Bool("restricted", scope.Restricted),
	)

	cur := scope.Ledger.Cursor()
	chained := decimal.Zero

	for year := firstYear; year <= lastYear; year++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		from := domain.YearEnd(year - 1)
		to := domain.YearEnd(year)
		if scope.Effective.Before(to) {
			to = scope.Effective
		}
		cur.AdvanceTo(from, nil)

		if scope.SkipExisting {
			existing, err := a.store.Get(ctx, scope.key(year))
			switch {
			case err == nil:
				logger.Debug("Skipping stored year", slog.Int("year", year))
				cur.AdvanceTo(to, nil)
				chained = existing.EOPNAV
				if err := onYear(YearOutcome{Year: year, Skipped: true}); err != nil {
					return err
				}
				continue
			case !errors.Is(err, apperrors.ErrNotFound):
				return fmt.Errorf("loading stored year %d: %w", year, err)
			}
		}

		record, err := a.computeYear(ctx, scope, cur, year, from, to, chained, md)
		if err != nil {
			logger.Warn("Year computation failed", slog.Int("year", year), slog.String("error", err.Error()))
			return err
		}

		// cancellation observed during computation means the write must not start
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.store.Upsert(ctx, *record); err != nil {
			return fmt.Errorf("storing year %d: %w", year, err)
		}
		chained = record.EOPNAV
		logger.Debug("Stored annual performance", slog.Int("year", year), slog.String("eop_nav", record.EOPNAV.String()))

		if err := onYear(YearOutcome{Year: year, Record: record}); err != nil {
			return err
		}
	}
	return nil
}

func (a *AnnualAggregator) computeYear(ctx context.Context, scope AggregationScope, cur *valuation.Cursor, year int, from, to time.Time, chained decimal.Decimal, md valuation.MarketData) (*domain.AnnualPerformance, error) {
	res, err := valuation.Period(ctx, cur, from, to, scope.Currency, md)
	if err != nil {
		return nil, fmt.Errorf("year %d: %w", year, err)
	}

	if err := a.reconcile(year, scope.Currency, res, chained); err != nil {
		return nil, err
	}

	t := res.Target
	return &domain.AnnualPerformance{
		PerformanceKey:      scope.key(year),
		BOPNAV:              chained,
		EOPNAV:              t.EOP,
		Invested:            t.Invested,
		CashOut:             t.CashOut,
		PriceChange:         t.PriceChange,
		CapitalDistribution: t.CapitalDistribution,
		Commission:          t.Commission,
		Tax:                 t.Tax,
		FX:                  t.FX,
		TSR:                 returns.ModifiedDietz(chained, t.EOP, res.Flows, from, to),
		UpdatedAt:           a.now(),
	}, nil
}

// reconcile checks each currency's local breakdown and the bop chain.
func (a *AnnualAggregator) reconcile(year int, target string, res valuation.PeriodResult, chained decimal.Decimal) error {
	currencies := make([]string, 0, len(res.Local))
	for ccy := range res.Local {
		currencies = append(currencies, ccy)
	}
	slices.Sort(currencies)

	for _, ccy := range currencies {
		c := res.Local[ccy]
		if c.EOP.Sub(c.Expected()).Abs().GreaterThan(a.tolerance) {
			return &apperrors.ReconciliationError{
				Year:     year,
				Currency: ccy,
				Check:    "local breakdown",
				Expected: c.Expected(),
				Actual:   c.EOP,
			}
		}
	}

	if res.Target.BOP.Sub(chained).Abs().GreaterThan(a.tolerance) {
		return &apperrors.ReconciliationError{
			Year:     year,
			Currency: target,
			Check:    "bop chain",
			Expected: chained,
			Actual:   res.Target.BOP,
		}
	}
	return nil
}
