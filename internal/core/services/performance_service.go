package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_performance_app/internal/core/ports/services"
	"github.com/SscSPs/portfolio_performance_app/internal/core/valuation"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
	"github.com/SscSPs/portfolio_performance_app/internal/utils"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultJobConcurrency bounds the combinations computed at once.
	DefaultJobConcurrency = 4
	jobEventBuffer        = 16
	sessionIDBytes        = 16
	unexpectedJobMessage  = "An unexpected error occurred while computing performance."
)

// performanceService validates, caches and runs recompute jobs, and reads
// their stored results.
type performanceService struct {
	BaseService
	ledger      portsrepo.LedgerReader
	resolver    selectionResolver
	store       portsrepo.ResultStore
	cache       portsrepo.JobRequestCache
	aggregator  *AnnualAggregator
	validate    *validator.Validate
	supported   []string
	concurrency int
	newSession  func() (string, error)
	marketData  func(investorID string) valuation.MarketData
}

// PerformanceServiceOption is a functional option for configuring the performance service
type PerformanceServiceOption func(*performanceService)

// WithSupportedCurrencies sets the currencies "All" expands to.
func WithSupportedCurrencies(currencies []string) PerformanceServiceOption {
	return func(s *performanceService) {
		s.supported = currencies
	}
}

// WithJobConcurrency bounds how many combinations run in parallel.
func WithJobConcurrency(n int) PerformanceServiceOption {
	return func(s *performanceService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithAnnualAggregator replaces the default aggregator.
func WithAnnualAggregator(a *AnnualAggregator) PerformanceServiceOption {
	return func(s *performanceService) {
		s.aggregator = a
	}
}

// WithSessionIDGenerator replaces the random session id source.
func WithSessionIDGenerator(gen func() (string, error)) PerformanceServiceOption {
	return func(s *performanceService) {
		s.newSession = gen
	}
}

// WithMarketDataFactory replaces the ledger backed market data.
func WithMarketDataFactory(factory func(investorID string) valuation.MarketData) PerformanceServiceOption {
	return func(s *performanceService) {
		s.marketData = factory
	}
}

// NewPerformanceService creates the performance service with the provided options
func NewPerformanceService(
	ledger portsrepo.LedgerReader,
	accounts portsrepo.AccountReader,
	store portsrepo.ResultStore,
	cache portsrepo.JobRequestCache,
	options ...PerformanceServiceOption,
) portssvc.PerformanceSvcFacade {
	svc := &performanceService{
		ledger:      ledger,
		resolver:    selectionResolver{accounts: accounts},
		store:       store,
		cache:       cache,
		supported:   domain.DefaultSupportedCurrencies,
		concurrency: DefaultJobConcurrency,
		newSession: func() (string, error) {
			return utils.GenerateSecureRandomString(sessionIDBytes)
		},
	}
	svc.marketData = func(investorID string) valuation.MarketData {
		return NewLedgerMarketData(svc.ledger, investorID)
	}

	for _, option := range options {
		option(svc)
	}

	if svc.aggregator == nil {
		svc.aggregator = NewAnnualAggregator(store)
	}
	svc.validate = newJobValidator(svc.supported)
	return svc
}

var _ portssvc.PerformanceSvcFacade = (*performanceService)(nil)

func (s *performanceService) ValidateJob(ctx context.Context, userID string, req dto.PerformanceJobRequest) (*domain.PerformanceJobRequest, dto.FieldErrors, error) {
	errs := dto.FieldErrors{}
	if err := s.validate.StructCtx(ctx, req); err != nil {
		errs = fieldErrors(err)
	}

	selector := domain.AccountSelector{
		Kind: domain.SelectorKind(req.SelectionAccountType),
		ID:   req.SelectionAccountID.String(),
	}
	// Only resolve ids whose kind and value passed the tag checks.
	if _, bad := errs["selection_account_type"]; !bad {
		if _, bad := errs["selection_account_id"]; !bad {
			_, err := s.resolver.Resolve(ctx, userID, selector)
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				errs.Add("selection_account_id", fmt.Sprintf(msgUnknownPK, selector.ID))
			case err != nil:
				s.LogError(ctx, err, "Failed to resolve account selector", slog.String("selector", selector.String()))
				return nil, nil, err
			}
		}
	}

	if len(errs) > 0 {
		s.LogDebug(ctx, "Job request failed validation", slog.Int("fields", len(errs)))
		return nil, errs, nil
	}

	restriction, _ := domain.ParseRestrictionFilter(req.IsRestricted.String())
	skip, _ := parseBoolLike(req.SkipExistingYears.String())
	effective, _ := time.Parse(time.DateOnly, req.EffectiveCurrentDate)

	currency := req.Currency
	if currency != domain.AllCurrencies {
		currency = domain.NormalizeCurrency(currency)
	}

	return &domain.PerformanceJobRequest{
		RequesterID:       userID,
		Selector:          selector,
		Currency:          currency,
		Restriction:       restriction,
		SkipExistingYears: skip,
		EffectiveDate:     domain.DateOf(effective),
	}, nil, nil
}

func (s *performanceService) StartJob(ctx context.Context, userID string, req dto.PerformanceJobRequest) (string, dto.FieldErrors, error) {
	job, errs, err := s.ValidateJob(ctx, userID, req)
	if err != nil || len(errs) > 0 {
		return "", errs, err
	}

	sessionID, err := s.newSession()
	if err != nil {
		s.LogError(ctx, err, "Failed to generate session id")
		return "", nil, apperrors.NewAppError(500, "failed to generate session id", err)
	}
	if err := s.cache.Put(ctx, sessionID, *job); err != nil {
		s.LogError(ctx, err, "Failed to cache job request", slog.String("session_id", sessionID))
		return "", nil, err
	}

	s.LogInfo(ctx, "Performance job started",
		slog.String("session_id", sessionID),
		slog.String("selector", job.Selector.String()),
		slog.String("currency", job.Currency),
		slog.String("restriction", string(job.Restriction)))
	return sessionID, nil, nil
}

func (s *performanceService) StreamJob(ctx context.Context, userID, sessionID string) (<-chan domain.JobEvent, error) {
	job, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if job.RequesterID != userID {
		s.GetLogger(ctx).Warn("Session requested by a different user", slog.String("session_id", sessionID))
		return nil, apperrors.NewForbiddenError("unauthorized access to session")
	}

	events := make(chan domain.JobEvent, jobEventBuffer)
	go s.runJob(ctx, *job, events)
	return events, nil
}

// jobEmitter serializes sends so the progress counter is monotonic across
// concurrently running combinations.
type jobEmitter struct {
	mu      sync.Mutex
	events  chan<- domain.JobEvent
	current int
	total   int
}

func (e *jobEmitter) send(ctx context.Context, ev domain.JobEvent) error {
	select {
	case e.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *jobEmitter) year(ctx context.Context, scope AggregationScope, o YearOutcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current++
	ev := domain.JobEvent{Status: domain.JobSkipped, Year: o.Year}
	if !o.Skipped {
		ev = domain.JobEvent{
			Status:       domain.JobProgress,
			Current:      e.current,
			Progress:     float64(e.current) / float64(e.total),
			Year:         o.Year,
			Currency:     scope.Currency,
			IsRestricted: scope.Restricted,
		}
	}
	return e.send(ctx, ev)
}

func (s *performanceService) runJob(ctx context.Context, job domain.PerformanceJobRequest, events chan domain.JobEvent) {
	defer close(events)
	logger := s.GetLogger(ctx).With(slog.String("selector", job.Selector.String()))
	em := &jobEmitter{events: events}

	if em.send(ctx, domain.JobEvent{Status: domain.JobInitializing}) != nil {
		return
	}

	scopes, err := s.planJob(ctx, job)
	if err != nil {
		logger.Error("Failed to plan performance job", slog.String("error", err.Error()))
		_ = em.send(ctx, domain.JobEvent{Status: domain.JobError, Message: jobErrorMessage(err)})
		return
	}
	if len(scopes) == 0 {
		logger.Info("Performance job has no transactions in scope")
		_ = em.send(ctx, domain.JobEvent{Status: domain.JobError, Message: domain.NoTransactionsMessage})
		return
	}
	for _, scope := range scopes {
		first, last, _ := scope.Years()
		em.total += last - first + 1
	}

	md := s.marketData(job.RequesterID)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, scope := range scopes {
		g.Go(func() error {
			return s.aggregator.Run(gctx, scope, md, func(o YearOutcome) error {
				return em.year(gctx, scope, o)
			})
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			logger.Info("Performance job cancelled", slog.String("error", ctx.Err().Error()))
			return
		}
		logger.Error("Performance job failed", slog.String("error", err.Error()))
		_ = em.send(ctx, domain.JobEvent{Status: domain.JobError, Message: jobErrorMessage(err)})
		return
	}

	logger.Info("Performance job complete", slog.Int("years", em.total))
	_ = em.send(ctx, domain.JobEvent{Status: domain.JobComplete})
}

// planJob expands the request into the combinations that have ledger rows,
// FX conversions included.
func (s *performanceService) planJob(ctx context.Context, job domain.PerformanceJobRequest) ([]AggregationScope, error) {
	target, err := s.resolver.Resolve(ctx, job.RequesterID, job.Selector)
	if err != nil {
		return nil, err
	}

	var scopes []AggregationScope
	for _, restricted := range job.Restriction.Values() {
		sub := target.WithRestriction(restricted)
		if len(sub.Accounts) == 0 {
			continue
		}
		ledger, err := s.loadLedger(ctx, job.RequesterID, sub.AccountIDs(), job.EffectiveDate)
		if err != nil {
			return nil, err
		}
		if ledger.Empty() {
			continue
		}
		for _, ccy := range domain.CurrencyScope(job.Currency, s.supported) {
			scope := AggregationScope{
				InvestorID:   job.RequesterID,
				Target:       sub,
				Currency:     ccy,
				Restricted:   restricted,
				Ledger:       ledger,
				Effective:    job.EffectiveDate,
				SkipExisting: job.SkipExistingYears,
			}
			if _, _, ok := scope.Years(); ok {
				scopes = append(scopes, scope)
			}
		}
	}
	return scopes, nil
}

func (s *performanceService) loadLedger(ctx context.Context, investorID string, accountIDs []string, asOf time.Time) (valuation.Ledger, error) {
	scope := portsrepo.LedgerScope{InvestorID: investorID, AccountIDs: accountIDs}
	txs, err := s.ledger.TransactionsFor(ctx, scope, time.Time{}, asOf)
	if err != nil {
		return valuation.Ledger{}, fmt.Errorf("loading transactions: %w", err)
	}
	fxs, err := s.ledger.FXTransactionsFor(ctx, scope, time.Time{}, asOf)
	if err != nil {
		return valuation.Ledger{}, fmt.Errorf("loading fx transactions: %w", err)
	}
	return valuation.NewLedger(txs, fxs), nil
}

// jobErrorMessage is the text of an error event. Domain failures are
// shown as is; infrastructure failures are not.
func jobErrorMessage(err error) string {
	var recon *apperrors.ReconciliationError
	var missing *apperrors.MissingMarketDataError
	switch {
	case errors.As(err, &recon):
		return recon.Error()
	case errors.As(err, &missing):
		return missing.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		return domain.NoTransactionsMessage
	}
	return unexpectedJobMessage
}

func (s *performanceService) ListAnnualPerformance(ctx context.Context, userID string, params dto.ListPerformanceParams) ([]domain.AnnualPerformance, error) {
	selector := domain.AccountSelector{Kind: domain.SelectorKind(params.SelectionAccountType), ID: params.SelectionAccountID}
	if _, err := s.resolver.Resolve(ctx, userID, selector); err != nil {
		s.LogError(ctx, err, "Failed to resolve selector for listing", slog.String("selector", selector.String()))
		return nil, err
	}

	filter := domain.PerformanceFilter{
		InvestorID:  userID,
		AccountType: selector.Kind,
		AccountID:   selector.ID,
	}
	if params.Currency != "" && params.Currency != domain.AllCurrencies {
		filter.Currency = domain.NormalizeCurrency(params.Currency)
	}
	if r, ok := domain.ParseRestrictionFilter(params.IsRestricted); ok && r != domain.RestrictionAll {
		restricted := r == domain.RestrictionTrue
		filter.Restricted = &restricted
	}

	records, err := s.store.List(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list annual performance", slog.String("selector", selector.String()))
		return nil, err
	}
	return records, nil
}
