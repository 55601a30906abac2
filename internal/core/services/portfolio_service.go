package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_performance_app/internal/core/ports/services"
	"github.com/SscSPs/portfolio_performance_app/internal/core/returns"
	"github.com/SscSPs/portfolio_performance_app/internal/core/valuation"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
	"github.com/shopspring/decimal"
)

// portfolioService values a selector's accounts at a date.
type portfolioService struct {
	BaseService
	ledger     portsrepo.LedgerReader
	resolver   selectionResolver
	now        func() time.Time
	marketData func(investorID string) valuation.MarketData
}

// PortfolioServiceOption is a functional option for configuring the portfolio service
type PortfolioServiceOption func(*portfolioService)

// WithPortfolioClock sets the clock used when no effective date is given.
func WithPortfolioClock(now func() time.Time) PortfolioServiceOption {
	return func(s *portfolioService) {
		s.now = now
	}
}

// WithPortfolioMarketData replaces the ledger backed market data.
func WithPortfolioMarketData(factory func(investorID string) valuation.MarketData) PortfolioServiceOption {
	return func(s *portfolioService) {
		s.marketData = factory
	}
}

// NewPortfolioService creates the portfolio service.
func NewPortfolioService(ledger portsrepo.LedgerReader, accounts portsrepo.AccountReader, options ...PortfolioServiceOption) portssvc.PortfolioSvc {
	svc := &portfolioService{
		ledger:   ledger,
		resolver: selectionResolver{accounts: accounts},
		now:      func() time.Time { return time.Now().UTC() },
	}
	svc.marketData = func(investorID string) valuation.MarketData {
		return NewLedgerMarketData(svc.ledger, investorID)
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PortfolioSvc = (*portfolioService)(nil)

type portfolioScope struct {
	asOf       time.Time
	currency   string
	ledger     valuation.Ledger
	securities map[string]domain.Security
	md         valuation.MarketData
}

func (s *portfolioService) load(ctx context.Context, userID string, q dto.PortfolioQuery) (*portfolioScope, error) {
	asOf := domain.DateOf(s.now())
	if q.EffectiveCurrentDate != "" {
		parsed, err := time.Parse(time.DateOnly, q.EffectiveCurrentDate)
		if err != nil {
			return nil, apperrors.NewValidationError("effective_current_date must be YYYY-MM-DD")
		}
		asOf = parsed
	}

	selector := domain.AccountSelector{Kind: domain.SelectorKind(q.SelectionAccountType), ID: q.SelectionAccountID}
	target, err := s.resolver.Resolve(ctx, userID, selector)
	if err != nil {
		return nil, err
	}

	scope := portsrepo.LedgerScope{InvestorID: userID, AccountIDs: target.AccountIDs()}
	txs, err := s.ledger.TransactionsFor(ctx, scope, time.Time{}, asOf)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	fxs, err := s.ledger.FXTransactionsFor(ctx, scope, time.Time{}, asOf)
	if err != nil {
		return nil, fmt.Errorf("loading fx transactions: %w", err)
	}
	ledger := valuation.NewLedger(txs, fxs)

	securities, err := s.ledger.FindSecuritiesByIDs(ctx, ledger.SecurityIDs())
	if err != nil {
		return nil, fmt.Errorf("loading securities: %w", err)
	}

	return &portfolioScope{
		asOf:       asOf,
		currency:   domain.NormalizeCurrency(q.Currency),
		ledger:     ledger,
		securities: securities,
		md:         s.marketData(userID),
	}, nil
}

// security returns the stored security, falling back to the currency it traded in.
func (p *portfolioScope) security(securityID string) domain.Security {
	if sec, ok := p.securities[securityID]; ok {
		return sec
	}
	sec := domain.Security{SecurityID: securityID, Name: securityID}
	for _, tx := range p.ledger.Transactions {
		if tx.SecurityIDOrEmpty() == securityID {
			sec.Currency = tx.Currency
			break
		}
	}
	return sec
}

func (s *portfolioService) GetSummary(ctx context.Context, userID string, q dto.PortfolioQuery) (*domain.PortfolioSummary, error) {
	p, err := s.load(ctx, userID, q)
	if err != nil {
		s.LogError(ctx, err, "Failed to load portfolio", slog.String("selection_account_id", q.SelectionAccountID))
		return nil, err
	}

	nav, err := valuation.NAV(ctx, p.ledger, p.asOf, p.currency, p.md)
	if err != nil {
		return nil, err
	}

	summary := &domain.PortfolioSummary{
		AsOf:     p.asOf,
		Currency: p.currency,
		NAV:      nav.Total,
		Cash:     make(map[string]decimal.Decimal),
	}
	for ccy, v := range nav.Snapshot.Local {
		summary.Cash[ccy] = v.Cash
	}
	for _, h := range nav.Snapshot.Holdings {
		if !h.Quantity.IsZero() {
			summary.OpenSecurities++
		}
	}

	start := time.Time{}
	if summary.Realized, err = valuation.RealizedGainLoss(ctx, p.ledger, start, p.asOf, p.currency, p.md); err != nil {
		return nil, err
	}
	if summary.Unrealized, err = nav.Snapshot.UnrealizedIn(ctx, p.md, p.currency); err != nil {
		return nil, err
	}
	if summary.CapitalDistribution, err = valuation.CapitalDistribution(ctx, p.ledger, start, p.asOf, p.currency, p.md); err != nil {
		return nil, err
	}
	if summary.Commission, summary.Tax, err = valuation.CommissionAndTax(ctx, p.ledger, start, p.asOf, p.currency, p.md); err != nil {
		return nil, err
	}

	_, moves := valuation.Replay(p.ledger, p.asOf)
	var flows []returns.CashFlow
	for _, m := range moves {
		if m.Kind != valuation.MoveCashIn && m.Kind != valuation.MoveCashOut {
			continue
		}
		converted, err := valuation.Convert(ctx, p.md, m.Amount, m.Currency, p.currency, m.Date)
		if err != nil {
			return nil, err
		}
		flows = append(flows, returns.CashFlow{Date: m.Date, Amount: converted.Neg()})
	}
	summary.IRR = irrPercentage(flows, returns.CashFlow{Date: p.asOf, Amount: nav.Total})

	values := make(map[string]valuation.ValuedHolding)
	for _, h := range nav.Snapshot.Holdings {
		values[h.SecurityID] = h
	}
	for _, secID := range p.ledger.SecurityIDs() {
		line, err := s.securityLine(ctx, p, secID, values)
		if err != nil {
			return nil, err
		}
		if line.InvestmentDate.IsZero() {
			continue
		}
		if summary.FirstInvestment == nil || line.InvestmentDate.Before(*summary.FirstInvestment) {
			d := line.InvestmentDate
			summary.FirstInvestment = &d
		}
		summary.Securities = append(summary.Securities, line)
	}
	sort.SliceStable(summary.Securities, func(i, j int) bool {
		return summary.Securities[i].Security.Name < summary.Securities[j].Security.Name
	})

	return summary, nil
}

// securityLine reports one security in its own currency.
func (s *portfolioService) securityLine(ctx context.Context, p *portfolioScope, secID string, values map[string]valuation.ValuedHolding) (domain.SecurityPerformance, error) {
	sec := p.security(secID)
	l := p.ledger.ForSecurity(secID)
	line := domain.SecurityPerformance{Security: sec}

	hist := valuation.History(l.Transactions, secID, p.asOf)
	if hist.InvestmentDate != nil {
		line.InvestmentDate = *hist.InvestmentDate
	}
	line.Position = hist.Position

	if h, ok := values[secID]; ok {
		line.Price = h.Price
		line.MarketValue = h.MarketValue
		line.Unrealized = h.MarketValue.Sub(h.Cost)
	}

	var err error
	if line.Realized, err = valuation.RealizedGainLoss(ctx, l, time.Time{}, p.asOf, sec.Currency, p.md); err != nil {
		return line, err
	}
	if line.Distributions, err = valuation.CapitalDistribution(ctx, l, time.Time{}, p.asOf, sec.Currency, p.md); err != nil {
		return line, err
	}
	if line.Commission, _, err = valuation.CommissionAndTax(ctx, l, time.Time{}, p.asOf, sec.Currency, p.md); err != nil {
		return line, err
	}

	// From the investor's side: purchases and costs are contributions,
	// sales and distributions are withdrawals.
	_, moves := valuation.Replay(l, p.asOf)
	var flows []returns.CashFlow
	for _, m := range moves {
		switch m.Kind {
		case valuation.MoveTrade, valuation.MoveDistribution:
			flows = append(flows, returns.CashFlow{Date: m.Date, Amount: m.Amount})
		case valuation.MoveCommission, valuation.MoveTax:
			flows = append(flows, returns.CashFlow{Date: m.Date, Amount: m.Amount.Neg()})
		}
	}
	line.IRR = irrPercentage(flows, returns.CashFlow{Date: p.asOf, Amount: line.MarketValue})
	return line, nil
}

func irrPercentage(flows []returns.CashFlow, terminal returns.CashFlow) *float64 {
	r, err := returns.IRR(flows, terminal)
	if err != nil {
		return nil
	}
	pct := r * 100
	return &pct
}

// parseTimespan reads YTD, All (or empty) or a four digit year.
func parseTimespan(raw string, asOf time.Time) (domain.Timespan, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return domain.Timespan{To: asOf}, nil
	case "ytd":
		return domain.Timespan{From: time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), To: asOf}, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return domain.Timespan{}, apperrors.NewValidationError(fmt.Sprintf("timespan must be YTD, All or a year, got %q", raw))
	}
	return domain.Timespan{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   domain.YearEnd(year),
	}, nil
}

func (s *portfolioService) ListClosedPositions(ctx context.Context, userID string, q dto.ClosedPositionsQuery) ([]domain.ClosedPosition, error) {
	p, err := s.load(ctx, userID, q.PortfolioQuery)
	if err != nil {
		s.LogError(ctx, err, "Failed to load portfolio", slog.String("selection_account_id", q.SelectionAccountID))
		return nil, err
	}
	span, err := parseTimespan(q.Timespan, p.asOf)
	if err != nil {
		return nil, err
	}

	var out []domain.ClosedPosition
	for _, secID := range p.ledger.SecurityIDs() {
		sec := p.security(secID)
		l := p.ledger.ForSecurity(secID)
		hist := valuation.History(l.Transactions, secID, p.asOf)
		totals, err := valuation.TotalsByRoundTrip(ctx, l, secID, p.asOf, sec.Currency, p.md)
		if err != nil {
			return nil, err
		}
		for i, rt := range hist.RoundTrips {
			if rt.Closed == nil || !span.Contains(*rt.Closed) {
				continue
			}
			row := domain.ClosedPosition{Security: sec, InvestmentDate: rt.Opened, ExitDate: *rt.Closed}
			if i < len(totals) {
				row.Realized = totals[i].Realized
				row.CapitalDistribution = totals[i].CapitalDistribution
				row.Commission = totals[i].Commission
			}
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExitDate.Before(out[j].ExitDate) })
	return out, nil
}
