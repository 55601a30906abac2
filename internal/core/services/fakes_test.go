package services_test

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const investorID = "investor-1"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func cashRow(account string, date time.Time, typ domain.TransactionType, ccy, amount string) domain.Transaction {
	return domain.Transaction{
		InvestorID: investorID, AccountID: account, Date: date, Type: typ, Currency: ccy, CashFlow: decPtr(amount),
	}
}

func tradeRow(account string, date time.Time, sec, ccy, qty, price string) domain.Transaction {
	typ := domain.TransactionBuy
	if dec(qty).IsNegative() {
		typ = domain.TransactionSell
	}
	return domain.Transaction{
		InvestorID: investorID, AccountID: account, Date: date, Type: typ, Currency: ccy,
		SecurityID: &sec, Quantity: decPtr(qty), Price: decPtr(price),
	}
}

// roundTripYear is cash-in 1000, buy 10@100, sell 10@120 within year.
func roundTripYear(account string, year int) []domain.Transaction {
	return []domain.Transaction{
		cashRow(account, day(year, 1, 10), domain.TransactionCashIn, "USD", "1000"),
		tradeRow(account, day(year, 3, 1), "SEC", "USD", "10", "100"),
		tradeRow(account, day(year, 6, 1), "SEC", "USD", "-10", "120"),
	}
}

func scopeOf(accounts ...string) portsrepo.LedgerScope {
	return portsrepo.LedgerScope{InvestorID: investorID, AccountIDs: accounts}
}

// memLedger is an in-memory LedgerReader.
type memLedger struct {
	transactions   []domain.Transaction
	fxTransactions []domain.FXTransaction
	prices         []domain.PriceObservation
	snapshots      []domain.FXSnapshot
	securities     map[string]domain.Security
}

var _ portsrepo.LedgerReader = (*memLedger)(nil)

func inRange(d, from, to time.Time) bool {
	return (from.IsZero() || !d.Before(from)) && !d.After(to)
}

func (l *memLedger) TransactionsFor(_ context.Context, scope portsrepo.LedgerScope, from, to time.Time) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, tx := range l.transactions {
		if tx.InvestorID == scope.InvestorID && slices.Contains(scope.AccountIDs, tx.AccountID) && inRange(tx.Date, from, to) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (l *memLedger) FXTransactionsFor(_ context.Context, scope portsrepo.LedgerScope, from, to time.Time) ([]domain.FXTransaction, error) {
	var out []domain.FXTransaction
	for _, fx := range l.fxTransactions {
		if fx.InvestorID == scope.InvestorID && slices.Contains(scope.AccountIDs, fx.AccountID) && inRange(fx.Date, from, to) {
			out = append(out, fx)
		}
	}
	return out, nil
}

func (l *memLedger) FXRateOnOrBefore(_ context.Context, investor string, date time.Time) (*domain.FXSnapshot, error) {
	var found *domain.FXSnapshot
	for i, s := range l.snapshots {
		if s.InvestorID == investor && !s.Date.After(date) && (found == nil || s.Date.After(found.Date)) {
			found = &l.snapshots[i]
		}
	}
	if found == nil {
		return nil, apperrors.NewNotFoundError("fx rate snapshot not found")
	}
	return found, nil
}

func (l *memLedger) PriceOnOrBefore(_ context.Context, securityID string, date time.Time) (*domain.PriceObservation, error) {
	var found *domain.PriceObservation
	for i, p := range l.prices {
		if p.SecurityID == securityID && !p.Date.After(date) && (found == nil || p.Date.After(found.Date)) {
			found = &l.prices[i]
		}
	}
	if found == nil {
		return nil, apperrors.NewNotFoundError("price not found")
	}
	return found, nil
}

func (l *memLedger) FindSecuritiesByIDs(_ context.Context, ids []string) (map[string]domain.Security, error) {
	out := make(map[string]domain.Security)
	for _, id := range ids {
		if sec, ok := l.securities[id]; ok {
			out[id] = sec
		}
	}
	return out, nil
}

// memResultStore is an in-memory ResultStore.
type memResultStore struct {
	mu      sync.Mutex
	records map[domain.PerformanceKey]domain.AnnualPerformance
	upserts int
}

var _ portsrepo.ResultStore = (*memResultStore)(nil)

func newMemResultStore() *memResultStore {
	return &memResultStore{records: make(map[domain.PerformanceKey]domain.AnnualPerformance)}
}

func (s *memResultStore) Upsert(_ context.Context, r domain.AnnualPerformance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.PerformanceKey] = r
	s.upserts++
	return nil
}

func (s *memResultStore) Get(_ context.Context, key domain.PerformanceKey) (*domain.AnnualPerformance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("annual performance not found")
	}
	return &r, nil
}

func (s *memResultStore) List(_ context.Context, f domain.PerformanceFilter) ([]domain.AnnualPerformance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AnnualPerformance
	for k, r := range s.records {
		if k.InvestorID != f.InvestorID || k.AccountType != f.AccountType || k.AccountID != f.AccountID {
			continue
		}
		if f.Currency != "" && k.Currency != f.Currency {
			continue
		}
		if f.Restricted != nil && k.Restricted != *f.Restricted {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (s *memResultStore) get(key domain.PerformanceKey) (domain.AnnualPerformance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	return r, ok
}

// MockAccountReader is a mock type for the AccountReader interface
type MockAccountReader struct {
	mock.Mock
}

var _ portsrepo.AccountReader = (*MockAccountReader)(nil)

func (m *MockAccountReader) FindBrokerByID(ctx context.Context, brokerID string) (*domain.Broker, error) {
	args := m.Called(ctx, brokerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Broker), args.Error(1)
}

func (m *MockAccountReader) FindBrokerAccountByID(ctx context.Context, accountID string) (*domain.BrokerAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BrokerAccount), args.Error(1)
}

func (m *MockAccountReader) FindAccountGroupByID(ctx context.Context, groupID string) (*domain.AccountGroup, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountGroup), args.Error(1)
}

func (m *MockAccountReader) ListAccountsByBroker(ctx context.Context, brokerID string) ([]domain.BrokerAccount, error) {
	args := m.Called(ctx, brokerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BrokerAccount), args.Error(1)
}

func (m *MockAccountReader) ListAccountsByIDs(ctx context.Context, accountIDs []string) ([]domain.BrokerAccount, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BrokerAccount), args.Error(1)
}

// MockLedgerWriter is a mock type for the LedgerWriter interface
type MockLedgerWriter struct {
	mock.Mock
}

var _ portsrepo.LedgerWriter = (*MockLedgerWriter)(nil)

func (m *MockLedgerWriter) ImportLedger(ctx context.Context, investor string, batch domain.LedgerBatch) (domain.ImportCounts, error) {
	args := m.Called(ctx, investor, batch)
	return args.Get(0).(domain.ImportCounts), args.Error(1)
}
