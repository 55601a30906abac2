package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_performance_app/internal/core/ports/services"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
	"github.com/google/uuid"
)

// ledgerImportService turns import requests into ledger batches owned by the caller.
type ledgerImportService struct {
	BaseService
	ledger   portsrepo.LedgerWriter
	accounts portsrepo.AccountReader
	now      func() time.Time
}

// NewLedgerImportService creates the ledger import service.
func NewLedgerImportService(ledger portsrepo.LedgerWriter, accounts portsrepo.AccountReader) portssvc.LedgerImportSvc {
	return &ledgerImportService{
		ledger:   ledger,
		accounts: accounts,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

var _ portssvc.LedgerImportSvc = (*ledgerImportService)(nil)

func (s *ledgerImportService) ImportLedger(ctx context.Context, userID string, req dto.LedgerImportRequest) (domain.ImportCounts, error) {
	batch, err := s.toBatch(ctx, userID, req)
	if err != nil {
		s.LogError(ctx, err, "Rejected ledger import", slog.String("user_id", userID))
		return domain.ImportCounts{}, err
	}

	counts, err := s.ledger.ImportLedger(ctx, userID, batch)
	if err != nil {
		s.LogError(ctx, err, "Failed to import ledger batch", slog.String("user_id", userID))
		return domain.ImportCounts{}, err
	}
	s.LogInfo(ctx, "Ledger batch imported",
		slog.String("user_id", userID),
		slog.Int("transactions", counts.Transactions),
		slog.Int("fx_transactions", counts.FXTransactions),
		slog.Int("prices", counts.Prices))
	return counts, nil
}

// ownership caches which referenced ids the caller may write to.
type ownership struct {
	svc      *ledgerImportService
	userID   string
	brokers  map[string]bool
	accounts map[string]bool
}

func (o *ownership) broker(ctx context.Context, id string) error {
	if ok, seen := o.brokers[id]; seen {
		return boolToOwnershipErr(ok, "broker", id)
	}
	b, err := o.svc.accounts.FindBrokerByID(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	o.brokers[id] = err == nil && b.InvestorID == o.userID
	return boolToOwnershipErr(o.brokers[id], "broker", id)
}

func (o *ownership) account(ctx context.Context, id string) error {
	if ok, seen := o.accounts[id]; seen {
		return boolToOwnershipErr(ok, "account", id)
	}
	a, err := o.svc.accounts.FindBrokerAccountByID(ctx, id)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	o.accounts[id] = err == nil && a.InvestorID == o.userID
	return boolToOwnershipErr(o.accounts[id], "account", id)
}

func boolToOwnershipErr(ok bool, kind, id string) error {
	if ok {
		return nil
	}
	return apperrors.NewValidationError(fmt.Sprintf("unknown %s %q", kind, id))
}

func parseDay(field, raw string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("%s must be YYYY-MM-DD, got %q", field, raw))
	}
	return d, nil
}

func (s *ledgerImportService) toBatch(ctx context.Context, userID string, req dto.LedgerImportRequest) (domain.LedgerBatch, error) {
	now := s.now()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}
	own := &ownership{svc: s, userID: userID, brokers: map[string]bool{}, accounts: map[string]bool{}}
	var batch domain.LedgerBatch

	for _, b := range req.Brokers {
		own.brokers[b.BrokerID] = true
		batch.Brokers = append(batch.Brokers, domain.Broker{
			BrokerID: b.BrokerID, InvestorID: userID, Name: b.Name, Country: b.Country, AuditFields: audit,
		})
	}

	for _, a := range req.Accounts {
		if err := own.broker(ctx, a.BrokerID); err != nil {
			return batch, err
		}
		own.accounts[a.AccountID] = true
		batch.Accounts = append(batch.Accounts, domain.BrokerAccount{
			AccountID: a.AccountID, BrokerID: a.BrokerID, InvestorID: userID, Name: a.Name,
			NativeID: a.NativeID, Restricted: a.Restricted, IsActive: true, AuditFields: audit,
		})
	}

	for _, g := range req.Groups {
		for _, id := range g.AccountIDs {
			if err := own.account(ctx, id); err != nil {
				return batch, err
			}
		}
		batch.Groups = append(batch.Groups, domain.AccountGroup{
			GroupID: g.GroupID, InvestorID: userID, Name: g.Name, AccountIDs: g.AccountIDs, AuditFields: audit,
		})
	}

	for _, sec := range req.Securities {
		batch.Securities = append(batch.Securities, domain.Security{
			SecurityID: sec.SecurityID, ISIN: sec.ISIN, Name: sec.Name,
			Currency: domain.NormalizeCurrency(sec.Currency), AssetType: sec.AssetType, AuditFields: audit,
		})
	}

	for i, t := range req.Transactions {
		tx, err := s.toTransaction(ctx, own, t, audit)
		if err != nil {
			return batch, fmt.Errorf("transactions[%d]: %w", i, err)
		}
		batch.Transactions = append(batch.Transactions, tx)
	}

	for i, f := range req.FXTransactions {
		if err := own.account(ctx, f.AccountID); err != nil {
			return batch, fmt.Errorf("fx_transactions[%d]: %w", i, err)
		}
		date, err := parseDay("date", f.Date)
		if err != nil {
			return batch, fmt.Errorf("fx_transactions[%d]: %w", i, err)
		}
		if !f.FromAmount.IsPositive() || !f.ToAmount.IsPositive() {
			return batch, fmt.Errorf("fx_transactions[%d]: %w", i, apperrors.NewValidationError("amounts must be positive"))
		}
		id := f.FXTransactionID
		if id == "" {
			id = uuid.NewString()
		}
		batch.FXTransactions = append(batch.FXTransactions, domain.FXTransaction{
			FXTransactionID: id, InvestorID: userID, AccountID: f.AccountID, Date: date,
			FromCurrency: domain.NormalizeCurrency(f.FromCurrency), ToCurrency: domain.NormalizeCurrency(f.ToCurrency),
			FromAmount: f.FromAmount, ToAmount: f.ToAmount, Commission: f.Commission, AuditFields: audit,
		})
	}

	for i, p := range req.Prices {
		date, err := parseDay("date", p.Date)
		if err != nil {
			return batch, fmt.Errorf("prices[%d]: %w", i, err)
		}
		if !p.Price.IsPositive() {
			return batch, fmt.Errorf("prices[%d]: %w", i, apperrors.NewValidationError("price must be positive"))
		}
		batch.Prices = append(batch.Prices, domain.PriceObservation{SecurityID: p.SecurityID, Date: date, Price: p.Price})
	}

	for i, r := range req.FXRates {
		date, err := parseDay("date", r.Date)
		if err != nil {
			return batch, fmt.Errorf("fx_rates[%d]: %w", i, err)
		}
		batch.FXRates = append(batch.FXRates, domain.FXSnapshot{InvestorID: userID, Date: date, Rates: r.Rates()})
	}

	return batch, nil
}

func (s *ledgerImportService) toTransaction(ctx context.Context, own *ownership, t dto.TransactionImport, audit domain.AuditFields) (domain.Transaction, error) {
	if err := own.account(ctx, t.AccountID); err != nil {
		return domain.Transaction{}, err
	}
	date, err := parseDay("date", t.Date)
	if err != nil {
		return domain.Transaction{}, err
	}
	typ := domain.TransactionType(t.Type)
	if !typ.Valid() {
		return domain.Transaction{}, apperrors.NewValidationError(fmt.Sprintf("unknown transaction type %q", t.Type))
	}
	if typ.IsTrade() {
		if t.SecurityID == nil || *t.SecurityID == "" || t.Quantity == nil || t.Price == nil {
			return domain.Transaction{}, apperrors.NewValidationError("trades need security_id, quantity and price")
		}
		if (typ == domain.TransactionBuy) != t.Quantity.IsPositive() {
			return domain.Transaction{}, apperrors.NewValidationError("buys need a positive quantity and sells a negative one")
		}
	} else if t.CashFlow == nil {
		return domain.Transaction{}, apperrors.NewValidationError(fmt.Sprintf("%s rows need cash_flow", t.Type))
	}

	id := t.TransactionID
	if id == "" {
		id = uuid.NewString()
	}
	return domain.Transaction{
		TransactionID: id,
		InvestorID:    audit.CreatedBy,
		AccountID:     t.AccountID,
		SecurityID:    t.SecurityID,
		Date:          date,
		Type:          typ,
		Currency:      domain.NormalizeCurrency(t.Currency),
		Quantity:      t.Quantity,
		Price:         t.Price,
		CashFlow:      t.CashFlow,
		Commission:    t.Commission,
		AuditFields:   audit,
	}, nil
}
