package pgsql

import (
	"context"
	"net/http"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	"github.com/SscSPs/portfolio_performance_app/internal/models"
	"github.com/SscSPs/portfolio_performance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository reads and imports ledger rows and market data.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// TransactionsFor rows come back in ledger order: date, then insertion order.
func (r *PgxLedgerRepository) TransactionsFor(ctx context.Context, scope portsrepo.LedgerScope, from, to time.Time) ([]domain.Transaction, error) {
	if len(scope.AccountIDs) == 0 {
		return nil, nil
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT transaction_id, investor_id, account_id, security_id, date, type, currency,
			quantity, price, cash_flow, commission,
			created_at, created_by, last_updated_at, last_updated_by
		FROM transactions
		WHERE investor_id = $1 AND account_id = ANY($2)
			AND ($3::date IS NULL OR date >= $3::date) AND date <= $4::date
		ORDER BY date, created_at, transaction_id`,
		scope.InvestorID, scope.AccountIDs, dateArg(from), to,
	)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query transactions", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(
			&m.TransactionID, &m.InvestorID, &m.AccountID, &m.SecurityID, &m.Date, &m.Type, &m.Currency,
			&m.Quantity, &m.Price, &m.CashFlow, &m.Commission,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transaction", err)
		}
		out = append(out, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to iterate transactions", err)
	}
	return out, nil
}

func (r *PgxLedgerRepository) FXTransactionsFor(ctx context.Context, scope portsrepo.LedgerScope, from, to time.Time) ([]domain.FXTransaction, error) {
	if len(scope.AccountIDs) == 0 {
		return nil, nil
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT fx_transaction_id, investor_id, account_id, date, from_currency, to_currency,
			from_amount, to_amount, commission,
			created_at, created_by, last_updated_at, last_updated_by
		FROM fx_transactions
		WHERE investor_id = $1 AND account_id = ANY($2)
			AND ($3::date IS NULL OR date >= $3::date) AND date <= $4::date
		ORDER BY date, created_at, fx_transaction_id`,
		scope.InvestorID, scope.AccountIDs, dateArg(from), to,
	)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query fx transactions", err)
	}
	defer rows.Close()

	var out []domain.FXTransaction
	for rows.Next() {
		var m models.FXTransaction
		if err := rows.Scan(
			&m.FXTransactionID, &m.InvestorID, &m.AccountID, &m.Date, &m.FromCurrency, &m.ToCurrency,
			&m.FromAmount, &m.ToAmount, &m.Commission,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan fx transaction", err)
		}
		out = append(out, mapping.ToDomainFXTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to iterate fx transactions", err)
	}
	return out, nil
}

func (r *PgxLedgerRepository) FXRateOnOrBefore(ctx context.Context, investorID string, date time.Time) (*domain.FXSnapshot, error) {
	var m models.FXRate
	err := r.Pool.QueryRow(ctx, `
		SELECT investor_id, date, usdeur, usdgbp, chfgbp, rubusd, plnusd
		FROM fx_rates
		WHERE investor_id = $1 AND date <= $2::date
		ORDER BY date DESC
		LIMIT 1`, investorID, date,
	).Scan(&m.InvestorID, &m.Date, &m.USDEUR, &m.USDGBP, &m.CHFGBP, &m.RUBUSD, &m.PLNUSD)
	if err != nil {
		return nil, notFoundOr(err, "fx rate snapshot")
	}
	snap := mapping.ToDomainFXSnapshot(m)
	return &snap, nil
}

func (r *PgxLedgerRepository) PriceOnOrBefore(ctx context.Context, securityID string, date time.Time) (*domain.PriceObservation, error) {
	var m models.Price
	err := r.Pool.QueryRow(ctx, `
		SELECT security_id, date, price
		FROM prices
		WHERE security_id = $1 AND date <= $2::date
		ORDER BY date DESC
		LIMIT 1`, securityID, date,
	).Scan(&m.SecurityID, &m.Date, &m.Price)
	if err != nil {
		return nil, notFoundOr(err, "price")
	}
	return &domain.PriceObservation{SecurityID: m.SecurityID, Date: domain.DateOf(m.Date), Price: m.Price}, nil
}

func (r *PgxLedgerRepository) FindSecuritiesByIDs(ctx context.Context, securityIDs []string) (map[string]domain.Security, error) {
	out := make(map[string]domain.Security, len(securityIDs))
	if len(securityIDs) == 0 {
		return out, nil
	}
	rows, err := r.Pool.Query(ctx, `
		SELECT security_id, isin, name, currency, asset_type,
			created_at, created_by, last_updated_at, last_updated_by
		FROM securities WHERE security_id = ANY($1)`, securityIDs)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query securities", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Security
		if err := rows.Scan(&m.SecurityID, &m.ISIN, &m.Name, &m.Currency, &m.AssetType,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan security", err)
		}
		out[m.SecurityID] = mapping.ToDomainSecurity(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to iterate securities", err)
	}
	return out, nil
}

// ImportLedger upserts the whole batch in one transaction. Trade prices are
// recorded as price observations unless an explicit price exists for the day.
func (r *PgxLedgerRepository) ImportLedger(ctx context.Context, investorID string, batch domain.LedgerBatch) (domain.ImportCounts, error) {
	b := &pgx.Batch{}

	for _, d := range batch.Brokers {
		m := mapping.ToModelBroker(d)
		b.Queue(`
			INSERT INTO brokers (broker_id, investor_id, name, country, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $5, $6)
			ON CONFLICT (broker_id) DO UPDATE SET
				name = EXCLUDED.name, country = EXCLUDED.country,
				last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by`,
			m.BrokerID, investorID, m.Name, m.Country, m.CreatedAt, m.CreatedBy)
	}

	for _, d := range batch.Accounts {
		m := mapping.ToModelBrokerAccount(d)
		b.Queue(`
			INSERT INTO broker_accounts (account_id, broker_id, investor_id, name, native_id, restricted, is_active,
				created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $8, $9)
			ON CONFLICT (account_id) DO UPDATE SET
				broker_id = EXCLUDED.broker_id, name = EXCLUDED.name, native_id = EXCLUDED.native_id,
				restricted = EXCLUDED.restricted, is_active = EXCLUDED.is_active,
				last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by`,
			m.AccountID, m.BrokerID, investorID, m.Name, m.NativeID, m.Restricted, m.IsActive, m.CreatedAt, m.CreatedBy)
	}

	for _, g := range batch.Groups {
		b.Queue(`
			INSERT INTO account_groups (group_id, investor_id, name, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $4, $5)
			ON CONFLICT (group_id) DO UPDATE SET
				name = EXCLUDED.name,
				last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by`,
			g.GroupID, investorID, g.Name, g.CreatedAt, g.CreatedBy)
		b.Queue(`DELETE FROM account_group_members WHERE group_id = $1`, g.GroupID)
		for _, accountID := range g.AccountIDs {
			b.Queue(`INSERT INTO account_group_members (group_id, account_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				g.GroupID, accountID)
		}
	}

	for _, d := range batch.Securities {
		m := mapping.ToModelSecurity(d)
		b.Queue(`
			INSERT INTO securities (security_id, isin, name, currency, asset_type, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $6, $7)
			ON CONFLICT (security_id) DO UPDATE SET
				isin = EXCLUDED.isin, name = EXCLUDED.name, currency = EXCLUDED.currency, asset_type = EXCLUDED.asset_type,
				last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by`,
			m.SecurityID, m.ISIN, m.Name, m.Currency, m.AssetType, m.CreatedAt, m.CreatedBy)
		b.Queue(`INSERT INTO security_investors (security_id, investor_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			m.SecurityID, investorID)
	}

	for _, d := range batch.Transactions {
		m := mapping.ToModelTransaction(d)
		b.Queue(`
			INSERT INTO transactions (transaction_id, investor_id, account_id, security_id, date, type, currency,
				quantity, price, cash_flow, commission, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $12, $13)
			ON CONFLICT (transaction_id) DO NOTHING`,
			m.TransactionID, investorID, m.AccountID, m.SecurityID, m.Date, m.Type, m.Currency,
			m.Quantity, m.Price, m.CashFlow, m.Commission, m.CreatedAt, m.CreatedBy)
		if d.Type.IsTrade() && d.SecurityID != nil && d.Price != nil && d.Price.IsPositive() {
			b.Queue(`INSERT INTO prices (security_id, date, price) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				*d.SecurityID, d.Date, *d.Price)
		}
	}

	for _, d := range batch.FXTransactions {
		m := mapping.ToModelFXTransaction(d)
		b.Queue(`
			INSERT INTO fx_transactions (fx_transaction_id, investor_id, account_id, date, from_currency, to_currency,
				from_amount, to_amount, commission, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $10, $11)
			ON CONFLICT (fx_transaction_id) DO NOTHING`,
			m.FXTransactionID, investorID, m.AccountID, m.Date, m.FromCurrency, m.ToCurrency,
			m.FromAmount, m.ToAmount, m.Commission, m.CreatedAt, m.CreatedBy)
	}

	for _, p := range batch.Prices {
		b.Queue(`
			INSERT INTO prices (security_id, date, price) VALUES ($1, $2, $3)
			ON CONFLICT (security_id, date) DO UPDATE SET price = EXCLUDED.price`,
			p.SecurityID, p.Date, p.Price)
	}

	for _, s := range batch.FXRates {
		m := mapping.ToModelFXRate(s)
		b.Queue(`
			INSERT INTO fx_rates (investor_id, date, usdeur, usdgbp, chfgbp, rubusd, plnusd)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (investor_id, date) DO UPDATE SET
				usdeur = COALESCE(EXCLUDED.usdeur, fx_rates.usdeur),
				usdgbp = COALESCE(EXCLUDED.usdgbp, fx_rates.usdgbp),
				chfgbp = COALESCE(EXCLUDED.chfgbp, fx_rates.chfgbp),
				rubusd = COALESCE(EXCLUDED.rubusd, fx_rates.rubusd),
				plnusd = COALESCE(EXCLUDED.plnusd, fx_rates.plnusd)`,
			investorID, m.Date, m.USDEUR, m.USDGBP, m.CHFGBP, m.RUBUSD, m.PLNUSD)
	}

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, b)
		for i := 0; i < b.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return apperrors.NewAppError(http.StatusInternalServerError, "failed to import ledger batch", err)
			}
		}
		if err := results.Close(); err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to import ledger batch", err)
		}
		return nil
	})
	if err != nil {
		return domain.ImportCounts{}, err
	}

	return domain.ImportCounts{
		Brokers:        len(batch.Brokers),
		Accounts:       len(batch.Accounts),
		Groups:         len(batch.Groups),
		Securities:     len(batch.Securities),
		Transactions:   len(batch.Transactions),
		FXTransactions: len(batch.FXTransactions),
		Prices:         len(batch.Prices),
		FXRates:        len(batch.FXRates),
	}, nil
}
