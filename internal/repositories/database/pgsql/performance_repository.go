package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	"github.com/SscSPs/portfolio_performance_app/internal/models"
	"github.com/SscSPs/portfolio_performance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPerformanceRepository stores annual performance records.
type PgxPerformanceRepository struct {
	BaseRepository
}

func newPgxPerformanceRepository(pool *pgxpool.Pool) portsrepo.ResultStore {
	return &PgxPerformanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ResultStore = (*PgxPerformanceRepository)(nil)

const performanceColumns = `investor_id, account_type, account_id, year, currency, restricted,
	bop_nav, eop_nav, invested, cash_out, price_change, capital_distribution, commission, tax, fx, tsr, updated_at`

func scanPerformance(row pgx.Row) (models.AnnualPerformance, error) {
	var m models.AnnualPerformance
	err := row.Scan(
		&m.InvestorID, &m.AccountType, &m.AccountID, &m.Year, &m.Currency, &m.Restricted,
		&m.BOPNAV, &m.EOPNAV, &m.Invested, &m.CashOut, &m.PriceChange, &m.CapitalDistribution,
		&m.Commission, &m.Tax, &m.FX, &m.TSR, &m.UpdatedAt,
	)
	return m, err
}

// Upsert writes the record in a single statement so concurrent writers of
// one key never interleave column updates.
func (r *PgxPerformanceRepository) Upsert(ctx context.Context, record domain.AnnualPerformance) error {
	m := mapping.ToModelAnnualPerformance(record)
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO annual_performance (`+performanceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (investor_id, account_type, account_id, year, currency, restricted) DO UPDATE SET
			bop_nav = EXCLUDED.bop_nav,
			eop_nav = EXCLUDED.eop_nav,
			invested = EXCLUDED.invested,
			cash_out = EXCLUDED.cash_out,
			price_change = EXCLUDED.price_change,
			capital_distribution = EXCLUDED.capital_distribution,
			commission = EXCLUDED.commission,
			tax = EXCLUDED.tax,
			fx = EXCLUDED.fx,
			tsr = EXCLUDED.tsr,
			updated_at = EXCLUDED.updated_at`,
		m.InvestorID, m.AccountType, m.AccountID, m.Year, m.Currency, m.Restricted,
		m.BOPNAV, m.EOPNAV, m.Invested, m.CashOut, m.PriceChange, m.CapitalDistribution,
		m.Commission, m.Tax, m.FX, m.TSR, m.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to upsert annual performance", err)
	}
	return nil
}

func (r *PgxPerformanceRepository) Get(ctx context.Context, key domain.PerformanceKey) (*domain.AnnualPerformance, error) {
	m, err := scanPerformance(r.Pool.QueryRow(ctx, `
		SELECT `+performanceColumns+` FROM annual_performance
		WHERE investor_id = $1 AND account_type = $2 AND account_id = $3
			AND year = $4 AND currency = $5 AND restricted = $6`,
		key.InvestorID, string(key.AccountType), key.AccountID, key.Year, key.Currency, key.Restricted,
	))
	if err != nil {
		return nil, notFoundOr(err, "annual performance")
	}
	p := mapping.ToDomainAnnualPerformance(m)
	return &p, nil
}

func (r *PgxPerformanceRepository) List(ctx context.Context, filter domain.PerformanceFilter) ([]domain.AnnualPerformance, error) {
	conds := []string{"investor_id = $1", "account_type = $2", "account_id = $3"}
	args := []any{filter.InvestorID, string(filter.AccountType), filter.AccountID}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		conds = append(conds, fmt.Sprintf("currency = $%d", len(args)))
	}
	if filter.Restricted != nil {
		args = append(args, *filter.Restricted)
		conds = append(conds, fmt.Sprintf("restricted = $%d", len(args)))
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT `+performanceColumns+` FROM annual_performance
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY currency, restricted, year`, args...)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list annual performance", err)
	}
	defer rows.Close()

	var out []domain.AnnualPerformance
	for rows.Next() {
		m, err := scanPerformance(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan annual performance", err)
		}
		out = append(out, mapping.ToDomainAnnualPerformance(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to iterate annual performance", err)
	}
	return out, nil
}
