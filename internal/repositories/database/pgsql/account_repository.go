package pgsql

import (
	"context"
	"net/http"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	"github.com/SscSPs/portfolio_performance_app/internal/models"
	"github.com/SscSPs/portfolio_performance_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAccountRepository reads brokers, broker accounts and account groups.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, broker_id, investor_id, name, native_id, restricted, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanBrokerAccount(row pgx.Row) (models.BrokerAccount, error) {
	var m models.BrokerAccount
	err := row.Scan(
		&m.AccountID, &m.BrokerID, &m.InvestorID, &m.Name, &m.NativeID, &m.Restricted, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAccountRepository) FindBrokerByID(ctx context.Context, brokerID string) (*domain.Broker, error) {
	var m models.Broker
	err := r.Pool.QueryRow(ctx, `
		SELECT broker_id, investor_id, name, country, created_at, created_by, last_updated_at, last_updated_by
		FROM brokers WHERE broker_id = $1`, brokerID,
	).Scan(&m.BrokerID, &m.InvestorID, &m.Name, &m.Country, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, notFoundOr(err, "broker")
	}
	b := mapping.ToDomainBroker(m)
	return &b, nil
}

func (r *PgxAccountRepository) FindBrokerAccountByID(ctx context.Context, accountID string) (*domain.BrokerAccount, error) {
	m, err := scanBrokerAccount(r.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM broker_accounts WHERE account_id = $1`, accountID))
	if err != nil {
		return nil, notFoundOr(err, "broker account")
	}
	a := mapping.ToDomainBrokerAccount(m)
	return &a, nil
}

func (r *PgxAccountRepository) FindAccountGroupByID(ctx context.Context, groupID string) (*domain.AccountGroup, error) {
	var m models.AccountGroup
	err := r.Pool.QueryRow(ctx, `
		SELECT g.group_id, g.investor_id, g.name,
			COALESCE(array_agg(m.account_id ORDER BY m.account_id) FILTER (WHERE m.account_id IS NOT NULL), '{}'),
			g.created_at, g.created_by, g.last_updated_at, g.last_updated_by
		FROM account_groups g
		LEFT JOIN account_group_members m ON m.group_id = g.group_id
		WHERE g.group_id = $1
		GROUP BY g.group_id`, groupID,
	).Scan(&m.GroupID, &m.InvestorID, &m.Name, &m.AccountIDs, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return nil, notFoundOr(err, "account group")
	}
	g := mapping.ToDomainAccountGroup(m)
	return &g, nil
}

func (r *PgxAccountRepository) ListAccountsByBroker(ctx context.Context, brokerID string) ([]domain.BrokerAccount, error) {
	return r.listAccounts(ctx,
		`SELECT `+accountColumns+` FROM broker_accounts WHERE broker_id = $1 ORDER BY account_id`, brokerID)
}

func (r *PgxAccountRepository) ListAccountsByIDs(ctx context.Context, accountIDs []string) ([]domain.BrokerAccount, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}
	return r.listAccounts(ctx,
		`SELECT `+accountColumns+` FROM broker_accounts WHERE account_id = ANY($1) ORDER BY account_id`, accountIDs)
}

func (r *PgxAccountRepository) listAccounts(ctx context.Context, query string, arg any) ([]domain.BrokerAccount, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list broker accounts", err)
	}
	defer rows.Close()

	var out []models.BrokerAccount
	for rows.Next() {
		m, err := scanBrokerAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan broker account", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to iterate broker accounts", err)
	}
	return mapping.ToDomainBrokerAccounts(out), nil
}
