package pgsql

import (
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres repositories. The job request
// cache is process-local and passed in by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool, jobCache portsrepo.JobRequestCache) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:      newPgxLedgerRepository(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		PerformanceRepo: newPgxPerformanceRepository(dbPool),
		JobCache:        jobCache,
	}
}
