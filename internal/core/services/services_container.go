package services

import (
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_performance_app/internal/core/ports/services"
	"github.com/SscSPs/portfolio_performance_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	aggregator := NewAnnualAggregator(
		repos.PerformanceRepo,
		WithReconciliationTolerance(cfg.ReconciliationTolerance),
	)

	return &portssvc.ServiceContainer{
		Performance: NewPerformanceService(
			repos.LedgerRepo,
			repos.AccountRepo,
			repos.PerformanceRepo,
			repos.JobCache,
			WithSupportedCurrencies(cfg.SupportedCurrencies),
			WithJobConcurrency(cfg.JobConcurrency),
			WithAnnualAggregator(aggregator),
		),
		Portfolio:    NewPortfolioService(repos.LedgerRepo, repos.AccountRepo),
		LedgerImport: NewLedgerImportService(repos.LedgerRepo, repos.AccountRepo),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.PerformanceSvcFacade = (*performanceService)(nil)
	_ portssvc.PortfolioSvc         = (*portfolioService)(nil)
	_ portssvc.LedgerImportSvc      = (*ledgerImportService)(nil)
)
