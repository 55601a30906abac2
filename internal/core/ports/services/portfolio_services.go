package services

import (
	"context"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
)

// PortfolioSvc values a selector's scope at a date.
type PortfolioSvc interface {
	GetSummary(ctx context.Context, userID string, params dto.PortfolioQuery) (*domain.PortfolioSummary, error)
	ListClosedPositions(ctx context.Context, userID string, params dto.ClosedPositionsQuery) ([]domain.ClosedPosition, error)
}

// LedgerImportSvc accepts ledger rows from external data sources.
type LedgerImportSvc interface {
	ImportLedger(ctx context.Context, userID string, req dto.LedgerImportRequest) (domain.ImportCounts, error)
}
