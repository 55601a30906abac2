package services

import (
	"context"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
)

// PerformanceJobSvc validates, caches and streams recompute jobs.
type PerformanceJobSvc interface {
	// ValidateJob checks a request. Field problems are returned as FieldErrors,
	// err is reserved for infrastructure failures.
	ValidateJob(ctx context.Context, userID string, req dto.PerformanceJobRequest) (*domain.PerformanceJobRequest, dto.FieldErrors, error)
	// StartJob validates and caches the request, returning its session id.
	StartJob(ctx context.Context, userID string, req dto.PerformanceJobRequest) (string, dto.FieldErrors, error)
	// StreamJob returns the events of a cached job. It fails with ErrNotFound
	// for unknown sessions and ErrForbidden for foreign ones, before any work.
	StreamJob(ctx context.Context, userID, sessionID string) (<-chan domain.JobEvent, error)
}

// PerformanceReaderSvc reads stored annual records.
type PerformanceReaderSvc interface {
	ListAnnualPerformance(ctx context.Context, userID string, params dto.ListPerformanceParams) ([]domain.AnnualPerformance, error)
}

// PerformanceSvcFacade is everything the performance handler needs.
type PerformanceSvcFacade interface {
	PerformanceJobSvc
	PerformanceReaderSvc
}
