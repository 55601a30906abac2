package repositories

import (
	"context"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
)

// ResultStore persists annual performance records. Upsert is atomic per key.
type ResultStore interface {
	Upsert(ctx context.Context, record domain.AnnualPerformance) error
	// Get returns apperrors.ErrNotFound when no record exists for key.
	Get(ctx context.Context, key domain.PerformanceKey) (*domain.AnnualPerformance, error)
	List(ctx context.Context, filter domain.PerformanceFilter) ([]domain.AnnualPerformance, error)
}

// JobRequestCache holds validated job requests until they are streamed.
type JobRequestCache interface {
	Put(ctx context.Context, sessionID string, req domain.PerformanceJobRequest) error
	// Get returns apperrors.ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, sessionID string) (*domain.PerformanceJobRequest, error)
}
