package cache

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
	gocache "github.com/patrickmn/go-cache"
)

// JobRequestKeyPrefix namespaces job requests inside a shared cache.
const JobRequestKeyPrefix = "account_performance_update_"

// MemoryJobRequestCache keeps validated job requests in process memory
// until their TTL lapses.
type MemoryJobRequestCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// NewMemoryJobRequestCache creates a cache whose entries expire after ttl.
func NewMemoryJobRequestCache(ttl time.Duration) *MemoryJobRequestCache {
	return &MemoryJobRequestCache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

var _ portsrepo.JobRequestCache = (*MemoryJobRequestCache)(nil)

func (c *MemoryJobRequestCache) Put(_ context.Context, sessionID string, req domain.PerformanceJobRequest) error {
	c.store.Set(JobRequestKeyPrefix+sessionID, req, c.ttl)
	return nil
}

// Get returns a copy so callers cannot mutate the stored request.
func (c *MemoryJobRequestCache) Get(_ context.Context, sessionID string) (*domain.PerformanceJobRequest, error) {
	v, found := c.store.Get(JobRequestKeyPrefix + sessionID)
	if !found {
		return nil, apperrors.NewNotFoundError("session not found or expired")
	}
	req := v.(domain.PerformanceJobRequest)
	return &req, nil
}
