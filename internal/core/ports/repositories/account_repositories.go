package repositories

import (
	"context"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
)

// AccountReader looks up the entities an account selector can name.
// Lookups return apperrors.ErrNotFound for unknown ids.
type AccountReader interface {
	FindBrokerByID(ctx context.Context, brokerID string) (*domain.Broker, error)
	FindBrokerAccountByID(ctx context.Context, accountID string) (*domain.BrokerAccount, error)
	FindAccountGroupByID(ctx context.Context, groupID string) (*domain.AccountGroup, error)
	ListAccountsByBroker(ctx context.Context, brokerID string) ([]domain.BrokerAccount, error)
	ListAccountsByIDs(ctx context.Context, accountIDs []string) ([]domain.BrokerAccount, error)
}

// AccountRepositoryFacade is the account repository used by services.
type AccountRepositoryFacade interface {
	AccountReader
}
