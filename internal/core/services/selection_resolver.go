package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_performance_app/internal/core/ports/repositories"
)

// selectionResolver expands an AccountSelector into its broker accounts.
type selectionResolver struct {
	accounts portsrepo.AccountReader
}

// Resolve returns the target named by sel. Unknown ids and entities of
// another investor both fail with ErrNotFound so ownership is not leaked.
func (r selectionResolver) Resolve(ctx context.Context, investorID string, sel domain.AccountSelector) (domain.PerformanceTarget, error) {
	target := domain.PerformanceTarget{AccountType: sel.Kind, AccountID: sel.ID}
	notFound := apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", sel.Kind, sel.ID))

	switch sel.Kind {
	case domain.SelectorBroker:
		broker, err := r.accounts.FindBrokerByID(ctx, sel.ID)
		if err != nil {
			return target, mapLookupErr(err, notFound)
		}
		if broker.InvestorID != investorID {
			return target, notFound
		}
		accounts, err := r.accounts.ListAccountsByBroker(ctx, broker.BrokerID)
		if err != nil {
			return target, fmt.Errorf("listing accounts of broker %s: %w", broker.BrokerID, err)
		}
		target.Accounts = accounts

	case domain.SelectorAccount:
		account, err := r.accounts.FindBrokerAccountByID(ctx, sel.ID)
		if err != nil {
			return target, mapLookupErr(err, notFound)
		}
		if account.InvestorID != investorID {
			return target, notFound
		}
		target.Accounts = []domain.BrokerAccount{*account}

	case domain.SelectorGroup:
		group, err := r.accounts.FindAccountGroupByID(ctx, sel.ID)
		if err != nil {
			return target, mapLookupErr(err, notFound)
		}
		if group.InvestorID != investorID {
			return target, notFound
		}
		accounts, err := r.accounts.ListAccountsByIDs(ctx, group.AccountIDs)
		if err != nil {
			return target, fmt.Errorf("listing accounts of group %s: %w", group.GroupID, err)
		}
		for _, a := range accounts {
			if a.InvestorID == investorID {
				target.Accounts = append(target.Accounts, a)
			}
		}

	default:
		return target, apperrors.NewValidationError(fmt.Sprintf("unknown selector kind %q", sel.Kind))
	}

	return target, nil
}

func mapLookupErr(err error, notFound error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return notFound
	}
	return err
}
