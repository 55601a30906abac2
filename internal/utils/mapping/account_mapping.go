package mapping

import (
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/models"
)

// ToDomainBroker converts a model Broker to a domain Broker
func ToDomainBroker(m models.Broker) domain.Broker {
	return domain.Broker{
		BrokerID:    m.BrokerID,
		InvestorID:  m.InvestorID,
		Name:        m.Name,
		Country:     m.Country,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBroker converts a domain Broker to a model Broker
func ToModelBroker(d domain.Broker) models.Broker {
	return models.Broker{
		BrokerID:    d.BrokerID,
		InvestorID:  d.InvestorID,
		Name:        d.Name,
		Country:     d.Country,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBrokerAccount converts a model BrokerAccount to a domain BrokerAccount
func ToDomainBrokerAccount(m models.BrokerAccount) domain.BrokerAccount {
	return domain.BrokerAccount{
		AccountID:   m.AccountID,
		BrokerID:    m.BrokerID,
		InvestorID:  m.InvestorID,
		Name:        m.Name,
		NativeID:    m.NativeID,
		Restricted:  m.Restricted,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBrokerAccount converts a domain BrokerAccount to a model BrokerAccount
func ToModelBrokerAccount(d domain.BrokerAccount) models.BrokerAccount {
	return models.BrokerAccount{
		AccountID:   d.AccountID,
		BrokerID:    d.BrokerID,
		InvestorID:  d.InvestorID,
		Name:        d.Name,
		NativeID:    d.NativeID,
		Restricted:  d.Restricted,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBrokerAccounts converts a slice of model accounts
func ToDomainBrokerAccounts(ms []models.BrokerAccount) []domain.BrokerAccount {
	out := make([]domain.BrokerAccount, len(ms))
	for i, m := range ms {
		out[i] = ToDomainBrokerAccount(m)
	}
	return out
}

// ToDomainAccountGroup converts a model AccountGroup to a domain AccountGroup
func ToDomainAccountGroup(m models.AccountGroup) domain.AccountGroup {
	return domain.AccountGroup{
		GroupID:     m.GroupID,
		InvestorID:  m.InvestorID,
		Name:        m.Name,
		AccountIDs:  m.AccountIDs,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
