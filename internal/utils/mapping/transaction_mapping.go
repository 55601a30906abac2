package mapping

import (
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		InvestorID:    m.InvestorID,
		AccountID:     m.AccountID,
		SecurityID:    m.SecurityID,
		Date:          domain.DateOf(m.Date),
		Type:          domain.TransactionType(m.Type),
		Currency:      m.Currency,
		Quantity:      fromNull(m.Quantity),
		Price:         fromNull(m.Price),
		CashFlow:      fromNull(m.CashFlow),
		Commission:    fromNull(m.Commission),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		InvestorID:    d.InvestorID,
		AccountID:     d.AccountID,
		SecurityID:    d.SecurityID,
		Date:          d.Date,
		Type:          string(d.Type),
		Currency:      d.Currency,
		Quantity:      toNull(d.Quantity),
		Price:         toNull(d.Price),
		CashFlow:      toNull(d.CashFlow),
		Commission:    toNull(d.Commission),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFXTransaction converts a model FXTransaction to a domain FXTransaction
func ToDomainFXTransaction(m models.FXTransaction) domain.FXTransaction {
	return domain.FXTransaction{
		FXTransactionID: m.FXTransactionID,
		InvestorID:      m.InvestorID,
		AccountID:       m.AccountID,
		Date:            domain.DateOf(m.Date),
		FromCurrency:    m.FromCurrency,
		ToCurrency:      m.ToCurrency,
		FromAmount:      m.FromAmount,
		ToAmount:        m.ToAmount,
		Commission:      fromNull(m.Commission),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelFXTransaction converts a domain FXTransaction to a model FXTransaction
func ToModelFXTransaction(d domain.FXTransaction) models.FXTransaction {
	return models.FXTransaction{
		FXTransactionID: d.FXTransactionID,
		InvestorID:      d.InvestorID,
		AccountID:       d.AccountID,
		Date:            d.Date,
		FromCurrency:    d.FromCurrency,
		ToCurrency:      d.ToCurrency,
		FromAmount:      d.FromAmount,
		ToAmount:        d.ToAmount,
		Commission:      toNull(d.Commission),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

func fromNull(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	v := n.Decimal
	return &v
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
