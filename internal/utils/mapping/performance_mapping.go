package mapping

import (
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/models"
)

// ToModelAnnualPerformance converts a domain AnnualPerformance to a model AnnualPerformance
func ToModelAnnualPerformance(d domain.AnnualPerformance) models.AnnualPerformance {
	return models.AnnualPerformance{
		InvestorID:          d.InvestorID,
		AccountType:         string(d.AccountType),
		AccountID:           d.AccountID,
		Year:                d.Year,
		Currency:            d.Currency,
		Restricted:          d.Restricted,
		BOPNAV:              d.BOPNAV,
		EOPNAV:              d.EOPNAV,
		Invested:            d.Invested,
		CashOut:             d.CashOut,
		PriceChange:         d.PriceChange,
		CapitalDistribution: d.CapitalDistribution,
		Commission:          d.Commission,
		Tax:                 d.Tax,
		FX:                  d.FX,
		TSR:                 d.TSR,
		UpdatedAt:           d.UpdatedAt,
	}
}

// ToDomainAnnualPerformance converts a model AnnualPerformance to a domain AnnualPerformance
func ToDomainAnnualPerformance(m models.AnnualPerformance) domain.AnnualPerformance {
	return domain.AnnualPerformance{
		PerformanceKey: domain.PerformanceKey{
			InvestorID:  m.InvestorID,
			AccountType: domain.SelectorKind(m.AccountType),
			AccountID:   m.AccountID,
			Year:        m.Year,
			Currency:    m.Currency,
			Restricted:  m.Restricted,
		},
		BOPNAV:              m.BOPNAV,
		EOPNAV:              m.EOPNAV,
		Invested:            m.Invested,
		CashOut:             m.CashOut,
		PriceChange:         m.PriceChange,
		CapitalDistribution: m.CapitalDistribution,
		Commission:          m.Commission,
		Tax:                 m.Tax,
		FX:                  m.FX,
		TSR:                 m.TSR,
		UpdatedAt:           m.UpdatedAt,
	}
}
