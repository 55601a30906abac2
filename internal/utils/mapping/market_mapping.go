package mapping

import (
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/models"
	"github.com/shopspring/decimal"
)

// ToDomainSecurity converts a model Security to a domain Security
func ToDomainSecurity(m models.Security) domain.Security {
	return domain.Security{
		SecurityID:  m.SecurityID,
		ISIN:        m.ISIN,
		Name:        m.Name,
		Currency:    m.Currency,
		AssetType:   m.AssetType,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSecurity converts a domain Security to a model Security
func ToModelSecurity(d domain.Security) models.Security {
	return models.Security{
		SecurityID:  d.SecurityID,
		ISIN:        d.ISIN,
		Name:        d.Name,
		Currency:    d.Currency,
		AssetType:   d.AssetType,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFXSnapshot converts an fx_rates row to a snapshot; NULL pairs are left out.
func ToDomainFXSnapshot(m models.FXRate) domain.FXSnapshot {
	rates := make(map[string]decimal.Decimal)
	for pair, v := range map[string]decimal.NullDecimal{
		"USDEUR": m.USDEUR,
		"USDGBP": m.USDGBP,
		"CHFGBP": m.CHFGBP,
		"RUBUSD": m.RUBUSD,
		"PLNUSD": m.PLNUSD,
	} {
		if v.Valid {
			rates[pair] = v.Decimal
		}
	}
	return domain.FXSnapshot{InvestorID: m.InvestorID, Date: domain.DateOf(m.Date), Rates: rates}
}

// ToModelFXRate converts a snapshot to an fx_rates row.
func ToModelFXRate(d domain.FXSnapshot) models.FXRate {
	pick := func(pair string) decimal.NullDecimal {
		if v, ok := d.Rates[pair]; ok {
			return decimal.NewNullDecimal(v)
		}
		return decimal.NullDecimal{}
	}
	return models.FXRate{
		InvestorID: d.InvestorID,
		Date:       d.Date,
		USDEUR:     pick("USDEUR"),
		USDGBP:     pick("USDGBP"),
		CHFGBP:     pick("CHFGBP"),
		RUBUSD:     pick("RUBUSD"),
		PLNUSD:     pick("PLNUSD"),
	}
}
