package dto

import (
	"maps"
	"slices"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	"github.com/SscSPs/portfolio_performance_app/internal/utils"
	"github.com/shopspring/decimal"
)

// PortfolioQuery selects the scope, currency and date of a summary.
type PortfolioQuery struct {
	SelectionAccountType string `form:"selection_account_type" binding:"required,oneof=broker account group"`
	SelectionAccountID   string `form:"selection_account_id" binding:"required"`
	Currency             string `form:"currency" binding:"required,len=3"`
	EffectiveCurrentDate string `form:"effective_current_date" binding:"omitempty,datetime=2006-01-02"`
}

// ClosedPositionsQuery adds the exit window: YTD, All or a year.
type ClosedPositionsQuery struct {
	PortfolioQuery
	Timespan string `form:"timespan"`
}

// MoneyResponse is an amount with its display form.
type MoneyResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Formatted string          `json:"formatted"`
}

// NewMoneyResponse formats amount in currency.
func NewMoneyResponse(amount decimal.Decimal, currency string) MoneyResponse {
	return MoneyResponse{Amount: amount, Currency: currency, Formatted: utils.FormatMoney(amount, currency)}
}

// SecurityPerformanceResponse is one security line of a summary.
type SecurityPerformanceResponse struct {
	SecurityID     string           `json:"security_id"`
	Name           string           `json:"name"`
	ISIN           string           `json:"isin"`
	Currency       string           `json:"currency"`
	Position       decimal.Decimal  `json:"position"`
	Price          *decimal.Decimal `json:"price"`
	MarketValue    MoneyResponse    `json:"market_value"`
	Realized       MoneyResponse    `json:"realized_gl"`
	Unrealized     MoneyResponse    `json:"unrealized_gl"`
	Distributions  MoneyResponse    `json:"capital_distribution"`
	Commission     MoneyResponse    `json:"commission"`
	InvestmentDate string           `json:"investment_date"`
	IRR            string           `json:"irr"`
}

// PortfolioSummaryResponse is the summary of a scope.
type PortfolioSummaryResponse struct {
	AsOf                string                        `json:"as_of"`
	Currency            string                        `json:"currency"`
	NAV                 MoneyResponse                 `json:"nav"`
	Cash                []MoneyResponse               `json:"cash"`
	OpenSecurities      int                           `json:"no_of_securities"`
	FirstInvestment     string                        `json:"first_investment"`
	Realized            MoneyResponse                 `json:"realized_gl"`
	Unrealized          MoneyResponse                 `json:"unrealized_gl"`
	CapitalDistribution MoneyResponse                 `json:"capital_distribution"`
	Commission          MoneyResponse                 `json:"commission"`
	Tax                 MoneyResponse                 `json:"tax"`
	IRR                 string                        `json:"irr"`
	Securities          []SecurityPerformanceResponse `json:"securities"`
}

// ToPortfolioSummaryResponse converts a domain summary.
func ToPortfolioSummaryResponse(s *domain.PortfolioSummary) PortfolioSummaryResponse {
	ccy := s.Currency
	resp := PortfolioSummaryResponse{
		AsOf:                s.AsOf.Format(time.DateOnly),
		Currency:            ccy,
		NAV:                 NewMoneyResponse(s.NAV, ccy),
		OpenSecurities:      s.OpenSecurities,
		FirstInvestment:     formatOptionalDate(s.FirstInvestment),
		Realized:            NewMoneyResponse(s.Realized, ccy),
		Unrealized:          NewMoneyResponse(s.Unrealized, ccy),
		CapitalDistribution: NewMoneyResponse(s.CapitalDistribution, ccy),
		Commission:          NewMoneyResponse(s.Commission, ccy),
		Tax:                 NewMoneyResponse(s.Tax, ccy),
		IRR:                 utils.FormatPercentage(s.IRR),
		Cash:                []MoneyResponse{},
		Securities:          []SecurityPerformanceResponse{},
	}
	for _, code := range sortedKeys(s.Cash) {
		if s.Cash[code].IsZero() {
			continue
		}
		resp.Cash = append(resp.Cash, NewMoneyResponse(s.Cash[code], code))
	}
	for _, sp := range s.Securities {
		sec := sp.Security
		line := SecurityPerformanceResponse{
			SecurityID:     sec.SecurityID,
			Name:           sec.Name,
			ISIN:           sec.ISIN,
			Currency:       sec.Currency,
			Position:       sp.Position,
			MarketValue:    NewMoneyResponse(sp.MarketValue, sec.Currency),
			Realized:       NewMoneyResponse(sp.Realized, sec.Currency),
			Unrealized:     NewMoneyResponse(sp.Unrealized, sec.Currency),
			Distributions:  NewMoneyResponse(sp.Distributions, sec.Currency),
			Commission:     NewMoneyResponse(sp.Commission, sec.Currency),
			InvestmentDate: sp.InvestmentDate.Format(time.DateOnly),
			IRR:            utils.FormatPercentage(sp.IRR),
		}
		if sp.Price.Valid {
			p := sp.Price.Decimal
			line.Price = &p
		}
		resp.Securities = append(resp.Securities, line)
	}
	return resp
}

// ClosedPositionResponse is one closed round trip.
type ClosedPositionResponse struct {
	SecurityID          string        `json:"security_id"`
	Name                string        `json:"name"`
	ISIN                string        `json:"isin"`
	InvestmentDate      string        `json:"investment_date"`
	ExitDate            string        `json:"exit_date"`
	Realized            MoneyResponse `json:"realized_gl"`
	CapitalDistribution MoneyResponse `json:"capital_distribution"`
	Commission          MoneyResponse `json:"commission"`
}

// ToClosedPositionResponses converts closed positions.
func ToClosedPositionResponses(positions []domain.ClosedPosition) []ClosedPositionResponse {
	out := make([]ClosedPositionResponse, len(positions))
	for i, p := range positions {
		ccy := p.Security.Currency
		out[i] = ClosedPositionResponse{
			SecurityID:          p.Security.SecurityID,
			Name:                p.Security.Name,
			ISIN:                p.Security.ISIN,
			InvestmentDate:      p.InvestmentDate.Format(time.DateOnly),
			ExitDate:            p.ExitDate.Format(time.DateOnly),
			Realized:            NewMoneyResponse(p.Realized, ccy),
			CapitalDistribution: NewMoneyResponse(p.CapitalDistribution, ccy),
			Commission:          NewMoneyResponse(p.Commission, ccy),
		}
	}
	return out
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	return slices.Sorted(maps.Keys(m))
}
