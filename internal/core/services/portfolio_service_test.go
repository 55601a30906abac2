package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portssvc "github.com/SscSPs/portfolio_performance_app/internal/core/ports/services"
	"github.com/SscSPs/portfolio_performance_app/internal/core/services"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PortfolioServiceTestSuite struct {
	suite.Suite
	accounts *MockAccountReader
	ledger   *memLedger
	service  portssvc.PortfolioSvc
}

func (suite *PortfolioServiceTestSuite) SetupTest() {
	suite.accounts = new(MockAccountReader)
	suite.accounts.On("FindBrokerAccountByID", mock.Anything, "acc-1").
		Return(&domain.BrokerAccount{AccountID: "acc-1", InvestorID: investorID}, nil)

	buy := tradeRow("acc-1", day(2022, 3, 1), "SEC", "USD", "10", "100")
	buy.Commission = decPtr("5")
	dividend := cashRow("acc-1", day(2022, 4, 1), domain.TransactionDividend, "USD", "20")
	sec := "SEC"
	dividend.SecurityID = &sec

	suite.ledger = &memLedger{
		transactions: []domain.Transaction{
			cashRow("acc-1", day(2022, 1, 10), domain.TransactionCashIn, "USD", "2000"),
			buy,
			dividend,
			tradeRow("acc-1", day(2022, 6, 1), "SEC", "USD", "-10", "120"),
			tradeRow("acc-1", day(2022, 7, 1), "OTH", "USD", "5", "50"),
		},
		prices: []domain.PriceObservation{
			{SecurityID: "SEC", Date: day(2022, 4, 15), Price: dec("110")},
			{SecurityID: "OTH", Date: day(2022, 12, 1), Price: dec("60")},
		},
		securities: map[string]domain.Security{
			"SEC": {SecurityID: "SEC", Name: "Beta Corp", Currency: "USD"},
			"OTH": {SecurityID: "OTH", Name: "Alpha Inc", Currency: "USD"},
		},
	}
	suite.service = services.NewPortfolioService(suite.ledger, suite.accounts,
		services.WithPortfolioClock(func() time.Time { return time.Date(2022, 12, 31, 18, 0, 0, 0, time.UTC) }))
}

func query(currency, effective string) dto.PortfolioQuery {
	return dto.PortfolioQuery{
		SelectionAccountType: "account",
		SelectionAccountID:   "acc-1",
		Currency:             currency,
		EffectiveCurrentDate: effective,
	}
}

func (suite *PortfolioServiceTestSuite) TestGetSummary_DefaultsToToday() {
	summary, err := suite.service.GetSummary(context.Background(), investorID, query("USD", ""))
	suite.Require().NoError(err)

	suite.Equal(day(2022, 12, 31), summary.AsOf)
	suite.Equal("2265", summary.NAV.String())
	suite.Equal("1965", summary.Cash["USD"].String())
	suite.Equal(1, summary.OpenSecurities)
	suite.Equal("200", summary.Realized.String())
	suite.Equal("50", summary.Unrealized.String())
	suite.Equal("20", summary.CapitalDistribution.String())
	suite.Equal("5", summary.Commission.String())
	suite.True(summary.Tax.IsZero())
	suite.Require().NotNil(summary.FirstInvestment)
	suite.Equal(day(2022, 3, 1), *summary.FirstInvestment)
	suite.Require().NotNil(summary.IRR)
	suite.Greater(*summary.IRR, 0.0)

	suite.Require().Len(summary.Securities, 2)
	open, closed := summary.Securities[0], summary.Securities[1]
	suite.Equal("Alpha Inc", open.Security.Name)
	suite.Equal("5", open.Position.String())
	suite.True(open.Price.Valid)
	suite.Equal("300", open.MarketValue.String())
	suite.Equal("50", open.Unrealized.String())
	suite.Equal(day(2022, 7, 1), open.InvestmentDate)

	suite.Equal("Beta Corp", closed.Security.Name)
	suite.True(closed.Position.IsZero())
	suite.Equal("200", closed.Realized.String())
	suite.Equal("20", closed.Distributions.String())
	suite.Equal("5", closed.Commission.String())
	suite.Require().NotNil(closed.IRR)
	suite.Greater(*closed.IRR, 0.0)
}

func (suite *PortfolioServiceTestSuite) TestGetSummary_AtEffectiveDate() {
	summary, err := suite.service.GetSummary(context.Background(), investorID, query("usd", "2022-05-01"))
	suite.Require().NoError(err)

	suite.Equal("USD", summary.Currency)
	suite.Equal("2115", summary.NAV.String())
	suite.Equal("100", summary.Unrealized.String())
	suite.True(summary.Realized.IsZero())
	suite.Require().Len(summary.Securities, 1)
	suite.Equal("110", summary.Securities[0].Price.Decimal.String())
}

func (suite *PortfolioServiceTestSuite) TestGetSummary_ConvertsToTargetCurrency() {
	suite.ledger.snapshots = []domain.FXSnapshot{
		{InvestorID: investorID, Date: day(2021, 12, 31), Rates: map[string]decimal.Decimal{"USDEUR": dec("1.25")}},
	}

	summary, err := suite.service.GetSummary(context.Background(), investorID, query("EUR", ""))
	suite.Require().NoError(err)
	suite.Equal("1812", summary.NAV.String())
	suite.Equal("1965", summary.Cash["USD"].String(), "cash stays in its own currency")
	suite.Equal("160", summary.Realized.String())
}

func (suite *PortfolioServiceTestSuite) TestGetSummary_MissingFX() {
	_, err := suite.service.GetSummary(context.Background(), investorID, query("GBP", ""))
	suite.ErrorIs(err, apperrors.ErrMissingMarketData)
}

func (suite *PortfolioServiceTestSuite) TestGetSummary_BadDate() {
	_, err := suite.service.GetSummary(context.Background(), investorID, query("USD", "2022/05/01"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PortfolioServiceTestSuite) TestGetSummary_ForeignAccount() {
	suite.accounts.On("FindBrokerAccountByID", mock.Anything, "acc-x").
		Return(&domain.BrokerAccount{AccountID: "acc-x", InvestorID: "someone-else"}, nil)
	q := query("USD", "")
	q.SelectionAccountID = "acc-x"

	_, err := suite.service.GetSummary(context.Background(), investorID, q)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PortfolioServiceTestSuite) TestListClosedPositions() {
	suite.ledger.transactions = append(suite.ledger.transactions,
		tradeRow("acc-1", day(2021, 5, 1), "OLD", "USD", "1", "10"),
		tradeRow("acc-1", day(2021, 6, 1), "OLD", "USD", "-1", "15"),
	)

	tests := []struct {
		name     string
		timespan string
		exits    []time.Time
	}{
		{name: "all", timespan: "All", exits: []time.Time{day(2021, 6, 1), day(2022, 6, 1)}},
		{name: "empty means all", timespan: "", exits: []time.Time{day(2021, 6, 1), day(2022, 6, 1)}},
		{name: "ytd", timespan: "YTD", exits: []time.Time{day(2022, 6, 1)}},
		{name: "single year", timespan: "2021", exits: []time.Time{day(2021, 6, 1)}},
		{name: "year without exits", timespan: "2020", exits: nil},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			q := dto.ClosedPositionsQuery{PortfolioQuery: query("USD", ""), Timespan: tt.timespan}
			rows, err := suite.service.ListClosedPositions(context.Background(), investorID, q)
			suite.Require().NoError(err)

			var exits []time.Time
			for _, r := range rows {
				exits = append(exits, r.ExitDate)
			}
			suite.Equal(tt.exits, exits)
		})
	}
}

func (suite *PortfolioServiceTestSuite) TestListClosedPositions_RowTotals() {
	q := dto.ClosedPositionsQuery{PortfolioQuery: query("USD", ""), Timespan: "2022"}
	rows, err := suite.service.ListClosedPositions(context.Background(), investorID, q)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 1)

	row := rows[0]
	suite.Equal("Beta Corp", row.Security.Name)
	suite.Equal(day(2022, 3, 1), row.InvestmentDate)
	suite.Equal("200", row.Realized.String())
	suite.Equal("20", row.CapitalDistribution.String())
	suite.Equal("5", row.Commission.String())
}

func (suite *PortfolioServiceTestSuite) TestListClosedPositions_SameDayCloseAndReopen() {
	closing := tradeRow("acc-1", day(2022, 6, 1), "RE", "USD", "-10", "150")
	closing.Commission = decPtr("2")
	reopening := tradeRow("acc-1", day(2022, 6, 1), "RE", "USD", "5", "150")
	reopening.Commission = decPtr("1")
	suite.ledger.transactions = append(suite.ledger.transactions,
		tradeRow("acc-1", day(2022, 1, 3), "RE", "USD", "10", "100"),
		closing,
		reopening,
		tradeRow("acc-1", day(2022, 9, 1), "RE", "USD", "-5", "160"),
	)
	suite.ledger.securities["RE"] = domain.Security{SecurityID: "RE", Name: "Gamma Ltd", Currency: "USD"}

	q := dto.ClosedPositionsQuery{PortfolioQuery: query("USD", ""), Timespan: "2022"}
	rows, err := suite.service.ListClosedPositions(context.Background(), investorID, q)
	suite.Require().NoError(err)

	var trips []domain.ClosedPosition
	for _, r := range rows {
		if r.Security.SecurityID == "RE" {
			trips = append(trips, r)
		}
	}
	suite.Require().Len(trips, 2)

	suite.Equal(day(2022, 1, 3), trips[0].InvestmentDate)
	suite.Equal(day(2022, 6, 1), trips[0].ExitDate)
	suite.Equal("498", trips[0].Realized.String())
	suite.Equal("2", trips[0].Commission.String())

	suite.Equal(day(2022, 6, 1), trips[1].InvestmentDate)
	suite.Equal(day(2022, 9, 1), trips[1].ExitDate)
	suite.Equal("50", trips[1].Realized.String())
	suite.Equal("1", trips[1].Commission.String())
}

func (suite *PortfolioServiceTestSuite) TestListClosedPositions_BadTimespan() {
	q := dto.ClosedPositionsQuery{PortfolioQuery: query("USD", ""), Timespan: "last-week"}
	_, err := suite.service.ListClosedPositions(context.Background(), investorID, q)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestPortfolioServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PortfolioServiceTestSuite))
}
