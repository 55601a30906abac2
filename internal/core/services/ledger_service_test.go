package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portssvc "github.com/SscSPs/portfolio_performance_app/internal/core/ports/services"
	"github.com/SscSPs/portfolio_performance_app/internal/core/services"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type LedgerImportServiceTestSuite struct {
	suite.Suite
	accounts *MockAccountReader
	writer   *MockLedgerWriter
	service  portssvc.LedgerImportSvc
}

func (suite *LedgerImportServiceTestSuite) SetupTest() {
	suite.accounts = new(MockAccountReader)
	suite.writer = new(MockLedgerWriter)
	suite.service = services.NewLedgerImportService(suite.writer, suite.accounts)
}

func strPtr(s string) *string { return &s }

func (suite *LedgerImportServiceTestSuite) TestImportLedger_NewBrokerAndAccount() {
	req := dto.LedgerImportRequest{
		Brokers:  []dto.BrokerImport{{BrokerID: "brk-1", Name: "Broker"}},
		Accounts: []dto.AccountImport{{AccountID: "acc-1", BrokerID: "brk-1", Name: "Main", Restricted: true}},
		Transactions: []dto.TransactionImport{
			{AccountID: "acc-1", Date: "2022-01-10", Type: "Cash in", Currency: "usd", CashFlow: decPtr("1000")},
			{TransactionID: "tx-2", AccountID: "acc-1", SecurityID: strPtr("SEC"), Date: "2022-03-01", Type: "Buy",
				Currency: "USD", Quantity: decPtr("10"), Price: decPtr("100")},
		},
		Prices:  []dto.PriceImport{{SecurityID: "SEC", Date: "2022-03-01", Price: dec("100")}},
		FXRates: []dto.FXRateImport{{Date: "2022-01-01", USDEUR: decPtr("1.1")}},
	}

	var captured domain.LedgerBatch
	suite.writer.On("ImportLedger", mock.Anything, investorID, mock.MatchedBy(func(b domain.LedgerBatch) bool {
		captured = b
		return true
	})).Return(domain.ImportCounts{Brokers: 1, Accounts: 1, Transactions: 2, Prices: 1, FXRates: 1}, nil)

	counts, err := suite.service.ImportLedger(context.Background(), investorID, req)
	suite.Require().NoError(err)
	suite.Equal(2, counts.Transactions)

	suite.Require().Len(captured.Transactions, 2)
	cashIn := captured.Transactions[0]
	suite.NotEmpty(cashIn.TransactionID)
	suite.Equal(investorID, cashIn.InvestorID)
	suite.Equal("USD", cashIn.Currency)
	suite.Equal(day(2022, 1, 10), cashIn.Date)
	suite.Equal("tx-2", captured.Transactions[1].TransactionID)

	suite.Require().Len(captured.Accounts, 1)
	suite.True(captured.Accounts[0].Restricted)
	suite.Equal(investorID, captured.Accounts[0].InvestorID)
	suite.Require().Len(captured.FXRates, 1)
	suite.Len(captured.FXRates[0].Rates, 1)
	suite.Equal("1.1", captured.FXRates[0].Rates["USDEUR"].String())

	// every reference was inside the batch
	suite.accounts.AssertNotCalled(suite.T(), "FindBrokerByID", mock.Anything, mock.Anything)
	suite.accounts.AssertNotCalled(suite.T(), "FindBrokerAccountByID", mock.Anything, mock.Anything)
}

func (suite *LedgerImportServiceTestSuite) TestImportLedger_ExistingAccountIsLookedUpOnce() {
	suite.accounts.On("FindBrokerAccountByID", mock.Anything, "acc-1").
		Return(&domain.BrokerAccount{AccountID: "acc-1", InvestorID: investorID}, nil).Once()
	suite.writer.On("ImportLedger", mock.Anything, investorID, mock.Anything).Return(domain.ImportCounts{Transactions: 2}, nil)

	req := dto.LedgerImportRequest{Transactions: []dto.TransactionImport{
		{AccountID: "acc-1", Date: "2022-01-10", Type: "Cash in", Currency: "USD", CashFlow: decPtr("1000")},
		{AccountID: "acc-1", Date: "2022-02-10", Type: "Tax", Currency: "USD", CashFlow: decPtr("-3")},
	}}

	_, err := suite.service.ImportLedger(context.Background(), investorID, req)
	suite.Require().NoError(err)
	suite.accounts.AssertNumberOfCalls(suite.T(), "FindBrokerAccountByID", 1)
}

func (suite *LedgerImportServiceTestSuite) TestImportLedger_Rejects() {
	suite.accounts.On("FindBrokerAccountByID", mock.Anything, "acc-1").
		Return(&domain.BrokerAccount{AccountID: "acc-1", InvestorID: investorID}, nil)
	suite.accounts.On("FindBrokerAccountByID", mock.Anything, "acc-9").
		Return(nil, apperrors.NewNotFoundError("broker account not found"))
	suite.accounts.On("FindBrokerByID", mock.Anything, "brk-x").
		Return(&domain.Broker{BrokerID: "brk-x", InvestorID: "someone-else"}, nil)

	tests := []struct {
		name string
		req  dto.LedgerImportRequest
	}{
		{
			name: "unknown account",
			req: dto.LedgerImportRequest{Transactions: []dto.TransactionImport{
				{AccountID: "acc-9", Date: "2022-01-10", Type: "Cash in", Currency: "USD", CashFlow: decPtr("1")},
			}},
		},
		{
			name: "foreign broker",
			req: dto.LedgerImportRequest{Accounts: []dto.AccountImport{
				{AccountID: "acc-2", BrokerID: "brk-x", Name: "Theirs"},
			}},
		},
		{
			name: "unknown type",
			req: dto.LedgerImportRequest{Transactions: []dto.TransactionImport{
				{AccountID: "acc-1", Date: "2022-01-10", Type: "Gift", Currency: "USD", CashFlow: decPtr("1")},
			}},
		},
		{
			name: "sell with positive quantity",
			req: dto.LedgerImportRequest{Transactions: []dto.TransactionImport{
				{AccountID: "acc-1", SecurityID: strPtr("SEC"), Date: "2022-01-10", Type: "Sell", Currency: "USD",
					Quantity: decPtr("5"), Price: decPtr("10")},
			}},
		},
		{
			name: "trade without price",
			req: dto.LedgerImportRequest{Transactions: []dto.TransactionImport{
				{AccountID: "acc-1", SecurityID: strPtr("SEC"), Date: "2022-01-10", Type: "Buy", Currency: "USD",
					Quantity: decPtr("5")},
			}},
		},
		{
			name: "cash row without cash flow",
			req: dto.LedgerImportRequest{Transactions: []dto.TransactionImport{
				{AccountID: "acc-1", Date: "2022-01-10", Type: "Dividend", Currency: "USD"},
			}},
		},
		{
			name: "bad date",
			req: dto.LedgerImportRequest{Transactions: []dto.TransactionImport{
				{AccountID: "acc-1", Date: "10/01/2022", Type: "Cash in", Currency: "USD", CashFlow: decPtr("1")},
			}},
		},
		{
			name: "non-positive price",
			req:  dto.LedgerImportRequest{Prices: []dto.PriceImport{{SecurityID: "SEC", Date: "2022-01-10", Price: dec("0")}}},
		},
		{
			name: "non-positive fx amount",
			req: dto.LedgerImportRequest{FXTransactions: []dto.FXTransactionImport{
				{AccountID: "acc-1", Date: "2022-01-10", FromCurrency: "USD", ToCurrency: "EUR",
					FromAmount: dec("100"), ToAmount: dec("-90")},
			}},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.ImportLedger(context.Background(), investorID, tt.req)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.writer.AssertNotCalled(suite.T(), "ImportLedger", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerImportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerImportServiceTestSuite))
}
