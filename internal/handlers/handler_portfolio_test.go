package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portssvc "github.com/SscSPs/portfolio_performance_app/internal/core/ports/services"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
	"github.com/SscSPs/portfolio_performance_app/internal/handlers"
	"github.com/SscSPs/portfolio_performance_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockPortfolioService struct {
	mock.Mock
}

func (m *MockPortfolioService) GetSummary(ctx context.Context, userID string, params dto.PortfolioQuery) (*domain.PortfolioSummary, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSummary), args.Error(1)
}

func (m *MockPortfolioService) ListClosedPositions(ctx context.Context, userID string, params dto.ClosedPositionsQuery) ([]domain.ClosedPosition, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClosedPosition), args.Error(1)
}

type MockLedgerImportService struct {
	mock.Mock
}

func (m *MockLedgerImportService) ImportLedger(ctx context.Context, userID string, req dto.LedgerImportRequest) (domain.ImportCounts, error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(domain.ImportCounts), args.Error(1)
}

var (
	_ portssvc.PortfolioSvc    = (*MockPortfolioService)(nil)
	_ portssvc.LedgerImportSvc = (*MockLedgerImportService)(nil)
)

type PortfolioHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	portfolio *MockPortfolioService
	ledger    *MockLedgerImportService
	token     string
}

func (suite *PortfolioHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.portfolio = new(MockPortfolioService)
	suite.ledger = new(MockLedgerImportService)
	suite.token = signedToken(testSecret, testIssuer, testUserID, time.Now().Add(time.Hour))

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(testSecret, testIssuer))
	handlers.RegisterPortfolioRoutes(v1, suite.portfolio)
	handlers.RegisterLedgerRoutes(v1, suite.ledger)
}

func (suite *PortfolioHandlerTestSuite) do(method, url, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+suite.token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

const summaryURL = "/api/v1/portfolio/summary?selection_account_type=account&selection_account_id=acc-1&currency=USD"

func (suite *PortfolioHandlerTestSuite) TestSummary_ErrorMapping() {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperrors.NewValidationError("bad date"), http.StatusBadRequest},
		{"not found", apperrors.NewNotFoundError("selector not found"), http.StatusNotFound},
		{"missing fx", apperrors.NewMissingFXError("GBP", "USD", time.Date(2022, 1, 10, 0, 0, 0, 0, time.UTC)), http.StatusUnprocessableEntity},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.portfolio.ExpectedCalls = nil
			suite.portfolio.On("GetSummary", mock.Anything, testUserID, mock.Anything).Return(nil, tt.err).Once()

			w := suite.do(http.MethodGet, summaryURL, "")
			suite.Equal(tt.status, w.Code)

			var resp map[string]string
			suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			suite.NotEmpty(resp["error"])
		})
	}
}

func (suite *PortfolioHandlerTestSuite) TestSummary_BadQuery() {
	w := suite.do(http.MethodGet, "/api/v1/portfolio/summary?selection_account_type=account&selection_account_id=acc-1&currency=DOLLARS", "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.portfolio.AssertNotCalled(suite.T(), "GetSummary", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PortfolioHandlerTestSuite) TestClosedPositions_PassesTimespan() {
	suite.portfolio.On("ListClosedPositions", mock.Anything, testUserID, mock.MatchedBy(func(q dto.ClosedPositionsQuery) bool {
		return q.Timespan == "2022" && q.SelectionAccountID == "acc-1"
	})).Return([]domain.ClosedPosition{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/portfolio/closed-positions?selection_account_type=account&selection_account_id=acc-1&currency=USD&timespan=2022", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
	suite.portfolio.AssertExpectations(suite.T())
}

func (suite *PortfolioHandlerTestSuite) TestImportLedger() {
	suite.ledger.On("ImportLedger", mock.Anything, testUserID, mock.Anything).
		Return(domain.ImportCounts{Transactions: 2}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/ledger/import", `{"transactions":[]}`)
	suite.Equal(http.StatusOK, w.Code)

	var resp dto.LedgerImportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.Imported.Transactions)
}

func (suite *PortfolioHandlerTestSuite) TestImportLedger_Errors() {
	w := suite.do(http.MethodPost, "/api/v1/ledger/import", `{not json`)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.ledger.On("ImportLedger", mock.Anything, testUserID, mock.Anything).
		Return(domain.ImportCounts{}, apperrors.NewValidationError("transactions[0]: unknown account")).Once()
	w = suite.do(http.MethodPost, "/api/v1/ledger/import", `{}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "unknown account")
}

func TestPortfolioHandler(t *testing.T) {
	suite.Run(t, new(PortfolioHandlerTestSuite))
}
