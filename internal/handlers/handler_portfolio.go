package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	portssvc "github.com/SscSPs/portfolio_performance_app/internal/core/ports/services"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
	"github.com/SscSPs/portfolio_performance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// portfolioHandler handles HTTP requests for portfolio valuation.
type portfolioHandler struct {
	portfolioService portssvc.PortfolioSvc
}

// newPortfolioHandler creates a new portfolioHandler.
func newPortfolioHandler(ps portssvc.PortfolioSvc) *portfolioHandler {
	return &portfolioHandler{
		portfolioService: ps,
	}
}

// RegisterPortfolioRoutes registers routes related to portfolio valuation.
func RegisterPortfolioRoutes(rg *gin.RouterGroup, portfolioService portssvc.PortfolioSvc) {
	h := newPortfolioHandler(portfolioService)

	portfolio := rg.Group("/portfolio")
	{
		portfolio.GET("/summary", h.getSummary)
		portfolio.GET("/closed-positions", h.listClosedPositions)
	}
}

// writePortfolioError maps service errors to responses.
func writePortfolioError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrMissingMarketData):
		logger.Warn("Portfolio valuation lacks market data", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// getSummary godoc
// @Summary Get a portfolio summary
// @Description Values the selected accounts at a date in the requested currency
// @Tags portfolio
// @Produce  json
// @Param   selection_account_type query string true "broker, account or group"
// @Param   selection_account_id query string true "Selector ID"
// @Param   currency query string true "ISO currency code"
// @Param   effective_current_date query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} dto.PortfolioSummaryResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Selector not found"
// @Failure 422 {object} map[string]string "Missing price or FX rate"
// @Failure 500 {object} map[string]string "Failed to compute portfolio summary"
// @Security BearerAuth
// @Router /portfolio/summary [get]
func (h *portfolioHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var q dto.PortfolioQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Failed to bind query for GetSummary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	summary, err := h.portfolioService.GetSummary(c.Request.Context(), userID, q)
	if err != nil {
		writePortfolioError(c, logger, err, "Failed to compute portfolio summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToPortfolioSummaryResponse(summary))
}

// listClosedPositions godoc
// @Summary List closed positions
// @Description Lists round trips whose exit date falls in the timespan
// @Tags portfolio
// @Produce  json
// @Param   selection_account_type query string true "broker, account or group"
// @Param   selection_account_id query string true "Selector ID"
// @Param   currency query string true "ISO currency code"
// @Param   effective_current_date query string false "YYYY-MM-DD, defaults to today"
// @Param   timespan query string false "YTD, All or a year"
// @Success 200 {array} dto.ClosedPositionResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Selector not found"
// @Failure 500 {object} map[string]string "Failed to list closed positions"
// @Security BearerAuth
// @Router /portfolio/closed-positions [get]
func (h *portfolioHandler) listClosedPositions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var q dto.ClosedPositionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Failed to bind query for ListClosedPositions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	positions, err := h.portfolioService.ListClosedPositions(c.Request.Context(), userID, q)
	if err != nil {
		writePortfolioError(c, logger, err, "Failed to list closed positions")
		return
	}
	c.JSON(http.StatusOK, dto.ToClosedPositionResponses(positions))
}
