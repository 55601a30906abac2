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

type ledgerHandler struct {
	ledgerService portssvc.LedgerImportSvc
}

func newLedgerHandler(ls portssvc.LedgerImportSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers the ledger import route.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerImportSvc) {
	h := newLedgerHandler(ledgerService)
	rg.POST("/ledger/import", h.importLedger)
}

// importLedger godoc
// @Summary Import ledger rows
// @Description Upserts brokers, accounts, groups, securities, transactions, FX conversions, prices and FX rates in one transaction
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   batch body dto.LedgerImportRequest true "Rows to import"
// @Success 200 {object} dto.LedgerImportResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to import ledger"
// @Security BearerAuth
// @Router /ledger/import [post]
func (h *ledgerHandler) importLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.LedgerImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	counts, err := h.ledgerService.ImportLedger(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to import ledger", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import ledger"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.LedgerImportResponse{Imported: counts})
}
