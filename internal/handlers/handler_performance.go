package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/portfolio_performance_app/internal/apperrors"
	"github.com/SscSPs/portfolio_performance_app/internal/core/domain"
	portssvc "github.com/SscSPs/portfolio_performance_app/internal/core/ports/services"
	"github.com/SscSPs/portfolio_performance_app/internal/dto"
	"github.com/SscSPs/portfolio_performance_app/internal/middleware"
	"github.com/SscSPs/portfolio_performance_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// performanceHandler handles the recompute job and stored result endpoints.
type performanceHandler struct {
	performanceService portssvc.PerformanceSvcFacade
	posthogClient      *utils.PosthogClientWrapper
}

// newPerformanceHandler creates a new performanceHandler.
func newPerformanceHandler(ps portssvc.PerformanceSvcFacade, posthogClient *utils.PosthogClientWrapper) *performanceHandler {
	return &performanceHandler{
		performanceService: ps,
		posthogClient:      posthogClient,
	}
}

// RegisterPerformanceRoutes registers routes related to performance jobs.
// startGuard runs before the start endpoint, typically a rate limiter.
func RegisterPerformanceRoutes(rg *gin.RouterGroup, performanceService portssvc.PerformanceSvcFacade, startGuard gin.HandlerFunc, posthogClient *utils.PosthogClientWrapper) {
	h := newPerformanceHandler(performanceService, posthogClient)

	performance := rg.Group("/performance")
	{
		performance.POST("/validate", h.validateJob)
		if startGuard != nil {
			performance.POST("/start", startGuard, h.startJob)
		} else {
			performance.POST("/start", h.startJob)
		}
		performance.GET("/stream", h.streamJob)
		performance.GET("/annual", h.listAnnualPerformance)
	}
}

// validateJob godoc
// @Summary Validate a performance recompute request
// @Description Checks every field of the request without computing anything
// @Tags performance
// @Accept  json
// @Produce  json
// @Param   request body dto.PerformanceJobRequest true "Job request"
// @Success 200 {object} dto.ValidationResponse
// @Failure 400 {object} dto.ValidationResponse "Field errors"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to validate request"
// @Security BearerAuth
// @Router /performance/validate [post]
func (h *performanceHandler) validateJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.PerformanceJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ValidateJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewValidationResponse(dto.FieldErrors{"non_field_errors": {"Invalid request format: " + err.Error()}}))
		return
	}

	_, fieldErrs, err := h.performanceService.ValidateJob(c.Request.Context(), userID, req)
	if err != nil {
		logger.Error("Failed to validate performance job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate request"})
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationResponse(fieldErrs))
		return
	}
	c.JSON(http.StatusOK, dto.NewValidationResponse(nil))
}

// startJob godoc
// @Summary Start a performance recompute job
// @Description Validates and caches the request, returning the session id to stream
// @Tags performance
// @Accept  json
// @Produce  json
// @Param   request body dto.PerformanceJobRequest true "Job request"
// @Success 200 {object} dto.StartJobResponse
// @Failure 400 {object} dto.StartJobResponse "Field errors"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Failed to start job"
// @Security BearerAuth
// @Router /performance/start [post]
func (h *performanceHandler) startJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.PerformanceJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StartJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.NewStartJobFailure(dto.FieldErrors{"non_field_errors": {"Invalid request format: " + err.Error()}}))
		return
	}

	sessionID, fieldErrs, err := h.performanceService.StartJob(c.Request.Context(), userID, req)
	if err != nil {
		logger.Error("Failed to start performance job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start job"})
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewStartJobFailure(fieldErrs))
		return
	}

	logger.Info("Performance job session created", slog.String("session_id", sessionID))
	c.JSON(http.StatusOK, dto.StartJobResponse{Valid: true, SessionID: sessionID})
}

// streamJob godoc
// @Summary Stream a performance job
// @Description Server-Sent Events with the job's progress. The JWT may be passed as the token query parameter.
// @Tags performance
// @Produce text/event-stream
// @Param   session_id query string true "Session ID returned by start"
// @Param   token query string false "JWT for clients that cannot set headers"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {object} dto.StreamStatusResponse "Missing, unknown or expired session"
// @Failure 403 {object} dto.StreamStatusResponse "Session belongs to another user"
// @Security BearerAuth
// @Router /performance/stream [get]
func (h *performanceHandler) streamJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, dto.StreamStatusResponse{Status: "error", Message: "Session ID is required"})
		return
	}
	logger = logger.With(slog.String("session_id", sessionID))

	events, err := h.performanceService.StreamJob(c.Request.Context(), userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Stream requested for unknown session")
			c.JSON(http.StatusBadRequest, dto.StreamStatusResponse{Status: "error", Message: "Session not found or expired"})
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("Stream requested for another user's session")
			c.JSON(http.StatusForbidden, dto.StreamStatusResponse{Status: "error", Message: "Unauthorized access to session"})
		default:
			logger.Error("Failed to open performance stream", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.StreamStatusResponse{Status: "error", Message: "Failed to open stream"})
		}
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		payload, err := json.Marshal(dto.ToJobEventPayload(ev))
		if err != nil {
			logger.Error("Failed to encode job event", slog.String("error", err.Error()))
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			logger.Warn("Failed to write job event", slog.String("error", err.Error()))
			return false
		}
		if ev.Terminal() {
			h.trackOutcome(c, ev)
		}
		return true
	})
}

func (h *performanceHandler) trackOutcome(c *gin.Context, ev domain.JobEvent) {
	props := map[string]any{"status": string(ev.Status)}
	if ev.Status == domain.JobError {
		props["message"] = ev.Message
	}
	middleware.PosthogEvent(c, h.posthogClient, "performance_job_"+string(ev.Status), props)
}

// listAnnualPerformance godoc
// @Summary List stored annual performance
// @Description Lists the annual records of a broker, account or group, oldest year first
// @Tags performance
// @Produce  json
// @Param   selection_account_type query string true "broker, account or group"
// @Param   selection_account_id query string true "Selector ID"
// @Param   currency query string false "ISO currency code, empty or All for every currency"
// @Param   is_restricted query string false "True, False or All"
// @Success 200 {array} dto.AnnualPerformanceResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Selector not found"
// @Failure 500 {object} map[string]string "Failed to list annual performance"
// @Security BearerAuth
// @Router /performance/annual [get]
func (h *performanceHandler) listAnnualPerformance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListPerformanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAnnualPerformance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	records, err := h.performanceService.ListAnnualPerformance(c.Request.Context(), userID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to list annual performance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list annual performance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAnnualPerformanceResponses(records))
}
