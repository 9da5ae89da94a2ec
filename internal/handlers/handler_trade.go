package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fxdesk/tradebook/internal/apperrors"
	"github.com/fxdesk/tradebook/internal/core/domain"
	portssvc "github.com/fxdesk/tradebook/internal/core/ports/services"
	"github.com/fxdesk/tradebook/internal/core/validation"
	"github.com/fxdesk/tradebook/internal/dto"
	"github.com/fxdesk/tradebook/internal/middleware"
	"github.com/fxdesk/tradebook/internal/utils/mapping"
)

// tradeHandler handles HTTP requests for the trade lifecycle.
type tradeHandler struct {
	tradeService portssvc.TradeSvcFacade
}

func newTradeHandler(ts portssvc.TradeSvcFacade) *tradeHandler {
	return &tradeHandler{tradeService: ts}
}

// registerTradeRoutes registers routes related to trades.
func registerTradeRoutes(rg *gin.RouterGroup, tradeService portssvc.TradeSvcFacade) {
	h := newTradeHandler(tradeService)

	trades := rg.Group("/trades")
	{
		trades.POST("", h.createTrade)
		trades.GET("", h.listTrades)
		trades.GET("/search", h.searchTrades)
		trades.GET("/filter", h.filterTrades)
		trades.GET("/:tradeId", h.getTrade)
		trades.PUT("/:tradeId", h.amendTrade)
		trades.PUT("/:tradeId/cancel", h.cancelTrade)
		trades.PUT("/:tradeId/terminate", h.terminateTrade)
		trades.DELETE("/:tradeId", h.deleteTrade)
	}
}

// createTrade books a new trade at version 1.
func (h *tradeHandler) createTrade(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTrade", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to create trade")

	trade, err := h.tradeService.CreateTrade(c.Request.Context(), req, userID)
	if err != nil {
		respondTradeError(c, logger, err, "Failed to create trade")
		return
	}

	logger.Info("Trade created successfully", slog.Int64("trade_id", trade.TradeID))
	c.JSON(http.StatusCreated, mapping.ToTradeResponse(*trade))
}

// getTrade retrieves the active version of one trade.
func (h *tradeHandler) getTrade(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tradeID, ok := parseTradeID(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.Int64("trade_id", tradeID), slog.String("user_id", userID))

	trade, err := h.tradeService.GetTradeByID(c.Request.Context(), tradeID, userID)
	if err != nil {
		respondTradeError(c, logger, err, "Failed to retrieve trade")
		return
	}

	c.JSON(http.StatusOK, mapping.ToTradeResponse(*trade))
}

// listTrades retrieves every active trade version.
func (h *tradeHandler) listTrades(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	trades, err := h.tradeService.ListTrades(c.Request.Context(), userID)
	if err != nil {
		respondTradeError(c, logger, err, "Failed to list trades")
		return
	}

	logger.Debug("Trades listed successfully", slog.Int("count", len(trades)))
	c.JSON(http.StatusOK, mapping.ToTradeResponses(trades))
}

// amendTrade books a new version on top of the current active one.
func (h *tradeHandler) amendTrade(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tradeID, ok := parseTradeID(c)
	if !ok {
		return
	}

	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AmendTrade", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.Int64("trade_id", tradeID), slog.String("user_id", userID))
	logger.Info("Received request to amend trade")

	trade, err := h.tradeService.AmendTrade(c.Request.Context(), tradeID, req, userID)
	if err != nil {
		respondTradeError(c, logger, err, "Failed to amend trade")
		return
	}

	logger.Info("Trade amended successfully", slog.Int("version", trade.Version))
	c.JSON(http.StatusOK, mapping.ToTradeResponse(*trade))
}

// cancelTrade transitions the active version to CANCELLED in place.
func (h *tradeHandler) cancelTrade(c *gin.Context) {
	h.transition(c, "cancel", h.tradeService.CancelTrade)
}

// terminateTrade transitions the active version to TERMINATED in place.
func (h *tradeHandler) terminateTrade(c *gin.Context) {
	h.transition(c, "terminate", h.tradeService.TerminateTrade)
}

// transition runs one of the in-place lifecycle operations, which share their
// request shape and error mapping.
func (h *tradeHandler) transition(c *gin.Context, verb string, op func(ctx context.Context, tradeID int64, userID string) (*domain.Trade, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tradeID, ok := parseTradeID(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.Int64("trade_id", tradeID), slog.String("user_id", userID), slog.String("operation", verb))
	logger.Info("Received lifecycle transition request")

	trade, err := op(c.Request.Context(), tradeID, userID)
	if err != nil {
		respondTradeError(c, logger, err, "Failed to "+verb+" trade")
		return
	}

	logger.Info("Trade transitioned successfully", slog.String("status", statusName(trade)))
	c.JSON(http.StatusOK, mapping.ToTradeResponse(*trade))
}

func statusName(trade *domain.Trade) string {
	if trade.Status == nil {
		return ""
	}
	return trade.Status.TradeStatus
}

// deleteTrade soft-deletes a trade by cancelling its active version.
func (h *tradeHandler) deleteTrade(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tradeID, ok := parseTradeID(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.Int64("trade_id", tradeID), slog.String("user_id", userID))
	logger.Info("Received request to delete trade")

	if err := h.tradeService.DeleteTrade(c.Request.Context(), tradeID, userID); err != nil {
		respondTradeError(c, logger, err, "Failed to delete trade")
		return
	}

	logger.Info("Trade deleted successfully")
	c.Status(http.StatusNoContent)
}

// searchTrades retrieves active trades matching the fixed filter parameters.
func (h *tradeHandler) searchTrades(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.SearchTradesRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for SearchTrades", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	criteria := domain.TradeSearchCriteria{
		EarliestTradeDate: params.EarliestTradeDate,
		LatestTradeDate:   params.LatestTradeDate,
		TradeStatusID:     params.TradeStatusID,
		TraderID:          params.TraderID,
		BookID:            params.BookID,
		CounterpartyID:    params.CounterpartyID,
	}

	trades, err := h.tradeService.SearchTrades(c.Request.Context(), criteria, userID)
	if err != nil {
		respondTradeError(c, logger, err, "Failed to search trades")
		return
	}

	logger.Debug("Trade search completed", slog.Int("count", len(trades)))
	c.JSON(http.StatusOK, mapping.ToTradeResponses(trades))
}

// filterTrades retrieves active trades matching an RSQL filter expression.
func (h *tradeHandler) filterTrades(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expression := c.Query("query")
	if expression == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter 'query'"})
		return
	}

	trades, err := h.tradeService.GetTradesByFilter(c.Request.Context(), expression, userID)
	if err != nil {
		respondTradeError(c, logger, err, "Failed to filter trades")
		return
	}

	logger.Debug("Trade filter completed", slog.Int("count", len(trades)))
	c.JSON(http.StatusOK, mapping.ToTradeResponses(trades))
}

// parseTradeID reads the business trade id path parameter, rejecting the
// request itself on malformed input.
func parseTradeID(c *gin.Context) (int64, bool) {
	raw := c.Param("tradeId")
	tradeID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trade id: " + raw})
		return 0, false
	}
	return tradeID, true
}

// respondTradeError maps service errors onto HTTP statuses. Validation
// failures carry their per-field diagnostics when available.
func respondTradeError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var resultErr *validation.ResultError
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Authorization refused", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Trade not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &resultErr):
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       resultErr.Error(),
			"fieldErrors": toFieldErrorResponses(resultErr.Errors),
		})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrQueryCompilation):
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Concurrent modification detected", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func toFieldErrorResponses(fieldErrors []validation.FieldError) []dto.FieldErrorResponse {
	responses := make([]dto.FieldErrorResponse, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		responses = append(responses, dto.FieldErrorResponse{
			Field:    fe.Field,
			Message:  fe.Message,
			Severity: string(fe.Severity),
		})
	}
	return responses
}
