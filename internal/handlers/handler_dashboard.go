package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fxdesk/tradebook/internal/core/ports/services"
	"github.com/fxdesk/tradebook/internal/middleware"
)

// dashboardHandler serves read-only trader aggregations.
type dashboardHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newDashboardHandler(rs portssvc.ReportingSvcFacade) *dashboardHandler {
	return &dashboardHandler{reportingService: rs}
}

// registerDashboardRoutes registers routes related to the trader dashboard.
func registerDashboardRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newDashboardHandler(reportingService)

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/traders/:traderId/summary", h.getTradeSummary)
	}
}

// getTradeSummary returns one trader's per-status counts and notional totals.
func (h *dashboardHandler) getTradeSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	raw := c.Param("traderId")
	traderID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trader id: " + raw})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Caller user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.Int64("trader_id", traderID), slog.String("user_id", userID))

	summary, err := h.reportingService.GetTradeSummary(c.Request.Context(), traderID, userID)
	if err != nil {
		respondTradeError(c, logger, err, "Failed to generate trade summary")
		return
	}

	logger.Debug("Trade summary served", slog.Int("trade_count", summary.TotalTrades))
	c.JSON(http.StatusOK, summary)
}
