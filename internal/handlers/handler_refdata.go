package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/fxdesk/tradebook/internal/core/ports/repositories"
	"github.com/fxdesk/tradebook/internal/middleware"
)

// refDataHandler serves the static reference lists booking UIs populate
// dropdowns from.
type refDataHandler struct {
	refData portsrepo.RefDataReader
}

func newRefDataHandler(rd portsrepo.RefDataReader) *refDataHandler {
	return &refDataHandler{refData: rd}
}

// registerRefDataRoutes registers routes related to reference data.
func registerRefDataRoutes(rg *gin.RouterGroup, refData portsrepo.RefDataReader) {
	h := newRefDataHandler(refData)

	refdata := rg.Group("/refdata")
	{
		refdata.GET("/books", h.listBooks)
		refdata.GET("/trade-statuses", h.listTradeStatuses)
	}
}

func (h *refDataHandler) listBooks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	books, err := h.refData.ListBooks(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list books", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list books"})
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *refDataHandler) listTradeStatuses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	statuses, err := h.refData.ListTradeStatuses(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list trade statuses", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trade statuses"})
		return
	}
	c.JSON(http.StatusOK, statuses)
}
