package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/internal/dto"
	"github.com/openbooks/ledger-engine/internal/middleware"
)

// reportingHandler handles HTTP requests for reports.
type reportingHandler struct {
	reportingSvc portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(reportingSvc portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingSvc: reportingSvc,
	}
}

func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be formatted YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	tb, err := h.reportingSvc.GetTrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get trial balance")
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// registerReportingRoutes registers reporting specific routes.
func registerReportingRoutes(group *gin.RouterGroup, reportingSvc portssvc.ReportingSvcFacade) {
	reports := group.Group("/reports")
	h := newReportingHandler(reportingSvc)
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}
