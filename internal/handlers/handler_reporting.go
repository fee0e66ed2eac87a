package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ksenchy/exchange-deals/internal/apperrors"
	portssvc "github.com/ksenchy/exchange-deals/internal/core/ports/services"
	"github.com/ksenchy/exchange-deals/internal/dto"
	"github.com/ksenchy/exchange-deals/internal/middleware"
	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// reportingHandler handles HTTP requests for deal reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// RegisterReportingRoutes registers routes related to deal reports.
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	rg.GET("/reports/deals", h.dealsReport)
}

// dealsReport returns per-currency sent/received totals and deal counts for
// completed deals within an inclusive calendar-date range, optionally
// filtered to deals involving one currency.
func (h *reportingHandler) dealsReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dateFromStr := c.Query("date_from")
	dateToStr := c.Query("date_to")
	if dateFromStr == "" || dateToStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from and date_to parameters are required"})
		return
	}

	dateFrom, err := time.Parse(reportDateLayout, dateFromStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}
	dateTo, err := time.Parse(reportDateLayout, dateToStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	currencyCode := c.Query("currency")

	rows, err := h.reportingService.DealsReport(c.Request.Context(), dateFrom, dateTo, currencyCode)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidDateRange),
			errors.Is(err, apperrors.ErrCurrencyNotFound):
			logger.Warn("Rejected report request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to build deals report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		}
		return
	}

	logger.Info("Deals report produced", slog.Int("rows", len(rows)))
	c.JSON(http.StatusOK, dto.ToDealReportRows(rows))
}
