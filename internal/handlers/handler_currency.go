package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ksenchy/exchange-deals/internal/apperrors"
	portssvc "github.com/ksenchy/exchange-deals/internal/core/ports/services"
	"github.com/ksenchy/exchange-deals/internal/dto"
	"github.com/ksenchy/exchange-deals/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to currency rates.
type currencyHandler struct {
	rateService portssvc.RateSvcFacade
}

func newCurrencyHandler(rs portssvc.RateSvcFacade) *currencyHandler {
	return &currencyHandler{
		rateService: rs,
	}
}

// RegisterCurrencyRoutes registers routes related to currency rates.
func RegisterCurrencyRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := newCurrencyHandler(rateService)

	currencies := rg.Group("/currencies")
	{
		currencies.GET("", h.listCurrencies)
		currencies.POST("/refresh", h.refreshRates)
		currencies.GET("/:code", h.getCurrencyByCode)
		currencies.DELETE("/:code", h.deleteCurrency)
	}
}

// listCurrencies returns all known currency rates.
func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.rateService.ListRates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list currency rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCurrencyRateResponse(rates))
}

// getCurrencyByCode returns the latest rate for one currency.
func (h *currencyHandler) getCurrencyByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	rate, err := h.rateService.GetRateByCode(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to get currency rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyRateResponse(rate))
}

// deleteCurrency removes a currency. Deletion is refused with 409 while any
// deal still references the code.
func (h *currencyHandler) deleteCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	err := h.rateService.DeleteRate(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		case errors.Is(err, apperrors.ErrCurrencyInUse):
			logger.Warn("Refused to delete referenced currency", slog.String("currency_code", code))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to delete currency", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete currency"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// refreshRates triggers an on-demand refresh from the external rate source.
// The refresh is still gated by the freshness cooldown.
func (h *currencyHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	updated, err := h.rateService.RefreshRates(c.Request.Context())
	if err != nil {
		logger.Error("Failed to refresh currency rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh rates"})
		return
	}

	c.JSON(http.StatusOK, dto.RefreshRatesResponse{Updated: updated})
}
