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
	"github.com/google/uuid"
)

// exchangeHandler handles HTTP requests for the deal lifecycle.
type exchangeHandler struct {
	dealService portssvc.DealSvcFacade
}

// newExchangeHandler creates a new exchangeHandler.
func newExchangeHandler(ds portssvc.DealSvcFacade) *exchangeHandler {
	return &exchangeHandler{
		dealService: ds,
	}
}

// RegisterExchangeRoutes registers routes related to exchange deals.
func RegisterExchangeRoutes(rg *gin.RouterGroup, dealService portssvc.DealSvcFacade) {
	h := newExchangeHandler(dealService)

	rg.POST("/exchange", h.createDeal)
	rg.POST("/exchange/:dealID/confirm", h.confirmDeal)
	rg.GET("/pending-deals", h.listPendingDeals)
}

// createDeal quotes the requested exchange and opens a pending deal.
// The deal must be confirmed before its expiry window passes.
func (h *exchangeHandler) createDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExchangeDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createDeal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return
	}

	deal, expiresAt, err := h.dealService.CreateDeal(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSameCurrency),
			errors.Is(err, apperrors.ErrCurrencyNotFound),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Rejected exchange request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create deal in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create deal"})
		}
		return
	}

	logger.Info("Deal created",
		slog.String("deal_id", deal.ID),
		slog.String("currency_from", deal.CurrencyFrom),
		slog.String("currency_to", deal.CurrencyTo),
	)
	c.JSON(http.StatusCreated, dto.ToExchangeDealResponse(deal, expiresAt))
}

// confirmDeal confirms or rejects a pending deal. Already-decided and unknown
// deals both answer 404; an expired deal answers 400 after being rejected.
func (h *exchangeHandler) confirmDeal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	dealID := c.Param("dealID")
	if _, err := uuid.Parse(dealID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "deal not found or already decided"})
		return
	}

	var req dto.ConfirmDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for confirmDeal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return
	}

	logger = logger.With(slog.String("deal_id", dealID), slog.String("action", req.Action))

	deal, err := h.dealService.ConfirmDeal(c.Request.Context(), dealID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Deal not found for confirmation")
			c.JSON(http.StatusNotFound, gin.H{"error": "deal not found or already decided"})
		case errors.Is(err, apperrors.ErrConfirmationExpired):
			logger.Warn("Deal confirmation window expired")
			c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation window expired"})
		default:
			logger.Error("Failed to confirm deal in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm deal"})
		}
		return
	}

	logger.Info("Deal decided", slog.String("status", string(deal.Status)))
	c.JSON(http.StatusOK, dto.ToConfirmDealResponse(deal))
}

// listPendingDeals sweeps expired deals and returns the remaining pending
// ones, newest first.
func (h *exchangeHandler) listPendingDeals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	deals, err := h.dealService.ListPendingDeals(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list pending deals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pending deals"})
		return
	}

	if len(deals) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "no pending deals"})
		return
	}

	logger.Info("Pending deals listed", slog.Int("count", len(deals)))
	c.JSON(http.StatusOK, dto.ToListPendingDealResponse(deals))
}
