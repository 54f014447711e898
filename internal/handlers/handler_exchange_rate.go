package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"fx-payment-processor/internal/apperrors"
	portssvc "fx-payment-processor/internal/core/ports/services"
	"fx-payment-processor/internal/dto"
	"fx-payment-processor/internal/middleware"

	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to the fixed rate table.
type exchangeRateHandler struct {
	rateService portssvc.RateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(rs portssvc.RateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{rateService: rs}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.listRates)
		rates.GET("/:from/:to", h.getRate)
	}
}

// listRates godoc
// @Summary List configured exchange rates
// @Description Lists every fixed conversion rate the processor supports
// @Tags rates
// @Produce  json
// @Success 200 {array} dto.ExchangeRateResponse
// @Router /rates [get]
func (h *exchangeRateHandler) listRates(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(h.rateService.Rates()))
}

// getRate godoc
// @Summary Get an exchange rate
// @Description Retrieves the fixed rate for a given currency pair
// @Tags rates
// @Produce  json
// @Param   from path string true "From Currency Code (3 letters)"
// @Param   to   path string true "To Currency Code (3 letters)"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Failure 404 {object} map[string]string "No rate for currency pair"
// @Router /rates/{from}/{to} [get]
func (h *exchangeRateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := c.Param("from")
	toCode := c.Param("to")

	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	rate, err := h.rateService.RateFor(fromCode, toCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnsupportedCurrencyPair) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to get exchange rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rate"})
		return
	}

	c.JSON(http.StatusOK, dto.ExchangeRateResponse{
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             rate,
	})
}
