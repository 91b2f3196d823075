package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yalapay/yala_backend/internal/apperrors"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
	"github.com/yalapay/yala_backend/internal/dto"
	"github.com/yalapay/yala_backend/internal/middleware"
)

// exchangeHandler handles HTTP requests for the exchange rate subsystem.
type exchangeHandler struct {
	exchangeService portssvc.ExchangeSvcFacade
}

// registerExchangeRoutes registers routes for rate resolution and provider control.
func registerExchangeRoutes(rg *gin.RouterGroup, exchangeService portssvc.ExchangeSvcFacade) {
	h := &exchangeHandler{exchangeService: exchangeService}

	rg.GET("/exchange-rates/:from/:to", h.getRate)
	rg.GET("/supported-currencies", h.supportedCurrencies)
	rg.POST("/exchange/switch-provider", h.switchProvider)
}

// getRate godoc
// @Summary Resolve the exchange rate for a currency pair
// @Description Resolves through the active provider, failing over to the standby on error
// @Tags exchange
// @Produce  json
// @Param   from path string true "Source currency code"
// @Param   to path string true "Destination currency code"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse "Unsupported currency"
// @Failure 502 {object} ErrorResponse "All providers failed"
// @Security BearerAuth
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := c.Param("from")
	to := c.Param("to")

	rate, provider, err := h.exchangeService.Resolve(c.Request.Context(), from, to)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrRateResolution):
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Exchange rate is currently unavailable"})
		default:
			logger.Error("Rate resolution failed", slog.String("pair", from+"_"+to), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Rate resolution failed"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ExchangeRateResponse{
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             rate,
		Provider:         provider,
	})
}

// supportedCurrencies godoc
// @Summary List the currencies the rate subsystem serves
// @Tags exchange
// @Produce  json
// @Success 200 {object} dto.SupportedCurrenciesResponse
// @Security BearerAuth
// @Router /supported-currencies [get]
func (h *exchangeHandler) supportedCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SupportedCurrenciesResponse{
		Currencies: h.exchangeService.SupportedCurrencies(),
	})
}

// switchProvider godoc
// @Summary Switch the active rate provider
// @Description Flips the active provider to the standby
// @Tags exchange
// @Produce  json
// @Success 200 {object} dto.SwitchProviderResponse
// @Security BearerAuth
// @Router /exchange/switch-provider [post]
func (h *exchangeHandler) switchProvider(c *gin.Context) {
	name := h.exchangeService.SwitchProvider(c.Request.Context())
	c.JSON(http.StatusOK, dto.SwitchProviderResponse{ActiveProvider: name})
}
