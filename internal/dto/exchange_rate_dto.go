package dto

import (
	"github.com/shopspring/decimal"
)

// ExchangeRateResponse defines the data returned for a resolved exchange rate.
type ExchangeRateResponse struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	Provider         string          `json:"provider"`
}

// SwitchProviderResponse reports the provider that is active after a manual switch.
type SwitchProviderResponse struct {
	ActiveProvider string `json:"activeProvider"`
}

// SupportedCurrenciesResponse lists the currency codes the rate subsystem serves.
type SupportedCurrenciesResponse struct {
	Currencies map[string]string `json:"currencies"`
}
