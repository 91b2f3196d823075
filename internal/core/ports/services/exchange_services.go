package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExchangeSvcFacade resolves exchange rates through the configured providers,
// failing over from the active provider to the standby on error.
type ExchangeSvcFacade interface {
	// Resolve returns the conversion rate from one currency to another along
	// with the name of the provider that served it. Same-currency pairs
	// resolve to exactly 1 without touching any provider.
	Resolve(ctx context.Context, fromCode, toCode string) (rate decimal.Decimal, provider string, err error)

	// ActiveProvider returns the name of the provider currently preferred.
	ActiveProvider() string

	// SwitchProvider flips the active provider to the standby and returns the
	// name of the newly active one.
	SwitchProvider(ctx context.Context) string

	// SupportedCurrencies returns the code -> display name map of currencies
	// the rate subsystem serves.
	SupportedCurrencies() map[string]string

	// IsCurrencySupported reports whether a currency code is resolvable.
	IsCurrencySupported(code string) bool
}
