package providers

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateProvider abstracts an external exchange rate API.
// Implementations keep their own response cache and surface failures as
// wrapped apperrors.ErrRateResolution so the resolver can fail over.
type RateProvider interface {
	// Name returns the stable identifier of the provider, used in logs,
	// metrics and the switch-provider endpoint.
	Name() string

	// GetRate fetches the conversion rate from one currency to another.
	GetRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error)

	// IsCurrencySupported reports whether the provider answers for the code.
	IsCurrencySupported(code string) bool

	// SupportedCurrencies returns the static code -> display name table the
	// provider is configured with.
	SupportedCurrencies() map[string]string
}
