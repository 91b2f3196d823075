// Package exchange contains HTTP adapters for the external exchange rate APIs.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yalapay/yala_backend/internal/apperrors"
)

const exchangeRateAPIBaseURL = "https://v6.exchangerate-api.com/v6"

// ExchangeRateAPIProvider fetches pair conversion rates from exchangerate-api.com.
type ExchangeRateAPIProvider struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	currencies map[string]string

	mu    sync.RWMutex
	cache map[string]decimal.Decimal
}

type exchangeRateAPIResponse struct {
	Result         string      `json:"result"`
	ConversionRate json.Number `json:"conversion_rate"`
	ErrorType      string      `json:"error-type"`
}

// NewExchangeRateAPIProvider builds the adapter for exchangerate-api.com.
// The currencies table is the static code -> display name set this provider
// answers for.
func NewExchangeRateAPIProvider(apiKey string, currencies map[string]string) *ExchangeRateAPIProvider {
	return &ExchangeRateAPIProvider{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL:    exchangeRateAPIBaseURL,
		apiKey:     apiKey,
		currencies: currencies,
		cache:      make(map[string]decimal.Decimal),
	}
}

// Name returns the stable provider identifier.
func (p *ExchangeRateAPIProvider) Name() string {
	return "exchangerate-api"
}

// IsCurrencySupported reports whether the code is in the configured table.
func (p *ExchangeRateAPIProvider) IsCurrencySupported(code string) bool {
	_, ok := p.currencies[code]
	return ok
}

// SupportedCurrencies returns the configured code -> display name table.
func (p *ExchangeRateAPIProvider) SupportedCurrencies() map[string]string {
	return p.currencies
}

// GetRate fetches the conversion rate for a currency pair, serving repeat
// lookups from the adapter's own cache.
func (p *ExchangeRateAPIProvider) GetRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error) {
	pair := fromCode + "_" + toCode

	p.mu.RLock()
	rate, ok := p.cache[pair]
	p.mu.RUnlock()
	if ok {
		return rate, nil
	}

	url := fmt.Sprintf("%s/%s/pair/%s/%s", p.baseURL, p.apiKey, fromCode, toCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: exchangerate-api: failed to create request: %v", apperrors.ErrRateResolution, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: exchangerate-api: request failed: %v", apperrors.ErrRateResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: exchangerate-api returned status %d", apperrors.ErrRateResolution, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: exchangerate-api: failed to read response body: %v", apperrors.ErrRateResolution, err)
	}

	var parsed exchangeRateAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("%w: exchangerate-api: failed to parse response: %v", apperrors.ErrRateResolution, err)
	}
	if parsed.Result != "success" {
		return decimal.Zero, fmt.Errorf("%w: exchangerate-api returned result %q (%s)", apperrors.ErrRateResolution, parsed.Result, parsed.ErrorType)
	}

	rate, err = decimal.NewFromString(parsed.ConversionRate.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: exchangerate-api: invalid conversion_rate %q", apperrors.ErrRateResolution, parsed.ConversionRate.String())
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: exchangerate-api: non-positive conversion_rate %s", apperrors.ErrRateResolution, rate)
	}

	p.mu.Lock()
	p.cache[pair] = rate
	p.mu.Unlock()

	return rate, nil
}
