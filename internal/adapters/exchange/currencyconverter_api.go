package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yalapay/yala_backend/internal/apperrors"
)

const currencyConverterBaseURL = "https://free.currconv.com/api/v7"

// CurrencyConverterProvider fetches pair conversion rates from the
// CurrencyConverter API (currconv.com, "ultra" compact responses).
type CurrencyConverterProvider struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	currencies map[string]string

	mu    sync.RWMutex
	cache map[string]decimal.Decimal
}

// NewCurrencyConverterProvider builds the adapter for free.currconv.com.
// The currencies table is the static code -> display name set this provider
// answers for.
func NewCurrencyConverterProvider(apiKey string, currencies map[string]string) *CurrencyConverterProvider {
	return &CurrencyConverterProvider{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL:    currencyConverterBaseURL,
		apiKey:     apiKey,
		currencies: currencies,
		cache:      make(map[string]decimal.Decimal),
	}
}

// Name returns the stable provider identifier.
func (p *CurrencyConverterProvider) Name() string {
	return "currencyconverter"
}

// IsCurrencySupported reports whether the code is in the configured table.
func (p *CurrencyConverterProvider) IsCurrencySupported(code string) bool {
	_, ok := p.currencies[code]
	return ok
}

// SupportedCurrencies returns the configured code -> display name table.
func (p *CurrencyConverterProvider) SupportedCurrencies() map[string]string {
	return p.currencies
}

// GetRate fetches the conversion rate for a currency pair, serving repeat
// lookups from the adapter's own cache.
//
// The ultra-compact response is a single-key object, e.g. {"PEN_USD":0.27}.
func (p *CurrencyConverterProvider) GetRate(ctx context.Context, fromCode, toCode string) (decimal.Decimal, error) {
	pair := fromCode + "_" + toCode

	p.mu.RLock()
	rate, ok := p.cache[pair]
	p.mu.RUnlock()
	if ok {
		return rate, nil
	}

	endpoint := fmt.Sprintf("%s/convert?q=%s&compact=ultra&apiKey=%s", p.baseURL, pair, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: currencyconverter: failed to create request: %v", apperrors.ErrRateResolution, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: currencyconverter: request failed: %v", apperrors.ErrRateResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w: currencyconverter returned status %d", apperrors.ErrRateResolution, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: currencyconverter: failed to read response body: %v", apperrors.ErrRateResolution, err)
	}

	var parsed map[string]json.Number
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("%w: currencyconverter: failed to parse response: %v", apperrors.ErrRateResolution, err)
	}

	raw, ok := parsed[pair]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: currencyconverter: response missing pair %s", apperrors.ErrRateResolution, pair)
	}

	rate, err = decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: currencyconverter: invalid rate %q for pair %s", apperrors.ErrRateResolution, raw.String(), pair)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: currencyconverter: non-positive rate %s for pair %s", apperrors.ErrRateResolution, rate, pair)
	}

	p.mu.Lock()
	p.cache[pair] = rate
	p.mu.Unlock()

	return rate, nil
}
