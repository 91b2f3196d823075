package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/yalapay/yala_backend/internal/apperrors"
	portsprov "github.com/yalapay/yala_backend/internal/core/ports/providers"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
	"github.com/yalapay/yala_backend/internal/middleware"
	"github.com/yalapay/yala_backend/internal/platform/metrics"
)

// exchangeService resolves rates through a primary/standby provider pair.
// The active provider serves every lookup until it fails; a successful
// failover promotes the standby, a failed one restores the previous active
// so the next lookup retries the original order.
//
// Resolved rates are cached per (provider, pair): a lookup for a pair already
// answered by the current active provider never leaves the process. The cache
// is not invalidated within the process lifetime.
type exchangeService struct {
	providers [2]portsprov.RateProvider

	mu     sync.RWMutex
	active int // index into providers
	cache  map[string]decimal.Decimal
}

// NewExchangeService creates a resolver over the two given providers. The
// first provider starts as the active one.
func NewExchangeService(primary, standby portsprov.RateProvider) portssvc.ExchangeSvcFacade {
	return &exchangeService{
		providers: [2]portsprov.RateProvider{primary, standby},
		cache:     make(map[string]decimal.Decimal),
	}
}

func cacheKey(provider, fromCode, toCode string) string {
	return provider + ":" + fromCode + "_" + toCode
}

func (s *exchangeService) Resolve(ctx context.Context, fromCode, toCode string) (decimal.Decimal, string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.IsCurrencySupported(fromCode) {
		return decimal.Zero, "", fmt.Errorf("%w: unsupported currency code %s", apperrors.ErrValidation, fromCode)
	}
	if !s.IsCurrencySupported(toCode) {
		return decimal.Zero, "", fmt.Errorf("%w: unsupported currency code %s", apperrors.ErrValidation, toCode)
	}

	// Identity pairs never consult a provider.
	if fromCode == toCode {
		return decimal.NewFromInt(1), "", nil
	}

	s.mu.RLock()
	activeIdx := s.active
	active := s.providers[activeIdx]
	rate, cached := s.cache[cacheKey(active.Name(), fromCode, toCode)]
	s.mu.RUnlock()
	if cached {
		return rate, active.Name(), nil
	}

	rate, err := active.GetRate(ctx, fromCode, toCode)
	if err == nil {
		metrics.RateProviderRequestsTotal.WithLabelValues(active.Name(), "success").Inc()
		s.mu.Lock()
		s.cache[cacheKey(active.Name(), fromCode, toCode)] = rate
		s.mu.Unlock()
		return rate, active.Name(), nil
	}
	metrics.RateProviderRequestsTotal.WithLabelValues(active.Name(), "failure").Inc()
	logger.Warn("Active rate provider failed, failing over",
		slog.String("provider", active.Name()),
		slog.String("pair", fromCode+"_"+toCode),
		slog.String("error", err.Error()))

	standbyIdx := 1 - activeIdx
	standby := s.providers[standbyIdx]
	metrics.RateFailoversTotal.Inc()

	rate, standbyErr := standby.GetRate(ctx, fromCode, toCode)
	if standbyErr == nil {
		metrics.RateProviderRequestsTotal.WithLabelValues(standby.Name(), "success").Inc()
		// The standby delivered, so it stays active for subsequent lookups.
		s.mu.Lock()
		s.active = standbyIdx
		s.cache[cacheKey(standby.Name(), fromCode, toCode)] = rate
		s.mu.Unlock()
		logger.Info("Standby rate provider promoted to active", slog.String("provider", standby.Name()))
		return rate, standby.Name(), nil
	}
	metrics.RateProviderRequestsTotal.WithLabelValues(standby.Name(), "failure").Inc()
	logger.Error("Both rate providers failed",
		slog.String("pair", fromCode+"_"+toCode),
		slog.String("active_error", err.Error()),
		slog.String("standby_error", standbyErr.Error()))

	// Both down: the previously active provider keeps its slot so the next
	// lookup walks the providers in the same order.
	return decimal.Zero, "", fmt.Errorf("%w: providers %s and %s both failed for pair %s_%s",
		apperrors.ErrRateResolution, active.Name(), standby.Name(), fromCode, toCode)
}

func (s *exchangeService) ActiveProvider() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.providers[s.active].Name()
}

func (s *exchangeService) SwitchProvider(ctx context.Context) string {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.mu.Lock()
	s.active = 1 - s.active
	name := s.providers[s.active].Name()
	s.mu.Unlock()

	logger.Info("Active rate provider switched manually", slog.String("provider", name))
	return name
}

// SupportedCurrencies returns a copy of the active provider's currency table.
func (s *exchangeService) SupportedCurrencies() map[string]string {
	s.mu.RLock()
	active := s.providers[s.active]
	s.mu.RUnlock()

	currencies := active.SupportedCurrencies()
	out := make(map[string]string, len(currencies))
	for code, name := range currencies {
		out[code] = name
	}
	return out
}

func (s *exchangeService) IsCurrencySupported(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.providers[s.active].IsCurrencySupported(code)
}