package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/yalapay/yala_backend/internal/apperrors"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
	"github.com/yalapay/yala_backend/internal/core/services"
)

var testCurrencies = map[string]string{
	"PEN": "Peruvian Sol",
	"USD": "US Dollar",
	"EUR": "Euro",
}

type ExchangeServiceTestSuite struct {
	suite.Suite
	primary *MockRateProvider
	standby *MockRateProvider
	service portssvc.ExchangeSvcFacade
}

func (suite *ExchangeServiceTestSuite) SetupTest() {
	suite.primary = NewMockRateProvider("exchangerate-api", testCurrencies)
	suite.standby = NewMockRateProvider("currencyconverter", testCurrencies)
	suite.service = services.NewExchangeService(suite.primary, suite.standby)
}

func (suite *ExchangeServiceTestSuite) TestResolve_SameCurrency_NoProviderCall() {
	ctx := context.Background()

	rate, provider, err := suite.service.Resolve(ctx, "USD", "USD")

	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	suite.Empty(provider)
	suite.primary.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
	suite.standby.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestResolve_UnsupportedCurrency() {
	ctx := context.Background()

	_, _, err := suite.service.Resolve(ctx, "PEN", "XXX")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.primary.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestResolve_ActiveProviderSuccess() {
	ctx := context.Background()
	expected := decimal.RequireFromString("3.5")

	suite.primary.On("GetRate", ctx, "USD", "PEN").Return(expected, nil).Once()

	rate, provider, err := suite.service.Resolve(ctx, "USD", "PEN")

	suite.Require().NoError(err)
	suite.True(rate.Equal(expected))
	suite.Equal("exchangerate-api", provider)
	suite.Equal("exchangerate-api", suite.service.ActiveProvider())
	suite.standby.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
	suite.primary.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestResolve_RepeatLookupServedFromCache() {
	ctx := context.Background()
	expected := decimal.RequireFromString("3.5")

	suite.primary.On("GetRate", ctx, "USD", "PEN").Return(expected, nil).Once()

	for i := 0; i < 3; i++ {
		rate, provider, err := suite.service.Resolve(ctx, "USD", "PEN")
		suite.Require().NoError(err)
		suite.True(rate.Equal(expected))
		suite.Equal("exchangerate-api", provider)
	}

	suite.primary.AssertNumberOfCalls(suite.T(), "GetRate", 1)
}

func (suite *ExchangeServiceTestSuite) TestResolve_CacheIsKeyedByProvider() {
	ctx := context.Background()

	suite.primary.On("GetRate", ctx, "USD", "PEN").Return(decimal.RequireFromString("3.5"), nil).Once()
	suite.standby.On("GetRate", ctx, "USD", "PEN").Return(decimal.RequireFromString("3.6"), nil).Once()

	_, _, err := suite.service.Resolve(ctx, "USD", "PEN")
	suite.Require().NoError(err)

	// A manual switch must not serve the other provider's cached rate.
	suite.service.SwitchProvider(ctx)
	rate, provider, err := suite.service.Resolve(ctx, "USD", "PEN")
	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.RequireFromString("3.6")))
	suite.Equal("currencyconverter", provider)

	// Switching back finds the original entry still cached.
	suite.service.SwitchProvider(ctx)
	rate, provider, err = suite.service.Resolve(ctx, "USD", "PEN")
	suite.Require().NoError(err)
	suite.True(rate.Equal(decimal.RequireFromString("3.5")))
	suite.Equal("exchangerate-api", provider)

	suite.primary.AssertNumberOfCalls(suite.T(), "GetRate", 1)
	suite.standby.AssertNumberOfCalls(suite.T(), "GetRate", 1)
}

func (suite *ExchangeServiceTestSuite) TestResolve_FailoverPromotesStandby() {
	ctx := context.Background()
	expected := decimal.RequireFromString("0.27")

	suite.primary.On("GetRate", ctx, "PEN", "USD").Return(decimal.Zero, apperrors.ErrRateResolution).Once()
	suite.standby.On("GetRate", ctx, "PEN", "USD").Return(expected, nil).Once()

	rate, provider, err := suite.service.Resolve(ctx, "PEN", "USD")

	suite.Require().NoError(err)
	suite.True(rate.Equal(expected))
	suite.Equal("currencyconverter", provider)

	// The standby stays active for subsequent lookups.
	suite.Equal("currencyconverter", suite.service.ActiveProvider())

	suite.standby.On("GetRate", ctx, "PEN", "EUR").Return(decimal.RequireFromString("0.25"), nil).Once()
	_, provider, err = suite.service.Resolve(ctx, "PEN", "EUR")
	suite.Require().NoError(err)
	suite.Equal("currencyconverter", provider)

	suite.primary.AssertExpectations(suite.T())
	suite.standby.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestResolve_BothProvidersFail_RestoresActive() {
	ctx := context.Background()

	suite.primary.On("GetRate", ctx, "PEN", "USD").Return(decimal.Zero, apperrors.ErrRateResolution).Once()
	suite.standby.On("GetRate", ctx, "PEN", "USD").Return(decimal.Zero, apperrors.ErrRateResolution).Once()

	_, _, err := suite.service.Resolve(ctx, "PEN", "USD")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRateResolution)

	// The original active provider keeps its slot after a failed failover.
	suite.Equal("exchangerate-api", suite.service.ActiveProvider())
	suite.primary.AssertExpectations(suite.T())
	suite.standby.AssertExpectations(suite.T())
}

func (suite *ExchangeServiceTestSuite) TestSwitchProvider_Flips() {
	ctx := context.Background()

	suite.Equal("exchangerate-api", suite.service.ActiveProvider())

	name := suite.service.SwitchProvider(ctx)
	suite.Equal("currencyconverter", name)
	suite.Equal("currencyconverter", suite.service.ActiveProvider())

	name = suite.service.SwitchProvider(ctx)
	suite.Equal("exchangerate-api", name)
}

func (suite *ExchangeServiceTestSuite) TestSwitchProvider_NewActiveServesNextLookup() {
	ctx := context.Background()
	expected := decimal.RequireFromString("0.27")

	suite.service.SwitchProvider(ctx)
	suite.standby.On("GetRate", ctx, "PEN", "USD").Return(expected, nil).Once()

	rate, provider, err := suite.service.Resolve(ctx, "PEN", "USD")

	suite.Require().NoError(err)
	suite.True(rate.Equal(expected))
	suite.Equal("currencyconverter", provider)
	suite.primary.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExchangeServiceTestSuite) TestSupportedCurrencies_ReturnsCopy() {
	currencies := suite.service.SupportedCurrencies()
	suite.Len(currencies, len(testCurrencies))

	currencies["XXX"] = "Injected"
	suite.False(suite.service.IsCurrencySupported("XXX"))
}

func (suite *ExchangeServiceTestSuite) TestIsCurrencySupported() {
	assert.True(suite.T(), suite.service.IsCurrencySupported("PEN"))
	assert.False(suite.T(), suite.service.IsCurrencySupported("BTC"))
}

func TestExchangeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeServiceTestSuite))
}
