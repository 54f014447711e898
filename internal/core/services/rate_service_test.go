package services_test

import (
	"testing"

	"fx-payment-processor/internal/apperrors"
	"fx-payment-processor/internal/core/domain"
	"fx-payment-processor/internal/core/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateService_Valid(t *testing.T) {
	svc, err := services.NewRateService(testCurrencies(), testRates())
	require.NoError(t, err)
	require.NotNil(t, svc)

	rate, err := svc.RateFor("USD", "MXN")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("17.00")))
}

func TestNewRateService_DefaultTableIsConsistent(t *testing.T) {
	// 18.70 * 0.053 = 0.9911, inside the inverse tolerance.
	rates := []domain.ExchangeRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "MXN", Rate: decimal.RequireFromString("18.70")},
		{FromCurrencyCode: "MXN", ToCurrencyCode: "USD", Rate: decimal.RequireFromString("0.053")},
	}

	_, err := services.NewRateService(testCurrencies(), rates)
	require.NoError(t, err)
}

func TestNewRateService_InconsistentInverse(t *testing.T) {
	rates := []domain.ExchangeRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "MXN", Rate: decimal.RequireFromString("17.00")},
		{FromCurrencyCode: "MXN", ToCurrencyCode: "USD", Rate: decimal.RequireFromString("0.10")},
	}

	svc, err := services.NewRateService(testCurrencies(), rates)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInconsistentRateTable)
	assert.Nil(t, svc)
}

func TestNewRateService_UnknownCurrency(t *testing.T) {
	rates := []domain.ExchangeRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "EUR", Rate: decimal.RequireFromString("0.90")},
	}

	_, err := services.NewRateService(testCurrencies(), rates)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedCurrency)
}

func TestNewRateService_SelfRate(t *testing.T) {
	rates := []domain.ExchangeRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "USD", Rate: decimal.RequireFromString("1")},
	}

	_, err := services.NewRateService(testCurrencies(), rates)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNewRateService_NonPositiveRate(t *testing.T) {
	rates := []domain.ExchangeRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "MXN", Rate: decimal.Zero},
	}

	_, err := services.NewRateService(testCurrencies(), rates)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNewRateService_DuplicatePair(t *testing.T) {
	rates := []domain.ExchangeRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "MXN", Rate: decimal.RequireFromString("17.00")},
		{FromCurrencyCode: "USD", ToCurrencyCode: "MXN", Rate: decimal.RequireFromString("18.00")},
	}

	_, err := services.NewRateService(testCurrencies(), rates)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRateFor_UnsupportedPair(t *testing.T) {
	svc, err := services.NewRateService(testCurrencies(), testRates())
	require.NoError(t, err)

	_, err = svc.RateFor("USD", "EUR")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedCurrencyPair)
}

func TestRates_SortedByPair(t *testing.T) {
	svc, err := services.NewRateService(testCurrencies(), testRates())
	require.NoError(t, err)

	rates := svc.Rates()
	require.Len(t, rates, 2)
	assert.Equal(t, "MXN", rates[0].FromCurrencyCode)
	assert.Equal(t, "USD", rates[1].FromCurrencyCode)
}
