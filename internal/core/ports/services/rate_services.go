package services

import (
	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

// RateSvcFacade exposes the fixed-rate conversion table. The table is built
// once at startup and read-only afterwards, so lookups are safe for
// unsynchronised concurrent use and take no context.
type RateSvcFacade interface {
	// RateFor returns the positive conversion multiplier from one currency
	// to another, or apperrors.ErrUnsupportedCurrencyPair when either code
	// is unknown or no rate is configured.
	RateFor(fromCode string, toCode string) (decimal.Decimal, error)

	// Rates lists every configured rate, ordered by currency pair.
	Rates() []domain.ExchangeRate
}
