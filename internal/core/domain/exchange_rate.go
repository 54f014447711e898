package domain

import "github.com/shopspring/decimal"

// ExchangeRate is a fixed conversion multiplier between two currencies.
// Rates do not change during the processor's lifetime and no bid/ask spread
// is modelled.
type ExchangeRate struct {
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // Positive multiplier
}
