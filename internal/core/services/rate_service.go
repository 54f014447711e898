package services

import (
	"fmt"
	"sort"

	"fx-payment-processor/internal/apperrors"
	"fx-payment-processor/internal/core/domain"
	portssvc "fx-payment-processor/internal/core/ports/services"

	"github.com/shopspring/decimal"
)

// inverseTolerance bounds how far rate(A,B) * rate(B,A) may drift from 1
// before the configuration is rejected as contradictory. The default table
// (18.70 / 0.053) has a product of 0.9911 and passes.
var inverseTolerance = decimal.NewFromFloat(0.01)

type currencyPair struct {
	from string
	to   string
}

// rateService holds the fixed conversion table. Rates never change after
// construction, so lookups are pure and safe for concurrent use.
type rateService struct {
	currencies *domain.CurrencyRegistry
	rates      map[currencyPair]decimal.Decimal
}

// Ensure rateService implements the portssvc.RateSvcFacade interface
var _ portssvc.RateSvcFacade = (*rateService)(nil)

// NewRateService validates the configured rates and builds the rate table.
// A contradictory configuration fails fast with ErrInconsistentRateTable so
// the engine never starts on bad rates.
func NewRateService(currencies *domain.CurrencyRegistry, rates []domain.ExchangeRate) (portssvc.RateSvcFacade, error) {
	table := make(map[currencyPair]decimal.Decimal, len(rates))

	for _, rate := range rates {
		if _, ok := currencies.Get(rate.FromCurrencyCode); !ok {
			return nil, fmt.Errorf("%w: rate configured for unknown currency %s", apperrors.ErrUnsupportedCurrency, rate.FromCurrencyCode)
		}
		if _, ok := currencies.Get(rate.ToCurrencyCode); !ok {
			return nil, fmt.Errorf("%w: rate configured for unknown currency %s", apperrors.ErrUnsupportedCurrency, rate.ToCurrencyCode)
		}
		if rate.FromCurrencyCode == rate.ToCurrencyCode {
			return nil, fmt.Errorf("%w: rate from %s to itself", apperrors.ErrValidation, rate.FromCurrencyCode)
		}
		if rate.Rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: rate %s->%s must be positive, got %s",
				apperrors.ErrValidation, rate.FromCurrencyCode, rate.ToCurrencyCode, rate.Rate)
		}

		pair := currencyPair{from: rate.FromCurrencyCode, to: rate.ToCurrencyCode}
		if _, exists := table[pair]; exists {
			return nil, fmt.Errorf("%w: duplicate rate for %s->%s", apperrors.ErrValidation, pair.from, pair.to)
		}
		table[pair] = rate.Rate
	}

	// When both directions of a pair are configured they must be consistent
	// inverses of each other.
	for pair, rate := range table {
		inverse, exists := table[currencyPair{from: pair.to, to: pair.from}]
		if !exists {
			continue
		}
		product := rate.Mul(inverse)
		if product.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(inverseTolerance) {
			return nil, fmt.Errorf("%w: %s->%s is %s but %s->%s is %s (product %s)",
				apperrors.ErrInconsistentRateTable,
				pair.from, pair.to, rate, pair.to, pair.from, inverse, product)
		}
	}

	return &rateService{currencies: currencies, rates: table}, nil
}

// RateFor returns the fixed conversion multiplier for a currency pair.
// The design does not assume rate(A,B) == 1/rate(B,A); only explicitly
// configured directions are available.
func (s *rateService) RateFor(fromCode string, toCode string) (decimal.Decimal, error) {
	rate, exists := s.rates[currencyPair{from: fromCode, to: toCode}]
	if !exists {
		return decimal.Zero, fmt.Errorf("%w: no rate from %s to %s", apperrors.ErrUnsupportedCurrencyPair, fromCode, toCode)
	}
	return rate, nil
}

// Rates lists every configured rate, ordered by currency pair.
func (s *rateService) Rates() []domain.ExchangeRate {
	out := make([]domain.ExchangeRate, 0, len(s.rates))
	for pair, rate := range s.rates {
		out = append(out, domain.ExchangeRate{
			FromCurrencyCode: pair.from,
			ToCurrencyCode:   pair.to,
			Rate:             rate,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FromCurrencyCode != out[j].FromCurrencyCode {
			return out[i].FromCurrencyCode < out[j].FromCurrencyCode
		}
		return out[i].ToCurrencyCode < out[j].ToCurrencyCode
	})
	return out
}
