package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // e.g. "USD"
	Symbol       string `json:"symbol"`       // e.g. "$"
	Name         string `json:"name"`         // e.g. "US Dollar"
	Precision    int32  `json:"precision"`    // decimal places kept for balances
}

// Round rounds an amount to the currency's precision using banker's rounding
// (round half to even). All conversion arithmetic goes through this.
func (c Currency) Round(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(c.Precision)
}

// CurrencyRegistry holds the closed set of currencies the processor supports.
// It is populated once at startup and read-only afterwards, so concurrent
// lookups need no synchronisation.
type CurrencyRegistry struct {
	byCode map[string]Currency
}

// NewCurrencyRegistry builds a registry from the given currencies.
func NewCurrencyRegistry(currencies []Currency) *CurrencyRegistry {
	byCode := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		byCode[c.CurrencyCode] = c
	}
	return &CurrencyRegistry{byCode: byCode}
}

// Get returns the currency for a code, and whether it is supported.
func (r *CurrencyRegistry) Get(code string) (Currency, bool) {
	c, ok := r.byCode[code]
	return c, ok
}

// List returns all supported currencies ordered by code.
func (r *CurrencyRegistry) List() []Currency {
	out := make([]Currency, 0, len(r.byCode))
	for _, c := range r.byCode {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out
}
