package domain

import "github.com/shopspring/decimal"

// Money is an amount in a specific currency. Amounts are fixed-point
// decimals; floating point never enters balance arithmetic.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// NewMoney pairs an amount with a currency code.
func NewMoney(amount decimal.Decimal, currencyCode string) Money {
	return Money{Amount: amount, CurrencyCode: currencyCode}
}
