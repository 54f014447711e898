package dto

import (
	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

// FundRequest defines the payload for funding a wallet.
type FundRequest struct {
	CurrencyCode string          `json:"currency" binding:"required,currency_code"`
	Amount       decimal.Decimal `json:"amount" binding:"required"` // Positivity is enforced by the service
}

// WithdrawRequest defines the payload for withdrawing from a wallet.
type WithdrawRequest struct {
	CurrencyCode string          `json:"currency" binding:"required,currency_code"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// ConvertRequest defines the payload for converting between currencies.
type ConvertRequest struct {
	FromCurrencyCode string          `json:"fromCurrency" binding:"required,currency_code"`
	ToCurrencyCode   string          `json:"toCurrency" binding:"required,currency_code"`
	Amount           decimal.Decimal `json:"amount" binding:"required"`
}

// BalanceResponse carries a single currency balance.
type BalanceResponse struct {
	UserID       string          `json:"userID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// BalancesResponse carries all balances of a wallet.
type BalancesResponse struct {
	UserID   string                     `json:"userID"`
	Balances map[string]decimal.Decimal `json:"balances"`
}

// OperationResponse is returned by fund and withdraw: the committed
// transaction plus the resulting balance of the touched currency.
type OperationResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"newBalance"`
}

// ConvertResponse is returned by convert: the committed transaction plus
// both legs' details and resulting balances.
type ConvertResponse struct {
	Transaction     TransactionResponse `json:"transaction"`
	ConvertedAmount decimal.Decimal     `json:"convertedAmount"`
	ExchangeRate    decimal.Decimal     `json:"exchangeRate"`
	FromBalance     decimal.Decimal     `json:"fromBalance"`
	ToBalance       decimal.Decimal     `json:"toBalance"`
}

// ToBalanceResponse converts a domain.Money into a BalanceResponse.
func ToBalanceResponse(userID string, money domain.Money) BalanceResponse {
	return BalanceResponse{
		UserID:       userID,
		CurrencyCode: money.CurrencyCode,
		Balance:      money.Amount,
	}
}

// ToOperationResponse builds the fund/withdraw response from a committed
// transaction.
func ToOperationResponse(txn *domain.Transaction) OperationResponse {
	return OperationResponse{
		Transaction: ToTransactionResponse(txn),
		NewBalance:  txn.BalanceAfter[txn.CurrencyCode],
	}
}

// ToConvertResponse builds the convert response from a committed CONVERT
// transaction.
func ToConvertResponse(txn *domain.Transaction) ConvertResponse {
	resp := ConvertResponse{
		Transaction: ToTransactionResponse(txn),
		FromBalance: txn.BalanceAfter[txn.CurrencyCode],
	}
	if txn.ToAmount != nil {
		resp.ConvertedAmount = *txn.ToAmount
	}
	if txn.ExchangeRate != nil {
		resp.ExchangeRate = *txn.ExchangeRate
	}
	if txn.ToCurrencyCode != nil {
		resp.ToBalance = txn.BalanceAfter[*txn.ToCurrencyCode]
	}
	return resp
}
