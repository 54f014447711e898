package dto

import (
	"time"

	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

// TransactionResponse defines the structure for API responses containing a
// single ledger transaction.
type TransactionResponse struct {
	TransactionID  int64                      `json:"transactionID"`
	UserID         string                     `json:"userID"`
	Type           string                     `json:"type"`
	CurrencyCode   string                     `json:"currencyCode"`
	Amount         decimal.Decimal            `json:"amount"`
	ToCurrencyCode *string                    `json:"toCurrencyCode,omitempty"`
	ToAmount       *decimal.Decimal           `json:"toAmount,omitempty"`
	ExchangeRate   *decimal.Decimal           `json:"exchangeRate,omitempty"`
	Description    string                     `json:"description"`
	Timestamp      time.Time                  `json:"timestamp"`
	BalanceAfter   map[string]decimal.Decimal `json:"balanceAfter"`
}

// ListTransactionsResponse wraps a user's transaction history.
type ListTransactionsResponse struct {
	UserID       string                `json:"userID"`
	Transactions []TransactionResponse `json:"transactions"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:  txn.TransactionID,
		UserID:         txn.UserID,
		Type:           string(txn.Type),
		CurrencyCode:   txn.CurrencyCode,
		Amount:         txn.Amount,
		ToCurrencyCode: txn.ToCurrencyCode,
		ToAmount:       txn.ToAmount,
		ExchangeRate:   txn.ExchangeRate,
		Description:    txn.Description,
		Timestamp:      txn.Timestamp,
		BalanceAfter:   txn.BalanceAfter,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
