package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of wallet operation a transaction records.
type TransactionType string

const (
	Fund     TransactionType = "FUND"
	Convert  TransactionType = "CONVERT"
	Withdraw TransactionType = "WITHDRAW"
)

// Transaction is an immutable record of one committed wallet operation.
// Transactions are created by the wallet service at commit time and never
// modified afterwards; the ledger is append-only.
type Transaction struct {
	TransactionID  int64                      `json:"transactionID"` // Strictly increasing, unique per ledger
	UserID         string                     `json:"userID"`
	Type           TransactionType            `json:"type"`
	CurrencyCode   string                     `json:"currencyCode"` // Source currency
	Amount         decimal.Decimal            `json:"amount"`       // Positive source amount
	ToCurrencyCode *string                    `json:"toCurrencyCode,omitempty"` // CONVERT only
	ToAmount       *decimal.Decimal           `json:"toAmount,omitempty"`       // CONVERT only, post-rounding
	ExchangeRate   *decimal.Decimal           `json:"exchangeRate,omitempty"`   // CONVERT only
	Description    string                     `json:"description"`
	Timestamp      time.Time                  `json:"timestamp"`
	BalanceAfter   map[string]decimal.Decimal `json:"balanceAfter"` // Post-operation balances for the affected currencies
}
