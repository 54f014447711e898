package domain

import "github.com/shopspring/decimal"

// Discrepancy reports a single currency whose replayed balance disagrees
// with the live wallet balance.
type Discrepancy struct {
	CurrencyCode    string          `json:"currencyCode"`
	ExpectedBalance decimal.Decimal `json:"expectedBalance"` // Recomputed from the ledger
	ActualBalance   decimal.Decimal `json:"actualBalance"`   // Live wallet store value
}

// ReconciliationResult is the outcome of independently replaying one user's
// transaction history and comparing it against the wallet store.
type ReconciliationResult struct {
	UserID           string                     `json:"userID"`
	Consistent       bool                       `json:"consistent"`
	ExpectedBalances map[string]decimal.Decimal `json:"expectedBalances"`
	ActualBalances   map[string]decimal.Decimal `json:"actualBalances"`
	Discrepancies    []Discrepancy              `json:"discrepancies,omitempty"`
}

// ReconciliationSummary aggregates reconciliation results across all users
// that have a transaction history.
type ReconciliationSummary struct {
	UsersChecked      int                    `json:"usersChecked"`
	UsersConsistent   int                    `json:"usersConsistent"`
	UsersInconsistent int                    `json:"usersInconsistent"`
	Results           []ReconciliationResult `json:"results"`
}
