package dto

import (
	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

// DiscrepancyResponse reports one currency whose replayed balance disagrees
// with the live balance.
type DiscrepancyResponse struct {
	CurrencyCode    string          `json:"currencyCode"`
	ExpectedBalance decimal.Decimal `json:"expectedBalance"`
	ActualBalance   decimal.Decimal `json:"actualBalance"`
}

// ReconciliationResponse is the per-user reconciliation outcome.
type ReconciliationResponse struct {
	UserID           string                     `json:"userID"`
	Consistent       bool                       `json:"consistent"`
	ExpectedBalances map[string]decimal.Decimal `json:"expectedBalances"`
	ActualBalances   map[string]decimal.Decimal `json:"actualBalances"`
	Discrepancies    []DiscrepancyResponse      `json:"discrepancies,omitempty"`
}

// ReconciliationSummaryResponse aggregates reconciliation across all users.
type ReconciliationSummaryResponse struct {
	UsersChecked      int                      `json:"usersChecked"`
	UsersConsistent   int                      `json:"usersConsistent"`
	UsersInconsistent int                      `json:"usersInconsistent"`
	Results           []ReconciliationResponse `json:"results"`
}

// ToReconciliationResponse converts a domain result to its response DTO.
func ToReconciliationResponse(result *domain.ReconciliationResult) ReconciliationResponse {
	discrepancies := make([]DiscrepancyResponse, len(result.Discrepancies))
	for i, d := range result.Discrepancies {
		discrepancies[i] = DiscrepancyResponse{
			CurrencyCode:    d.CurrencyCode,
			ExpectedBalance: d.ExpectedBalance,
			ActualBalance:   d.ActualBalance,
		}
	}
	if len(discrepancies) == 0 {
		discrepancies = nil
	}
	return ReconciliationResponse{
		UserID:           result.UserID,
		Consistent:       result.Consistent,
		ExpectedBalances: result.ExpectedBalances,
		ActualBalances:   result.ActualBalances,
		Discrepancies:    discrepancies,
	}
}

// ToReconciliationSummaryResponse converts a domain summary to its DTO.
func ToReconciliationSummaryResponse(summary *domain.ReconciliationSummary) ReconciliationSummaryResponse {
	results := make([]ReconciliationResponse, len(summary.Results))
	for i := range summary.Results {
		results[i] = ToReconciliationResponse(&summary.Results[i])
	}
	return ReconciliationSummaryResponse{
		UsersChecked:      summary.UsersChecked,
		UsersConsistent:   summary.UsersConsistent,
		UsersInconsistent: summary.UsersInconsistent,
		Results:           results,
	}
}
