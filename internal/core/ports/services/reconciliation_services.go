package services

import (
	"context"

	"fx-payment-processor/internal/core/domain"
)

// ReconciliationSvcFacade verifies wallet balances against the transaction
// ledger. Reconciliation never mutates either side.
type ReconciliationSvcFacade interface {
	// ReconcileUser replays one user's history and compares the recomputed
	// balances with the live wallet store.
	ReconcileUser(ctx context.Context, userID string) (*domain.ReconciliationResult, error)

	// ReconcileAll runs ReconcileUser for every user with a transaction
	// history and aggregates pass/fail counts.
	ReconcileAll(ctx context.Context) (*domain.ReconciliationSummary, error)
}
