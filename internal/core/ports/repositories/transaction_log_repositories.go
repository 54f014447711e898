package repositories

import (
	"context"

	"fx-payment-processor/internal/core/domain"
)

// TransactionLog is the optional durable collaborator behind the in-memory
// ledger. When attached, its write is awaited before an operation is
// considered committed; a failed write surfaces as
// apperrors.ErrPersistenceFailure and the in-memory state is not touched.
// The persisted layout is the sequential transaction log itself, keyed by
// the monotonically increasing identifier, sufficient to rebuild wallet
// balances by replay.
type TransactionLog interface {
	// SaveTransaction durably records one committed transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// LoadTransactions returns every persisted transaction ordered by
	// identifier, for rebuilding in-memory state at startup.
	LoadTransactions(ctx context.Context) ([]domain.Transaction, error)
}
