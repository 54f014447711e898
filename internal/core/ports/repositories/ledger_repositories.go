package repositories

import (
	"context"

	"fx-payment-processor/internal/core/domain"
)

// LedgerReader defines read operations against the transaction ledger.
// Re-querying yields the same sequence given no further commits.
type LedgerReader interface {
	// History returns a user's transactions in commit order.
	History(ctx context.Context, userID string) ([]domain.Transaction, error)

	// All returns every transaction across all users, ordered by identifier.
	All(ctx context.Context) ([]domain.Transaction, error)
}

// LedgerWriter defines the append-only write side of the ledger. There is no
// update or delete; once appended a transaction is immutable.
type LedgerWriter interface {
	// NextID reserves and returns the next transaction identifier.
	// Identifiers are strictly increasing and unique per ledger instance.
	// A reserved identifier that is never appended (because a durable write
	// failed) leaves a gap but never recurs.
	NextID(ctx context.Context) (int64, error)

	// Append records a transaction whose identifier was obtained from NextID.
	Append(ctx context.Context, txn domain.Transaction) error
}

// LedgerRepositoryFacade combines all ledger operations.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
