package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"fx-payment-processor/internal/apperrors"
	"fx-payment-processor/internal/core/domain"
)

// LedgerRepository is the in-memory append-only transaction ledger. Entries
// are immutable once appended; there is no update or delete. Identifiers are
// reserved through NextID so a durable write can carry the id before the
// in-memory append happens.
type LedgerRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []domain.Transaction
}

// NewLedgerRepository creates an empty ledger. The first assigned
// identifier is 1.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{nextID: 1}
}

// NewLedgerRepositoryFromHistory creates a ledger pre-seeded with persisted
// transactions, used when rebuilding state from the durable log. The id
// counter resumes after the highest seen identifier.
func NewLedgerRepositoryFromHistory(txns []domain.Transaction) *LedgerRepository {
	r := NewLedgerRepository()
	r.entries = make([]domain.Transaction, len(txns))
	copy(r.entries, txns)
	sort.Slice(r.entries, func(i, j int) bool {
		return r.entries[i].TransactionID < r.entries[j].TransactionID
	})
	if n := len(r.entries); n > 0 {
		r.nextID = r.entries[n-1].TransactionID + 1
	}
	return r
}

// NextID reserves the next transaction identifier. Reserved ids are strictly
// increasing; an id burnt by a failed durable write leaves a gap but never
// recurs.
func (r *LedgerRepository) NextID(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	return id, nil
}

// Append records a transaction under an identifier previously reserved via
// NextID. Entries are kept ordered by identifier even when reservations from
// different users commit out of order.
func (r *LedgerRepository) Append(ctx context.Context, txn domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if txn.TransactionID <= 0 || txn.TransactionID >= r.nextID {
		return fmt.Errorf("%w: transaction id %d was not reserved", apperrors.ErrInternal, txn.TransactionID)
	}

	n := len(r.entries)
	if n == 0 || r.entries[n-1].TransactionID < txn.TransactionID {
		r.entries = append(r.entries, txn)
		return nil
	}

	// Out-of-order commit from a concurrent user; insert at the sorted slot.
	i := sort.Search(n, func(i int) bool { return r.entries[i].TransactionID >= txn.TransactionID })
	if i < n && r.entries[i].TransactionID == txn.TransactionID {
		return fmt.Errorf("%w: transaction id %d already appended", apperrors.ErrInternal, txn.TransactionID)
	}
	r.entries = append(r.entries, domain.Transaction{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = txn
	return nil
}

// History returns a user's transactions in commit order.
func (r *LedgerRepository) History(ctx context.Context, userID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var history []domain.Transaction
	for _, txn := range r.entries {
		if txn.UserID == userID {
			history = append(history, txn)
		}
	}
	return history, nil
}

// All returns every transaction across all users, ordered by identifier.
func (r *LedgerRepository) All(ctx context.Context) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Transaction, len(r.entries))
	copy(all, r.entries)
	return all, nil
}
