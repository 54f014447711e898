package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"fx-payment-processor/internal/core/domain"
	portsrepo "fx-payment-processor/internal/core/ports/repositories"

	"github.com/shopspring/decimal"
)

// TransactionLogRepository persists the sequential transaction log in
// PostgreSQL. Rows are only ever inserted; the table carries the same
// append-only shape the in-memory ledger has, so replaying it rebuilds the
// wallet store exactly.
type TransactionLogRepository struct {
	pool Pool
}

// Ensure TransactionLogRepository implements the TransactionLog port
var _ portsrepo.TransactionLog = (*TransactionLogRepository)(nil)

// NewTransactionLogRepository creates a new TransactionLogRepository.
func NewTransactionLogRepository(pool Pool) *TransactionLogRepository {
	return &TransactionLogRepository{pool: pool}
}

// SaveTransaction durably records one committed transaction.
func (r *TransactionLogRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	balanceAfter, err := json.Marshal(txn.BalanceAfter)
	if err != nil {
		return fmt.Errorf("marshal balance snapshot: %w", err)
	}

	query := `INSERT INTO wallet_transactions
		(transaction_id, user_id, type, currency_code, amount, to_currency_code, to_amount, exchange_rate, description, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.pool.Exec(ctx, query,
		txn.TransactionID,
		txn.UserID,
		string(txn.Type),
		txn.CurrencyCode,
		txn.Amount,
		txn.ToCurrencyCode,
		txn.ToAmount,
		txn.ExchangeRate,
		txn.Description,
		balanceAfter,
		txn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert wallet transaction %d: %w", txn.TransactionID, err)
	}
	return nil
}

// LoadTransactions returns every persisted transaction ordered by
// identifier, for rebuilding in-memory state at startup.
func (r *TransactionLogRepository) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT transaction_id, user_id, type, currency_code, amount, to_currency_code, to_amount, exchange_rate, description, balance_after, created_at
		FROM wallet_transactions
		ORDER BY transaction_id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query wallet transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var (
			txn          domain.Transaction
			txnType      string
			balanceAfter []byte
		)
		err := rows.Scan(
			&txn.TransactionID,
			&txn.UserID,
			&txnType,
			&txn.CurrencyCode,
			&txn.Amount,
			&txn.ToCurrencyCode,
			&txn.ToAmount,
			&txn.ExchangeRate,
			&txn.Description,
			&balanceAfter,
			&txn.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		txn.Type = domain.TransactionType(txnType)
		if len(balanceAfter) > 0 {
			txn.BalanceAfter = make(map[string]decimal.Decimal)
			if err := json.Unmarshal(balanceAfter, &txn.BalanceAfter); err != nil {
				return nil, fmt.Errorf("unmarshal balance snapshot for transaction %d: %w", txn.TransactionID, err)
			}
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet transactions: %w", err)
	}
	return txns, nil
}
