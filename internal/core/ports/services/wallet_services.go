package services

import (
	"context"

	"fx-payment-processor/internal/core/domain"
	"fx-payment-processor/internal/dto"

	"github.com/shopspring/decimal"
)

// WalletReaderSvc defines read operations on wallets.
type WalletReaderSvc interface {
	// GetBalance returns the balance for a user/currency pair. Reading never
	// creates a wallet; unknown users and currencies read as zero.
	GetBalance(ctx context.Context, userID string, currencyCode string) (domain.Money, error)

	// GetBalances returns all per-currency balances for a user.
	GetBalances(ctx context.Context, userID string) (map[string]decimal.Decimal, error)

	// ListTransactions returns a user's transaction history in commit order.
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// WalletWriterSvc defines the three mutating wallet operations. Each is
// atomic with respect to the wallet store and the transaction ledger: both
// mutate or neither does.
type WalletWriterSvc interface {
	// Fund credits a wallet and appends a FUND transaction.
	Fund(ctx context.Context, userID string, req dto.FundRequest) (*domain.Transaction, error)

	// Withdraw debits a wallet and appends a WITHDRAW transaction.
	Withdraw(ctx context.Context, userID string, req dto.WithdrawRequest) (*domain.Transaction, error)

	// Convert debits the source currency, credits the destination at the
	// fixed rate and appends a single CONVERT transaction for both legs.
	Convert(ctx context.Context, userID string, req dto.ConvertRequest) (*domain.Transaction, error)
}

// WalletSvcFacade combines all wallet service operations.
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
}
