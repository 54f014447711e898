package repositories

import (
	"context"

	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

// WalletReader defines read operations against the wallet store.
type WalletReader interface {
	// GetBalance returns the balance for a user/currency pair. Unknown users
	// or currencies yield zero; reading never creates a wallet.
	GetBalance(ctx context.Context, userID string, currencyCode string) (decimal.Decimal, error)

	// GetBalances returns a copy of all per-currency balances for a user.
	// An unknown user yields an empty map.
	GetBalances(ctx context.Context, userID string) (map[string]decimal.Decimal, error)

	// GetWallet returns the wallet for a user, or apperrors.ErrNotFound if
	// the user has never been funded.
	GetWallet(ctx context.Context, userID string) (*domain.Wallet, error)
}

// WalletWriter defines the balance mutations the wallet store supports.
// Balances are never allowed to go negative.
type WalletWriter interface {
	// Credit increases a balance by a strictly positive amount, creating the
	// wallet if absent, and returns the new balance.
	Credit(ctx context.Context, userID string, currencyCode string, amount decimal.Decimal) (decimal.Decimal, error)

	// Debit decreases a balance by a strictly positive amount no larger than
	// the current balance, and returns the new balance. It fails with
	// apperrors.ErrInsufficientFunds otherwise.
	Debit(ctx context.Context, userID string, currencyCode string, amount decimal.Decimal) (decimal.Decimal, error)
}

// WalletRepositoryFacade combines all wallet store operations.
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
}
