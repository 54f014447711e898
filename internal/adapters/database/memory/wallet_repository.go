package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fx-payment-processor/internal/apperrors"
	"fx-payment-processor/internal/core/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository is the in-memory authority for wallet balances. State is
// owned by the instance; there are no package-level singletons. Wallets are
// created lazily on the first credit and only ever zeroed, never removed.
type WalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet
}

// NewWalletRepository creates an empty wallet store.
func NewWalletRepository() *WalletRepository {
	return &WalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// NewWalletRepositoryFromBalances creates a wallet store pre-seeded with the
// given balances, used when rebuilding state from the durable transaction log.
func NewWalletRepositoryFromBalances(balances map[string]map[string]decimal.Decimal) *WalletRepository {
	r := NewWalletRepository()
	now := time.Now().UTC()
	for userID, userBalances := range balances {
		wallet := &domain.Wallet{
			UserID:        userID,
			Balances:      make(map[string]decimal.Decimal, len(userBalances)),
			CreatedAt:     now,
			LastUpdatedAt: now,
		}
		for code, balance := range userBalances {
			wallet.Balances[code] = balance
		}
		r.wallets[userID] = wallet
	}
	return r
}

// GetBalance returns the balance for a user/currency pair, defaulting to
// zero. Reading never creates a wallet.
func (r *WalletRepository) GetBalance(ctx context.Context, userID string, currencyCode string) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallet, exists := r.wallets[userID]
	if !exists {
		return decimal.Zero, nil
	}
	balance, exists := wallet.Balances[currencyCode]
	if !exists {
		return decimal.Zero, nil
	}
	return balance, nil
}

// GetBalances returns a copy of all balances for a user. Unknown users yield
// an empty map.
func (r *WalletRepository) GetBalances(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	balances := make(map[string]decimal.Decimal)
	wallet, exists := r.wallets[userID]
	if !exists {
		return balances, nil
	}
	for code, balance := range wallet.Balances {
		balances[code] = balance
	}
	return balances, nil
}

// GetWallet returns a copy of the user's wallet.
func (r *WalletRepository) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallet, exists := r.wallets[userID]
	if !exists {
		return nil, fmt.Errorf("%w: wallet for user %s", apperrors.ErrNotFound, userID)
	}
	copied := &domain.Wallet{
		UserID:        wallet.UserID,
		Balances:      make(map[string]decimal.Decimal, len(wallet.Balances)),
		CreatedAt:     wallet.CreatedAt,
		LastUpdatedAt: wallet.LastUpdatedAt,
	}
	for code, balance := range wallet.Balances {
		copied.Balances[code] = balance
	}
	return copied, nil
}

// Credit increases a balance by a strictly positive amount, creating the
// wallet if absent, and returns the new balance.
func (r *WalletRepository) Credit(ctx context.Context, userID string, currencyCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: credit amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	wallet, exists := r.wallets[userID]
	if !exists {
		wallet = &domain.Wallet{
			UserID:    userID,
			Balances:  make(map[string]decimal.Decimal),
			CreatedAt: now,
		}
		r.wallets[userID] = wallet
	}

	newBalance := wallet.Balances[currencyCode].Add(amount)
	wallet.Balances[currencyCode] = newBalance
	wallet.LastUpdatedAt = now
	return newBalance, nil
}

// Debit decreases a balance by a strictly positive amount and returns the
// new balance. The balance never goes negative; a debit beyond the current
// balance fails with apperrors.ErrInsufficientFunds.
func (r *WalletRepository) Debit(ctx context.Context, userID string, currencyCode string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: debit amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, exists := r.wallets[userID]
	current := decimal.Zero
	if exists {
		current = wallet.Balances[currencyCode]
	}
	if current.LessThan(amount) {
		return decimal.Zero, fmt.Errorf("%w: user %s has %s %s, attempted to debit %s",
			apperrors.ErrInsufficientFunds, userID, current, currencyCode, amount)
	}

	newBalance := current.Sub(amount)
	wallet.Balances[currencyCode] = newBalance
	wallet.LastUpdatedAt = time.Now().UTC()
	return newBalance, nil
}
