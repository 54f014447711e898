package memory_test

import (
	"context"
	"sync"
	"testing"

	"fx-payment-processor/internal/adapters/database/memory"
	"fx-payment-processor/internal/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallet_GetBalanceDefaultsToZero(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewWalletRepository()

	balance, err := repo.GetBalance(ctx, "nobody", "USD")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	balances, err := repo.GetBalances(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestWallet_CreditCreatesWallet(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewWalletRepository()

	newBalance, err := repo.Credit(ctx, "alice", "USD", decimal.RequireFromString("25.50"))
	require.NoError(t, err)
	assert.True(t, newBalance.Equal(decimal.RequireFromString("25.50")))

	wallet, err := repo.GetWallet(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", wallet.UserID)
	assert.True(t, wallet.Balances["USD"].Equal(decimal.RequireFromString("25.50")))
}

func TestWallet_CreditRejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewWalletRepository()

	_, err := repo.Credit(ctx, "alice", "USD", decimal.Zero)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = repo.Credit(ctx, "alice", "USD", decimal.RequireFromString("-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestWallet_DebitInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewWalletRepository()

	_, err := repo.Credit(ctx, "alice", "USD", decimal.RequireFromString("10.00"))
	require.NoError(t, err)

	_, err = repo.Debit(ctx, "alice", "USD", decimal.RequireFromString("10.01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	balance, err := repo.GetBalance(ctx, "alice", "USD")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("10.00")))
}

func TestWallet_DebitToZeroKeepsCurrency(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewWalletRepository()

	_, err := repo.Credit(ctx, "alice", "USD", decimal.RequireFromString("10.00"))
	require.NoError(t, err)

	newBalance, err := repo.Debit(ctx, "alice", "USD", decimal.RequireFromString("10.00"))
	require.NoError(t, err)
	assert.True(t, newBalance.IsZero())

	balances, err := repo.GetBalances(ctx, "alice")
	require.NoError(t, err)
	zero, ok := balances["USD"]
	assert.True(t, ok)
	assert.True(t, zero.IsZero())
}

func TestWallet_GetWalletNotFound(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewWalletRepository()

	wallet, err := repo.GetWallet(ctx, "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, wallet)
}

func TestWallet_GetBalancesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewWalletRepository()

	_, err := repo.Credit(ctx, "alice", "USD", decimal.RequireFromString("10.00"))
	require.NoError(t, err)

	balances, err := repo.GetBalances(ctx, "alice")
	require.NoError(t, err)
	balances["USD"] = decimal.RequireFromString("999.00")

	balance, err := repo.GetBalance(ctx, "alice", "USD")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("10.00")))
}

func TestWallet_SeededFromBalances(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewWalletRepositoryFromBalances(map[string]map[string]decimal.Decimal{
		"alice": {
			"USD": decimal.RequireFromString("50.00"),
			"MXN": decimal.RequireFromString("850.00"),
		},
	})

	balances, err := repo.GetBalances(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, balances["USD"].Equal(decimal.RequireFromString("50.00")))
	assert.True(t, balances["MXN"].Equal(decimal.RequireFromString("850.00")))
}

func TestWallet_ConcurrentCredits(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewWalletRepository()
	amount := decimal.RequireFromString("1.00")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Credit(ctx, "alice", "USD", amount)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := repo.GetBalance(ctx, "alice", "USD")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("50.00")))
}
