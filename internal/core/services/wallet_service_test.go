package services_test

import (
	"context"
	"errors"
	"testing"

	"fx-payment-processor/internal/adapters/database/memory"
	"fx-payment-processor/internal/apperrors"
	"fx-payment-processor/internal/core/domain"
	portssvc "fx-payment-processor/internal/core/ports/services"
	"fx-payment-processor/internal/core/services"
	"fx-payment-processor/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var errLogDown = errors.New("log unavailable")

// --- Mock TransactionLog ---
type MockTransactionLog struct {
	mock.Mock
}

func (m *MockTransactionLog) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionLog) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func testCurrencies() *domain.CurrencyRegistry {
	return domain.NewCurrencyRegistry([]domain.Currency{
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2},
		{CurrencyCode: "MXN", Symbol: "$", Name: "Mexican Peso", Precision: 2},
	})
}

func testRates() []domain.ExchangeRate {
	return []domain.ExchangeRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "MXN", Rate: decimal.RequireFromString("17.00")},
		{FromCurrencyCode: "MXN", ToCurrencyCode: "USD", Rate: decimal.RequireFromString("0.0588")},
	}
}

// --- Test Suite ---
type WalletServiceTestSuite struct {
	suite.Suite
	walletRepo *memory.WalletRepository
	ledgerRepo *memory.LedgerRepository
	service    portssvc.WalletSvcFacade
	reconciler portssvc.ReconciliationSvcFacade
}

func (suite *WalletServiceTestSuite) SetupTest() {
	suite.walletRepo = memory.NewWalletRepository()
	suite.ledgerRepo = memory.NewLedgerRepository()

	currencies := testCurrencies()
	rateSvc, err := services.NewRateService(currencies, testRates())
	suite.Require().NoError(err)

	locks := services.NewUserLockManager()
	suite.service = services.NewWalletService(suite.walletRepo, suite.ledgerRepo, rateSvc, currencies, locks, nil, nil)
	suite.reconciler = services.NewReconciliationService(suite.walletRepo, suite.ledgerRepo, locks, nil)
}

// newServiceWithLog rebuilds the engine with a durable log attached.
func (suite *WalletServiceTestSuite) newServiceWithLog(txLog *MockTransactionLog) portssvc.WalletSvcFacade {
	currencies := testCurrencies()
	rateSvc, err := services.NewRateService(currencies, testRates())
	suite.Require().NoError(err)
	return services.NewWalletService(suite.walletRepo, suite.ledgerRepo, rateSvc, currencies, services.NewUserLockManager(), txLog, nil)
}

// --- Test Cases ---

func (suite *WalletServiceTestSuite) TestFund_Success() {
	ctx := context.Background()

	txn, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("100.00")})

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(int64(1), txn.TransactionID)
	suite.Equal(domain.Fund, txn.Type)
	suite.Equal("USD", txn.CurrencyCode)
	suite.True(txn.BalanceAfter["USD"].Equal(decimal.RequireFromString("100.00")))

	balance, err := suite.service.GetBalance(ctx, "alice", "USD")
	suite.Require().NoError(err)
	suite.True(balance.Amount.Equal(decimal.RequireFromString("100.00")))
}

func (suite *WalletServiceTestSuite) TestFund_UnsupportedCurrency() {
	ctx := context.Background()

	txn, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "EUR", Amount: decimal.RequireFromString("10.00")})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrency)
	suite.Nil(txn)

	history, err := suite.service.ListTransactions(ctx, "alice")
	suite.Require().NoError(err)
	suite.Empty(history)
}

func (suite *WalletServiceTestSuite) TestFund_InvalidAmount() {
	ctx := context.Background()

	cases := []string{"0", "-5.00", "1.005"}
	for _, raw := range cases {
		txn, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString(raw)})
		suite.Require().Error(err, "amount %s should be rejected", raw)
		suite.ErrorIs(err, apperrors.ErrInvalidAmount)
		suite.Nil(txn)
	}

	history, err := suite.service.ListTransactions(ctx, "alice")
	suite.Require().NoError(err)
	suite.Empty(history)
}

func (suite *WalletServiceTestSuite) TestWithdraw_InsufficientFunds() {
	ctx := context.Background()
	_, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("50.00")})
	suite.Require().NoError(err)

	txn, err := suite.service.Withdraw(ctx, "alice", dto.WithdrawRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("60.00")})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Nil(txn)

	// The failed withdrawal must leave no trace: balance unchanged, no entry.
	balance, err := suite.service.GetBalance(ctx, "alice", "USD")
	suite.Require().NoError(err)
	suite.True(balance.Amount.Equal(decimal.RequireFromString("50.00")))

	history, err := suite.service.ListTransactions(ctx, "alice")
	suite.Require().NoError(err)
	suite.Len(history, 1)
}

func (suite *WalletServiceTestSuite) TestWithdraw_ExactBalance() {
	ctx := context.Background()
	_, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("50.00")})
	suite.Require().NoError(err)

	txn, err := suite.service.Withdraw(ctx, "alice", dto.WithdrawRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("50.00")})

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.True(txn.BalanceAfter["USD"].IsZero())

	// A zero balance stays visible rather than disappearing from the wallet.
	balances, err := suite.service.GetBalances(ctx, "alice")
	suite.Require().NoError(err)
	zero, ok := balances["USD"]
	suite.True(ok)
	suite.True(zero.IsZero())
}

func (suite *WalletServiceTestSuite) TestConvert_Success() {
	ctx := context.Background()
	_, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("100.00")})
	suite.Require().NoError(err)

	txn, err := suite.service.Convert(ctx, "alice", dto.ConvertRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "MXN",
		Amount:           decimal.RequireFromString("50.00"),
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(int64(2), txn.TransactionID)
	suite.Equal(domain.Convert, txn.Type)
	suite.Require().NotNil(txn.ToCurrencyCode)
	suite.Equal("MXN", *txn.ToCurrencyCode)
	suite.Require().NotNil(txn.ToAmount)
	suite.True(txn.ToAmount.Equal(decimal.RequireFromString("850.00")))
	suite.Require().NotNil(txn.ExchangeRate)
	suite.True(txn.ExchangeRate.Equal(decimal.RequireFromString("17.00")))

	balances, err := suite.service.GetBalances(ctx, "alice")
	suite.Require().NoError(err)
	suite.True(balances["USD"].Equal(decimal.RequireFromString("50.00")))
	suite.True(balances["MXN"].Equal(decimal.RequireFromString("850.00")))
}

func (suite *WalletServiceTestSuite) TestConvert_SameCurrency() {
	ctx := context.Background()
	_, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("100.00")})
	suite.Require().NoError(err)

	txn, err := suite.service.Convert(ctx, "alice", dto.ConvertRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "USD",
		Amount:           decimal.RequireFromString("10.00"),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidConversion)
	suite.Nil(txn)
}

func (suite *WalletServiceTestSuite) TestConvert_InsufficientFunds() {
	ctx := context.Background()
	_, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("10.00")})
	suite.Require().NoError(err)

	txn, err := suite.service.Convert(ctx, "alice", dto.ConvertRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "MXN",
		Amount:           decimal.RequireFromString("10.01"),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Nil(txn)

	balances, err := suite.service.GetBalances(ctx, "alice")
	suite.Require().NoError(err)
	suite.True(balances["USD"].Equal(decimal.RequireFromString("10.00")))
	_, hasMXN := balances["MXN"]
	suite.False(hasMXN)
}

func (suite *WalletServiceTestSuite) TestConvert_TinyAmountRejected() {
	ctx := context.Background()
	_, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "MXN", Amount: decimal.RequireFromString("1.00")})
	suite.Require().NoError(err)

	// 0.01 MXN * 0.0588 rounds to 0.00 USD, which would credit nothing.
	txn, err := suite.service.Convert(ctx, "alice", dto.ConvertRequest{
		FromCurrencyCode: "MXN",
		ToCurrencyCode:   "USD",
		Amount:           decimal.RequireFromString("0.01"),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.Nil(txn)

	balances, err := suite.service.GetBalances(ctx, "alice")
	suite.Require().NoError(err)
	suite.True(balances["MXN"].Equal(decimal.RequireFromString("1.00")))
}

func (suite *WalletServiceTestSuite) TestConvert_UnsupportedPair() {
	currencies := domain.NewCurrencyRegistry([]domain.Currency{
		{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2},
		{CurrencyCode: "MXN", Symbol: "$", Name: "Mexican Peso", Precision: 2},
	})
	rateSvc, err := services.NewRateService(currencies, []domain.ExchangeRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "MXN", Rate: decimal.RequireFromString("17.00")},
	})
	suite.Require().NoError(err)
	service := services.NewWalletService(suite.walletRepo, suite.ledgerRepo, rateSvc, currencies, services.NewUserLockManager(), nil, nil)

	ctx := context.Background()
	_, err = service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "MXN", Amount: decimal.RequireFromString("100.00")})
	suite.Require().NoError(err)

	// Only USD->MXN is configured; the reverse direction is not derived.
	txn, err := service.Convert(ctx, "alice", dto.ConvertRequest{
		FromCurrencyCode: "MXN",
		ToCurrencyCode:   "USD",
		Amount:           decimal.RequireFromString("100.00"),
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnsupportedCurrencyPair)
	suite.Nil(txn)
}

func (suite *WalletServiceTestSuite) TestFund_PersistenceFailure() {
	ctx := context.Background()
	txLog := new(MockTransactionLog)
	service := suite.newServiceWithLog(txLog)

	txLog.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(errLogDown).Once()

	txn, err := service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("100.00")})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrPersistenceFailure)
	suite.Nil(txn)

	// The durable write happens before any in-memory mutation, so a failure
	// leaves both the wallet and the ledger untouched.
	balance, err := service.GetBalance(ctx, "alice", "USD")
	suite.Require().NoError(err)
	suite.True(balance.Amount.IsZero())

	history, err := service.ListTransactions(ctx, "alice")
	suite.Require().NoError(err)
	suite.Empty(history)

	// The reserved id is burned; the next commit gets a later one.
	txLog.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	txn, err = service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("100.00")})
	suite.Require().NoError(err)
	suite.Equal(int64(2), txn.TransactionID)

	txLog.AssertExpectations(suite.T())
}

func (suite *WalletServiceTestSuite) TestFullFlow_FundConvertWithdrawReconcile() {
	ctx := context.Background()

	_, err := suite.service.Fund(ctx, "alice", dto.FundRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("100.00")})
	suite.Require().NoError(err)

	_, err = suite.service.Convert(ctx, "alice", dto.ConvertRequest{
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "MXN",
		Amount:           decimal.RequireFromString("50.00"),
	})
	suite.Require().NoError(err)

	_, err = suite.service.Withdraw(ctx, "alice", dto.WithdrawRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("60.00")})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	txn, err := suite.service.Withdraw(ctx, "alice", dto.WithdrawRequest{CurrencyCode: "USD", Amount: decimal.RequireFromString("50.00")})
	suite.Require().NoError(err)
	suite.Equal(int64(3), txn.TransactionID)

	history, err := suite.service.ListTransactions(ctx, "alice")
	suite.Require().NoError(err)
	suite.Require().Len(history, 3)
	suite.Equal(domain.Fund, history[0].Type)
	suite.Equal(domain.Convert, history[1].Type)
	suite.Equal(domain.Withdraw, history[2].Type)
	for i := range history {
		suite.Equal(int64(i+1), history[i].TransactionID)
	}

	result, err := suite.reconciler.ReconcileUser(ctx, "alice")
	suite.Require().NoError(err)
	suite.True(result.Consistent)
	suite.Empty(result.Discrepancies)
	suite.True(result.ActualBalances["USD"].IsZero())
	suite.True(result.ActualBalances["MXN"].Equal(decimal.RequireFromString("850.00")))
}

func (suite *WalletServiceTestSuite) TestGetBalance_UnknownUser() {
	ctx := context.Background()

	balance, err := suite.service.GetBalance(ctx, "nobody", "USD")

	suite.Require().NoError(err)
	suite.True(balance.Amount.IsZero())
	suite.Equal("USD", balance.CurrencyCode)
}

func (suite *WalletServiceTestSuite) TestListTransactions_Empty() {
	ctx := context.Background()

	history, err := suite.service.ListTransactions(ctx, "nobody")

	suite.Require().NoError(err)
	suite.NotNil(history)
	suite.Empty(history)
}

func TestWalletServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}
