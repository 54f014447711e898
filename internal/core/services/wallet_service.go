package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fx-payment-processor/internal/apperrors"
	"fx-payment-processor/internal/core/domain"
	portsrepo "fx-payment-processor/internal/core/ports/repositories"
	portssvc "fx-payment-processor/internal/core/ports/services"
	"fx-payment-processor/internal/dto"
	"fx-payment-processor/internal/middleware"
	"fx-payment-processor/pkg/metrics"

	"github.com/shopspring/decimal"
)

// walletService is the ledger engine. It orchestrates fund, withdraw and
// convert as atomic operations against the wallet store and the transaction
// ledger: under the per-user lock either both are mutated or neither is.
// All validation happens before any mutation.
type walletService struct {
	walletRepo portsrepo.WalletRepositoryFacade
	ledgerRepo portsrepo.LedgerRepositoryFacade
	txLog      portsrepo.TransactionLog // optional durable collaborator, may be nil
	rateSvc    portssvc.RateSvcFacade
	currencies *domain.CurrencyRegistry
	locks      *UserLockManager
	metrics    *metrics.MetricsCollector // may be nil
}

// Ensure walletService implements the portssvc.WalletSvcFacade interface
var _ portssvc.WalletSvcFacade = (*walletService)(nil)

// NewWalletService creates the ledger engine. txLog and collector may be nil
// when durability or metrics are not attached.
func NewWalletService(
	walletRepo portsrepo.WalletRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	rateSvc portssvc.RateSvcFacade,
	currencies *domain.CurrencyRegistry,
	locks *UserLockManager,
	txLog portsrepo.TransactionLog,
	collector *metrics.MetricsCollector,
) portssvc.WalletSvcFacade {
	return &walletService{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		txLog:      txLog,
		rateSvc:    rateSvc,
		currencies: currencies,
		locks:      locks,
		metrics:    collector,
	}
}

// supportedCurrency resolves a code against the closed currency set.
func (s *walletService) supportedCurrency(code string) (domain.Currency, error) {
	currency, ok := s.currencies.Get(code)
	if !ok {
		return domain.Currency{}, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedCurrency, code)
	}
	return currency, nil
}

// validateAmount rejects non-positive amounts and amounts carrying more
// decimal places than the currency keeps.
func validateAmount(amount decimal.Decimal, currency domain.Currency) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s %s", apperrors.ErrInvalidAmount, amount, currency.CurrencyCode)
	}
	if !amount.Equal(amount.Truncate(currency.Precision)) {
		return fmt.Errorf("%w: %s has more than %d decimal places for %s",
			apperrors.ErrInvalidAmount, amount, currency.Precision, currency.CurrencyCode)
	}
	return nil
}

// persist awaits the durable write when a transaction log is attached. It is
// called before any in-memory mutation so a failure leaves no partial state.
func (s *walletService) persist(ctx context.Context, txn domain.Transaction) error {
	if s.txLog == nil {
		return nil
	}
	if err := s.txLog.SaveTransaction(ctx, txn); err != nil {
		return fmt.Errorf("%w: durable log rejected transaction %d: %v", apperrors.ErrPersistenceFailure, txn.TransactionID, err)
	}
	return nil
}

// commit applies a fully validated transaction: durable write first, then
// the wallet mutations, then the ledger append. The mutation closure cannot
// fail once validation passed; an error from it is an internal invariant
// breach, not a caller mistake.
func (s *walletService) commit(ctx context.Context, txn domain.Transaction, mutate func() error) error {
	if err := s.persist(ctx, txn); err != nil {
		return err
	}
	if err := mutate(); err != nil {
		return fmt.Errorf("%w: wallet mutation failed after validation: %v", apperrors.ErrInternal, err)
	}
	if err := s.ledgerRepo.Append(ctx, txn); err != nil {
		return fmt.Errorf("%w: ledger append failed: %v", apperrors.ErrInternal, err)
	}
	return nil
}

// Fund credits a wallet and appends a FUND transaction.
func (s *walletService) Fund(ctx context.Context, userID string, req dto.FundRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()

	currency, err := s.supportedCurrency(req.CurrencyCode)
	if err != nil {
		s.metrics.RecordFailure("fund")
		return nil, err
	}
	if err := validateAmount(req.Amount, currency); err != nil {
		s.metrics.RecordFailure("fund")
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	current, err := s.walletRepo.GetBalance(ctx, userID, currency.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance for funding: %w", err)
	}
	newBalance := current.Add(req.Amount)

	id, err := s.ledgerRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve transaction id: %w", err)
	}

	txn := domain.Transaction{
		TransactionID: id,
		UserID:        userID,
		Type:          domain.Fund,
		CurrencyCode:  currency.CurrencyCode,
		Amount:        req.Amount,
		Description:   fmt.Sprintf("Funded %s %s", req.Amount, currency.CurrencyCode),
		Timestamp:     time.Now().UTC(),
		BalanceAfter:  map[string]decimal.Decimal{currency.CurrencyCode: newBalance},
	}

	err = s.commit(ctx, txn, func() error {
		_, creditErr := s.walletRepo.Credit(ctx, userID, currency.CurrencyCode, req.Amount)
		return creditErr
	})
	if err != nil {
		s.metrics.RecordFailure("fund")
		return nil, err
	}

	logger.Info("Wallet funded",
		slog.String("user_id", userID),
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("currency", currency.CurrencyCode),
		slog.String("amount", req.Amount.String()),
	)
	s.metrics.RecordOperation("fund", time.Since(start))
	s.metrics.SetWalletBalance(userID, currency.CurrencyCode, newBalance.InexactFloat64())
	return &txn, nil
}

// Withdraw debits a wallet and appends a WITHDRAW transaction.
func (s *walletService) Withdraw(ctx context.Context, userID string, req dto.WithdrawRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()

	currency, err := s.supportedCurrency(req.CurrencyCode)
	if err != nil {
		s.metrics.RecordFailure("withdraw")
		return nil, err
	}
	if err := validateAmount(req.Amount, currency); err != nil {
		s.metrics.RecordFailure("withdraw")
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	current, err := s.walletRepo.GetBalance(ctx, userID, currency.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance for withdrawal: %w", err)
	}
	if current.LessThan(req.Amount) {
		s.metrics.RecordFailure("withdraw")
		return nil, fmt.Errorf("%w: user %s has %s %s, attempted to withdraw %s",
			apperrors.ErrInsufficientFunds, userID, current, currency.CurrencyCode, req.Amount)
	}
	newBalance := current.Sub(req.Amount)

	id, err := s.ledgerRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve transaction id: %w", err)
	}

	txn := domain.Transaction{
		TransactionID: id,
		UserID:        userID,
		Type:          domain.Withdraw,
		CurrencyCode:  currency.CurrencyCode,
		Amount:        req.Amount,
		Description:   fmt.Sprintf("Withdrew %s %s", req.Amount, currency.CurrencyCode),
		Timestamp:     time.Now().UTC(),
		BalanceAfter:  map[string]decimal.Decimal{currency.CurrencyCode: newBalance},
	}

	err = s.commit(ctx, txn, func() error {
		_, debitErr := s.walletRepo.Debit(ctx, userID, currency.CurrencyCode, req.Amount)
		return debitErr
	})
	if err != nil {
		s.metrics.RecordFailure("withdraw")
		return nil, err
	}

	logger.Info("Wallet withdrawal committed",
		slog.String("user_id", userID),
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("currency", currency.CurrencyCode),
		slog.String("amount", req.Amount.String()),
	)
	s.metrics.RecordOperation("withdraw", time.Since(start))
	s.metrics.SetWalletBalance(userID, currency.CurrencyCode, newBalance.InexactFloat64())
	return &txn, nil
}

// Convert debits the source currency, credits the destination at the fixed
// rate and appends one CONVERT transaction for both legs. Once the debit is
// validated the credit cannot fail (the converted amount is positive by
// construction), so atomicity needs no rollback path.
func (s *walletService) Convert(ctx context.Context, userID string, req dto.ConvertRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()

	if req.FromCurrencyCode == req.ToCurrencyCode {
		s.metrics.RecordFailure("convert")
		return nil, fmt.Errorf("%w: cannot convert %s to itself", apperrors.ErrInvalidConversion, req.FromCurrencyCode)
	}
	fromCurrency, err := s.supportedCurrency(req.FromCurrencyCode)
	if err != nil {
		s.metrics.RecordFailure("convert")
		return nil, err
	}
	toCurrency, err := s.supportedCurrency(req.ToCurrencyCode)
	if err != nil {
		s.metrics.RecordFailure("convert")
		return nil, err
	}
	if err := validateAmount(req.Amount, fromCurrency); err != nil {
		s.metrics.RecordFailure("convert")
		return nil, err
	}

	rate, err := s.rateSvc.RateFor(fromCurrency.CurrencyCode, toCurrency.CurrencyCode)
	if err != nil {
		s.metrics.RecordFailure("convert")
		return nil, err
	}

	// Half-even rounding at the destination currency's precision.
	converted := toCurrency.Round(req.Amount.Mul(rate))
	if converted.IsZero() {
		// Crediting zero would break the positive-credit invariant, so the
		// request is rejected before any mutation.
		s.metrics.RecordFailure("convert")
		return nil, fmt.Errorf("%w: %s %s converts to zero %s at rate %s",
			apperrors.ErrInvalidAmount, req.Amount, fromCurrency.CurrencyCode, toCurrency.CurrencyCode, rate)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	fromBalance, err := s.walletRepo.GetBalance(ctx, userID, fromCurrency.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to read source balance for conversion: %w", err)
	}
	if fromBalance.LessThan(req.Amount) {
		s.metrics.RecordFailure("convert")
		return nil, fmt.Errorf("%w: user %s has %s %s, attempted to convert %s",
			apperrors.ErrInsufficientFunds, userID, fromBalance, fromCurrency.CurrencyCode, req.Amount)
	}
	toBalance, err := s.walletRepo.GetBalance(ctx, userID, toCurrency.CurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to read destination balance for conversion: %w", err)
	}

	newFromBalance := fromBalance.Sub(req.Amount)
	newToBalance := toBalance.Add(converted)

	id, err := s.ledgerRepo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve transaction id: %w", err)
	}

	toCode := toCurrency.CurrencyCode
	txn := domain.Transaction{
		TransactionID:  id,
		UserID:         userID,
		Type:           domain.Convert,
		CurrencyCode:   fromCurrency.CurrencyCode,
		Amount:         req.Amount,
		ToCurrencyCode: &toCode,
		ToAmount:       &converted,
		ExchangeRate:   &rate,
		Description:    fmt.Sprintf("Converted %s %s to %s %s", req.Amount, fromCurrency.CurrencyCode, converted, toCode),
		Timestamp:      time.Now().UTC(),
		BalanceAfter: map[string]decimal.Decimal{
			fromCurrency.CurrencyCode: newFromBalance,
			toCode:                    newToBalance,
		},
	}

	err = s.commit(ctx, txn, func() error {
		if _, debitErr := s.walletRepo.Debit(ctx, userID, fromCurrency.CurrencyCode, req.Amount); debitErr != nil {
			return debitErr
		}
		_, creditErr := s.walletRepo.Credit(ctx, userID, toCode, converted)
		return creditErr
	})
	if err != nil {
		s.metrics.RecordFailure("convert")
		return nil, err
	}

	logger.Info("Currency converted",
		slog.String("user_id", userID),
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("from", fromCurrency.CurrencyCode),
		slog.String("to", toCode),
		slog.String("amount", req.Amount.String()),
		slog.String("converted_amount", converted.String()),
		slog.String("rate", rate.String()),
	)
	s.metrics.RecordOperation("convert", time.Since(start))
	s.metrics.SetWalletBalance(userID, fromCurrency.CurrencyCode, newFromBalance.InexactFloat64())
	s.metrics.SetWalletBalance(userID, toCode, newToBalance.InexactFloat64())
	return &txn, nil
}

// GetBalance returns the balance for a user/currency pair. Unknown users and
// currencies read as zero; reading never creates a wallet.
func (s *walletService) GetBalance(ctx context.Context, userID string, currencyCode string) (domain.Money, error) {
	balance, err := s.walletRepo.GetBalance(ctx, userID, currencyCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to get balance: %w", err)
	}
	return domain.NewMoney(balance, currencyCode), nil
}

// GetBalances returns all per-currency balances for a user.
func (s *walletService) GetBalances(ctx context.Context, userID string) (map[string]decimal.Decimal, error) {
	balances, err := s.walletRepo.GetBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	return balances, nil
}

// ListTransactions returns a user's transaction history in commit order.
func (s *walletService) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	history, err := s.ledgerRepo.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if history == nil {
		return []domain.Transaction{}, nil
	}
	return history, nil
}
