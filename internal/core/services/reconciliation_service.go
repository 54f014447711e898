package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"fx-payment-processor/internal/core/domain"
	portsrepo "fx-payment-processor/internal/core/ports/repositories"
	portssvc "fx-payment-processor/internal/core/ports/services"
	"fx-payment-processor/internal/middleware"
	"fx-payment-processor/pkg/metrics"

	"github.com/shopspring/decimal"
)

// reconciliationService independently recomputes balances from the ledger
// and compares them with the wallet store. It never mutates either side.
type reconciliationService struct {
	walletRepo portsrepo.WalletReader
	ledgerRepo portsrepo.LedgerReader
	locks      *UserLockManager
	metrics    *metrics.MetricsCollector // may be nil
}

// Ensure reconciliationService implements the facade interface
var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// NewReconciliationService creates a reconciler sharing the engine's
// per-user locks so it observes a consistent (ledger, store) snapshot.
func NewReconciliationService(
	walletRepo portsrepo.WalletReader,
	ledgerRepo portsrepo.LedgerReader,
	locks *UserLockManager,
	collector *metrics.MetricsCollector,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		locks:      locks,
		metrics:    collector,
	}
}

// ReplayBalances folds a transaction sequence into per-currency balances:
// FUND adds, WITHDRAW subtracts, CONVERT subtracts the source leg and adds
// the recorded destination leg. The fold is pure; it depends only on the
// transactions, not on how the wallet store keeps balances.
func ReplayBalances(txns []domain.Transaction) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, txn := range txns {
		switch txn.Type {
		case domain.Fund:
			balances[txn.CurrencyCode] = balances[txn.CurrencyCode].Add(txn.Amount)
		case domain.Withdraw:
			balances[txn.CurrencyCode] = balances[txn.CurrencyCode].Sub(txn.Amount)
		case domain.Convert:
			balances[txn.CurrencyCode] = balances[txn.CurrencyCode].Sub(txn.Amount)
			if txn.ToCurrencyCode != nil && txn.ToAmount != nil {
				balances[*txn.ToCurrencyCode] = balances[*txn.ToCurrencyCode].Add(*txn.ToAmount)
			}
		}
	}
	return balances
}

// ReplayBalancesByUser groups a transaction sequence by user and replays
// each user's history, yielding the full balance state the log implies.
// Used to rebuild the in-memory store from the durable log at startup.
func ReplayBalancesByUser(txns []domain.Transaction) map[string]map[string]decimal.Decimal {
	byUser := make(map[string][]domain.Transaction)
	for _, txn := range txns {
		byUser[txn.UserID] = append(byUser[txn.UserID], txn)
	}
	balances := make(map[string]map[string]decimal.Decimal, len(byUser))
	for userID, history := range byUser {
		balances[userID] = ReplayBalances(history)
	}
	return balances
}

// ReconcileUser replays one user's history and compares the result with the
// live wallet balances. Consistency requires exact equality per currency;
// fixed-point arithmetic leaves no tolerance to allow.
func (s *reconciliationService) ReconcileUser(ctx context.Context, userID string) (*domain.ReconciliationResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Hold the user's lock only for the paired read; the fold below works on
	// copies.
	unlock := s.locks.Lock(userID)
	history, historyErr := s.ledgerRepo.History(ctx, userID)
	actual, balancesErr := s.walletRepo.GetBalances(ctx, userID)
	unlock()

	if historyErr != nil {
		return nil, fmt.Errorf("failed to read history for reconciliation: %w", historyErr)
	}
	if balancesErr != nil {
		return nil, fmt.Errorf("failed to read balances for reconciliation: %w", balancesErr)
	}

	expected := ReplayBalances(history)

	// Compare over the union of currencies; absent means zero on both sides.
	codes := make(map[string]struct{}, len(expected)+len(actual))
	for code := range expected {
		codes[code] = struct{}{}
	}
	for code := range actual {
		codes[code] = struct{}{}
	}
	ordered := make([]string, 0, len(codes))
	for code := range codes {
		ordered = append(ordered, code)
	}
	sort.Strings(ordered)

	var discrepancies []domain.Discrepancy
	for _, code := range ordered {
		expectedBalance := expected[code]
		actualBalance := actual[code]
		if !expectedBalance.Equal(actualBalance) {
			discrepancies = append(discrepancies, domain.Discrepancy{
				CurrencyCode:    code,
				ExpectedBalance: expectedBalance,
				ActualBalance:   actualBalance,
			})
		}
	}

	result := &domain.ReconciliationResult{
		UserID:           userID,
		Consistent:       len(discrepancies) == 0,
		ExpectedBalances: expected,
		ActualBalances:   actual,
		Discrepancies:    discrepancies,
	}

	s.metrics.RecordReconciliation(result.Consistent)
	if result.Consistent {
		logger.Debug("Reconciliation passed", slog.String("user_id", userID), slog.Int("transactions", len(history)))
	} else {
		logger.Warn("Reconciliation found discrepancies",
			slog.String("user_id", userID),
			slog.Int("discrepancies", len(discrepancies)),
		)
	}
	return result, nil
}

// ReconcileAll reconciles every user with a transaction history and
// aggregates pass/fail counts.
func (s *reconciliationService) ReconcileAll(ctx context.Context) (*domain.ReconciliationSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	all, err := s.ledgerRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger for reconciliation: %w", err)
	}

	seen := make(map[string]struct{})
	users := make([]string, 0)
	for _, txn := range all {
		if _, ok := seen[txn.UserID]; !ok {
			seen[txn.UserID] = struct{}{}
			users = append(users, txn.UserID)
		}
	}
	sort.Strings(users)

	summary := &domain.ReconciliationSummary{
		Results: make([]domain.ReconciliationResult, 0, len(users)),
	}
	for _, userID := range users {
		result, err := s.ReconcileUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile user %s: %w", userID, err)
		}
		summary.UsersChecked++
		if result.Consistent {
			summary.UsersConsistent++
		} else {
			summary.UsersInconsistent++
		}
		summary.Results = append(summary.Results, *result)
	}

	logger.Info("Reconciliation sweep completed",
		slog.Int("users_checked", summary.UsersChecked),
		slog.Int("users_inconsistent", summary.UsersInconsistent),
	)
	return summary, nil
}
