package services

import (
	"fx-payment-processor/internal/core/domain"
	portsrepo "fx-payment-processor/internal/core/ports/repositories"
	portssvc "fx-payment-processor/internal/core/ports/services"
	"fx-payment-processor/pkg/metrics"
)

// NewServiceContainer wires the application services together. The rate
// table is validated here, so a contradictory configuration prevents the
// container (and the process) from starting. txLog and collector may be nil.
func NewServiceContainer(
	walletRepo portsrepo.WalletRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	txLog portsrepo.TransactionLog,
	currencies *domain.CurrencyRegistry,
	rates []domain.ExchangeRate,
	collector *metrics.MetricsCollector,
) (*portssvc.ServiceContainer, error) {
	rateSvc, err := NewRateService(currencies, rates)
	if err != nil {
		return nil, err
	}

	// One lock manager shared by the engine and the reconciler, so
	// reconciliation reads cannot race a concurrent mutation.
	locks := NewUserLockManager()

	container := &portssvc.ServiceContainer{}
	container.Rate = rateSvc
	container.Wallet = NewWalletService(walletRepo, ledgerRepo, rateSvc, currencies, locks, txLog, collector)
	container.Reconciliation = NewReconciliationService(walletRepo, ledgerRepo, locks, collector)
	return container, nil
}
