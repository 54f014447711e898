package memory

import (
	portsrepo "fx-payment-processor/internal/core/ports/repositories"
)

var (
	_ portsrepo.WalletRepositoryFacade = (*WalletRepository)(nil)
	_ portsrepo.LedgerRepositoryFacade = (*LedgerRepository)(nil)
)
