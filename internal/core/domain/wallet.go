package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds the per-currency balances for a single user. Currencies absent
// from the map are implicitly zero. Wallets are created lazily on the first
// funding operation and never deleted, only zeroed.
type Wallet struct {
	UserID        string                     `json:"userID"`
	Balances      map[string]decimal.Decimal `json:"balances"`
	CreatedAt     time.Time                  `json:"createdAt"`
	LastUpdatedAt time.Time                  `json:"lastUpdatedAt"`
}
