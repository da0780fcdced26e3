package models

// DefaultCurrency is the currency assigned to wallets created at registration.
const DefaultCurrency = "NGN"

// Wallet holds a user's spendable balance in minor currency units.
// Each user owns exactly one wallet.
type Wallet struct {
	Base
	UserID           string        `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	AvailableBalance int64         `gorm:"type:bigint;not null;default:0" json:"available_balance"`
	Currency         string        `gorm:"size:3;not null;default:NGN" json:"currency"`
	Transactions     []Transaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}
