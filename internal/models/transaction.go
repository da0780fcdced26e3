package models

// TransactionType represents the kind of movement recorded in the ledger
type TransactionType string

const (
	TransactionTypeDeposit         TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal      TransactionType = "WITHDRAWAL"
	TransactionTypeServiceFee      TransactionType = "SERVICE_FEE"
	TransactionTypePayout          TransactionType = "PAYOUT"
	TransactionTypeQuotePayment    TransactionType = "QUOTE_PAYMENT"
	TransactionTypeRefund          TransactionType = "REFUND"
	TransactionTypeISaveDeposit    TransactionType = "ISAVE_DEPOSIT"
	TransactionTypeISaveWithdrawal TransactionType = "ISAVE_WITHDRAWAL"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeServiceFee,
		TransactionTypePayout, TransactionTypeQuotePayment, TransactionTypeRefund,
		TransactionTypeISaveDeposit, TransactionTypeISaveWithdrawal:
		return true
	}
	return false
}

// TransactionStatus represents the settlement state of a ledger entry
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusHeld      TransactionStatus = "HELD"
)

// IsValid reports whether s is a known transaction status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusHeld:
		return true
	}
	return false
}

// Transaction is an append-only ledger entry against a wallet.
// Amount is signed from the wallet owner's perspective: negative values left
// the wallet, positive values entered it.
type Transaction struct {
	Base
	WalletID    string            `gorm:"type:uuid;not null;index" json:"wallet_id"`
	Type        TransactionType   `gorm:"size:32;not null;index" json:"type"`
	Amount      int64             `gorm:"type:bigint;not null" json:"amount"`
	Status      TransactionStatus `gorm:"size:16;not null;default:PENDING" json:"status"`
	Description string            `json:"description,omitempty"`
	QuoteID     *string           `gorm:"type:uuid" json:"quote_id,omitempty"`
	OrderID     *string           `gorm:"type:uuid" json:"order_id,omitempty"`
	SavePlanID  *string           `gorm:"type:uuid;index" json:"save_plan_id,omitempty"`
}
