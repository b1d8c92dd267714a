package models

import (
	"time"

	"gorm.io/gorm"
)

// CashoutRequest tracks the conversion of wallet points into an
// off-platform payout. All amounts are integer minor units. The
// request is a projection over exactly one ledger transaction of type
// cashout (TransactionID); the ledger remains the financial truth.
type CashoutRequest struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `json:"user_id" gorm:"index;not null"`
	RequestedAmount int64          `json:"requested_amount" gorm:"not null"`
	FeePercent      float64        `json:"fee_percent" gorm:"not null"`
	FeeAmount       int64          `json:"fee_amount" gorm:"not null"`
	FinalAmount     int64          `json:"final_amount" gorm:"not null"`
	PaymentMethodID uint           `json:"payment_method_id"`
	ExternalRef     *string        `json:"external_ref"`
	Status          string         `json:"status" gorm:"not null;default:'pending'"`
	AdminNotes      string         `json:"admin_notes"`
	TransactionID   uint           `json:"transaction_id"`
	ProcessedAt     *time.Time     `json:"processed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Cashout statuses
const (
	CashoutStatusPending    = "pending"
	CashoutStatusProcessing = "processing"
	CashoutStatusCompleted  = "completed"
	CashoutStatusCancelled  = "cancelled"
	CashoutStatusFailed     = "failed"
)

// cashoutTransitions is the closed transition table for cashout
// requests. Cancelled and failed are terminal; completed allows only
// the compensating cancel path.
var cashoutTransitions = map[string][]string{
	CashoutStatusPending:    {CashoutStatusProcessing, CashoutStatusCompleted, CashoutStatusCancelled},
	CashoutStatusProcessing: {CashoutStatusCompleted, CashoutStatusCancelled, CashoutStatusFailed},
	CashoutStatusCompleted:  {CashoutStatusCancelled},
	CashoutStatusCancelled:  {},
	CashoutStatusFailed:     {},
}

// CanTransitionCashout reports whether a cashout request may move from
// one status to another.
func CanTransitionCashout(from, to string) bool {
	for _, s := range cashoutTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
