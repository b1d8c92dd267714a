package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction is an append-only ledger entry. Amount is signed and
// expressed in integer minor units; a completed transaction is
// immutable except for its description. Corrections happen through a
// new compensating entry linked via ReversalOfID, never by rewriting
// history.
type Transaction struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	Type         string         `json:"type" gorm:"not null"`
	Amount       int64          `json:"amount" gorm:"not null"`
	Status       string         `json:"status" gorm:"not null;default:'pending'"`
	ExternalRef  *string        `json:"external_ref" gorm:"uniqueIndex"`
	Description  string         `json:"description"`
	ReversalOfID *uint          `json:"reversal_of_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Transaction types
const (
	TransactionTypeRecharge        = "recharge"
	TransactionTypeCashout         = "cashout"
	TransactionTypePurchase        = "purchase"
	TransactionTypeEarning         = "earning"
	TransactionTypeAdminAdjustment = "admin_adjustment"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusCancelled = "cancelled"
)

// ValidTransactionType reports whether t is a known ledger entry type.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeRecharge, TransactionTypeCashout, TransactionTypePurchase,
		TransactionTypeEarning, TransactionTypeAdminAdjustment:
		return true
	}
	return false
}
