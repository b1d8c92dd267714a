package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet holds a user's point balance in integer minor units
// (1 point = 100 minor units). The balance is mutated only by the
// ledger service and can never go below zero.
type Wallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"uniqueIndex"`
	Balance   int64          `json:"balance" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
