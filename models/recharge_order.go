package models

import (
	"time"
)

// RechargeOrder tracks a payment-gateway order created to add points
// to a wallet. Amount is in integer minor units. The completed
// recharge itself lives in the ledger; this row only carries the
// gateway handshake.
type RechargeOrder struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `json:"user_id"`
	GatewayOrderID  string    `json:"gateway_order_id" gorm:"uniqueIndex"`
	Amount          int64     `json:"amount"`
	Status          string    `json:"status"` // pending, completed, failed
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
