package models

import (
	"time"

	"gorm.io/gorm"
)

// PostSubscription records a settled post purchase: the buyer's debit
// and the author's credit, both completed in the same database
// transaction that created this row. Cancellation never returns funds.
type PostSubscription struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	PostID              uint           `json:"post_id" gorm:"index;not null"`
	BuyerID             uint           `json:"buyer_id" gorm:"index;not null"`
	AuthorID            uint           `json:"author_id" gorm:"index;not null"`
	Price               int64          `json:"price" gorm:"not null"`
	BuyerTransactionID  uint           `json:"buyer_transaction_id"`
	AuthorTransactionID uint           `json:"author_transaction_id"`
	Status              string         `json:"status" gorm:"not null;default:'active'"`
	SubscribedAt        time.Time      `json:"subscribed_at"`
	CancelledAt         *time.Time     `json:"cancelled_at"`
	CancellationReason  string         `json:"cancellation_reason"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// Subscription statuses
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
)
