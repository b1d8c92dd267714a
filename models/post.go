package models

import (
	"time"

	"gorm.io/gorm"
)

// Post is a published trip offer. Price is in integer minor units.
// A post can be sold at most once; the status flip from available to
// subscribed is the guard against a double sale.
type Post struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AuthorID    uint           `json:"author_id" gorm:"index;not null"`
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	DepartureAt time.Time      `json:"departure_at"`
	ReturnAt    *time.Time     `json:"return_at"` // set for round trips
	Price       int64          `json:"price" gorm:"not null"`
	Status      string         `json:"status" gorm:"not null;default:'available'"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Post statuses
const (
	PostStatusAvailable  = "available"
	PostStatusSubscribed = "subscribed"
	PostStatusCancelled  = "cancelled"
)

// Expired reports whether the trip's departure (or return, for round
// trips) has passed at the given instant.
func (p *Post) Expired(now time.Time) bool {
	if p.ReturnAt != nil {
		return p.ReturnAt.Before(now)
	}
	return p.DepartureAt.Before(now)
}
