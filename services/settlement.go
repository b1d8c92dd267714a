package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/utils"
	"gorm.io/gorm"
)

// PurchasePost settles a post purchase: the availability flip, the
// buyer's debit, the author's credit and the subscription row all
// happen in one database transaction. Of two concurrent buyers at
// most one wins; the loser observes ErrPostUnavailable.
func PurchasePost(buyerID, authorID, postID uint, price int64) (*models.PostSubscription, error) {
	if price <= 0 {
		return nil, validationError("post price must be positive, got %d", price)
	}
	if buyerID == authorID {
		return nil, validationError("authors cannot purchase their own post")
	}

	var subscription *models.PostSubscription
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ? AND status = ?", postID, models.PostStatusAvailable).
			Update("status", models.PostStatusSubscribed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var post models.Post
			if err := tx.First(&post, postID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			return ErrPostUnavailable
		}

		buyerTxn, err := recordTransaction(tx, RecordTransactionParams{
			UserID:      buyerID,
			Type:        models.TransactionTypePurchase,
			Amount:      -price,
			Status:      models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Purchase of post #%d", postID),
		})
		if err != nil {
			return err
		}
		authorTxn, err := recordTransaction(tx, RecordTransactionParams{
			UserID:      authorID,
			Type:        models.TransactionTypeEarning,
			Amount:      price,
			Status:      models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Earning from post #%d", postID),
		})
		if err != nil {
			return err
		}

		subscription = &models.PostSubscription{
			PostID:              postID,
			BuyerID:             buyerID,
			AuthorID:            authorID,
			Price:               price,
			BuyerTransactionID:  buyerTxn.ID,
			AuthorTransactionID: authorTxn.ID,
			Status:              models.SubscriptionStatusActive,
			SubscribedAt:        time.Now(),
		}
		return tx.Create(subscription).Error
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Post %d purchased by user %d from author %d", postID, buyerID, authorID)
	return subscription, nil
}

// CancelSubscription marks a subscription cancelled and returns the
// post to the market. No funds move: the author keeps the earning and
// the buyer is not refunded. Cancelling an already-cancelled
// subscription is a no-op.
func CancelSubscription(subscriptionID uint, reason string) (*models.PostSubscription, error) {
	var subscription *models.PostSubscription
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		subscription, err = cancelSubscription(tx, subscriptionID, reason, models.PostStatusAvailable)
		return err
	})
	if err != nil {
		return nil, err
	}
	return subscription, nil
}

// cancelSubscription flips the subscription and moves the post into
// nextPostStatus. The expiry sweep passes cancelled so a dead trip
// never reappears on the market.
func cancelSubscription(tx *gorm.DB, subscriptionID uint, reason, nextPostStatus string) (*models.PostSubscription, error) {
	var subscription models.PostSubscription
	if err := tx.First(&subscription, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if subscription.Status == models.SubscriptionStatusCancelled {
		return &subscription, nil
	}

	now := time.Now()
	res := tx.Model(&models.PostSubscription{}).
		Where("id = ? AND status = ?", subscriptionID, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":              models.SubscriptionStatusCancelled,
			"cancelled_at":        now,
			"cancellation_reason": reason,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// A concurrent cancel won; re-read and report the final state.
		if err := tx.First(&subscription, subscriptionID).Error; err != nil {
			return nil, err
		}
		return &subscription, nil
	}

	if err := tx.Model(&models.Post{}).
		Where("id = ? AND status = ?", subscription.PostID, models.PostStatusSubscribed).
		Update("status", nextPostStatus).Error; err != nil {
		return nil, err
	}

	if err := tx.First(&subscription, subscriptionID).Error; err != nil {
		return nil, err
	}
	utils.LogInfo("Cancelled subscription ID: %d (%s)", subscriptionID, reason)
	return &subscription, nil
}
