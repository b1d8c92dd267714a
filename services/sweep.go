package services

import (
	"errors"
	"time"

	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/utils"
	"gorm.io/gorm"
)

// SweepResult summarizes one expiry sweep run.
type SweepResult struct {
	Scanned                int `json:"scanned"`
	CancelledSubscriptions int `json:"cancelled_subscriptions"`
	Errors                 int `json:"errors"`
}

// RunExpirySweep cancels subscriptions on trips whose departure (or
// return, for round trips) has passed, without refund, and marks the
// posts cancelled. The scan only touches subscribed posts, so
// re-running it arbitrarily often is safe: expired posts it already
// handled are no longer subscribed.
func RunExpirySweep(now time.Time) (*SweepResult, error) {
	var posts []models.Post
	if err := config.DB.
		Where("status = ?", models.PostStatusSubscribed).
		Where("(return_at IS NOT NULL AND return_at < ?) OR (return_at IS NULL AND departure_at < ?)", now, now).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(posts)}
	for _, post := range posts {
		if err := expirePost(post.ID); err != nil {
			// One bad post must not stop the sweep; the next run
			// picks it up again.
			utils.LogError("Expiry sweep failed for post ID: %d: %v", post.ID, err)
			result.Errors++
			continue
		}
		result.CancelledSubscriptions++
	}
	utils.LogInfo("Expiry sweep finished: %d scanned, %d cancelled, %d errors",
		result.Scanned, result.CancelledSubscriptions, result.Errors)
	return result, nil
}

// expirePost cancels the active subscription of a single expired post
// and marks the post cancelled, in one database transaction.
func expirePost(postID uint) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		var subscription models.PostSubscription
		err := tx.Where("post_id = ? AND status = ?", postID, models.SubscriptionStatusActive).
			First(&subscription).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Subscribed post without an active subscription;
				// close out the post so the sweep converges.
				return tx.Model(&models.Post{}).
					Where("id = ? AND status = ?", postID, models.PostStatusSubscribed).
					Update("status", models.PostStatusCancelled).Error
			}
			return err
		}
		_, err = cancelSubscription(tx, subscription.ID, "trip expired", models.PostStatusCancelled)
		return err
	})
}
