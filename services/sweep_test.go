package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triplink-app/TripLink/models"
)

func TestRunExpirySweep(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	buyer := seedUser(t, db, "buyer")
	creditWallet(t, buyer, 20000)

	now := time.Now()

	// Departed yesterday, sold.
	expired := seedPost(t, db, author, 4000, now.Add(-24*time.Hour), nil)
	expiredSub, err := PurchasePost(buyer, author, expired.ID, expired.Price)
	require.NoError(t, err)

	// Departs in two days, sold. Must survive the sweep.
	upcoming := seedPost(t, db, author, 4000, now.Add(48*time.Hour), nil)
	upcomingSub, err := PurchasePost(buyer, author, upcoming.ID, upcoming.Price)
	require.NoError(t, err)

	// Departed yesterday but never sold; the sweep only looks at
	// subscribed posts.
	unsold := seedPost(t, db, author, 4000, now.Add(-24*time.Hour), nil)

	buyerBefore := walletBalance(t, db, buyer)
	authorBefore := walletBalance(t, db, author)

	result, err := RunExpirySweep(now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.CancelledSubscriptions)
	assert.Zero(t, result.Errors)

	// The expired trip's subscription is cancelled and the post does
	// not return to the market.
	var sub models.PostSubscription
	require.NoError(t, db.First(&sub, expiredSub.ID).Error)
	assert.Equal(t, models.SubscriptionStatusCancelled, sub.Status)
	var post models.Post
	require.NoError(t, db.First(&post, expired.ID).Error)
	assert.Equal(t, models.PostStatusCancelled, post.Status)

	// No funds move on expiry.
	assert.Equal(t, buyerBefore, walletBalance(t, db, buyer))
	assert.Equal(t, authorBefore, walletBalance(t, db, author))

	// The upcoming trip is untouched.
	var upcomingSubRow models.PostSubscription
	require.NoError(t, db.First(&upcomingSubRow, upcomingSub.ID).Error)
	assert.Equal(t, models.SubscriptionStatusActive, upcomingSubRow.Status)
	var upcomingPost models.Post
	require.NoError(t, db.First(&upcomingPost, upcoming.ID).Error)
	assert.Equal(t, models.PostStatusSubscribed, upcomingPost.Status)

	// So is the unsold one.
	var unsoldPost models.Post
	require.NoError(t, db.First(&unsoldPost, unsold.ID).Error)
	assert.Equal(t, models.PostStatusAvailable, unsoldPost.Status)

	// A second run finds nothing left to do.
	result, err = RunExpirySweep(now)
	require.NoError(t, err)
	assert.Zero(t, result.Scanned)
	assert.Zero(t, result.CancelledSubscriptions)
}

func TestRunExpirySweepRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	buyer := seedUser(t, db, "buyer")
	creditWallet(t, buyer, 20000)

	now := time.Now()

	// Departed last week but returns tomorrow; the trip is still on.
	returnAt := now.Add(24 * time.Hour)
	ongoing := seedPost(t, db, author, 4000, now.Add(-7*24*time.Hour), &returnAt)
	_, err := PurchasePost(buyer, author, ongoing.ID, ongoing.Price)
	require.NoError(t, err)

	// Returned yesterday.
	returnedAt := now.Add(-24 * time.Hour)
	done := seedPost(t, db, author, 4000, now.Add(-7*24*time.Hour), &returnedAt)
	_, err = PurchasePost(buyer, author, done.ID, done.Price)
	require.NoError(t, err)

	result, err := RunExpirySweep(now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)
	assert.Equal(t, 1, result.CancelledSubscriptions)

	var ongoingPost models.Post
	require.NoError(t, db.First(&ongoingPost, ongoing.ID).Error)
	assert.Equal(t, models.PostStatusSubscribed, ongoingPost.Status)
	var donePost models.Post
	require.NoError(t, db.First(&donePost, done.ID).Error)
	assert.Equal(t, models.PostStatusCancelled, donePost.Status)
}

func TestRunExpirySweepOrphanedPost(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")

	// A subscribed post with no active subscription, e.g. left behind
	// by a crashed process. The sweep closes it out so the scan
	// converges instead of finding it forever.
	orphan := seedPost(t, db, author, 4000, time.Now().Add(-24*time.Hour), nil)
	require.NoError(t, db.Model(&models.Post{}).
		Where("id = ?", orphan.ID).
		Update("status", models.PostStatusSubscribed).Error)

	result, err := RunExpirySweep(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scanned)

	var post models.Post
	require.NoError(t, db.First(&post, orphan.ID).Error)
	assert.Equal(t, models.PostStatusCancelled, post.Status)
}
