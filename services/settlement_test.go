package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triplink-app/TripLink/models"
	"gorm.io/gorm"
)

func seedPost(t *testing.T, db *gorm.DB, authorID uint, price int64, departureAt time.Time, returnAt *time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:    authorID,
		Origin:      "Lisbon",
		Destination: "Porto",
		DepartureAt: departureAt,
		ReturnAt:    returnAt,
		Price:       price,
		Status:      models.PostStatusAvailable,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func TestPurchasePost(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	buyer := seedUser(t, db, "buyer")
	creditWallet(t, buyer, 10000)
	post := seedPost(t, db, author, 4000, time.Now().Add(48*time.Hour), nil)

	subscription, err := PurchasePost(buyer, author, post.ID, post.Price)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, subscription.Status)
	assert.Equal(t, int64(4000), subscription.Price)

	// Buyer debited, author credited, post off the market.
	assert.Equal(t, int64(6000), walletBalance(t, db, buyer))
	assert.Equal(t, int64(4000), walletBalance(t, db, author))

	var after models.Post
	require.NoError(t, db.First(&after, post.ID).Error)
	assert.Equal(t, models.PostStatusSubscribed, after.Status)

	var buyerTxn, authorTxn models.Transaction
	require.NoError(t, db.First(&buyerTxn, subscription.BuyerTransactionID).Error)
	require.NoError(t, db.First(&authorTxn, subscription.AuthorTransactionID).Error)
	assert.Equal(t, models.TransactionTypePurchase, buyerTxn.Type)
	assert.Equal(t, int64(-4000), buyerTxn.Amount)
	assert.Equal(t, models.TransactionTypeEarning, authorTxn.Type)
	assert.Equal(t, int64(4000), authorTxn.Amount)
}

func TestPurchasePostInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	buyer := seedUser(t, db, "buyer")
	creditWallet(t, buyer, 1000)
	post := seedPost(t, db, author, 4000, time.Now().Add(48*time.Hour), nil)

	_, err := PurchasePost(buyer, author, post.ID, post.Price)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// All or nothing: the post is still on the market and neither side
	// has a ledger entry.
	var after models.Post
	require.NoError(t, db.First(&after, post.ID).Error)
	assert.Equal(t, models.PostStatusAvailable, after.Status)

	var txns, subs int64
	require.NoError(t, db.Model(&models.Transaction{}).
		Where("type IN ?", []string{models.TransactionTypePurchase, models.TransactionTypeEarning}).
		Count(&txns).Error)
	assert.Zero(t, txns)
	require.NoError(t, db.Model(&models.PostSubscription{}).Count(&subs).Error)
	assert.Zero(t, subs)
	assert.Equal(t, int64(0), walletBalance(t, db, author))
}

func TestPurchaseOwnPostRejected(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	creditWallet(t, author, 10000)
	post := seedPost(t, db, author, 4000, time.Now().Add(48*time.Hour), nil)

	_, err := PurchasePost(author, author, post.ID, post.Price)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPurchasePostTwice(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	first := seedUser(t, db, "first")
	second := seedUser(t, db, "second")
	creditWallet(t, first, 10000)
	creditWallet(t, second, 10000)
	post := seedPost(t, db, author, 4000, time.Now().Add(48*time.Hour), nil)

	_, err := PurchasePost(first, author, post.ID, post.Price)
	require.NoError(t, err)

	// The post was already sold; the second buyer pays nothing.
	_, err = PurchasePost(second, author, post.ID, post.Price)
	require.ErrorIs(t, err, ErrPostUnavailable)
	assert.Equal(t, int64(10000), walletBalance(t, db, second))
	assert.Equal(t, int64(4000), walletBalance(t, db, author))
}

func TestPurchaseMissingPost(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	buyer := seedUser(t, db, "buyer")
	creditWallet(t, buyer, 10000)

	_, err := PurchasePost(buyer, author, 9999, 4000)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelSubscription(t *testing.T) {
	db := setupTestDB(t)
	author := seedUser(t, db, "author")
	buyer := seedUser(t, db, "buyer")
	creditWallet(t, buyer, 10000)
	post := seedPost(t, db, author, 4000, time.Now().Add(48*time.Hour), nil)

	subscription, err := PurchasePost(buyer, author, post.ID, post.Price)
	require.NoError(t, err)

	cancelled, err := CancelSubscription(subscription.ID, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "plans changed", cancelled.CancellationReason)

	// The author keeps the earning and the buyer gets no refund.
	assert.Equal(t, int64(6000), walletBalance(t, db, buyer))
	assert.Equal(t, int64(4000), walletBalance(t, db, author))

	// The post returns to the market.
	var after models.Post
	require.NoError(t, db.First(&after, post.ID).Error)
	assert.Equal(t, models.PostStatusAvailable, after.Status)

	// Cancelling again is a no-op, not an error.
	again, err := CancelSubscription(subscription.ID, "again")
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, again.Status)
	assert.Equal(t, "plans changed", again.CancellationReason)
}

func TestCancelMissingSubscription(t *testing.T) {
	setupTestDB(t)

	_, err := CancelSubscription(12345, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
