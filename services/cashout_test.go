package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triplink-app/TripLink/models"
)

func TestCalculateCashoutAmounts(t *testing.T) {
	amounts, err := CalculateCashoutAmounts(100, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), amounts.Requested)
	assert.Equal(t, int64(500), amounts.Fee)
	assert.Equal(t, int64(9500), amounts.Final)

	// Fee rounds half up on fractional percentages.
	amounts, err = CalculateCashoutAmounts(33, 7.5)
	require.NoError(t, err)
	assert.Equal(t, int64(3300), amounts.Requested)
	assert.Equal(t, int64(248), amounts.Fee)
	assert.Equal(t, int64(3052), amounts.Final)

	// Zero fee keeps everything.
	amounts, err = CalculateCashoutAmounts(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amounts.Fee)
	assert.Equal(t, int64(1000), amounts.Final)

	_, err = CalculateCashoutAmounts(0, 5)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = CalculateCashoutAmounts(-5, 5)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = CalculateCashoutAmounts(100, -1)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = CalculateCashoutAmounts(100, 101)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCalculateCashoutAmountsDeterministic(t *testing.T) {
	// The same inputs must always produce the same split; integer
	// arithmetic in basis points is what guarantees it.
	first, err := CalculateCashoutAmounts(33, 7.5)
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		again, err := CalculateCashoutAmounts(33, 7.5)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestCreateCashoutRequestPending(t *testing.T) {
	db := setupTestDB(t)
	userID := seedUser(t, db, "mona")
	creditWallet(t, userID, 10000)

	request, err := CreateCashoutRequest(CreateCashoutParams{
		UserID:     userID,
		Points:     80,
		FeePercent: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CashoutStatusPending, request.Status)
	assert.Equal(t, int64(8000), request.RequestedAmount)
	assert.Equal(t, int64(800), request.FeeAmount)
	assert.Equal(t, int64(7200), request.FinalAmount)
	assert.NotZero(t, request.TransactionID)
	assert.Nil(t, request.ProcessedAt)

	// Funds stay put until the payout completes.
	assert.Equal(t, int64(10000), walletBalance(t, db, userID))

	var txn models.Transaction
	require.NoError(t, db.First(&txn, request.TransactionID).Error)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, int64(-8000), txn.Amount)
}

func TestCreateCashoutRequestInsufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	userID := seedUser(t, db, "nick")
	creditWallet(t, userID, 5000)

	_, err := CreateCashoutRequest(CreateCashoutParams{
		UserID:     userID,
		Points:     80,
		FeePercent: 10,
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	var count int64
	require.NoError(t, db.Model(&models.CashoutRequest{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateCashoutRequestCompletedNeedsRef(t *testing.T) {
	db := setupTestDB(t)
	userID := seedUser(t, db, "olga")
	creditWallet(t, userID, 10000)

	_, err := CreateCashoutRequest(CreateCashoutParams{
		UserID:        userID,
		Points:        50,
		FeePercent:    5,
		InitialStatus: models.CashoutStatusCompleted,
	})
	require.ErrorIs(t, err, ErrMissingExternalRef)

	ref := "OFFLINE-1"
	request, err := CreateCashoutRequest(CreateCashoutParams{
		UserID:        userID,
		Points:        50,
		FeePercent:    5,
		ExternalRef:   &ref,
		InitialStatus: models.CashoutStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CashoutStatusCompleted, request.Status)
	assert.NotNil(t, request.ProcessedAt)
	// Completed at creation deducts immediately.
	assert.Equal(t, int64(5000), walletBalance(t, db, userID))
}

func TestCreateCashoutRequestUnknownPaymentMethod(t *testing.T) {
	db := setupTestDB(t)
	userID := seedUser(t, db, "pete")
	other := seedUser(t, db, "quinn")
	creditWallet(t, userID, 10000)

	method := models.PaymentMethod{UserID: other, Label: "someone else's bank", Type: "bank_transfer"}
	require.NoError(t, db.Create(&method).Error)

	// A payment method owned by another user does not exist as far as
	// this request is concerned.
	_, err := CreateCashoutRequest(CreateCashoutParams{
		UserID:          userID,
		Points:          10,
		FeePercent:      5,
		PaymentMethodID: method.ID,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCashoutLifecycle(t *testing.T) {
	db := setupTestDB(t)
	userID := seedUser(t, db, "rita")
	creditWallet(t, userID, 10000)

	request, err := CreateCashoutRequest(CreateCashoutParams{
		UserID:     userID,
		Points:     80,
		FeePercent: 10,
	})
	require.NoError(t, err)

	request, err = ProcessCashout(request.ID, "picked up")
	require.NoError(t, err)
	assert.Equal(t, models.CashoutStatusProcessing, request.Status)
	assert.Equal(t, int64(10000), walletBalance(t, db, userID))

	request, err = CompleteCashout(request.ID, "TX1", "paid out")
	require.NoError(t, err)
	assert.Equal(t, models.CashoutStatusCompleted, request.Status)
	require.NotNil(t, request.ExternalRef)
	assert.Equal(t, "TX1", *request.ExternalRef)
	assert.NotNil(t, request.ProcessedAt)
	assert.Equal(t, int64(2000), walletBalance(t, db, userID))

	// Resubmitting the same reference is a no-op.
	again, err := CompleteCashout(request.ID, "TX1", "")
	require.NoError(t, err)
	assert.Equal(t, models.CashoutStatusCompleted, again.Status)
	assert.Equal(t, int64(2000), walletBalance(t, db, userID))

	// A different reference on a completed request is a conflict.
	_, err = CompleteCashout(request.ID, "TX2", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Cancelling after completion refunds the full requested amount;
	// the fee is forfeited, not recomputed.
	request, err = CancelCashout(request.ID, "user dispute")
	require.NoError(t, err)
	assert.Equal(t, models.CashoutStatusCancelled, request.Status)
	assert.Equal(t, int64(10000), walletBalance(t, db, userID))

	var reversal models.Transaction
	require.NoError(t, db.Where("reversal_of_id = ?", request.TransactionID).First(&reversal).Error)
	assert.Equal(t, int64(8000), reversal.Amount)
}

func TestCompleteCashoutRequiresRef(t *testing.T) {
	db := setupTestDB(t)
	userID := seedUser(t, db, "sam")
	creditWallet(t, userID, 10000)

	request, err := CreateCashoutRequest(CreateCashoutParams{
		UserID:     userID,
		Points:     10,
		FeePercent: 5,
	})
	require.NoError(t, err)

	_, err = CompleteCashout(request.ID, "", "")
	assert.ErrorIs(t, err, ErrMissingExternalRef)
}

func TestCompleteCashoutDuplicateRef(t *testing.T) {
	db := setupTestDB(t)
	first := seedUser(t, db, "tina")
	second := seedUser(t, db, "uma")
	creditWallet(t, first, 10000)
	creditWallet(t, second, 10000)

	reqA, err := CreateCashoutRequest(CreateCashoutParams{UserID: first, Points: 10, FeePercent: 5})
	require.NoError(t, err)
	reqB, err := CreateCashoutRequest(CreateCashoutParams{UserID: second, Points: 10, FeePercent: 5})
	require.NoError(t, err)

	_, err = CompleteCashout(reqA.ID, "SAME-REF", "")
	require.NoError(t, err)

	_, err = CompleteCashout(reqB.ID, "SAME-REF", "")
	require.ErrorIs(t, err, ErrDuplicateExternalRef)

	// The losing request is untouched and its funds never moved.
	var after models.CashoutRequest
	require.NoError(t, db.First(&after, reqB.ID).Error)
	assert.Equal(t, models.CashoutStatusPending, after.Status)
	assert.Equal(t, int64(10000), walletBalance(t, db, second))
}

func TestCancelPendingCashout(t *testing.T) {
	db := setupTestDB(t)
	userID := seedUser(t, db, "vera")
	creditWallet(t, userID, 10000)

	request, err := CreateCashoutRequest(CreateCashoutParams{
		UserID:     userID,
		Points:     80,
		FeePercent: 10,
	})
	require.NoError(t, err)

	request, err = CancelCashout(request.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.CashoutStatusCancelled, request.Status)
	// Nothing had moved, so nothing moves back.
	assert.Equal(t, int64(10000), walletBalance(t, db, userID))

	var txn models.Transaction
	require.NoError(t, db.First(&txn, request.TransactionID).Error)
	assert.Equal(t, models.TransactionStatusCancelled, txn.Status)

	// Cancelled is terminal.
	_, err = CancelCashout(request.ID, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = ProcessCashout(request.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = CompleteCashout(request.ID, "TX9", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFailCashout(t *testing.T) {
	db := setupTestDB(t)
	userID := seedUser(t, db, "walt")
	creditWallet(t, userID, 10000)

	request, err := CreateCashoutRequest(CreateCashoutParams{
		UserID:     userID,
		Points:     50,
		FeePercent: 5,
	})
	require.NoError(t, err)

	// Failed is only reachable from processing.
	_, err = FailCashout(request.ID, "provider rejected")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	request, err = ProcessCashout(request.ID, "")
	require.NoError(t, err)

	request, err = FailCashout(request.ID, "provider rejected")
	require.NoError(t, err)
	assert.Equal(t, models.CashoutStatusFailed, request.Status)
	assert.Equal(t, int64(10000), walletBalance(t, db, userID))

	var txn models.Transaction
	require.NoError(t, db.First(&txn, request.TransactionID).Error)
	assert.Equal(t, models.TransactionStatusCancelled, txn.Status)

	// Failed is terminal.
	_, err = CancelCashout(request.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
