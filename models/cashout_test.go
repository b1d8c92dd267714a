package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionCashout(t *testing.T) {
	allowed := []struct{ from, to string }{
		{CashoutStatusPending, CashoutStatusProcessing},
		{CashoutStatusPending, CashoutStatusCompleted},
		{CashoutStatusPending, CashoutStatusCancelled},
		{CashoutStatusProcessing, CashoutStatusCompleted},
		{CashoutStatusProcessing, CashoutStatusCancelled},
		{CashoutStatusProcessing, CashoutStatusFailed},
		{CashoutStatusCompleted, CashoutStatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransitionCashout(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to string }{
		{CashoutStatusPending, CashoutStatusFailed},
		{CashoutStatusCompleted, CashoutStatusProcessing},
		{CashoutStatusCompleted, CashoutStatusPending},
		{CashoutStatusCancelled, CashoutStatusPending},
		{CashoutStatusCancelled, CashoutStatusCompleted},
		{CashoutStatusFailed, CashoutStatusProcessing},
		{CashoutStatusFailed, CashoutStatusCancelled},
		{"bogus", CashoutStatusCompleted},
	}
	for _, tc := range denied {
		assert.False(t, CanTransitionCashout(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestPostExpired(t *testing.T) {
	now := time.Now()

	oneWay := Post{DepartureAt: now.Add(-time.Hour)}
	assert.True(t, oneWay.Expired(now))

	future := Post{DepartureAt: now.Add(time.Hour)}
	assert.False(t, future.Expired(now))

	// A round trip is alive until the return leg, even after departure.
	returnAt := now.Add(time.Hour)
	roundTrip := Post{DepartureAt: now.Add(-48 * time.Hour), ReturnAt: &returnAt}
	assert.False(t, roundTrip.Expired(now))

	returned := now.Add(-time.Hour)
	finished := Post{DepartureAt: now.Add(-48 * time.Hour), ReturnAt: &returned}
	assert.True(t, finished.Expired(now))
}
