package domain

import (
	"testing" // Go testing package

	"github.com/stretchr/testify/require" // Test assertions
)

// A five-star rating with slots remaining consumes one and leaves the window open
func TestApplyRatingFiveStarConsumesSlot(t *testing.T) {
	user := User{DailyOrders: 5, CompletedOrders: 3, UncompletedOrders: 2}

	outcome := user.ApplyRating(5)

	require.Equal(t, OutcomeCounted, outcome)
	require.Equal(t, 4, user.CompletedOrders)   // One more task done
	require.Equal(t, 1, user.UncompletedOrders) // One fewer slot left
	require.Equal(t, 5, user.DailyOrders)       // Window still open
}

// Ratings below five never touch the counters
func TestApplyRatingBelowFiveLeavesCountersUnchanged(t *testing.T) {
	user := User{DailyOrders: 5, CompletedOrders: 3, UncompletedOrders: 2}

	outcome := user.ApplyRating(3)

	require.Equal(t, OutcomeRecorded, outcome)
	require.Equal(t, 3, user.CompletedOrders)
	require.Equal(t, 2, user.UncompletedOrders)
	require.Equal(t, 5, user.DailyOrders)
}

// Five stars with a drained quota reports the distinct outcome and changes nothing
func TestApplyRatingQuotaReached(t *testing.T) {
	user := User{DailyOrders: 5, CompletedOrders: 5, UncompletedOrders: 0}

	outcome := user.ApplyRating(5)

	require.Equal(t, OutcomeQuotaReached, outcome)
	require.Equal(t, 5, user.CompletedOrders)
	require.Equal(t, 0, user.UncompletedOrders)
	require.Equal(t, 5, user.DailyOrders)
}

// Draining the last slot zeroes daily_orders as well
func TestApplyRatingDrainingLastSlotResetsWindow(t *testing.T) {
	user := User{DailyOrders: 5, CompletedOrders: 4, UncompletedOrders: 1}

	outcome := user.ApplyRating(5)

	require.Equal(t, OutcomeCounted, outcome)
	require.Equal(t, 5, user.CompletedOrders)
	require.Equal(t, 0, user.UncompletedOrders)
	require.Equal(t, 0, user.DailyOrders) // Drained quota resets the cycle window
}
