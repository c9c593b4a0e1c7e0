package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		allowed  bool
	}{
		{RequestStatusRequested, RequestStatusInTransit, true},
		{RequestStatusRequested, RequestStatusDelivered, true},
		{RequestStatusRequested, RequestStatusCancelled, true},
		{RequestStatusInTransit, RequestStatusDelivered, true},
		{RequestStatusInTransit, RequestStatusCancelled, true},
		{RequestStatusInTransit, RequestStatusRequested, false},
		{RequestStatusDelivered, RequestStatusInTransit, false},
		{RequestStatusCancelled, RequestStatusRequested, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestStockRequest_Transition(t *testing.T) {
	r := &StockRequest{ID: 7, Status: RequestStatusRequested}

	require.NoError(t, r.Transition(RequestStatusInTransit))
	assert.Equal(t, RequestStatusInTransit, r.Status)

	err := r.Transition(RequestStatusRequested)
	require.Error(t, err)
	assert.True(t, IsPrecondition(err))
	assert.Equal(t, RequestStatusInTransit, r.Status, "failed transition must not change status")
}

func TestStockRequest_IsActive(t *testing.T) {
	assert.True(t, (&StockRequest{Status: RequestStatusRequested}).IsActive())
	assert.True(t, (&StockRequest{Status: RequestStatusInTransit}).IsActive())
	assert.False(t, (&StockRequest{Status: RequestStatusDelivered}).IsActive())
	assert.False(t, (&StockRequest{Status: RequestStatusCancelled}).IsActive())
}

func TestStockRequest_ArchiveCopies(t *testing.T) {
	requestedAt := day(2026, 4, 1)
	now := time.Date(2026, 4, 3, 9, 30, 0, 0, time.UTC)
	r := &StockRequest{ID: 12, ProductID: 1, StoreID: 2, Quantity: 40, RequestedAt: requestedAt}

	delivered := r.Delivered(now)
	assert.Equal(t, uint(12), delivered.OriginalRequestID)
	assert.Equal(t, 40, delivered.Quantity)
	assert.Equal(t, now, delivered.DeliveredAt)

	alertID := uint(99)
	cancelled := r.Cancelled("supplier out of stock", &alertID, now)
	assert.Equal(t, uint(12), cancelled.OriginalRequestID)
	assert.Equal(t, "supplier out of stock", cancelled.CancelReason)
	require.NotNil(t, cancelled.AlertID)
	assert.Equal(t, uint(99), *cancelled.AlertID)
}

func TestReplenishmentAlert_Close(t *testing.T) {
	createdAt := day(2026, 4, 1)
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	a := &ReplenishmentAlert{
		ID:              5,
		ProductID:       1,
		ShelfID:         2,
		Urgency:         UrgencyHigh,
		Status:          AlertStatusCompleted,
		FulfillmentNote: "stock request 12 placed",
		CreatedAt:       createdAt,
	}

	closed := a.Close(now)
	assert.Equal(t, uint(5), closed.OriginalAlertID, "archive keeps the active-table id")
	assert.Equal(t, AlertStatusCompleted, closed.Status)
	assert.Equal(t, UrgencyHigh, closed.Urgency)
	assert.Equal(t, "stock request 12 placed", closed.FulfillmentNote)
	assert.Equal(t, now, closed.ClosedAt)
}
