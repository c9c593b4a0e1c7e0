package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/internal/replenishment/repository"
)

func TestMarkInTransit_DefaultETA(t *testing.T) {
	mem := repository.NewMemory()
	seedLowStockPair(mem)

	trigger := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())
	_, err := trigger.Handle(context.Background())
	require.NoError(t, err)

	requests, err := mem.Requests().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, requests, 1)

	handler := NewMarkInTransitHandler(mem, domain.DefaultPolicy())
	updated, err := handler.Handle(context.Background(), MarkInTransitCommand{RequestID: requests[0].ID})
	require.NoError(t, err)

	assert.Equal(t, domain.RequestStatusInTransit, updated.Status)
	require.NotNil(t, updated.ETA)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), *updated.ETA, time.Minute)

	// The pair's fulfillment alert carries the transit note
	alert, err := mem.Alerts().FindLatestActiveByPair(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Contains(t, alert.FulfillmentNote, "in transit")
	assert.Equal(t, domain.AlertStatusCompleted, alert.Status, "annotation must not change the status")
}

func TestMarkInTransit_ExplicitETA(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 5, 100)
	request := &domain.StockRequest{ProductID: 1, StoreID: 3, Quantity: 95, Status: domain.RequestStatusRequested}
	require.NoError(t, mem.Requests().Create(context.Background(), request))

	eta := time.Now().Add(6 * time.Hour)
	handler := NewMarkInTransitHandler(mem, domain.DefaultPolicy())
	updated, err := handler.Handle(context.Background(), MarkInTransitCommand{RequestID: request.ID, ETA: &eta})
	require.NoError(t, err)

	require.NotNil(t, updated.ETA)
	assert.Equal(t, eta, *updated.ETA)
}

func TestMarkInTransit_RejectsPastETA(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 5, 100)
	request := &domain.StockRequest{ProductID: 1, StoreID: 3, Quantity: 95, Status: domain.RequestStatusRequested}
	require.NoError(t, mem.Requests().Create(context.Background(), request))

	past := time.Now().Add(-time.Hour)
	handler := NewMarkInTransitHandler(mem, domain.DefaultPolicy())
	_, err := handler.Handle(context.Background(), MarkInTransitCommand{RequestID: request.ID, ETA: &past})
	assert.True(t, domain.IsValidation(err))

	// Request untouched on rejection
	stored, err := mem.Requests().FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusRequested, stored.Status)
}

func TestMarkInTransit_DoubleDispatch(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 5, 100)
	request := &domain.StockRequest{ProductID: 1, StoreID: 3, Quantity: 95, Status: domain.RequestStatusRequested}
	require.NoError(t, mem.Requests().Create(context.Background(), request))

	handler := NewMarkInTransitHandler(mem, domain.DefaultPolicy())
	_, err := handler.Handle(context.Background(), MarkInTransitCommand{RequestID: request.ID})
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), MarkInTransitCommand{RequestID: request.ID})
	assert.True(t, domain.IsPrecondition(err))
}
