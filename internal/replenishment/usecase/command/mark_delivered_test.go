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

func TestMarkDelivered_FullCycle(t *testing.T) {
	mem := repository.NewMemory()
	seedLowStockPair(mem)

	trigger := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())
	_, err := trigger.Handle(context.Background())
	require.NoError(t, err)

	requests, err := mem.Requests().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	alerts, err := mem.Alerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	alertID := alerts[0].ID

	handler := NewMarkDeliveredHandler(mem, domain.NopPublisher{})
	archived, err := handler.Handle(context.Background(), MarkDeliveredCommand{RequestID: requests[0].ID})
	require.NoError(t, err)

	// Shelf filled to capacity
	assert.Equal(t, 100, mem.Quantity(1, 2))
	assert.Equal(t, requests[0].ID, archived.OriginalRequestID)
	assert.Equal(t, 95, archived.Quantity)

	// Request left the active table
	_, err = mem.Requests().FindByID(context.Background(), requests[0].ID)
	assert.True(t, domain.IsNotFound(err))

	// Triggering alert archived under its original id
	closed, err := mem.ClosedAlerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, alertID, closed[0].OriginalAlertID)
	assert.Equal(t, domain.AlertStatusCompleted, closed[0].Status)

	remaining, err := mem.Alerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Report row records the delivered units without losing the trigger flag
	report, err := mem.Reports().FindByPairAndDate(context.Background(), 1, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 100, report.QuantityOnShelf)
	assert.Equal(t, 95, report.QuantityRestocked)
	assert.True(t, report.AlertTriggered)
}

func TestMarkDelivered_SecondOrderReevaluation(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 5, 100)

	// A completed alert tied to the outstanding request, plus a younger
	// open alert waiting on the same pair
	completedAlert := &domain.ReplenishmentAlert{
		ProductID: 1, ShelfID: 2,
		Urgency: domain.UrgencyCritical, Status: domain.AlertStatusCompleted,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, mem.Alerts().Create(context.Background(), completedAlert))
	openAlert := &domain.ReplenishmentAlert{
		ProductID: 1, ShelfID: 2,
		Urgency: domain.UrgencyHigh, Status: domain.AlertStatusOpen,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, mem.Alerts().Create(context.Background(), openAlert))

	// Partial fill: 20 of the 95 needed units
	request := &domain.StockRequest{ProductID: 1, StoreID: 3, Quantity: 20, Status: domain.RequestStatusRequested}
	require.NoError(t, mem.Requests().Create(context.Background(), request))

	handler := NewMarkDeliveredHandler(mem, domain.NopPublisher{})
	_, err := handler.Handle(context.Background(), MarkDeliveredCommand{RequestID: request.ID})
	require.NoError(t, err)

	assert.Equal(t, 25, mem.Quantity(1, 2))

	// The completed alert was the one closed, and the open alert was
	// immediately fulfilled by a follow-up request
	closed, err := mem.ClosedAlerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, closed, 2)
	ids := []uint{closed[0].OriginalAlertID, closed[1].OriginalAlertID}
	assert.Contains(t, ids, completedAlert.ID)
	assert.Contains(t, ids, openAlert.ID)

	followUps, err := mem.Requests().FindActive(context.Background())
	require.NoError(t, err)
	require.Len(t, followUps, 1)
	assert.Equal(t, 75, followUps[0].Quantity, "follow-up tops the shelf back up")
	assert.Equal(t, domain.RequestStatusRequested, followUps[0].Status)

	remaining, err := mem.Alerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestMarkDelivered_NoReevaluationWhenShelfIsFull(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 5, 100)

	openAlert := &domain.ReplenishmentAlert{ProductID: 1, ShelfID: 2, Status: domain.AlertStatusOpen, CreatedAt: time.Now()}
	require.NoError(t, mem.Alerts().Create(context.Background(), openAlert))
	request := &domain.StockRequest{ProductID: 1, StoreID: 3, Quantity: 95, Status: domain.RequestStatusRequested}
	require.NoError(t, mem.Requests().Create(context.Background(), request))

	handler := NewMarkDeliveredHandler(mem, domain.NopPublisher{})
	_, err := handler.Handle(context.Background(), MarkDeliveredCommand{RequestID: request.ID})
	require.NoError(t, err)

	assert.Equal(t, 100, mem.Quantity(1, 2))

	active, err := mem.Requests().FindActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active, "a full shelf needs no follow-up request")
}

func TestMarkDelivered_UnknownRequest(t *testing.T) {
	mem := repository.NewMemory()
	handler := NewMarkDeliveredHandler(mem, domain.NopPublisher{})

	_, err := handler.Handle(context.Background(), MarkDeliveredCommand{RequestID: 42})
	assert.True(t, domain.IsNotFound(err))

	_, err = handler.Handle(context.Background(), MarkDeliveredCommand{})
	assert.True(t, domain.IsValidation(err))
}
