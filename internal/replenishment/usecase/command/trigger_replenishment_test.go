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

// seedLowStockPair sets up product 1 on shelf 2 in store 3 with one day of
// stock left: 5 units on shelf, 5 units sold per day.
func seedLowStockPair(m *repository.Memory) {
	m.SeedShelfStock(1, 2, 3, 5, 100)
	m.SeedStaff(3, 9)
	for i := 1; i <= 3; i++ {
		m.SeedSale(1, 5, time.Now().AddDate(0, 0, -i))
	}
}

func TestTriggerReplenishment_FullPipeline(t *testing.T) {
	mem := repository.NewMemory()
	seedLowStockPair(mem)
	handler := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())

	result, err := handler.Handle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.AlertsCreated)
	assert.Equal(t, 0, result.AlertsFound)
	assert.Equal(t, 1, result.RequestsCreated)
	assert.Equal(t, 1, result.TasksAssigned)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.RunID)

	// Alert moved to completed when the request was placed
	alerts, err := mem.Alerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertStatusCompleted, alerts[0].Status)
	assert.Equal(t, domain.UrgencyCritical, alerts[0].Urgency)
	assert.Contains(t, alerts[0].FulfillmentNote, "stock request")

	// Request fills the shelf to capacity
	requests, err := mem.Requests().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, 95, requests[0].Quantity)
	assert.Equal(t, domain.RequestStatusRequested, requests[0].Status)
	assert.Equal(t, uint(3), requests[0].StoreID)

	// Task assigned to the store's staff member, tied to the alert
	tasks, err := mem.Tasks().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, uint(9), tasks[0].AssignedTo)
	assert.Equal(t, alerts[0].ID, tasks[0].AlertID)
	assert.Equal(t, domain.TaskStatusPending, tasks[0].Status)

	// The trigger left a report row marking the alert
	report, err := mem.Reports().FindByPairAndDate(context.Background(), 1, 2, time.Now())
	require.NoError(t, err)
	assert.True(t, report.AlertTriggered)
	assert.Equal(t, 5, report.QuantityOnShelf)
}

func TestTriggerReplenishment_RepeatRunsDoNotDuplicateWork(t *testing.T) {
	mem := repository.NewMemory()
	seedLowStockPair(mem)
	handler := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())

	_, err := handler.Handle(context.Background())
	require.NoError(t, err)

	// The pair is still low, so a fresh alert opens, but the active request
	// and pending task block new ones.
	second, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, second.AlertsCreated)
	assert.Equal(t, 0, second.RequestsCreated)
	assert.Equal(t, 0, second.TasksAssigned)

	// The open alert from the second run is now found, not recreated
	third, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, third.AlertsCreated)
	assert.Equal(t, 1, third.AlertsFound)
	assert.Equal(t, 0, third.RequestsCreated)

	requests, err := mem.Requests().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, requests, 1)
}

func TestTriggerReplenishment_HealthyPairIsSkipped(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 90, 100)
	mem.SeedStaff(3, 9)
	for i := 1; i <= 3; i++ {
		mem.SeedSale(1, 2, time.Now().AddDate(0, 0, -i))
	}
	handler := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())

	result, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.AlertsCreated)
	assert.Equal(t, 0, result.RequestsCreated)
}

func TestTriggerReplenishment_NoSalesHistoryIsNoSignal(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 1, 100)
	mem.SeedStaff(3, 9)
	handler := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())

	result, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.AlertsCreated, "a pair without history must not alert")
}

func TestTriggerReplenishment_FullShelfGetsAlertAndTaskButNoRequest(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 5, 5)
	mem.SeedStaff(3, 9)
	for i := 1; i <= 3; i++ {
		mem.SeedSale(1, 5, time.Now().AddDate(0, 0, -i))
	}
	handler := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())

	result, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.AlertsCreated)
	assert.Equal(t, 0, result.RequestsCreated, "a shelf at capacity needs nothing")
	assert.Equal(t, 1, result.TasksAssigned)

	// No request was placed, so the alert stays open
	alert, err := mem.Alerts().FindOpenByPair(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusOpen, alert.Status)
}

func TestTriggerReplenishment_ContinuesPastFailingPair(t *testing.T) {
	mem := repository.NewMemory()
	// Store 3 has no staff, so task assignment fails for the first pair
	mem.SeedShelfStock(1, 2, 3, 5, 100)
	mem.SeedShelfStock(4, 5, 6, 5, 100)
	mem.SeedStaff(6, 11)
	for i := 1; i <= 3; i++ {
		mem.SeedSale(1, 5, time.Now().AddDate(0, 0, -i))
		mem.SeedSale(4, 5, time.Now().AddDate(0, 0, -i))
	}
	handler := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())

	result, err := handler.Handle(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, uint(1), result.Errors[0].ProductID)
	assert.Contains(t, result.Errors[0].Message, "no staff available")

	// Work done before the failure sticks, and the healthy pair completes
	assert.Equal(t, 2, result.AlertsCreated)
	assert.Equal(t, 2, result.RequestsCreated)
	assert.Equal(t, 1, result.TasksAssigned)
}
