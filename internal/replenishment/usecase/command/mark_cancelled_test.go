package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/internal/replenishment/repository"
)

func TestMarkCancelled_AnnotatesAlertAndArchives(t *testing.T) {
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

	handler := NewMarkCancelledHandler(mem, domain.NopPublisher{})
	archived, err := handler.Handle(context.Background(), MarkCancelledCommand{
		RequestID: requests[0].ID,
		Reason:    "supplier out of stock",
	})
	require.NoError(t, err)

	assert.Equal(t, requests[0].ID, archived.OriginalRequestID)
	assert.Equal(t, "supplier out of stock", archived.CancelReason)
	require.NotNil(t, archived.AlertID)
	assert.Equal(t, alerts[0].ID, *archived.AlertID)

	// Request left the active table, shelf quantity untouched
	_, err = mem.Requests().FindByID(context.Background(), requests[0].ID)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, 5, mem.Quantity(1, 2))

	// The alert stays in the active set, flagged as cancelled
	alert, err := mem.Alerts().FindByID(context.Background(), alerts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AlertStatusCancelled, alert.Status)
	assert.Contains(t, alert.FulfillmentNote, "supplier out of stock")

	cancelled, err := mem.Requests().FindCancelled(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, cancelled, 1)
}

func TestMarkCancelled_NextSweepStartsOver(t *testing.T) {
	mem := repository.NewMemory()
	seedLowStockPair(mem)

	trigger := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())
	_, err := trigger.Handle(context.Background())
	require.NoError(t, err)

	requests, err := mem.Requests().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, requests, 1)

	cancel := NewMarkCancelledHandler(mem, domain.NopPublisher{})
	_, err = cancel.Handle(context.Background(), MarkCancelledCommand{RequestID: requests[0].ID, Reason: "truck broke down"})
	require.NoError(t, err)

	// The pair is still depleting, so the next sweep raises a fresh alert
	// and a fresh request
	result, err := trigger.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.AlertsCreated)
	assert.Equal(t, 1, result.RequestsCreated)
}

func TestMarkCancelled_RequiresReason(t *testing.T) {
	mem := repository.NewMemory()
	handler := NewMarkCancelledHandler(mem, domain.NopPublisher{})

	_, err := handler.Handle(context.Background(), MarkCancelledCommand{RequestID: 1})
	assert.True(t, domain.IsValidation(err))

	_, err = handler.Handle(context.Background(), MarkCancelledCommand{RequestID: 1, Reason: "   "})
	assert.True(t, domain.IsValidation(err))
}
