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

func TestPredictDepletion_OpensAlertsWithoutPlacingRequests(t *testing.T) {
	mem := repository.NewMemory()
	seedLowStockPair(mem)
	// A healthy pair alongside the depleting one
	mem.SeedShelfStock(4, 5, 3, 90, 100)
	for i := 1; i <= 3; i++ {
		mem.SeedSale(4, 1, time.Now().AddDate(0, 0, -i))
	}

	handler := NewPredictDepletionHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())
	predictions, err := handler.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, predictions, 2, "every pair gets an outlook")

	assert.True(t, predictions[0].IsLowStock)
	assert.InDelta(t, 1.0, predictions[0].DaysToDepletion, 0.001)
	assert.False(t, predictions[1].IsLowStock)

	// Only the low pair alerted, and nothing else was touched
	alerts, err := mem.Alerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertStatusOpen, alerts[0].Status)

	requests, err := mem.Requests().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, requests)
	tasks, err := mem.Tasks().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestPredictDepletion_ExistingOpenAlertIsKept(t *testing.T) {
	mem := repository.NewMemory()
	seedLowStockPair(mem)

	handler := NewPredictDepletionHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())
	_, err := handler.Handle(context.Background())
	require.NoError(t, err)
	_, err = handler.Handle(context.Background())
	require.NoError(t, err)

	alerts, err := mem.Alerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, alerts, 1, "repeat sweeps reuse the open alert")
}
