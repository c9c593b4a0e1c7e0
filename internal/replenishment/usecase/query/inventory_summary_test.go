package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/internal/replenishment/repository"
)

func TestInventorySummary_ProjectsStockAlertsAndRestocks(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 40, 100)
	mem.SeedShelfStock(4, 5, 3, 80, 120)

	require.NoError(t, mem.Alerts().Create(context.Background(), &domain.ReplenishmentAlert{
		ProductID: 1, ShelfID: 2, Status: domain.AlertStatusOpen, CreatedAt: time.Now(),
	}))

	completedAt := time.Date(2026, 5, 2, 14, 0, 0, 0, time.UTC)
	task := &domain.RestockTask{
		AlertID: 1, ProductID: 4, ShelfID: 5, AssignedTo: 9,
		Status: domain.TaskStatusCompleted, CompletedAt: &completedAt,
	}
	require.NoError(t, mem.Tasks().Create(context.Background(), task))

	handler := NewInventorySummaryHandler(mem, nil)
	rows, err := handler.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, uint(1), rows[0].ProductID)
	assert.Equal(t, 40, rows[0].Quantity)
	assert.Equal(t, 100, rows[0].Capacity)
	assert.True(t, rows[0].HasOpenAlert)
	assert.Nil(t, rows[0].LastRestocked)

	assert.Equal(t, uint(4), rows[1].ProductID)
	assert.False(t, rows[1].HasOpenAlert)
	require.NotNil(t, rows[1].LastRestocked)
	assert.Equal(t, completedAt, *rows[1].LastRestocked)
}

func TestInventorySummary_EmptyStore(t *testing.T) {
	handler := NewInventorySummaryHandler(repository.NewMemory(), nil)
	rows, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRestockFrequency_DelegatesToAlertHistory(t *testing.T) {
	mem := repository.NewMemory()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, mem.Alerts().Create(context.Background(), &domain.ReplenishmentAlert{
		ProductID: 1, ShelfID: 2, Status: domain.AlertStatusOpen, CreatedAt: base.AddDate(0, 0, 6),
	}))
	require.NoError(t, mem.ClosedAlerts().Archive(context.Background(), &domain.ClosedReplenishmentAlert{
		OriginalAlertID: 1, ProductID: 1, ShelfID: 2,
		Status: domain.AlertStatusCompleted, CreatedAt: base, ClosedAt: base.AddDate(0, 0, 1),
	}))

	handler := NewRestockFrequencyHandler(mem, nil)
	rows, err := handler.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].AlertCount)
	assert.Equal(t, 6, rows[0].TotalDays)
	assert.InDelta(t, 3.0, rows[0].AvgRestockFrequencyDays, 0.001)
}
