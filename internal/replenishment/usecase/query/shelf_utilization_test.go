package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/backend/internal/replenishment/repository"
)

func TestLowUtilization_FlagsSparseShelvesThatStillSell(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 5, 100)
	mem.SeedShelfStock(4, 5, 3, 90, 100)

	lastSale := time.Now().Add(-2 * time.Hour)
	mem.SeedSale(1, 2, time.Now().Add(-48*time.Hour))
	mem.SeedSale(1, 1, lastSale)
	mem.SeedSale(4, 3, time.Now().Add(-1*time.Hour))
	mem.SeedSale(4, 3, time.Now().Add(-2*time.Hour))

	handler := NewLowUtilizationHandler(mem, nil)
	rows, err := handler.Handle(context.Background())
	require.NoError(t, err)

	// The 90% pair sells but is not underutilized.
	require.Len(t, rows, 1)
	assert.Equal(t, uint(1), rows[0].ProductID)
	assert.Equal(t, uint(2), rows[0].ShelfID)
	assert.Equal(t, 5, rows[0].Quantity)
	assert.Equal(t, 100, rows[0].Capacity)
	assert.InDelta(t, 5.0, rows[0].UtilizationPercent, 0.001)
	assert.Equal(t, 2, rows[0].SalesCountLast7Days)
	require.NotNil(t, rows[0].LastSaleTime)
	assert.True(t, rows[0].LastSaleTime.Equal(lastSale))
}

func TestLowUtilization_SingleRecentSaleIsNotASignal(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 5, 100)
	mem.SeedSale(1, 2, time.Now().Add(-1*time.Hour))

	handler := NewLowUtilizationHandler(mem, nil)
	rows, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLowUtilization_StaleSalesFallOutOfTheWindow(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 5, 100)
	mem.SeedSale(1, 2, time.Now().AddDate(0, 0, -10))
	mem.SeedSale(1, 2, time.Now().AddDate(0, 0, -8))

	handler := NewLowUtilizationHandler(mem, nil)
	rows, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLowUtilization_RoundsUtilizationToTwoDecimals(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 1, 30)
	mem.SeedSale(1, 1, time.Now().Add(-1*time.Hour))
	mem.SeedSale(1, 1, time.Now().Add(-2*time.Hour))

	handler := NewLowUtilizationHandler(mem, nil)
	rows, err := handler.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 3.33, rows[0].UtilizationPercent, 0.001)
}
