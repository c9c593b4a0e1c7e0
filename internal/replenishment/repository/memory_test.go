package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

func TestMemory_WithinTxRollsBackOnError(t *testing.T) {
	mem := NewMemory()
	mem.SeedShelfStock(1, 2, 3, 10, 100)

	boom := errors.New("boom")
	err := mem.WithinTx(context.Background(), func(tx domain.Store) error {
		if err := tx.ShelfStockWriter().AddQuantity(context.Background(), 1, 2, 50); err != nil {
			return err
		}
		alert := &domain.ReplenishmentAlert{ProductID: 1, ShelfID: 2, Status: domain.AlertStatusOpen}
		if err := tx.Alerts().Create(context.Background(), alert); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 10, mem.Quantity(1, 2), "quantity change must roll back")
	alerts, err := mem.Alerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, alerts, "alert creation must roll back")
}

func TestMemory_WithinTxCommits(t *testing.T) {
	mem := NewMemory()
	mem.SeedShelfStock(1, 2, 3, 10, 100)

	err := mem.WithinTx(context.Background(), func(tx domain.Store) error {
		return tx.ShelfStockWriter().AddQuantity(context.Background(), 1, 2, 50)
	})
	require.NoError(t, err)
	assert.Equal(t, 60, mem.Quantity(1, 2))
}

func TestMemory_OneOpenAlertPerPair(t *testing.T) {
	mem := NewMemory()

	first := &domain.ReplenishmentAlert{ProductID: 1, ShelfID: 2, Status: domain.AlertStatusOpen}
	require.NoError(t, mem.Alerts().Create(context.Background(), first))

	second := &domain.ReplenishmentAlert{ProductID: 1, ShelfID: 2, Status: domain.AlertStatusOpen}
	err := mem.Alerts().Create(context.Background(), second)
	assert.True(t, domain.IsConflict(err))

	// Other statuses and other pairs are fine
	completed := &domain.ReplenishmentAlert{ProductID: 1, ShelfID: 2, Status: domain.AlertStatusCompleted}
	assert.NoError(t, mem.Alerts().Create(context.Background(), completed))
	other := &domain.ReplenishmentAlert{ProductID: 1, ShelfID: 3, Status: domain.AlertStatusOpen}
	assert.NoError(t, mem.Alerts().Create(context.Background(), other))
}

func TestMemory_DailyTotalsGroupsByDay(t *testing.T) {
	mem := NewMemory()
	mem.SeedSale(1, 3, time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	mem.SeedSale(1, 4, time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC))
	mem.SeedSale(1, 2, time.Date(2026, 5, 3, 12, 0, 0, 0, time.UTC))

	rows, err := mem.Sales().DailyTotals(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 7, rows[0].Units)
	assert.Equal(t, 2, rows[1].Units)
}

func TestMemory_DailyTotalsHonorsWindow(t *testing.T) {
	mem := NewMemory()
	mem.SeedSale(1, 3, time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	mem.SeedSale(1, 2, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))

	rows, err := mem.Sales().DailyTotals(context.Background(), time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Units)
}

func TestMemory_FrequencyStats(t *testing.T) {
	mem := NewMemory()

	// Three alerts across ten days for one pair: one still active, two closed
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, mem.Alerts().Create(context.Background(), &domain.ReplenishmentAlert{
		ProductID: 1, ShelfID: 2, Status: domain.AlertStatusOpen, CreatedAt: base.AddDate(0, 0, 10),
	}))
	for _, createdAt := range []time.Time{base, base.AddDate(0, 0, 5)} {
		require.NoError(t, mem.ClosedAlerts().Archive(context.Background(), &domain.ClosedReplenishmentAlert{
			OriginalAlertID: uint(createdAt.Day()), ProductID: 1, ShelfID: 2,
			Status: domain.AlertStatusCompleted, CreatedAt: createdAt, ClosedAt: createdAt.AddDate(0, 0, 1),
		}))
	}

	rows, err := mem.Alerts().FrequencyStats(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].AlertCount)
	assert.Equal(t, 10, rows[0].TotalDays)
	assert.InDelta(t, 3.33, rows[0].AvgRestockFrequencyDays, 0.001)
}

func TestMemory_ReportLogAccumulates(t *testing.T) {
	mem := NewMemory()
	day := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, mem.Reports().Log(context.Background(), 1, 2, 5, 0, true, day))
	require.NoError(t, mem.Reports().Log(context.Background(), 1, 2, 100, 95, false, day.Add(6*time.Hour)))

	report, err := mem.Reports().FindByPairAndDate(context.Background(), 1, 2, day)
	require.NoError(t, err)
	assert.Equal(t, 100, report.QuantityOnShelf, "latest snapshot wins")
	assert.Equal(t, 95, report.QuantityRestocked, "restocked units accumulate")
	assert.True(t, report.AlertTriggered, "the trigger flag is sticky")

	// A different day is a different row
	reports, err := mem.Reports().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}
