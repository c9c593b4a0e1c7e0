package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVelocityByProduct_AveragesOverDaysWithSales(t *testing.T) {
	// 30 units across 3 distinct days; silent days do not dilute the mean
	daily := []DailyProductSales{
		{ProductID: 1, Day: day(2026, 3, 1), Units: 5},
		{ProductID: 1, Day: day(2026, 3, 2), Units: 10},
		{ProductID: 1, Day: day(2026, 3, 5), Units: 15},
	}

	velocity := VelocityByProduct(daily)
	assert.InDelta(t, 10.0, velocity[1], 0.001)
}

func TestVelocityByProduct_MultipleProducts(t *testing.T) {
	daily := []DailyProductSales{
		{ProductID: 1, Day: day(2026, 3, 1), Units: 4},
		{ProductID: 2, Day: day(2026, 3, 1), Units: 1},
		{ProductID: 2, Day: day(2026, 3, 2), Units: 3},
	}

	velocity := VelocityByProduct(daily)
	assert.InDelta(t, 4.0, velocity[1], 0.001)
	assert.InDelta(t, 2.0, velocity[2], 0.001)
}

func TestVelocityByProduct_NoHistory(t *testing.T) {
	velocity := VelocityByProduct(nil)
	_, ok := velocity[1]
	assert.False(t, ok, "products without sales should be absent")
}

func TestPredict_ZeroVelocityIsUnbounded(t *testing.T) {
	stock := ShelfStockView{ProductID: 1, ShelfID: 2, StoreID: 3, Quantity: 50, Capacity: 100}

	p := Predict(stock, 0, DefaultPolicy(), day(2026, 3, 10))

	assert.True(t, p.Unbounded)
	assert.False(t, p.IsLowStock)
	assert.Nil(t, p.ExpectedDepletionDate)
	assert.Empty(t, p.Urgency)
}

func TestPredict_BelowMinVelocityIsNotLowStock(t *testing.T) {
	stock := ShelfStockView{ProductID: 1, ShelfID: 2, Quantity: 0, Capacity: 100}

	p := Predict(stock, 0.05, DefaultPolicy(), day(2026, 3, 10))

	assert.False(t, p.Unbounded)
	assert.False(t, p.IsLowStock, "velocity under the floor is no signal")
	assert.Empty(t, p.Urgency)
}

func TestPredict_CriticalDepletion(t *testing.T) {
	stock := ShelfStockView{ProductID: 1, ShelfID: 2, StoreID: 3, Quantity: 5, Capacity: 100}

	p := Predict(stock, 5, DefaultPolicy(), day(2026, 3, 10))

	assert.True(t, p.IsLowStock)
	assert.InDelta(t, 1.0, p.DaysToDepletion, 0.001)
	assert.Equal(t, UrgencyCritical, p.Urgency)
	require.NotNil(t, p.ExpectedDepletionDate)
	assert.Equal(t, day(2026, 3, 11), *p.ExpectedDepletionDate)
}

func TestPredict_RoundsToTwoDecimals(t *testing.T) {
	stock := ShelfStockView{Quantity: 10}

	p := Predict(stock, 3, DefaultPolicy(), day(2026, 3, 10))

	assert.InDelta(t, 3.33, p.DaysToDepletion, 0.001)
	assert.Equal(t, UrgencyMedium, p.Urgency)
}

func TestPredict_AboveThresholdIsNotLowStock(t *testing.T) {
	stock := ShelfStockView{Quantity: 50}

	p := Predict(stock, 5, DefaultPolicy(), day(2026, 3, 10))

	assert.False(t, p.IsLowStock)
	assert.InDelta(t, 10.0, p.DaysToDepletion, 0.001)
	assert.Empty(t, p.Urgency)
}

func TestUrgencyFor_TierBoundaries(t *testing.T) {
	tests := []struct {
		days    float64
		urgency string
	}{
		{0.5, UrgencyCritical},
		{1.0, UrgencyCritical},
		{1.01, UrgencyHigh},
		{2.0, UrgencyHigh},
		{3.5, UrgencyMedium},
		{4.0, UrgencyMedium},
		{4.5, UrgencyLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.urgency, UrgencyFor(tt.days), "days=%v", tt.days)
	}
}

func TestShelfStockView_QuantityNeeded(t *testing.T) {
	v := ShelfStockView{Quantity: 30, Capacity: 100}
	assert.Equal(t, 70, v.QuantityNeeded())
}

func TestDay_TruncatesToUTCDate(t *testing.T) {
	ts := time.Date(2026, 3, 10, 17, 45, 12, 0, time.UTC)
	assert.Equal(t, day(2026, 3, 10), Day(ts))
}

func TestPrediction_ZeroDaysToDepletionSerializes(t *testing.T) {
	// An already-empty shelf with a live velocity predicts 0 days, which is
	// not the same as "unbounded" and must survive serialization.
	stock := ShelfStockView{ProductID: 1, ShelfID: 2, Quantity: 0, Capacity: 100}

	p := Predict(stock, 5, DefaultPolicy(), day(2026, 3, 10))
	require.False(t, p.Unbounded)
	assert.Zero(t, p.DaysToDepletion)
	assert.True(t, p.IsLowStock)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"days_to_depletion":0`)
}
