package replenishment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

func TestPolicyFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"LOW_STOCK_THRESHOLD_DAYS", "MIN_VELOCITY", "VELOCITY_WINDOW_DAYS", "DEFAULT_TRANSIT_ETA_HOURS"} {
		t.Setenv(key, "")
	}
	assert.Equal(t, domain.DefaultPolicy(), PolicyFromEnv())
}

func TestPolicyFromEnv_Overrides(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD_DAYS", "3")
	t.Setenv("MIN_VELOCITY", "0.5")
	t.Setenv("VELOCITY_WINDOW_DAYS", "30")
	t.Setenv("DEFAULT_TRANSIT_ETA_HOURS", "24")

	policy := PolicyFromEnv()
	assert.InDelta(t, 3.0, policy.LowStockThresholdDays, 0.001)
	assert.InDelta(t, 0.5, policy.MinVelocity, 0.001)
	assert.Equal(t, 30, policy.VelocityWindowDays)
	assert.Equal(t, 24*time.Hour, policy.DefaultTransitETA)
}

func TestPolicyFromEnv_MalformedValuesKeepDefaults(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD_DAYS", "soon")
	t.Setenv("MIN_VELOCITY", "")
	t.Setenv("VELOCITY_WINDOW_DAYS", "2.5")
	t.Setenv("DEFAULT_TRANSIT_ETA_HOURS", "-6")

	assert.Equal(t, domain.DefaultPolicy(), PolicyFromEnv())
}

func TestPolicyFromEnv_FractionalTransitETA(t *testing.T) {
	t.Setenv("DEFAULT_TRANSIT_ETA_HOURS", "1.5")

	assert.Equal(t, 90*time.Minute, PolicyFromEnv().DefaultTransitETA)
}
