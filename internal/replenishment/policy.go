package replenishment

import (
	"os"
	"strconv"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// PolicyFromEnv builds the replenishment policy from the environment.
// Unset or malformed values keep the production defaults.
func PolicyFromEnv() domain.Policy {
	policy := domain.DefaultPolicy()
	policy.LowStockThresholdDays = envFloat("LOW_STOCK_THRESHOLD_DAYS", policy.LowStockThresholdDays)
	policy.MinVelocity = envFloat("MIN_VELOCITY", policy.MinVelocity)
	policy.VelocityWindowDays = envInt("VELOCITY_WINDOW_DAYS", policy.VelocityWindowDays)
	if hours := envFloat("DEFAULT_TRANSIT_ETA_HOURS", policy.DefaultTransitETA.Hours()); hours > 0 {
		policy.DefaultTransitETA = time.Duration(hours * float64(time.Hour))
	}
	return policy
}

func envFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
