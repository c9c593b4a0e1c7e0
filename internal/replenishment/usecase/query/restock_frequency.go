package query

import (
	"context"
	"fmt"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/cache"
)

const frequencyCacheKey = "replenishment:frequency"

// RestockFrequencyHandler handles the restock frequency report: per pair, how
// many alerts ever fired and the average days between them, across both the
// active set and the archive.
type RestockFrequencyHandler struct {
	store domain.Store
	cache *cache.Cache
}

// NewRestockFrequencyHandler creates a new restock frequency handler
func NewRestockFrequencyHandler(store domain.Store, c *cache.Cache) *RestockFrequencyHandler {
	return &RestockFrequencyHandler{store: store, cache: c}
}

// Handle executes the restock frequency query
func (h *RestockFrequencyHandler) Handle(ctx context.Context) ([]domain.FrequencyRow, error) {
	var cached []domain.FrequencyRow
	if h.cache.GetJSON(ctx, frequencyCacheKey, &cached) {
		return cached, nil
	}

	rows, err := h.store.Alerts().FrequencyStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute restock frequency: %w", err)
	}

	h.cache.SetJSON(ctx, frequencyCacheKey, rows)
	return rows, nil
}
