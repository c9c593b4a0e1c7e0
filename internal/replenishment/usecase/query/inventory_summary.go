package query

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/cache"
)

const summaryCacheKey = "replenishment:summary"

// SummaryRow is the dashboard projection for one (product, shelf) pair
type SummaryRow struct {
	ProductID     uint       `json:"product_id"`
	ShelfID       uint       `json:"shelf_id"`
	StoreID       uint       `json:"store_id"`
	Quantity      int        `json:"quantity"`
	Capacity      int        `json:"capacity"`
	LastRestocked *time.Time `json:"last_restocked,omitempty"`
	HasOpenAlert  bool       `json:"has_open_alert"`
}

// InventorySummaryHandler handles the dashboard summary query. The projection
// is cached; the cache degrades to a direct read when redis is absent.
type InventorySummaryHandler struct {
	store domain.Store
	cache *cache.Cache
}

// NewInventorySummaryHandler creates a new inventory summary handler
func NewInventorySummaryHandler(store domain.Store, c *cache.Cache) *InventorySummaryHandler {
	return &InventorySummaryHandler{store: store, cache: c}
}

// Handle executes the inventory summary query
func (h *InventorySummaryHandler) Handle(ctx context.Context) ([]SummaryRow, error) {
	var cached []SummaryRow
	if h.cache.GetJSON(ctx, summaryCacheKey, &cached) {
		return cached, nil
	}

	views, err := h.store.ShelfStock().ListWithCapacity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelf stock: %w", err)
	}

	rows := make([]SummaryRow, 0, len(views))
	for _, view := range views {
		row := SummaryRow{
			ProductID: view.ProductID,
			ShelfID:   view.ShelfID,
			StoreID:   view.StoreID,
			Quantity:  view.Quantity,
			Capacity:  view.Capacity,
		}

		task, err := h.store.Tasks().FindLatestCompletedByPair(ctx, view.ProductID, view.ShelfID)
		switch {
		case err == nil:
			row.LastRestocked = task.CompletedAt
		case !domain.IsNotFound(err):
			return nil, fmt.Errorf("failed to read restock history: %w", err)
		}

		_, err = h.store.Alerts().FindOpenByPair(ctx, view.ProductID, view.ShelfID)
		switch {
		case err == nil:
			row.HasOpenAlert = true
		case !domain.IsNotFound(err):
			return nil, fmt.Errorf("failed to read open alerts: %w", err)
		}

		rows = append(rows, row)
	}

	h.cache.SetJSON(ctx, summaryCacheKey, rows)
	return rows, nil
}
