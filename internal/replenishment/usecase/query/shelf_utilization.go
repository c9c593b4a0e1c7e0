package query

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/cache"
)

const utilizationCacheKey = "replenishment:utilization"

const (
	// lowUtilizationPercent bounds the shelf utilization considered "low".
	lowUtilizationPercent = 20.0
	// utilizationSalesWindow is how far back sale events are counted.
	utilizationSalesWindow = 7 * 24 * time.Hour
	// utilizationMinSaleCount is the smallest recent sale count that still
	// marks a pair as actively selling.
	utilizationMinSaleCount = 2
)

// UtilizationRow flags a shelf placement that holds little stock yet keeps
// selling: a merchandising signal, not a replenishment one.
type UtilizationRow struct {
	ProductID           uint       `json:"product_id"`
	ShelfID             uint       `json:"shelf_id"`
	Quantity            int        `json:"quantity"`
	Capacity            int        `json:"capacity"`
	UtilizationPercent  float64    `json:"utilization_percent"`
	SalesCountLast7Days int        `json:"sales_count_last_7_days"`
	LastSaleTime        *time.Time `json:"last_sale_time,omitempty"`
}

// LowUtilizationHandler handles the low-utilization-with-sales report: pairs
// under 20% shelf utilization that still recorded more than one sale in the
// last seven days.
type LowUtilizationHandler struct {
	store domain.Store
	cache *cache.Cache
}

// NewLowUtilizationHandler creates a new low utilization handler
func NewLowUtilizationHandler(store domain.Store, c *cache.Cache) *LowUtilizationHandler {
	return &LowUtilizationHandler{store: store, cache: c}
}

// Handle executes the low utilization query
func (h *LowUtilizationHandler) Handle(ctx context.Context) ([]UtilizationRow, error) {
	var cached []UtilizationRow
	if h.cache.GetJSON(ctx, utilizationCacheKey, &cached) {
		return cached, nil
	}

	views, err := h.store.ShelfStock().ListWithCapacity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelf stock: %w", err)
	}

	since := time.Now().Add(-utilizationSalesWindow)
	activity, err := h.store.Sales().ActivityByProduct(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales activity: %w", err)
	}
	byProduct := make(map[uint]domain.ProductSalesActivity, len(activity))
	for _, entry := range activity {
		byProduct[entry.ProductID] = entry
	}

	rows := make([]UtilizationRow, 0)
	for _, view := range views {
		if view.Capacity <= 0 {
			continue
		}
		utilization := math.Round(float64(view.Quantity)*100/float64(view.Capacity)*100) / 100
		if utilization >= lowUtilizationPercent {
			continue
		}

		recent := byProduct[view.ProductID]
		if recent.SaleCount < utilizationMinSaleCount {
			continue
		}

		row := UtilizationRow{
			ProductID:           view.ProductID,
			ShelfID:             view.ShelfID,
			Quantity:            view.Quantity,
			Capacity:            view.Capacity,
			UtilizationPercent:  utilization,
			SalesCountLast7Days: recent.SaleCount,
		}
		if !recent.LastSale.IsZero() {
			last := recent.LastSale
			row.LastSaleTime = &last
		}
		rows = append(rows, row)
	}

	h.cache.SetJSON(ctx, utilizationCacheKey, rows)
	return rows, nil
}
