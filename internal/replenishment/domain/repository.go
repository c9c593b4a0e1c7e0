package domain

import (
	"context"
	"time"
)

// AlertRepository defines data access for active replenishment alerts
type AlertRepository interface {
	Create(ctx context.Context, alert *ReplenishmentAlert) error
	FindByID(ctx context.Context, id uint) (*ReplenishmentAlert, error)
	FindAll(ctx context.Context, limit, offset int) ([]ReplenishmentAlert, error)
	// FindOpenByPair returns the newest open alert for the pair, or a
	// NotFoundError when none is open.
	FindOpenByPair(ctx context.Context, productID, shelfID uint) (*ReplenishmentAlert, error)
	// FindOldestOpenByPair returns the oldest open alert for the pair,
	// used by the post-delivery re-evaluation.
	FindOldestOpenByPair(ctx context.Context, productID, shelfID uint) (*ReplenishmentAlert, error)
	// FindLatestActiveByPair returns the alert tracking the pair's current
	// fulfillment: the most recent completed alert, or the most recent open
	// one when no request was ever placed.
	FindLatestActiveByPair(ctx context.Context, productID, shelfID uint) (*ReplenishmentAlert, error)
	Update(ctx context.Context, alert *ReplenishmentAlert) error
	Delete(ctx context.Context, id uint) error
	CountOpen(ctx context.Context) (int64, error)
	// FrequencyStats aggregates alert history per pair for the
	// restock-frequency projection.
	FrequencyStats(ctx context.Context) ([]FrequencyRow, error)
}

// FrequencyRow is one pair's alert-history aggregate
type FrequencyRow struct {
	ProductID               uint    `json:"product_id"`
	ShelfID                 uint    `json:"shelf_id"`
	AlertCount              int     `json:"alert_count"`
	TotalDays               int     `json:"total_days"`
	AvgRestockFrequencyDays float64 `json:"avg_restock_frequency_days"`
}

// ClosedAlertRepository defines data access for the alert archive
type ClosedAlertRepository interface {
	Archive(ctx context.Context, closed *ClosedReplenishmentAlert) error
	FindAll(ctx context.Context, limit, offset int) ([]ClosedReplenishmentAlert, error)
}

// StockRequestRepository defines data access for active stock requests and
// their archive tables
type StockRequestRepository interface {
	Create(ctx context.Context, request *StockRequest) error
	FindByID(ctx context.Context, id uint) (*StockRequest, error)
	FindAll(ctx context.Context, limit, offset int) ([]StockRequest, error)
	// FindActive returns requests in requested or in_transit status.
	FindActive(ctx context.Context) ([]StockRequest, error)
	// ActiveExistsForPair reports whether an active request already covers
	// the (product, store) pair.
	ActiveExistsForPair(ctx context.Context, productID, storeID uint) (bool, error)
	Update(ctx context.Context, request *StockRequest) error
	Delete(ctx context.Context, id uint) error
	ArchiveDelivered(ctx context.Context, archived *DeliveredStockRequest) error
	ArchiveCancelled(ctx context.Context, archived *CancelledStockRequest) error
	FindDelivered(ctx context.Context, limit, offset int) ([]DeliveredStockRequest, error)
	FindCancelled(ctx context.Context, limit, offset int) ([]CancelledStockRequest, error)
}

// RestockTaskRepository defines data access for restock tasks
type RestockTaskRepository interface {
	Create(ctx context.Context, task *RestockTask) error
	FindByID(ctx context.Context, id uint) (*RestockTask, error)
	FindAll(ctx context.Context, limit, offset int) ([]RestockTask, error)
	PendingExistsForPair(ctx context.Context, productID, shelfID uint) (bool, error)
	FindLatestCompletedByPair(ctx context.Context, productID, shelfID uint) (*RestockTask, error)
	ExistsForAlert(ctx context.Context, alertID uint) (bool, error)
	Update(ctx context.Context, task *RestockTask) error
}

// InventoryReportRepository logs and reads the daily snapshot table
type InventoryReportRepository interface {
	// Log upserts the (productID, shelfID, day) row: a new row is created,
	// an existing one accumulates quantityRestocked, refreshes
	// quantityOnShelf and ORs alertTriggered.
	Log(ctx context.Context, productID, shelfID uint, quantityOnShelf, quantityRestocked int, alertTriggered bool, day time.Time) error
	FindAll(ctx context.Context, limit, offset int) ([]InventoryReport, error)
	FindByPairAndDate(ctx context.Context, productID, shelfID uint, day time.Time) (*InventoryReport, error)
}

// ShelfStockReader reads shelf state joined with its shelf's capacity and
// store; ShelfStockWriter mutates on-shelf quantity. The orchestrator is
// the only writer of quantity through delivery and task completion.
type ShelfStockReader interface {
	ListWithCapacity(ctx context.Context) ([]ShelfStockView, error)
	FindView(ctx context.Context, productID, shelfID uint) (*ShelfStockView, error)
	// FindViewByStore locates the shelf holding the product within a store.
	FindViewByStore(ctx context.Context, productID, storeID uint) (*ShelfStockView, error)
}

// ShelfStockWriter mutates on-shelf quantity
type ShelfStockWriter interface {
	AddQuantity(ctx context.Context, productID, shelfID uint, delta int) error
}

// SalesReader aggregates the append-only sales history
type SalesReader interface {
	// DailyTotals returns per-(product, calendar day) summed quantities for
	// sales at or after since. A zero since means the full history.
	DailyTotals(ctx context.Context, since time.Time) ([]DailyProductSales, error)
	// ActivityByProduct returns per-product sale event counts and the
	// latest sale time for sales at or after since.
	ActivityByProduct(ctx context.Context, since time.Time) ([]ProductSalesActivity, error)
}

// StaffReader picks restock assignees
type StaffReader interface {
	// FirstStaffForStore returns a staff id for the store, or a
	// NotFoundError when the store has no staff.
	FirstStaffForStore(ctx context.Context, storeID uint) (uint, error)
}

// Store bundles the orchestrator's repositories behind one transactional
// boundary. WithinTx runs fn against a store whose writes commit or roll
// back as a unit; partial application is never observable.
type Store interface {
	Alerts() AlertRepository
	ClosedAlerts() ClosedAlertRepository
	Requests() StockRequestRepository
	Tasks() RestockTaskRepository
	Reports() InventoryReportRepository
	ShelfStock() ShelfStockReader
	ShelfStockWriter() ShelfStockWriter
	Sales() SalesReader
	Staff() StaffReader
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// EventPublisher emits lifecycle events to the message bus. Implementations
// must be safe to call with a request-scoped context; a nil publisher is
// replaced by a no-op.
type EventPublisher interface {
	AlertRaised(ctx context.Context, alert ReplenishmentAlert) error
	RequestDelivered(ctx context.Context, archived DeliveredStockRequest) error
	RequestCancelled(ctx context.Context, archived CancelledStockRequest) error
}

// NopPublisher discards all events
type NopPublisher struct{}

func (NopPublisher) AlertRaised(context.Context, ReplenishmentAlert) error       { return nil }
func (NopPublisher) RequestDelivered(context.Context, DeliveredStockRequest) error { return nil }
func (NopPublisher) RequestCancelled(context.Context, CancelledStockRequest) error { return nil }
