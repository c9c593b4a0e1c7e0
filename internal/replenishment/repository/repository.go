package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// Store is the GORM-backed implementation of domain.Store
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store over the given database handle
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the replenishment tables
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&domain.ReplenishmentAlert{},
		&domain.ClosedReplenishmentAlert{},
		&domain.StockRequest{},
		&domain.DeliveredStockRequest{},
		&domain.CancelledStockRequest{},
		&domain.RestockTask{},
		&domain.InventoryReport{},
	)
}

func (s *Store) Alerts() domain.AlertRepository               { return &alertRepository{db: s.db} }
func (s *Store) ClosedAlerts() domain.ClosedAlertRepository   { return &closedAlertRepository{db: s.db} }
func (s *Store) Requests() domain.StockRequestRepository      { return &requestRepository{db: s.db} }
func (s *Store) Tasks() domain.RestockTaskRepository          { return &taskRepository{db: s.db} }
func (s *Store) Reports() domain.InventoryReportRepository    { return &reportRepository{db: s.db} }
func (s *Store) ShelfStock() domain.ShelfStockReader          { return &shelfStockRepository{db: s.db} }
func (s *Store) ShelfStockWriter() domain.ShelfStockWriter    { return &shelfStockRepository{db: s.db} }
func (s *Store) Sales() domain.SalesReader                    { return &salesRepository{db: s.db} }
func (s *Store) Staff() domain.StaffReader                    { return &staffRepository{db: s.db} }

// WithinTx runs fn against a store bound to one database transaction.
// Any error from fn rolls the whole unit back.
func (s *Store) WithinTx(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// wrapErr maps GORM failures onto the domain error kinds. Record-not-found
// is handled at call sites, which know the entity name.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.ConflictError{Msg: op + ": duplicate record"}
	}
	return &domain.StorageError{Op: op, Err: err}
}

type alertRepository struct {
	db *gorm.DB
}

func (r *alertRepository) Create(ctx context.Context, alert *domain.ReplenishmentAlert) error {
	return wrapErr("create alert", r.db.WithContext(ctx).Create(alert).Error)
}

func (r *alertRepository) FindByID(ctx context.Context, id uint) (*domain.ReplenishmentAlert, error) {
	var alert domain.ReplenishmentAlert
	err := r.db.WithContext(ctx).First(&alert, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "alert", ID: id}
	}
	if err != nil {
		return nil, wrapErr("find alert", err)
	}
	return &alert, nil
}

func (r *alertRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.ReplenishmentAlert, error) {
	var alerts []domain.ReplenishmentAlert
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("created_at DESC").Find(&alerts).Error
	return alerts, wrapErr("list alerts", err)
}

func (r *alertRepository) FindOpenByPair(ctx context.Context, productID, shelfID uint) (*domain.ReplenishmentAlert, error) {
	return r.findByPair(ctx, productID, shelfID, "status = ?", "created_at DESC", domain.AlertStatusOpen)
}

func (r *alertRepository) FindOldestOpenByPair(ctx context.Context, productID, shelfID uint) (*domain.ReplenishmentAlert, error) {
	return r.findByPair(ctx, productID, shelfID, "status = ?", "created_at ASC", domain.AlertStatusOpen)
}

func (r *alertRepository) FindLatestActiveByPair(ctx context.Context, productID, shelfID uint) (*domain.ReplenishmentAlert, error) {
	// Completed alerts sort first: when both exist, the completed one is
	// the alert tied to the outstanding request.
	return r.findByPair(ctx, productID, shelfID, "status IN ?",
		"CASE status WHEN 'completed' THEN 0 ELSE 1 END, created_at DESC",
		[]string{domain.AlertStatusOpen, domain.AlertStatusCompleted})
}

func (r *alertRepository) findByPair(ctx context.Context, productID, shelfID uint, statusCond, order string, statusArg interface{}) (*domain.ReplenishmentAlert, error) {
	var alert domain.ReplenishmentAlert
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND shelf_id = ?", productID, shelfID).
		Where(statusCond, statusArg).
		Order(order).
		First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "alert", ID: 0}
	}
	if err != nil {
		return nil, wrapErr("find alert by pair", err)
	}
	return &alert, nil
}

func (r *alertRepository) Update(ctx context.Context, alert *domain.ReplenishmentAlert) error {
	return wrapErr("update alert", r.db.WithContext(ctx).Save(alert).Error)
}

func (r *alertRepository) Delete(ctx context.Context, id uint) error {
	return wrapErr("delete alert", r.db.WithContext(ctx).Delete(&domain.ReplenishmentAlert{}, id).Error)
}

func (r *alertRepository) CountOpen(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ReplenishmentAlert{}).
		Where("status = ?", domain.AlertStatusOpen).
		Count(&count).Error
	return count, wrapErr("count open alerts", err)
}

func (r *alertRepository) FrequencyStats(ctx context.Context) ([]domain.FrequencyRow, error) {
	// Frequency spans the full alert history, so the archive is unioned in.
	var rows []domain.FrequencyRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT product_id,
		       shelf_id,
		       COUNT(*) AS alert_count,
		       COALESCE(DATE_PART('day', MAX(created_at) - MIN(created_at)), 0)::int AS total_days,
		       ROUND((COALESCE(DATE_PART('day', MAX(created_at) - MIN(created_at)), 0) / COUNT(*))::numeric, 2) AS avg_restock_frequency_days
		FROM (
			SELECT product_id, shelf_id, created_at FROM replenishment_alerts
			UNION ALL
			SELECT product_id, shelf_id, created_at FROM closed_replenishment_alerts
		) combined
		GROUP BY product_id, shelf_id
		ORDER BY product_id, shelf_id`).Scan(&rows).Error
	return rows, wrapErr("frequency stats", err)
}

type closedAlertRepository struct {
	db *gorm.DB
}

func (r *closedAlertRepository) Archive(ctx context.Context, closed *domain.ClosedReplenishmentAlert) error {
	return wrapErr("archive alert", r.db.WithContext(ctx).Create(closed).Error)
}

func (r *closedAlertRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.ClosedReplenishmentAlert, error) {
	var closed []domain.ClosedReplenishmentAlert
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("closed_at DESC").Find(&closed).Error
	return closed, wrapErr("list closed alerts", err)
}

type requestRepository struct {
	db *gorm.DB
}

func (r *requestRepository) Create(ctx context.Context, request *domain.StockRequest) error {
	return wrapErr("create stock request", r.db.WithContext(ctx).Create(request).Error)
}

func (r *requestRepository) FindByID(ctx context.Context, id uint) (*domain.StockRequest, error) {
	var request domain.StockRequest
	err := r.db.WithContext(ctx).First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "stock request", ID: id}
	}
	if err != nil {
		return nil, wrapErr("find stock request", err)
	}
	return &request, nil
}

func (r *requestRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.StockRequest, error) {
	var requests []domain.StockRequest
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("requested_at DESC").Find(&requests).Error
	return requests, wrapErr("list stock requests", err)
}

func (r *requestRepository) FindActive(ctx context.Context) ([]domain.StockRequest, error) {
	var requests []domain.StockRequest
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{domain.RequestStatusRequested, domain.RequestStatusInTransit}).
		Order("requested_at ASC").
		Find(&requests).Error
	return requests, wrapErr("list active stock requests", err)
}

func (r *requestRepository) ActiveExistsForPair(ctx context.Context, productID, storeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.StockRequest{}).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		Where("status IN ?", []string{domain.RequestStatusRequested, domain.RequestStatusInTransit}).
		Count(&count).Error
	return count > 0, wrapErr("check active stock request", err)
}

func (r *requestRepository) Update(ctx context.Context, request *domain.StockRequest) error {
	return wrapErr("update stock request", r.db.WithContext(ctx).Save(request).Error)
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	return wrapErr("delete stock request", r.db.WithContext(ctx).Delete(&domain.StockRequest{}, id).Error)
}

func (r *requestRepository) ArchiveDelivered(ctx context.Context, archived *domain.DeliveredStockRequest) error {
	return wrapErr("archive delivered request", r.db.WithContext(ctx).Create(archived).Error)
}

func (r *requestRepository) ArchiveCancelled(ctx context.Context, archived *domain.CancelledStockRequest) error {
	return wrapErr("archive cancelled request", r.db.WithContext(ctx).Create(archived).Error)
}

func (r *requestRepository) FindDelivered(ctx context.Context, limit, offset int) ([]domain.DeliveredStockRequest, error) {
	var archived []domain.DeliveredStockRequest
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("delivered_at DESC").Find(&archived).Error
	return archived, wrapErr("list delivered requests", err)
}

func (r *requestRepository) FindCancelled(ctx context.Context, limit, offset int) ([]domain.CancelledStockRequest, error) {
	var archived []domain.CancelledStockRequest
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("cancelled_at DESC").Find(&archived).Error
	return archived, wrapErr("list cancelled requests", err)
}

type taskRepository struct {
	db *gorm.DB
}

func (r *taskRepository) Create(ctx context.Context, task *domain.RestockTask) error {
	return wrapErr("create restock task", r.db.WithContext(ctx).Create(task).Error)
}

func (r *taskRepository) FindByID(ctx context.Context, id uint) (*domain.RestockTask, error) {
	var task domain.RestockTask
	err := r.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "restock task", ID: id}
	}
	if err != nil {
		return nil, wrapErr("find restock task", err)
	}
	return &task, nil
}

func (r *taskRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.RestockTask, error) {
	var tasks []domain.RestockTask
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("assigned_at DESC").Find(&tasks).Error
	return tasks, wrapErr("list restock tasks", err)
}

func (r *taskRepository) PendingExistsForPair(ctx context.Context, productID, shelfID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RestockTask{}).
		Where("product_id = ? AND shelf_id = ? AND status = ?", productID, shelfID, domain.TaskStatusPending).
		Count(&count).Error
	return count > 0, wrapErr("check pending restock task", err)
}

func (r *taskRepository) FindLatestCompletedByPair(ctx context.Context, productID, shelfID uint) (*domain.RestockTask, error) {
	var task domain.RestockTask
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND shelf_id = ? AND status = ?", productID, shelfID, domain.TaskStatusCompleted).
		Order("completed_at DESC").
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "restock task", ID: 0}
	}
	if err != nil {
		return nil, wrapErr("find completed restock task", err)
	}
	return &task, nil
}

func (r *taskRepository) ExistsForAlert(ctx context.Context, alertID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RestockTask{}).
		Where("alert_id = ?", alertID).
		Count(&count).Error
	return count > 0, wrapErr("check restock task for alert", err)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.RestockTask) error {
	return wrapErr("update restock task", r.db.WithContext(ctx).Save(task).Error)
}

type reportRepository struct {
	db *gorm.DB
}

func (r *reportRepository) Log(ctx context.Context, productID, shelfID uint, quantityOnShelf, quantityRestocked int, alertTriggered bool, day time.Time) error {
	day = domain.Day(day)

	var report domain.InventoryReport
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND shelf_id = ? AND report_date = ?", productID, shelfID, day).
		First(&report).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		report = domain.InventoryReport{
			ProductID:         productID,
			ShelfID:           shelfID,
			ReportDate:        day,
			QuantityOnShelf:   quantityOnShelf,
			QuantityRestocked: quantityRestocked,
			AlertTriggered:    alertTriggered,
		}
		return wrapErr("create inventory report", r.db.WithContext(ctx).Create(&report).Error)
	}
	if err != nil {
		return wrapErr("find inventory report", err)
	}

	report.QuantityOnShelf = quantityOnShelf
	report.QuantityRestocked += quantityRestocked
	report.AlertTriggered = report.AlertTriggered || alertTriggered
	return wrapErr("update inventory report", r.db.WithContext(ctx).Save(&report).Error)
}

func (r *reportRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.InventoryReport, error) {
	var reports []domain.InventoryReport
	err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("report_date DESC, id DESC").Find(&reports).Error
	return reports, wrapErr("list inventory reports", err)
}

func (r *reportRepository) FindByPairAndDate(ctx context.Context, productID, shelfID uint, day time.Time) (*domain.InventoryReport, error) {
	var report domain.InventoryReport
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND shelf_id = ? AND report_date = ?", productID, shelfID, domain.Day(day)).
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{Entity: "inventory report", ID: 0}
	}
	if err != nil {
		return nil, wrapErr("find inventory report", err)
	}
	return &report, nil
}

type shelfStockRepository struct {
	db *gorm.DB
}

func (r *shelfStockRepository) ListWithCapacity(ctx context.Context) ([]domain.ShelfStockView, error) {
	var views []domain.ShelfStockView
	err := r.db.WithContext(ctx).Raw(`
		SELECT ss.product_id, ss.shelf_id, s.store_id, ss.quantity, s.capacity
		FROM shelf_stocks ss
		JOIN shelves s ON s.id = ss.shelf_id
		ORDER BY ss.product_id, ss.shelf_id`).Scan(&views).Error
	return views, wrapErr("list shelf stock", err)
}

func (r *shelfStockRepository) FindView(ctx context.Context, productID, shelfID uint) (*domain.ShelfStockView, error) {
	var view domain.ShelfStockView
	result := r.db.WithContext(ctx).Raw(`
		SELECT ss.product_id, ss.shelf_id, s.store_id, ss.quantity, s.capacity
		FROM shelf_stocks ss
		JOIN shelves s ON s.id = ss.shelf_id
		WHERE ss.product_id = ? AND ss.shelf_id = ?`, productID, shelfID).Scan(&view)
	if result.Error != nil {
		return nil, wrapErr("find shelf stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &domain.NotFoundError{Entity: "shelf stock", ID: shelfID}
	}
	return &view, nil
}

func (r *shelfStockRepository) FindViewByStore(ctx context.Context, productID, storeID uint) (*domain.ShelfStockView, error) {
	var view domain.ShelfStockView
	result := r.db.WithContext(ctx).Raw(`
		SELECT ss.product_id, ss.shelf_id, s.store_id, ss.quantity, s.capacity
		FROM shelf_stocks ss
		JOIN shelves s ON s.id = ss.shelf_id
		WHERE ss.product_id = ? AND s.store_id = ?
		ORDER BY ss.shelf_id
		LIMIT 1`, productID, storeID).Scan(&view)
	if result.Error != nil {
		return nil, wrapErr("find shelf stock by store", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, &domain.NotFoundError{Entity: "shelf stock", ID: storeID}
	}
	return &view, nil
}

func (r *shelfStockRepository) AddQuantity(ctx context.Context, productID, shelfID uint, delta int) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE shelf_stocks
		SET quantity = quantity + ?, last_restocked_at = NOW()
		WHERE product_id = ? AND shelf_id = ?`, delta, productID, shelfID)
	if result.Error != nil {
		return wrapErr("update shelf quantity", result.Error)
	}
	if result.RowsAffected == 0 {
		return &domain.NotFoundError{Entity: "shelf stock", ID: shelfID}
	}
	return nil
}

type salesRepository struct {
	db *gorm.DB
}

func (r *salesRepository) DailyTotals(ctx context.Context, since time.Time) ([]domain.DailyProductSales, error) {
	query := r.db.WithContext(ctx).
		Table("sales_events").
		Select("product_id, DATE(sold_at) AS day, SUM(quantity) AS units").
		Group("product_id, DATE(sold_at)")
	if !since.IsZero() {
		query = query.Where("sold_at >= ?", since)
	}

	var rows []domain.DailyProductSales
	err := query.Scan(&rows).Error
	return rows, wrapErr("aggregate daily sales", err)
}

func (r *salesRepository) ActivityByProduct(ctx context.Context, since time.Time) ([]domain.ProductSalesActivity, error) {
	query := r.db.WithContext(ctx).
		Table("sales_events").
		Select("product_id, COUNT(*) AS sale_count, MAX(sold_at) AS last_sale").
		Group("product_id")
	if !since.IsZero() {
		query = query.Where("sold_at >= ?", since)
	}

	var rows []domain.ProductSalesActivity
	err := query.Scan(&rows).Error
	return rows, wrapErr("aggregate sales activity", err)
}

type staffRepository struct {
	db *gorm.DB
}

func (r *staffRepository) FirstStaffForStore(ctx context.Context, storeID uint) (uint, error) {
	var staffID uint
	result := r.db.WithContext(ctx).Raw(`
		SELECT id FROM staff WHERE store_id = ? ORDER BY id LIMIT 1`, storeID).Scan(&staffID)
	if result.Error != nil {
		return 0, wrapErr("find staff for store", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, &domain.NotFoundError{Entity: "staff for store", ID: storeID}
	}
	return staffID, nil
}
