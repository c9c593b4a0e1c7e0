package repository

import (
	"context"
	"sort"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// Memory is an in-memory domain.Store. It backs the usecase tests and is
// handy for local experiments; it is not safe for concurrent use.
type Memory struct {
	nextID    uint
	alerts    map[uint]domain.ReplenishmentAlert
	closed    []domain.ClosedReplenishmentAlert
	requests  map[uint]domain.StockRequest
	delivered []domain.DeliveredStockRequest
	cancelled []domain.CancelledStockRequest
	tasks     map[uint]domain.RestockTask
	reports   map[reportKey]domain.InventoryReport
	stock     map[pairKey]stockRow
	sales     []saleEvent
	staff     map[uint][]uint
}

type pairKey struct {
	productID uint
	shelfID   uint
}

type reportKey struct {
	productID uint
	shelfID   uint
	day       time.Time
}

type stockRow struct {
	storeID  uint
	quantity int
	capacity int
}

type saleEvent struct {
	productID uint
	quantity  int
	soldAt    time.Time
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		alerts:   make(map[uint]domain.ReplenishmentAlert),
		requests: make(map[uint]domain.StockRequest),
		tasks:    make(map[uint]domain.RestockTask),
		reports:  make(map[reportKey]domain.InventoryReport),
		stock:    make(map[pairKey]stockRow),
		staff:    make(map[uint][]uint),
	}
}

// SeedShelfStock registers a (product, shelf) pair with its store, quantity
// and capacity
func (m *Memory) SeedShelfStock(productID, shelfID, storeID uint, quantity, capacity int) {
	m.stock[pairKey{productID, shelfID}] = stockRow{storeID: storeID, quantity: quantity, capacity: capacity}
}

// SeedSale appends a sales event
func (m *Memory) SeedSale(productID uint, quantity int, soldAt time.Time) {
	m.sales = append(m.sales, saleEvent{productID: productID, quantity: quantity, soldAt: soldAt})
}

// SeedStaff registers a staff member for a store
func (m *Memory) SeedStaff(storeID, staffID uint) {
	m.staff[storeID] = append(m.staff[storeID], staffID)
}

// Quantity returns the current on-shelf quantity for a pair
func (m *Memory) Quantity(productID, shelfID uint) int {
	return m.stock[pairKey{productID, shelfID}].quantity
}

func (m *Memory) id() uint {
	m.nextID++
	return m.nextID
}

func (m *Memory) Alerts() domain.AlertRepository             { return (*memAlerts)(m) }
func (m *Memory) ClosedAlerts() domain.ClosedAlertRepository { return (*memClosed)(m) }
func (m *Memory) Requests() domain.StockRequestRepository    { return (*memRequests)(m) }
func (m *Memory) Tasks() domain.RestockTaskRepository        { return (*memTasks)(m) }
func (m *Memory) Reports() domain.InventoryReportRepository  { return (*memReports)(m) }
func (m *Memory) ShelfStock() domain.ShelfStockReader        { return (*memStock)(m) }
func (m *Memory) ShelfStockWriter() domain.ShelfStockWriter  { return (*memStock)(m) }
func (m *Memory) Sales() domain.SalesReader                  { return (*memSales)(m) }
func (m *Memory) Staff() domain.StaffReader                  { return (*memStaff)(m) }

// WithinTx snapshots all state and restores it when fn fails, mirroring the
// rollback contract of the SQL store.
func (m *Memory) WithinTx(_ context.Context, fn func(domain.Store) error) error {
	snapshot := m.clone()
	if err := fn(m); err != nil {
		*m = *snapshot
		return err
	}
	return nil
}

func (m *Memory) clone() *Memory {
	c := NewMemory()
	c.nextID = m.nextID
	for k, v := range m.alerts {
		c.alerts[k] = v
	}
	c.closed = append([]domain.ClosedReplenishmentAlert(nil), m.closed...)
	for k, v := range m.requests {
		c.requests[k] = v
	}
	c.delivered = append([]domain.DeliveredStockRequest(nil), m.delivered...)
	c.cancelled = append([]domain.CancelledStockRequest(nil), m.cancelled...)
	for k, v := range m.tasks {
		c.tasks[k] = v
	}
	for k, v := range m.reports {
		c.reports[k] = v
	}
	for k, v := range m.stock {
		c.stock[k] = v
	}
	c.sales = append([]saleEvent(nil), m.sales...)
	for k, v := range m.staff {
		c.staff[k] = append([]uint(nil), v...)
	}
	return c
}

type memAlerts Memory

func (m *memAlerts) Create(_ context.Context, alert *domain.ReplenishmentAlert) error {
	if alert.Status == domain.AlertStatusOpen {
		for _, existing := range m.alerts {
			if existing.ProductID == alert.ProductID && existing.ShelfID == alert.ShelfID &&
				existing.Status == domain.AlertStatusOpen {
				return &domain.ConflictError{Msg: "open alert already exists for pair"}
			}
		}
	}
	alert.ID = (*Memory)(m).id()
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}
	m.alerts[alert.ID] = *alert
	return nil
}

func (m *memAlerts) FindByID(_ context.Context, id uint) (*domain.ReplenishmentAlert, error) {
	alert, ok := m.alerts[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "alert", ID: id}
	}
	return &alert, nil
}

func (m *memAlerts) FindAll(_ context.Context, limit, offset int) ([]domain.ReplenishmentAlert, error) {
	all := make([]domain.ReplenishmentAlert, 0, len(m.alerts))
	for _, alert := range m.alerts {
		all = append(all, alert)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, limit, offset), nil
}

func (m *memAlerts) matching(productID, shelfID uint, statuses ...string) []domain.ReplenishmentAlert {
	var matched []domain.ReplenishmentAlert
	for _, alert := range m.alerts {
		if alert.ProductID != productID || alert.ShelfID != shelfID {
			continue
		}
		for _, status := range statuses {
			if alert.Status == status {
				matched = append(matched, alert)
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched
}

func (m *memAlerts) FindOpenByPair(_ context.Context, productID, shelfID uint) (*domain.ReplenishmentAlert, error) {
	open := m.matching(productID, shelfID, domain.AlertStatusOpen)
	if len(open) == 0 {
		return nil, &domain.NotFoundError{Entity: "alert", ID: 0}
	}
	newest := open[len(open)-1]
	return &newest, nil
}

func (m *memAlerts) FindOldestOpenByPair(_ context.Context, productID, shelfID uint) (*domain.ReplenishmentAlert, error) {
	open := m.matching(productID, shelfID, domain.AlertStatusOpen)
	if len(open) == 0 {
		return nil, &domain.NotFoundError{Entity: "alert", ID: 0}
	}
	oldest := open[0]
	return &oldest, nil
}

func (m *memAlerts) FindLatestActiveByPair(_ context.Context, productID, shelfID uint) (*domain.ReplenishmentAlert, error) {
	// Completed before open: a completed alert is the one tied to the
	// outstanding request.
	if completed := m.matching(productID, shelfID, domain.AlertStatusCompleted); len(completed) > 0 {
		newest := completed[len(completed)-1]
		return &newest, nil
	}
	open := m.matching(productID, shelfID, domain.AlertStatusOpen)
	if len(open) == 0 {
		return nil, &domain.NotFoundError{Entity: "alert", ID: 0}
	}
	newest := open[len(open)-1]
	return &newest, nil
}

func (m *memAlerts) Update(_ context.Context, alert *domain.ReplenishmentAlert) error {
	if _, ok := m.alerts[alert.ID]; !ok {
		return &domain.NotFoundError{Entity: "alert", ID: alert.ID}
	}
	m.alerts[alert.ID] = *alert
	return nil
}

func (m *memAlerts) Delete(_ context.Context, id uint) error {
	delete(m.alerts, id)
	return nil
}

func (m *memAlerts) CountOpen(_ context.Context) (int64, error) {
	var count int64
	for _, alert := range m.alerts {
		if alert.Status == domain.AlertStatusOpen {
			count++
		}
	}
	return count, nil
}

func (m *memAlerts) FrequencyStats(_ context.Context) ([]domain.FrequencyRow, error) {
	type agg struct {
		count    int
		min, max time.Time
	}
	byPair := make(map[pairKey]*agg)
	observe := func(productID, shelfID uint, createdAt time.Time) {
		key := pairKey{productID, shelfID}
		a, ok := byPair[key]
		if !ok {
			byPair[key] = &agg{count: 1, min: createdAt, max: createdAt}
			return
		}
		a.count++
		if createdAt.Before(a.min) {
			a.min = createdAt
		}
		if createdAt.After(a.max) {
			a.max = createdAt
		}
	}
	for _, alert := range m.alerts {
		observe(alert.ProductID, alert.ShelfID, alert.CreatedAt)
	}
	for _, closed := range m.closed {
		observe(closed.ProductID, closed.ShelfID, closed.CreatedAt)
	}

	rows := make([]domain.FrequencyRow, 0, len(byPair))
	for key, a := range byPair {
		totalDays := int(a.max.Sub(a.min).Hours() / 24)
		rows = append(rows, domain.FrequencyRow{
			ProductID:               key.productID,
			ShelfID:                 key.shelfID,
			AlertCount:              a.count,
			TotalDays:               totalDays,
			AvgRestockFrequencyDays: float64(int(float64(totalDays)/float64(a.count)*100+0.5)) / 100,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID < rows[j].ProductID
		}
		return rows[i].ShelfID < rows[j].ShelfID
	})
	return rows, nil
}

type memClosed Memory

func (m *memClosed) Archive(_ context.Context, closed *domain.ClosedReplenishmentAlert) error {
	for _, existing := range m.closed {
		if existing.OriginalAlertID == closed.OriginalAlertID {
			return &domain.ConflictError{Msg: "alert already archived"}
		}
	}
	closed.ID = (*Memory)(m).id()
	m.closed = append(m.closed, *closed)
	return nil
}

func (m *memClosed) FindAll(_ context.Context, limit, offset int) ([]domain.ClosedReplenishmentAlert, error) {
	return paginate(append([]domain.ClosedReplenishmentAlert(nil), m.closed...), limit, offset), nil
}

type memRequests Memory

func (m *memRequests) Create(_ context.Context, request *domain.StockRequest) error {
	request.ID = (*Memory)(m).id()
	if request.RequestedAt.IsZero() {
		request.RequestedAt = time.Now()
	}
	m.requests[request.ID] = *request
	return nil
}

func (m *memRequests) FindByID(_ context.Context, id uint) (*domain.StockRequest, error) {
	request, ok := m.requests[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "stock request", ID: id}
	}
	return &request, nil
}

func (m *memRequests) FindAll(_ context.Context, limit, offset int) ([]domain.StockRequest, error) {
	all := make([]domain.StockRequest, 0, len(m.requests))
	for _, request := range m.requests {
		all = append(all, request)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, limit, offset), nil
}

func (m *memRequests) FindActive(_ context.Context) ([]domain.StockRequest, error) {
	var active []domain.StockRequest
	for _, request := range m.requests {
		if request.IsActive() {
			active = append(active, request)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active, nil
}

func (m *memRequests) ActiveExistsForPair(_ context.Context, productID, storeID uint) (bool, error) {
	for _, request := range m.requests {
		if request.ProductID == productID && request.StoreID == storeID && request.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRequests) Update(_ context.Context, request *domain.StockRequest) error {
	if _, ok := m.requests[request.ID]; !ok {
		return &domain.NotFoundError{Entity: "stock request", ID: request.ID}
	}
	m.requests[request.ID] = *request
	return nil
}

func (m *memRequests) Delete(_ context.Context, id uint) error {
	delete(m.requests, id)
	return nil
}

func (m *memRequests) ArchiveDelivered(_ context.Context, archived *domain.DeliveredStockRequest) error {
	archived.ID = (*Memory)(m).id()
	m.delivered = append(m.delivered, *archived)
	return nil
}

func (m *memRequests) ArchiveCancelled(_ context.Context, archived *domain.CancelledStockRequest) error {
	archived.ID = (*Memory)(m).id()
	m.cancelled = append(m.cancelled, *archived)
	return nil
}

func (m *memRequests) FindDelivered(_ context.Context, limit, offset int) ([]domain.DeliveredStockRequest, error) {
	return paginate(append([]domain.DeliveredStockRequest(nil), m.delivered...), limit, offset), nil
}

func (m *memRequests) FindCancelled(_ context.Context, limit, offset int) ([]domain.CancelledStockRequest, error) {
	return paginate(append([]domain.CancelledStockRequest(nil), m.cancelled...), limit, offset), nil
}

type memTasks Memory

func (m *memTasks) Create(_ context.Context, task *domain.RestockTask) error {
	task.ID = (*Memory)(m).id()
	if task.AssignedAt.IsZero() {
		task.AssignedAt = time.Now()
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *memTasks) FindByID(_ context.Context, id uint) (*domain.RestockTask, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "restock task", ID: id}
	}
	return &task, nil
}

func (m *memTasks) FindAll(_ context.Context, limit, offset int) ([]domain.RestockTask, error) {
	all := make([]domain.RestockTask, 0, len(m.tasks))
	for _, task := range m.tasks {
		all = append(all, task)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, limit, offset), nil
}

func (m *memTasks) PendingExistsForPair(_ context.Context, productID, shelfID uint) (bool, error) {
	for _, task := range m.tasks {
		if task.ProductID == productID && task.ShelfID == shelfID && task.Status == domain.TaskStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTasks) FindLatestCompletedByPair(_ context.Context, productID, shelfID uint) (*domain.RestockTask, error) {
	var latest *domain.RestockTask
	for _, task := range m.tasks {
		if task.ProductID != productID || task.ShelfID != shelfID || task.Status != domain.TaskStatusCompleted {
			continue
		}
		t := task
		if latest == nil || (t.CompletedAt != nil && latest.CompletedAt != nil && t.CompletedAt.After(*latest.CompletedAt)) {
			latest = &t
		}
	}
	if latest == nil {
		return nil, &domain.NotFoundError{Entity: "restock task", ID: 0}
	}
	return latest, nil
}

func (m *memTasks) ExistsForAlert(_ context.Context, alertID uint) (bool, error) {
	for _, task := range m.tasks {
		if task.AlertID == alertID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTasks) Update(_ context.Context, task *domain.RestockTask) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return &domain.NotFoundError{Entity: "restock task", ID: task.ID}
	}
	m.tasks[task.ID] = *task
	return nil
}

type memReports Memory

func (m *memReports) Log(_ context.Context, productID, shelfID uint, quantityOnShelf, quantityRestocked int, alertTriggered bool, day time.Time) error {
	key := reportKey{productID, shelfID, domain.Day(day)}
	report, ok := m.reports[key]
	if !ok {
		m.reports[key] = domain.InventoryReport{
			ID:                (*Memory)(m).id(),
			ProductID:         productID,
			ShelfID:           shelfID,
			ReportDate:        key.day,
			QuantityOnShelf:   quantityOnShelf,
			QuantityRestocked: quantityRestocked,
			AlertTriggered:    alertTriggered,
			CreatedAt:         time.Now(),
		}
		return nil
	}
	report.QuantityOnShelf = quantityOnShelf
	report.QuantityRestocked += quantityRestocked
	report.AlertTriggered = report.AlertTriggered || alertTriggered
	m.reports[key] = report
	return nil
}

func (m *memReports) FindAll(_ context.Context, limit, offset int) ([]domain.InventoryReport, error) {
	all := make([]domain.InventoryReport, 0, len(m.reports))
	for _, report := range m.reports {
		all = append(all, report)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, limit, offset), nil
}

func (m *memReports) FindByPairAndDate(_ context.Context, productID, shelfID uint, day time.Time) (*domain.InventoryReport, error) {
	report, ok := m.reports[reportKey{productID, shelfID, domain.Day(day)}]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "inventory report", ID: 0}
	}
	return &report, nil
}

type memStock Memory

func (m *memStock) ListWithCapacity(_ context.Context) ([]domain.ShelfStockView, error) {
	views := make([]domain.ShelfStockView, 0, len(m.stock))
	for key, row := range m.stock {
		views = append(views, domain.ShelfStockView{
			ProductID: key.productID,
			ShelfID:   key.shelfID,
			StoreID:   row.storeID,
			Quantity:  row.quantity,
			Capacity:  row.capacity,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].ProductID != views[j].ProductID {
			return views[i].ProductID < views[j].ProductID
		}
		return views[i].ShelfID < views[j].ShelfID
	})
	return views, nil
}

func (m *memStock) FindView(_ context.Context, productID, shelfID uint) (*domain.ShelfStockView, error) {
	row, ok := m.stock[pairKey{productID, shelfID}]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "shelf stock", ID: shelfID}
	}
	return &domain.ShelfStockView{
		ProductID: productID,
		ShelfID:   shelfID,
		StoreID:   row.storeID,
		Quantity:  row.quantity,
		Capacity:  row.capacity,
	}, nil
}

func (m *memStock) FindViewByStore(ctx context.Context, productID, storeID uint) (*domain.ShelfStockView, error) {
	views, _ := m.ListWithCapacity(ctx)
	for _, view := range views {
		if view.ProductID == productID && view.StoreID == storeID {
			v := view
			return &v, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "shelf stock", ID: storeID}
}

func (m *memStock) AddQuantity(_ context.Context, productID, shelfID uint, delta int) error {
	key := pairKey{productID, shelfID}
	row, ok := m.stock[key]
	if !ok {
		return &domain.NotFoundError{Entity: "shelf stock", ID: shelfID}
	}
	row.quantity += delta
	m.stock[key] = row
	return nil
}

type memSales Memory

func (m *memSales) DailyTotals(_ context.Context, since time.Time) ([]domain.DailyProductSales, error) {
	type dayKey struct {
		productID uint
		day       time.Time
	}
	totals := make(map[dayKey]int)
	for _, sale := range m.sales {
		if !since.IsZero() && sale.soldAt.Before(since) {
			continue
		}
		totals[dayKey{sale.productID, domain.Day(sale.soldAt)}] += sale.quantity
	}

	rows := make([]domain.DailyProductSales, 0, len(totals))
	for key, units := range totals {
		rows = append(rows, domain.DailyProductSales{ProductID: key.productID, Day: key.day, Units: units})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID < rows[j].ProductID
		}
		return rows[i].Day.Before(rows[j].Day)
	})
	return rows, nil
}

func (m *memSales) ActivityByProduct(_ context.Context, since time.Time) ([]domain.ProductSalesActivity, error) {
	activity := make(map[uint]domain.ProductSalesActivity)
	for _, sale := range m.sales {
		if !since.IsZero() && sale.soldAt.Before(since) {
			continue
		}
		entry := activity[sale.productID]
		entry.ProductID = sale.productID
		entry.SaleCount++
		if sale.soldAt.After(entry.LastSale) {
			entry.LastSale = sale.soldAt
		}
		activity[sale.productID] = entry
	}

	rows := make([]domain.ProductSalesActivity, 0, len(activity))
	for _, entry := range activity {
		rows = append(rows, entry)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProductID < rows[j].ProductID })
	return rows, nil
}

type memStaff Memory

func (m *memStaff) FirstStaffForStore(_ context.Context, storeID uint) (uint, error) {
	ids := m.staff[storeID]
	if len(ids) == 0 {
		return 0, &domain.NotFoundError{Entity: "staff for store", ID: storeID}
	}
	return ids[0], nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
