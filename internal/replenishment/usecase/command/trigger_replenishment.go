package command

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/logger"
)

// PairError records a single pair's failure during a batch run
type PairError struct {
	ProductID uint   `json:"product_id"`
	ShelfID   uint   `json:"shelf_id"`
	Message   string `json:"message"`
}

// TriggerResult summarizes one batch run
type TriggerResult struct {
	RunID           string      `json:"run_id"`
	AlertsCreated   int         `json:"alerts_created"`
	AlertsFound     int         `json:"alerts_found"`
	RequestsCreated int         `json:"requests_created"`
	TasksAssigned   int         `json:"tasks_assigned"`
	Errors          []PairError `json:"errors,omitempty"`
}

// TriggerReplenishmentHandler runs the full alert/request/task pipeline over
// every shelf-stock pair. Runs are serialized: a second trigger while one is
// in flight fails with a ConflictError instead of queueing.
type TriggerReplenishmentHandler struct {
	store     domain.Store
	publisher domain.EventPublisher
	policy    domain.Policy
	mu        sync.Mutex
}

// NewTriggerReplenishmentHandler creates a new trigger replenishment handler
func NewTriggerReplenishmentHandler(store domain.Store, publisher domain.EventPublisher, policy domain.Policy) *TriggerReplenishmentHandler {
	return &TriggerReplenishmentHandler{store: store, publisher: publisher, policy: policy}
}

// Handle executes one batch run. Pairs are processed sequentially; a failing
// pair is recorded and the run continues with the next one.
func (h *TriggerReplenishmentHandler) Handle(ctx context.Context) (*TriggerResult, error) {
	if !h.mu.TryLock() {
		return nil, &domain.ConflictError{Msg: "a replenishment run is already in progress"}
	}
	defer h.mu.Unlock()

	result := &TriggerResult{RunID: uuid.NewString()}
	now := time.Now()

	velocity, err := productVelocity(ctx, h.store, h.policy, now)
	if err != nil {
		return nil, err
	}

	views, err := h.store.ShelfStock().ListWithCapacity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelf stock: %w", err)
	}

	logger.Info(ctx).
		Str("run_id", result.RunID).
		Int("pairs", len(views)).
		Msg("replenishment run started")

	for _, view := range views {
		if err := h.processPair(ctx, view, velocity[view.ProductID], now, result); err != nil {
			logger.Warn(ctx).
				Err(err).
				Str("run_id", result.RunID).
				Uint("product_id", view.ProductID).
				Uint("shelf_id", view.ShelfID).
				Msg("pair failed, continuing run")
			result.Errors = append(result.Errors, PairError{
				ProductID: view.ProductID,
				ShelfID:   view.ShelfID,
				Message:   err.Error(),
			})
		}
	}

	logger.Info(ctx).
		Str("run_id", result.RunID).
		Int("alerts_created", result.AlertsCreated).
		Int("alerts_found", result.AlertsFound).
		Int("requests_created", result.RequestsCreated).
		Int("tasks_assigned", result.TasksAssigned).
		Int("errors", len(result.Errors)).
		Msg("replenishment run finished")

	return result, nil
}

func (h *TriggerReplenishmentHandler) processPair(ctx context.Context, view domain.ShelfStockView, velocity float64, now time.Time, result *TriggerResult) error {
	prediction := domain.Predict(view, velocity, h.policy, now)
	if !prediction.IsLowStock {
		return nil
	}

	alert, err := h.store.Alerts().FindOpenByPair(ctx, view.ProductID, view.ShelfID)
	switch {
	case err == nil:
		result.AlertsFound++
	case domain.IsNotFound(err):
		alert, err = raiseAlert(ctx, h.store, prediction, now)
		if err != nil {
			return err
		}
		result.AlertsCreated++
		if pubErr := h.publisher.AlertRaised(ctx, *alert); pubErr != nil {
			logger.Warn(ctx).Err(pubErr).Uint("alert_id", alert.ID).Msg("failed to publish alert event")
		}
	default:
		return fmt.Errorf("failed to look up open alert: %w", err)
	}

	if err := h.placeRequest(ctx, view, alert, now, result); err != nil {
		return err
	}

	return h.assignTask(ctx, view, alert, now, result)
}

// placeRequest moves AlertOpen to RequestPlaced when the shelf has room and
// no active request already covers the (product, store) pair.
func (h *TriggerReplenishmentHandler) placeRequest(ctx context.Context, view domain.ShelfStockView, alert *domain.ReplenishmentAlert, now time.Time, result *TriggerResult) error {
	needed := view.QuantityNeeded()
	if needed <= 0 {
		return nil
	}

	exists, err := h.store.Requests().ActiveExistsForPair(ctx, view.ProductID, view.StoreID)
	if err != nil {
		return fmt.Errorf("failed to check active requests: %w", err)
	}
	if exists {
		return nil
	}

	request := &domain.StockRequest{
		ProductID:   view.ProductID,
		StoreID:     view.StoreID,
		Quantity:    needed,
		Status:      domain.RequestStatusRequested,
		RequestedAt: now,
	}
	if err := h.store.Requests().Create(ctx, request); err != nil {
		return fmt.Errorf("failed to create stock request: %w", err)
	}
	result.RequestsCreated++

	if alert.Status == domain.AlertStatusOpen {
		alert.Status = domain.AlertStatusCompleted
		alert.FulfillmentNote = fmt.Sprintf("stock request %d placed at %s", request.ID, now.Format(time.RFC3339))
		if err := h.store.Alerts().Update(ctx, alert); err != nil {
			return fmt.Errorf("failed to complete alert: %w", err)
		}
	}
	return nil
}

func (h *TriggerReplenishmentHandler) assignTask(ctx context.Context, view domain.ShelfStockView, alert *domain.ReplenishmentAlert, now time.Time, result *TriggerResult) error {
	pending, err := h.store.Tasks().PendingExistsForPair(ctx, view.ProductID, view.ShelfID)
	if err != nil {
		return fmt.Errorf("failed to check pending tasks: %w", err)
	}
	if pending {
		return nil
	}

	staffID, err := h.store.Staff().FirstStaffForStore(ctx, view.StoreID)
	if err != nil {
		if domain.IsNotFound(err) {
			return fmt.Errorf("no staff available for store %d", view.StoreID)
		}
		return fmt.Errorf("failed to pick staff: %w", err)
	}

	task := &domain.RestockTask{
		AlertID:    alert.ID,
		ProductID:  view.ProductID,
		ShelfID:    view.ShelfID,
		AssignedTo: staffID,
		Status:     domain.TaskStatusPending,
		AssignedAt: now,
	}
	if err := h.store.Tasks().Create(ctx, task); err != nil {
		return fmt.Errorf("failed to create restock task: %w", err)
	}
	result.TasksAssigned++
	return nil
}

// productVelocity reads the sales history bounded by the policy window and
// reduces it to average daily units per product.
func productVelocity(ctx context.Context, store domain.Store, policy domain.Policy, now time.Time) (map[uint]float64, error) {
	var since time.Time
	if policy.VelocityWindowDays > 0 {
		since = now.AddDate(0, 0, -policy.VelocityWindowDays)
	}
	daily, err := store.Sales().DailyTotals(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read sales history: %w", err)
	}
	return domain.VelocityByProduct(daily), nil
}

// raiseAlert opens a new alert for a low-stock prediction and logs the
// report row that records the trigger.
func raiseAlert(ctx context.Context, store domain.Store, prediction domain.Prediction, now time.Time) (*domain.ReplenishmentAlert, error) {
	alert := &domain.ReplenishmentAlert{
		ProductID: prediction.ProductID,
		ShelfID:   prediction.ShelfID,
		Urgency:   prediction.Urgency,
		Status:    domain.AlertStatusOpen,
		CreatedAt: now,
	}
	if prediction.ExpectedDepletionDate != nil {
		alert.PredictedDepletionDate = *prediction.ExpectedDepletionDate
	}
	if err := store.Alerts().Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	if err := store.Reports().Log(ctx, prediction.ProductID, prediction.ShelfID, prediction.Quantity, 0, true, now); err != nil {
		return nil, fmt.Errorf("failed to log inventory report: %w", err)
	}
	return alert, nil
}
