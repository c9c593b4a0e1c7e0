package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/logger"
)

// MarkDeliveredCommand represents the warehouse delivery confirmation
type MarkDeliveredCommand struct {
	RequestID uint
}

// MarkDeliveredHandler handles the delivery confirmation. All effects run in
// one transaction: shelf quantity, report row, alert closure and archival,
// request archival, and the second-order re-evaluation of the pair. A failure
// anywhere rolls back everything.
type MarkDeliveredHandler struct {
	store     domain.Store
	publisher domain.EventPublisher
}

// NewMarkDeliveredHandler creates a new mark delivered handler
func NewMarkDeliveredHandler(store domain.Store, publisher domain.EventPublisher) *MarkDeliveredHandler {
	return &MarkDeliveredHandler{store: store, publisher: publisher}
}

// Handle executes the delivery unit
func (h *MarkDeliveredHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) (*domain.DeliveredStockRequest, error) {
	if cmd.RequestID == 0 {
		return nil, &domain.ValidationError{Msg: "request id is required"}
	}

	now := time.Now()
	var archived domain.DeliveredStockRequest

	err := h.store.WithinTx(ctx, func(tx domain.Store) error {
		request, err := tx.Requests().FindByID(ctx, cmd.RequestID)
		if err != nil {
			return err
		}
		if err := request.Transition(domain.RequestStatusDelivered); err != nil {
			return err
		}

		view, err := tx.ShelfStock().FindViewByStore(ctx, request.ProductID, request.StoreID)
		if err != nil {
			return fmt.Errorf("failed to resolve shelf for delivery: %w", err)
		}

		if err := tx.ShelfStockWriter().AddQuantity(ctx, view.ProductID, view.ShelfID, request.Quantity); err != nil {
			return fmt.Errorf("failed to add delivered quantity: %w", err)
		}
		newQuantity := view.Quantity + request.Quantity

		if err := tx.Reports().Log(ctx, view.ProductID, view.ShelfID, newQuantity, request.Quantity, false, now); err != nil {
			return fmt.Errorf("failed to log inventory report: %w", err)
		}

		if err := closeTriggeringAlert(ctx, tx, view.ProductID, view.ShelfID, now); err != nil {
			return err
		}

		archived = request.Delivered(now)
		if err := tx.Requests().ArchiveDelivered(ctx, &archived); err != nil {
			return fmt.Errorf("failed to archive delivered request: %w", err)
		}
		if err := tx.Requests().Delete(ctx, request.ID); err != nil {
			return fmt.Errorf("failed to remove delivered request: %w", err)
		}

		return reevaluatePair(ctx, tx, *view, newQuantity, now)
	})
	if err != nil {
		return nil, err
	}

	if pubErr := h.publisher.RequestDelivered(ctx, archived); pubErr != nil {
		logger.Warn(ctx).Err(pubErr).Uint("request_id", cmd.RequestID).Msg("failed to publish delivery event")
	}

	return &archived, nil
}

// closeTriggeringAlert archives the most recent open or completed alert for
// the pair, keeping its original id, and removes it from the active set.
// A pair without such an alert is fine; the request may have been manual.
func closeTriggeringAlert(ctx context.Context, tx domain.Store, productID, shelfID uint, now time.Time) error {
	alert, err := tx.Alerts().FindLatestActiveByPair(ctx, productID, shelfID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to find triggering alert: %w", err)
	}

	closed := alert.Close(now)
	if err := tx.ClosedAlerts().Archive(ctx, &closed); err != nil {
		return fmt.Errorf("failed to archive alert: %w", err)
	}
	if err := tx.Alerts().Delete(ctx, alert.ID); err != nil {
		return fmt.Errorf("failed to remove archived alert: %w", err)
	}
	return nil
}

// reevaluatePair runs the second-order fulfillment: if another open alert is
// waiting on the same pair and the shelf still has room, a fresh request is
// placed and that alert is closed and archived within the same transaction.
func reevaluatePair(ctx context.Context, tx domain.Store, view domain.ShelfStockView, newQuantity int, now time.Time) error {
	next, err := tx.Alerts().FindOldestOpenByPair(ctx, view.ProductID, view.ShelfID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to re-evaluate pair: %w", err)
	}

	needed := view.Capacity - newQuantity
	if needed <= 0 {
		return nil
	}

	active, err := tx.Requests().ActiveExistsForPair(ctx, view.ProductID, view.StoreID)
	if err != nil {
		return fmt.Errorf("failed to check active requests: %w", err)
	}
	if active {
		return nil
	}

	request := &domain.StockRequest{
		ProductID:   view.ProductID,
		StoreID:     view.StoreID,
		Quantity:    needed,
		Status:      domain.RequestStatusRequested,
		RequestedAt: now,
	}
	if err := tx.Requests().Create(ctx, request); err != nil {
		return fmt.Errorf("failed to create follow-up request: %w", err)
	}

	next.FulfillmentNote = fmt.Sprintf("stock request %d placed at %s", request.ID, now.Format(time.RFC3339))
	closed := next.Close(now)
	if err := tx.ClosedAlerts().Archive(ctx, &closed); err != nil {
		return fmt.Errorf("failed to archive follow-up alert: %w", err)
	}
	if err := tx.Alerts().Delete(ctx, next.ID); err != nil {
		return fmt.Errorf("failed to remove follow-up alert: %w", err)
	}
	return nil
}
