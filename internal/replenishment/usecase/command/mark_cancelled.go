package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/logger"
)

// MarkCancelledCommand represents the warehouse cancellation
type MarkCancelledCommand struct {
	RequestID uint
	Reason    string
}

// MarkCancelledHandler handles the warehouse cancellation. The pair's alert
// is annotated as cancelled but stays in the active set, so the next sweep
// can detect the still-unresolved depletion and start over.
type MarkCancelledHandler struct {
	store     domain.Store
	publisher domain.EventPublisher
}

// NewMarkCancelledHandler creates a new mark cancelled handler
func NewMarkCancelledHandler(store domain.Store, publisher domain.EventPublisher) *MarkCancelledHandler {
	return &MarkCancelledHandler{store: store, publisher: publisher}
}

// Handle executes the cancellation unit inside one transaction
func (h *MarkCancelledHandler) Handle(ctx context.Context, cmd MarkCancelledCommand) (*domain.CancelledStockRequest, error) {
	if cmd.RequestID == 0 {
		return nil, &domain.ValidationError{Msg: "request id is required"}
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		return nil, &domain.ValidationError{Msg: "cancellation reason is required"}
	}

	now := time.Now()
	var archived domain.CancelledStockRequest

	err := h.store.WithinTx(ctx, func(tx domain.Store) error {
		request, err := tx.Requests().FindByID(ctx, cmd.RequestID)
		if err != nil {
			return err
		}
		if err := request.Transition(domain.RequestStatusCancelled); err != nil {
			return err
		}

		alertID, err := annotateCancelledAlert(ctx, tx, request, cmd.Reason, now)
		if err != nil {
			return err
		}

		archived = request.Cancelled(cmd.Reason, alertID, now)
		if err := tx.Requests().ArchiveCancelled(ctx, &archived); err != nil {
			return fmt.Errorf("failed to archive cancelled request: %w", err)
		}
		if err := tx.Requests().Delete(ctx, request.ID); err != nil {
			return fmt.Errorf("failed to remove cancelled request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pubErr := h.publisher.RequestCancelled(ctx, archived); pubErr != nil {
		logger.Warn(ctx).Err(pubErr).Uint("request_id", cmd.RequestID).Msg("failed to publish cancellation event")
	}

	return &archived, nil
}

// annotateCancelledAlert marks the pair's most recent active alert as
// cancelled by the warehouse without closing it, and returns its id for the
// archive row. Missing pieces are tolerated.
func annotateCancelledAlert(ctx context.Context, tx domain.Store, request *domain.StockRequest, reason string, now time.Time) (*uint, error) {
	view, err := tx.ShelfStock().FindViewByStore(ctx, request.ProductID, request.StoreID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve shelf for cancellation: %w", err)
	}

	alert, err := tx.Alerts().FindLatestActiveByPair(ctx, view.ProductID, view.ShelfID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find alert for cancellation: %w", err)
	}

	alert.Status = domain.AlertStatusCancelled
	alert.FulfillmentNote = fmt.Sprintf("warehouse cancelled request %d at %s: %s", request.ID, now.Format(time.RFC3339), reason)
	if err := tx.Alerts().Update(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to annotate cancelled alert: %w", err)
	}

	logger.Info(ctx).
		Uint("alert_id", alert.ID).
		Uint("request_id", request.ID).
		Msg("alert annotated after warehouse cancellation")

	return &alert.ID, nil
}
