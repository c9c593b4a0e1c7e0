package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/logger"
)

// PredictDepletionHandler computes the depletion outlook for every shelf-stock
// pair and opens alerts for low-stock pairs that have none. It never places
// requests or assigns tasks.
type PredictDepletionHandler struct {
	store     domain.Store
	publisher domain.EventPublisher
	policy    domain.Policy
}

// NewPredictDepletionHandler creates a new predict depletion handler
func NewPredictDepletionHandler(store domain.Store, publisher domain.EventPublisher, policy domain.Policy) *PredictDepletionHandler {
	return &PredictDepletionHandler{store: store, publisher: publisher, policy: policy}
}

// Handle executes the prediction sweep and returns every pair's outlook
func (h *PredictDepletionHandler) Handle(ctx context.Context) ([]domain.Prediction, error) {
	now := time.Now()

	velocity, err := productVelocity(ctx, h.store, h.policy, now)
	if err != nil {
		return nil, err
	}

	views, err := h.store.ShelfStock().ListWithCapacity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelf stock: %w", err)
	}

	predictions := make([]domain.Prediction, 0, len(views))
	for _, view := range views {
		prediction := domain.Predict(view, velocity[view.ProductID], h.policy, now)
		predictions = append(predictions, prediction)

		if !prediction.IsLowStock {
			continue
		}

		_, err := h.store.Alerts().FindOpenByPair(ctx, view.ProductID, view.ShelfID)
		if err == nil {
			continue
		}
		if !domain.IsNotFound(err) {
			return nil, fmt.Errorf("failed to look up open alert: %w", err)
		}

		alert, err := raiseAlert(ctx, h.store, prediction, now)
		if err != nil {
			return nil, err
		}
		if pubErr := h.publisher.AlertRaised(ctx, *alert); pubErr != nil {
			logger.Warn(ctx).Err(pubErr).Uint("alert_id", alert.ID).Msg("failed to publish alert event")
		}
	}

	return predictions, nil
}
