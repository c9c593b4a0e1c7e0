package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/logger"
)

// MarkInTransitCommand represents the warehouse dispatch confirmation
type MarkInTransitCommand struct {
	RequestID uint
	ETA       *time.Time
}

// MarkInTransitHandler handles the dispatch confirmation
type MarkInTransitHandler struct {
	store  domain.Store
	policy domain.Policy
}

// NewMarkInTransitHandler creates a new mark in transit handler
func NewMarkInTransitHandler(store domain.Store, policy domain.Policy) *MarkInTransitHandler {
	return &MarkInTransitHandler{store: store, policy: policy}
}

// Handle moves the request to in_transit and annotates the pair's open alert.
// The alert annotation is a note only, not a state change.
func (h *MarkInTransitHandler) Handle(ctx context.Context, cmd MarkInTransitCommand) (*domain.StockRequest, error) {
	if cmd.RequestID == 0 {
		return nil, &domain.ValidationError{Msg: "request id is required"}
	}

	request, err := h.store.Requests().FindByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if err := request.Transition(domain.RequestStatusInTransit); err != nil {
		return nil, err
	}

	now := time.Now()
	eta := now.Add(h.policy.DefaultTransitETA)
	if cmd.ETA != nil {
		if cmd.ETA.Before(now) {
			return nil, &domain.ValidationError{Msg: "eta cannot be in the past"}
		}
		eta = *cmd.ETA
	}
	request.ETA = &eta

	if err := h.store.Requests().Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update stock request: %w", err)
	}

	h.annotateAlert(ctx, request, eta)

	return request, nil
}

func (h *MarkInTransitHandler) annotateAlert(ctx context.Context, request *domain.StockRequest, eta time.Time) {
	view, err := h.store.ShelfStock().FindViewByStore(ctx, request.ProductID, request.StoreID)
	if err != nil {
		logger.Debug(ctx).Err(err).Uint("request_id", request.ID).Msg("no shelf found for in-transit annotation")
		return
	}

	alert, err := h.store.Alerts().FindLatestActiveByPair(ctx, view.ProductID, view.ShelfID)
	if err != nil {
		if !domain.IsNotFound(err) {
			logger.Warn(ctx).Err(err).Uint("request_id", request.ID).Msg("failed to look up alert for annotation")
		}
		return
	}

	alert.FulfillmentNote = fmt.Sprintf("stock request %d in transit, ETA %s", request.ID, eta.Format(time.RFC3339))
	if err := h.store.Alerts().Update(ctx, alert); err != nil {
		logger.Warn(ctx).Err(err).Uint("alert_id", alert.ID).Msg("failed to annotate alert")
	}
}
