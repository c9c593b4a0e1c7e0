package query

import (
	"context"
	"fmt"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// PendingRequestsHandler handles the warehouse work queue query: every
// request still in requested or in_transit.
type PendingRequestsHandler struct {
	store domain.Store
}

// NewPendingRequestsHandler creates a new pending requests handler
func NewPendingRequestsHandler(store domain.Store) *PendingRequestsHandler {
	return &PendingRequestsHandler{store: store}
}

// Handle executes the pending requests query
func (h *PendingRequestsHandler) Handle(ctx context.Context) ([]domain.StockRequest, error) {
	requests, err := h.store.Requests().FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	return requests, nil
}
