package query

import (
	"context"
	"fmt"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// ListClosedAlertsQuery represents the query to list the alert archive
type ListClosedAlertsQuery struct {
	Limit  int
	Offset int
}

// ListClosedAlertsHandler handles list closed alerts query
type ListClosedAlertsHandler struct {
	store domain.Store
}

// NewListClosedAlertsHandler creates a new list closed alerts handler
func NewListClosedAlertsHandler(store domain.Store) *ListClosedAlertsHandler {
	return &ListClosedAlertsHandler{store: store}
}

// Handle executes the list closed alerts query
func (h *ListClosedAlertsHandler) Handle(ctx context.Context, q ListClosedAlertsQuery) ([]domain.ClosedReplenishmentAlert, error) {
	limit, offset := clampPage(q.Limit, q.Offset)
	closed, err := h.store.ClosedAlerts().FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed alerts: %w", err)
	}
	return closed, nil
}
