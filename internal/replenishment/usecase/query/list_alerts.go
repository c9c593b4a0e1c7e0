package query

import (
	"context"
	"fmt"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// ListAlertsQuery represents the query to list active alerts
type ListAlertsQuery struct {
	Limit  int
	Offset int
}

// ListAlertsHandler handles list alerts query
type ListAlertsHandler struct {
	store domain.Store
}

// NewListAlertsHandler creates a new list alerts handler
func NewListAlertsHandler(store domain.Store) *ListAlertsHandler {
	return &ListAlertsHandler{store: store}
}

// Handle executes the list alerts query
func (h *ListAlertsHandler) Handle(ctx context.Context, q ListAlertsQuery) ([]domain.ReplenishmentAlert, error) {
	limit, offset := clampPage(q.Limit, q.Offset)
	alerts, err := h.store.Alerts().FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// clampPage applies the shared pagination defaults
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
