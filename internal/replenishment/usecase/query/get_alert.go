package query

import (
	"context"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// GetAlertQuery represents the query to fetch one alert
type GetAlertQuery struct {
	AlertID uint
}

// GetAlertHandler handles get alert query
type GetAlertHandler struct {
	store domain.Store
}

// NewGetAlertHandler creates a new get alert handler
func NewGetAlertHandler(store domain.Store) *GetAlertHandler {
	return &GetAlertHandler{store: store}
}

// Handle executes the get alert query
func (h *GetAlertHandler) Handle(ctx context.Context, q GetAlertQuery) (*domain.ReplenishmentAlert, error) {
	if q.AlertID == 0 {
		return nil, &domain.ValidationError{Msg: "alert id is required"}
	}
	return h.store.Alerts().FindByID(ctx, q.AlertID)
}
