package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/pkg/logger"
)

// CreateAlertCommand represents a manually raised alert
type CreateAlertCommand struct {
	ProductID              uint
	ShelfID                uint
	Urgency                string
	PredictedDepletionDate *time.Time
}

// CreateAlertHandler handles manual alert creation
type CreateAlertHandler struct {
	store     domain.Store
	publisher domain.EventPublisher
}

// NewCreateAlertHandler creates a new create alert handler
func NewCreateAlertHandler(store domain.Store, publisher domain.EventPublisher) *CreateAlertHandler {
	return &CreateAlertHandler{store: store, publisher: publisher}
}

var validUrgencies = map[string]bool{
	domain.UrgencyLow:      true,
	domain.UrgencyMedium:   true,
	domain.UrgencyHigh:     true,
	domain.UrgencyCritical: true,
}

// Handle executes the create alert command
func (h *CreateAlertHandler) Handle(ctx context.Context, cmd CreateAlertCommand) (*domain.ReplenishmentAlert, error) {
	if cmd.ProductID == 0 {
		return nil, &domain.ValidationError{Msg: "product_id is required"}
	}
	if cmd.ShelfID == 0 {
		return nil, &domain.ValidationError{Msg: "shelf_id is required"}
	}
	urgency := cmd.Urgency
	if urgency == "" {
		urgency = domain.UrgencyMedium
	}
	if !validUrgencies[urgency] {
		return nil, &domain.ValidationError{Msg: fmt.Sprintf("unknown urgency %q", cmd.Urgency)}
	}

	view, err := h.store.ShelfStock().FindView(ctx, cmd.ProductID, cmd.ShelfID)
	if err != nil {
		return nil, err
	}

	if _, err := h.store.Alerts().FindOpenByPair(ctx, cmd.ProductID, cmd.ShelfID); err == nil {
		return nil, &domain.ConflictError{Msg: "an open alert already exists for this pair"}
	} else if !domain.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up open alert: %w", err)
	}

	now := time.Now()
	alert := &domain.ReplenishmentAlert{
		ProductID: cmd.ProductID,
		ShelfID:   cmd.ShelfID,
		Urgency:   urgency,
		Status:    domain.AlertStatusOpen,
		CreatedAt: now,
	}
	if cmd.PredictedDepletionDate != nil {
		alert.PredictedDepletionDate = *cmd.PredictedDepletionDate
	}

	if err := h.store.Alerts().Create(ctx, alert); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}
	if err := h.store.Reports().Log(ctx, cmd.ProductID, cmd.ShelfID, view.Quantity, 0, true, now); err != nil {
		return nil, fmt.Errorf("failed to log inventory report: %w", err)
	}

	if pubErr := h.publisher.AlertRaised(ctx, *alert); pubErr != nil {
		logger.Warn(ctx).Err(pubErr).Uint("alert_id", alert.ID).Msg("failed to publish alert event")
	}

	return alert, nil
}
