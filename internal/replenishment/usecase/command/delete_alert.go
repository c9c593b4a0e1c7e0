package command

import (
	"context"
	"fmt"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// DeleteAlertCommand represents a confirmed alert deletion
type DeleteAlertCommand struct {
	AlertID   uint
	Confirmed bool
}

// DeleteAlertHandler handles alert deletion. Deletion is destructive and
// skips archival, so it requires an explicit confirmation and refuses alerts
// that restock tasks still reference.
type DeleteAlertHandler struct {
	store domain.Store
}

// NewDeleteAlertHandler creates a new delete alert handler
func NewDeleteAlertHandler(store domain.Store) *DeleteAlertHandler {
	return &DeleteAlertHandler{store: store}
}

// Handle executes the delete alert command
func (h *DeleteAlertHandler) Handle(ctx context.Context, cmd DeleteAlertCommand) error {
	if cmd.AlertID == 0 {
		return &domain.ValidationError{Msg: "alert id is required"}
	}
	if !cmd.Confirmed {
		return &domain.ValidationError{Msg: "deletion must be confirmed with the X-Confirm-Delete header"}
	}

	if _, err := h.store.Alerts().FindByID(ctx, cmd.AlertID); err != nil {
		return err
	}

	referenced, err := h.store.Tasks().ExistsForAlert(ctx, cmd.AlertID)
	if err != nil {
		return fmt.Errorf("failed to check task references: %w", err)
	}
	if referenced {
		return &domain.ConflictError{Msg: "alert is referenced by restock tasks"}
	}

	if err := h.store.Alerts().Delete(ctx, cmd.AlertID); err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	return nil
}
