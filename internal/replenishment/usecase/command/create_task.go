package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// CreateTaskCommand represents a manually assigned restock task
type CreateTaskCommand struct {
	AlertID    uint
	AssignedTo uint
}

// CreateTaskHandler handles manual restock task assignment. The pair comes
// from the referenced alert.
type CreateTaskHandler struct {
	store domain.Store
}

// NewCreateTaskHandler creates a new create task handler
func NewCreateTaskHandler(store domain.Store) *CreateTaskHandler {
	return &CreateTaskHandler{store: store}
}

// Handle executes the create task command
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*domain.RestockTask, error) {
	if cmd.AlertID == 0 {
		return nil, &domain.ValidationError{Msg: "alert_id is required"}
	}
	if cmd.AssignedTo == 0 {
		return nil, &domain.ValidationError{Msg: "assigned_to is required"}
	}

	alert, err := h.store.Alerts().FindByID(ctx, cmd.AlertID)
	if err != nil {
		return nil, err
	}

	pending, err := h.store.Tasks().PendingExistsForPair(ctx, alert.ProductID, alert.ShelfID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending tasks: %w", err)
	}
	if pending {
		return nil, &domain.ConflictError{Msg: "a pending restock task already exists for this pair"}
	}

	task := &domain.RestockTask{
		AlertID:    alert.ID,
		ProductID:  alert.ProductID,
		ShelfID:    alert.ShelfID,
		AssignedTo: cmd.AssignedTo,
		Status:     domain.TaskStatusPending,
		AssignedAt: time.Now(),
	}
	if err := h.store.Tasks().Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create restock task: %w", err)
	}
	return task, nil
}
