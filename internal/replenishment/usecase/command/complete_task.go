package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// CompleteTaskCommand represents a staff member finishing a restock task
type CompleteTaskCommand struct {
	TaskID            uint
	QuantityRestocked int
}

// CompleteTaskHandler handles task completion: the physically restocked
// quantity lands on the shelf and today's report row records it.
type CompleteTaskHandler struct {
	store domain.Store
}

// NewCompleteTaskHandler creates a new complete task handler
func NewCompleteTaskHandler(store domain.Store) *CompleteTaskHandler {
	return &CompleteTaskHandler{store: store}
}

// Handle executes the task completion inside one transaction
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) (*domain.RestockTask, error) {
	if cmd.TaskID == 0 {
		return nil, &domain.ValidationError{Msg: "task id is required"}
	}
	if cmd.QuantityRestocked <= 0 {
		return nil, &domain.ValidationError{Msg: "quantity_restocked must be positive"}
	}

	now := time.Now()
	var completed *domain.RestockTask

	err := h.store.WithinTx(ctx, func(tx domain.Store) error {
		task, err := tx.Tasks().FindByID(ctx, cmd.TaskID)
		if err != nil {
			return err
		}
		if task.Status == domain.TaskStatusCompleted {
			return &domain.PreconditionError{Msg: fmt.Sprintf("restock task %d is already completed", task.ID)}
		}

		view, err := tx.ShelfStock().FindView(ctx, task.ProductID, task.ShelfID)
		if err != nil {
			return fmt.Errorf("failed to resolve shelf stock: %w", err)
		}

		if err := tx.ShelfStockWriter().AddQuantity(ctx, task.ProductID, task.ShelfID, cmd.QuantityRestocked); err != nil {
			return fmt.Errorf("failed to add restocked quantity: %w", err)
		}

		newQuantity := view.Quantity + cmd.QuantityRestocked
		if err := tx.Reports().Log(ctx, task.ProductID, task.ShelfID, newQuantity, cmd.QuantityRestocked, true, now); err != nil {
			return fmt.Errorf("failed to log inventory report: %w", err)
		}

		task.Status = domain.TaskStatusCompleted
		task.CompletedAt = &now
		if err := tx.Tasks().Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update restock task: %w", err)
		}

		completed = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return completed, nil
}
