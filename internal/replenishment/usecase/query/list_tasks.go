package query

import (
	"context"
	"fmt"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// ListTasksQuery represents the query to list restock tasks
type ListTasksQuery struct {
	Limit  int
	Offset int
}

// ListTasksHandler handles list tasks query
type ListTasksHandler struct {
	store domain.Store
}

// NewListTasksHandler creates a new list tasks handler
func NewListTasksHandler(store domain.Store) *ListTasksHandler {
	return &ListTasksHandler{store: store}
}

// Handle executes the list tasks query
func (h *ListTasksHandler) Handle(ctx context.Context, q ListTasksQuery) ([]domain.RestockTask, error) {
	limit, offset := clampPage(q.Limit, q.Offset)
	tasks, err := h.store.Tasks().FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list restock tasks: %w", err)
	}
	return tasks, nil
}

// GetTaskQuery represents the query to fetch one restock task
type GetTaskQuery struct {
	TaskID uint
}

// GetTaskHandler handles get task query
type GetTaskHandler struct {
	store domain.Store
}

// NewGetTaskHandler creates a new get task handler
func NewGetTaskHandler(store domain.Store) *GetTaskHandler {
	return &GetTaskHandler{store: store}
}

// Handle executes the get task query
func (h *GetTaskHandler) Handle(ctx context.Context, q GetTaskQuery) (*domain.RestockTask, error) {
	if q.TaskID == 0 {
		return nil, &domain.ValidationError{Msg: "task id is required"}
	}
	return h.store.Tasks().FindByID(ctx, q.TaskID)
}
