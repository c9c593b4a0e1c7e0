package query

import (
	"context"
	"fmt"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// ListRequestsQuery represents the query to list active stock requests
type ListRequestsQuery struct {
	Limit  int
	Offset int
}

// ListRequestsHandler handles list requests query
type ListRequestsHandler struct {
	store domain.Store
}

// NewListRequestsHandler creates a new list requests handler
func NewListRequestsHandler(store domain.Store) *ListRequestsHandler {
	return &ListRequestsHandler{store: store}
}

// Handle executes the list requests query
func (h *ListRequestsHandler) Handle(ctx context.Context, q ListRequestsQuery) ([]domain.StockRequest, error) {
	limit, offset := clampPage(q.Limit, q.Offset)
	requests, err := h.store.Requests().FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock requests: %w", err)
	}
	return requests, nil
}

// GetRequestQuery represents the query to fetch one stock request
type GetRequestQuery struct {
	RequestID uint
}

// GetRequestHandler handles get request query
type GetRequestHandler struct {
	store domain.Store
}

// NewGetRequestHandler creates a new get request handler
func NewGetRequestHandler(store domain.Store) *GetRequestHandler {
	return &GetRequestHandler{store: store}
}

// Handle executes the get request query
func (h *GetRequestHandler) Handle(ctx context.Context, q GetRequestQuery) (*domain.StockRequest, error) {
	if q.RequestID == 0 {
		return nil, &domain.ValidationError{Msg: "request id is required"}
	}
	return h.store.Requests().FindByID(ctx, q.RequestID)
}
