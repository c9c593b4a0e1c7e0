package query

import (
	"context"
	"fmt"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// ListReportsQuery represents the query to list inventory reports
type ListReportsQuery struct {
	Limit  int
	Offset int
}

// ListReportsHandler handles list reports query
type ListReportsHandler struct {
	store domain.Store
}

// NewListReportsHandler creates a new list reports handler
func NewListReportsHandler(store domain.Store) *ListReportsHandler {
	return &ListReportsHandler{store: store}
}

// Handle executes the list reports query
func (h *ListReportsHandler) Handle(ctx context.Context, q ListReportsQuery) ([]domain.InventoryReport, error) {
	limit, offset := clampPage(q.Limit, q.Offset)
	reports, err := h.store.Reports().FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory reports: %w", err)
	}
	return reports, nil
}

// ListDeliveredRequestsQuery represents the query to list the delivered archive
type ListDeliveredRequestsQuery struct {
	Limit  int
	Offset int
}

// ListDeliveredRequestsHandler handles the delivered archive query
type ListDeliveredRequestsHandler struct {
	store domain.Store
}

// NewListDeliveredRequestsHandler creates a new list delivered requests handler
func NewListDeliveredRequestsHandler(store domain.Store) *ListDeliveredRequestsHandler {
	return &ListDeliveredRequestsHandler{store: store}
}

// Handle executes the delivered archive query
func (h *ListDeliveredRequestsHandler) Handle(ctx context.Context, q ListDeliveredRequestsQuery) ([]domain.DeliveredStockRequest, error) {
	limit, offset := clampPage(q.Limit, q.Offset)
	archived, err := h.store.Requests().FindDelivered(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivered requests: %w", err)
	}
	return archived, nil
}

// ListCancelledRequestsQuery represents the query to list the cancelled archive
type ListCancelledRequestsQuery struct {
	Limit  int
	Offset int
}

// ListCancelledRequestsHandler handles the cancelled archive query
type ListCancelledRequestsHandler struct {
	store domain.Store
}

// NewListCancelledRequestsHandler creates a new list cancelled requests handler
func NewListCancelledRequestsHandler(store domain.Store) *ListCancelledRequestsHandler {
	return &ListCancelledRequestsHandler{store: store}
}

// Handle executes the cancelled archive query
func (h *ListCancelledRequestsHandler) Handle(ctx context.Context, q ListCancelledRequestsQuery) ([]domain.CancelledStockRequest, error) {
	limit, offset := clampPage(q.Limit, q.Offset)
	archived, err := h.store.Requests().FindCancelled(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancelled requests: %w", err)
	}
	return archived, nil
}
