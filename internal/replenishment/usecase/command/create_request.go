package command

import (
	"context"
	"fmt"
	"time"

	"github.com/shelfsense/backend/internal/replenishment/domain"
)

// CreateRequestCommand represents a manually placed stock request
type CreateRequestCommand struct {
	ProductID uint
	StoreID   uint
	Quantity  int
}

// CreateRequestHandler handles manual stock request creation
type CreateRequestHandler struct {
	store domain.Store
}

// NewCreateRequestHandler creates a new create request handler
func NewCreateRequestHandler(store domain.Store) *CreateRequestHandler {
	return &CreateRequestHandler{store: store}
}

// Handle executes the create request command
func (h *CreateRequestHandler) Handle(ctx context.Context, cmd CreateRequestCommand) (*domain.StockRequest, error) {
	if cmd.ProductID == 0 {
		return nil, &domain.ValidationError{Msg: "product_id is required"}
	}
	if cmd.StoreID == 0 {
		return nil, &domain.ValidationError{Msg: "store_id is required"}
	}
	if cmd.Quantity <= 0 {
		return nil, &domain.ValidationError{Msg: "quantity must be positive"}
	}

	view, err := h.store.ShelfStock().FindViewByStore(ctx, cmd.ProductID, cmd.StoreID)
	if err != nil {
		return nil, err
	}

	exists, err := h.store.Requests().ActiveExistsForPair(ctx, cmd.ProductID, cmd.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active requests: %w", err)
	}
	if exists {
		return nil, &domain.ConflictError{Msg: "an active stock request already exists for this product and store"}
	}

	now := time.Now()
	request := &domain.StockRequest{
		ProductID:   cmd.ProductID,
		StoreID:     cmd.StoreID,
		Quantity:    cmd.Quantity,
		Status:      domain.RequestStatusRequested,
		RequestedAt: now,
	}
	if err := h.store.Requests().Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create stock request: %w", err)
	}

	if err := h.store.Reports().Log(ctx, view.ProductID, view.ShelfID, view.Quantity, 0, false, now); err != nil {
		return nil, fmt.Errorf("failed to log inventory report: %w", err)
	}

	return request, nil
}
