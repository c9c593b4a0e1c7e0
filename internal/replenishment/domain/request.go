package domain

import (
	"fmt"
	"time"
)

// Stock request statuses
const (
	RequestStatusRequested = "requested"
	RequestStatusInTransit = "in_transit"
	RequestStatusDelivered = "delivered"
	RequestStatusCancelled = "cancelled"
)

// requestTransitions is the allowed transition table. Terminal rows are
// moved to the archive tables and removed from the active set.
var requestTransitions = map[string][]string{
	RequestStatusRequested: {RequestStatusInTransit, RequestStatusDelivered, RequestStatusCancelled},
	RequestStatusInTransit: {RequestStatusDelivered, RequestStatusCancelled},
	RequestStatusDelivered: {},
	RequestStatusCancelled: {},
}

// CanTransition reports whether a stock request may move from one status
// to another
func CanTransition(from, to string) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StockRequest asks the warehouse for quantity units of a product for a store
type StockRequest struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ProductID   uint       `json:"product_id" gorm:"not null;index:idx_requests_pair"`
	StoreID     uint       `json:"store_id" gorm:"not null;index:idx_requests_pair"`
	Quantity    int        `json:"quantity" gorm:"not null"`
	Status      string     `json:"status" gorm:"not null;default:'requested'"`
	RequestedAt time.Time  `json:"requested_at"`
	ETA         *time.Time `json:"eta,omitempty"`
}

// TableName specifies the table name
func (StockRequest) TableName() string {
	return "stock_requests"
}

// Transition moves the request to a new status or fails with a
// PreconditionError
func (r *StockRequest) Transition(to string) error {
	if !CanTransition(r.Status, to) {
		return &PreconditionError{
			Msg: fmt.Sprintf("stock request %d cannot move from %s to %s", r.ID, r.Status, to),
		}
	}
	r.Status = to
	return nil
}

// IsActive reports whether the request still occupies the active table
func (r *StockRequest) IsActive() bool {
	return r.Status == RequestStatusRequested || r.Status == RequestStatusInTransit
}

// DeliveredStockRequest is the archive copy of a delivered request
type DeliveredStockRequest struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	OriginalRequestID uint      `json:"original_request_id" gorm:"not null;uniqueIndex"`
	ProductID         uint      `json:"product_id" gorm:"not null;index"`
	StoreID           uint      `json:"store_id" gorm:"not null;index"`
	Quantity          int       `json:"quantity" gorm:"not null"`
	RequestedAt       time.Time `json:"requested_at"`
	DeliveredAt       time.Time `json:"delivered_at"`
}

// TableName specifies the table name
func (DeliveredStockRequest) TableName() string {
	return "delivered_stock_requests"
}

// CancelledStockRequest is the archive copy of a cancelled request. The
// cancellation reason is a structured field; AlertID references the alert
// that was annotated when the warehouse cancelled.
type CancelledStockRequest struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	OriginalRequestID uint      `json:"original_request_id" gorm:"not null;uniqueIndex"`
	ProductID         uint      `json:"product_id" gorm:"not null;index"`
	StoreID           uint      `json:"store_id" gorm:"not null;index"`
	Quantity          int       `json:"quantity" gorm:"not null"`
	RequestedAt       time.Time `json:"requested_at"`
	CancelReason      string    `json:"cancel_reason"`
	AlertID           *uint     `json:"alert_id,omitempty"`
	CancelledAt       time.Time `json:"cancelled_at"`
}

// TableName specifies the table name
func (CancelledStockRequest) TableName() string {
	return "cancelled_stock_requests"
}

// Delivered builds the delivered-archive copy of r
func (r *StockRequest) Delivered(now time.Time) DeliveredStockRequest {
	return DeliveredStockRequest{
		OriginalRequestID: r.ID,
		ProductID:         r.ProductID,
		StoreID:           r.StoreID,
		Quantity:          r.Quantity,
		RequestedAt:       r.RequestedAt,
		DeliveredAt:       now,
	}
}

// Cancelled builds the cancelled-archive copy of r
func (r *StockRequest) Cancelled(reason string, alertID *uint, now time.Time) CancelledStockRequest {
	return CancelledStockRequest{
		OriginalRequestID: r.ID,
		ProductID:         r.ProductID,
		StoreID:           r.StoreID,
		Quantity:          r.Quantity,
		RequestedAt:       r.RequestedAt,
		CancelReason:      reason,
		AlertID:           alertID,
		CancelledAt:       now,
	}
}
