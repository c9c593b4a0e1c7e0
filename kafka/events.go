package kafka

import "time"

// AlertRaisedEvent announces a newly opened replenishment alert
type AlertRaisedEvent struct {
	EventID                string    `json:"event_id"`
	EventType              string    `json:"event_type"`
	AlertID                uint      `json:"alert_id"`
	ProductID              uint      `json:"product_id"`
	ShelfID                uint      `json:"shelf_id"`
	Urgency                string    `json:"urgency"`
	PredictedDepletionDate time.Time `json:"predicted_depletion_date"`
	Timestamp              time.Time `json:"timestamp"`
}

// RequestDeliveredEvent announces a delivered and archived stock request
type RequestDeliveredEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	RequestID   uint      `json:"request_id"`
	ProductID   uint      `json:"product_id"`
	StoreID     uint      `json:"store_id"`
	Quantity    int       `json:"quantity"`
	DeliveredAt time.Time `json:"delivered_at"`
	Timestamp   time.Time `json:"timestamp"`
}

// RequestCancelledEvent announces a warehouse-cancelled stock request
type RequestCancelledEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	RequestID   uint      `json:"request_id"`
	ProductID   uint      `json:"product_id"`
	StoreID     uint      `json:"store_id"`
	Quantity    int       `json:"quantity"`
	Reason      string    `json:"reason"`
	AlertID     *uint     `json:"alert_id,omitempty"`
	CancelledAt time.Time `json:"cancelled_at"`
	Timestamp   time.Time `json:"timestamp"`
}

// WarehouseConfirmationEvent is an inbound confirmation from the warehouse
// system, mirroring the HTTP warehouse endpoints.
type WarehouseConfirmationEvent struct {
	EventID   string     `json:"event_id"`
	EventType string     `json:"event_type"`
	RequestID uint       `json:"request_id"`
	ETA       *time.Time `json:"eta,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Event types
const (
	EventTypeAlertRaised      = "replenishment.alert_raised"
	EventTypeRequestDelivered = "stock_request.delivered"
	EventTypeRequestCancelled = "stock_request.cancelled"

	EventTypeConfirmDispatched = "dispatched"
	EventTypeConfirmDelivered  = "delivered"
	EventTypeConfirmCancelled  = "cancelled"
)

// Kafka topics
const (
	TopicReplenishmentAlerts    = "replenishment-alerts"
	TopicStockRequests          = "stock-requests"
	TopicWarehouseConfirmations = "warehouse-confirmations"
)
