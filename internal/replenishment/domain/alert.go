package domain

import "time"

// Alert statuses. An alert stays in the active table until its fulfillment
// path completes; "cancelled" marks a warehouse cancellation on a still
// active alert, it is not a terminal state.
const (
	AlertStatusOpen      = "open"
	AlertStatusCompleted = "completed"
	AlertStatusCancelled = "cancelled"
)

// Urgency tiers derived from days to depletion
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// ReplenishmentAlert is an open risk signal for a (product, shelf) pair.
// The partial unique index keeps at most one open alert per pair, so the
// check-then-insert sequence is safe under concurrent sweeps.
type ReplenishmentAlert struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	ProductID              uint      `json:"product_id" gorm:"not null;index:idx_alerts_pair;uniqueIndex:ux_alerts_open_pair,where:status = 'open'"`
	ShelfID                uint      `json:"shelf_id" gorm:"not null;index:idx_alerts_pair;uniqueIndex:ux_alerts_open_pair,where:status = 'open'"`
	PredictedDepletionDate time.Time `json:"predicted_depletion_date"`
	Urgency                string    `json:"urgency" gorm:"not null;default:'medium'"`
	Status                 string    `json:"status" gorm:"not null;default:'open'"`
	FulfillmentNote        string    `json:"fulfillment_note,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// TableName specifies the table name
func (ReplenishmentAlert) TableName() string {
	return "replenishment_alerts"
}

// IsClosed reports whether the alert already reached its completed state
func (a *ReplenishmentAlert) IsClosed() bool {
	return a.Status == AlertStatusCompleted
}

// ClosedReplenishmentAlert is the immutable archive copy of an alert,
// keeping the identifier it had in the active table.
type ClosedReplenishmentAlert struct {
	ID                     uint      `json:"id" gorm:"primaryKey"`
	OriginalAlertID        uint      `json:"original_alert_id" gorm:"not null;uniqueIndex"`
	ProductID              uint      `json:"product_id" gorm:"not null;index"`
	ShelfID                uint      `json:"shelf_id" gorm:"not null;index"`
	PredictedDepletionDate time.Time `json:"predicted_depletion_date"`
	Urgency                string    `json:"urgency"`
	Status                 string    `json:"status"`
	FulfillmentNote        string    `json:"fulfillment_note,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
	ClosedAt               time.Time `json:"closed_at"`
}

// TableName specifies the table name
func (ClosedReplenishmentAlert) TableName() string {
	return "closed_replenishment_alerts"
}

// Close builds the archive copy of a
func (a *ReplenishmentAlert) Close(now time.Time) ClosedReplenishmentAlert {
	return ClosedReplenishmentAlert{
		OriginalAlertID:        a.ID,
		ProductID:              a.ProductID,
		ShelfID:                a.ShelfID,
		PredictedDepletionDate: a.PredictedDepletionDate,
		Urgency:                a.Urgency,
		Status:                 AlertStatusCompleted,
		FulfillmentNote:        a.FulfillmentNote,
		CreatedAt:              a.CreatedAt,
		ClosedAt:               now,
	}
}
