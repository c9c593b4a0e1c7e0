package domain

import "time"

// InventoryReport is the daily per-(product, shelf) snapshot. At most one
// row exists per pair and calendar date; repeated logging on the same day
// accumulates quantity_restocked, refreshes quantity_on_shelf and ORs
// alert_triggered instead of duplicating.
type InventoryReport struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	ProductID         uint      `json:"product_id" gorm:"not null;uniqueIndex:ux_reports_day"`
	ShelfID           uint      `json:"shelf_id" gorm:"not null;uniqueIndex:ux_reports_day"`
	ReportDate        time.Time `json:"report_date" gorm:"type:date;not null;uniqueIndex:ux_reports_day"`
	QuantityOnShelf   int       `json:"quantity_on_shelf" gorm:"not null"`
	QuantityRestocked int       `json:"quantity_restocked"`
	AlertTriggered    bool      `json:"alert_triggered"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName specifies the table name
func (InventoryReport) TableName() string {
	return "inventory_reports"
}

// Day truncates t to its calendar date in UTC, the report-table grain
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
