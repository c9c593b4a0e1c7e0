package domain

import "time"

// Restock task statuses. The orchestrator only moves tasks between pending
// and completed; in_progress and delayed exist for manual bookkeeping.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusDelayed    = "delayed"
)

// RestockTask assigns a staff member to physically restock a shelf,
// tied to the alert that raised the work.
type RestockTask struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	AlertID     uint       `json:"alert_id" gorm:"not null;index"`
	ProductID   uint       `json:"product_id" gorm:"not null;index:idx_tasks_pair"`
	ShelfID     uint       `json:"shelf_id" gorm:"not null;index:idx_tasks_pair"`
	AssignedTo  uint       `json:"assigned_to" gorm:"not null;index"`
	Status      string     `json:"status" gorm:"not null;default:'pending'"`
	AssignedAt  time.Time  `json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableName specifies the table name
func (RestockTask) TableName() string {
	return "restock_tasks"
}
