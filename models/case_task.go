package models

import "time"

// Task status values
const (
	TaskStatusOpen = "OPEN"
	TaskStatusDone = "DONE"
)

// CaseTask is a lightweight follow-up item attached to a case (call the client,
// chase a missing document). Creation and completion both land on the timeline.
type CaseTask struct {
	TaskID      string     `gorm:"primaryKey;column:task_id" json:"task_id"`
	CaseID      string     `gorm:"column:case_id;index" json:"case_id"`
	Title       string     `gorm:"column:title" json:"title"`
	Status      string     `gorm:"column:status" json:"status"`
	AssignedTo  *string    `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	CreatedBy   string     `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	CompletedBy *string    `gorm:"column:completed_by" json:"completed_by,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

// TableName specifies the table for CaseTask.
func (CaseTask) TableName() string {
	return "case_tasks"
}
