package models

import "time"

// CaseAssignmentHistoryEntry records one assignment or reassignment act with the
// full before/after ownership snapshot. Append-only: rows are never updated or
// deleted after creation.
type CaseAssignmentHistoryEntry struct {
	HistoryID      string    `gorm:"primaryKey;column:history_id" json:"history_id"`
	CaseID         string    `gorm:"column:case_id;index" json:"case_id"`
	PreviousRole   *string   `gorm:"column:previous_role" json:"previous_role,omitempty"`
	PreviousUserID *string   `gorm:"column:previous_user_id" json:"previous_user_id,omitempty"`
	NewRole        *string   `gorm:"column:new_role" json:"new_role,omitempty"`
	NewUserID      string    `gorm:"column:new_user_id" json:"new_user_id"`
	AssignedBy     string    `gorm:"column:assigned_by" json:"assigned_by"`
	AssignedByName string    `gorm:"column:assigned_by_name" json:"assigned_by_name"`
	AssignedAt     time.Time `gorm:"column:assigned_at" json:"assigned_at"`
}

// TableName specifies the table for CaseAssignmentHistoryEntry.
func (CaseAssignmentHistoryEntry) TableName() string {
	return "case_assignment_history"
}
