package models

import "time"

// Timeline action types
const (
	ActionCaseCreated      = "CASE_CREATED"
	ActionStatusChanged    = "STATUS_CHANGED"
	ActionAssigned         = "ASSIGNED"
	ActionReassigned       = "REASSIGNED"
	ActionDocumentUploaded = "DOCUMENT_UPLOADED"
	ActionDocumentVerified = "DOCUMENT_VERIFIED"
	ActionDocumentRejected = "DOCUMENT_REJECTED"
	ActionNoteAdded        = "NOTE_ADDED"
	ActionTaskCreated      = "TASK_CREATED"
	ActionTaskCompleted    = "TASK_COMPLETED"
	ActionPriorityChanged  = "PRIORITY_CHANGED"
	ActionCaseClosed       = "CASE_CLOSED"
	ActionCaseReopened     = "CASE_REOPENED"
)

// EntryMeta carries the structured context of a timeline entry. Each action type
// fills only its own fields; the typed constructors in services/timeline_service.go
// are the only writers, which keeps the shape per action type fixed.
type EntryMeta struct {
	OldStatus      string `json:"old_status,omitempty"`
	NewStatus      string `json:"new_status,omitempty"`
	OldPriority    string `json:"old_priority,omitempty"`
	NewPriority    string `json:"new_priority,omitempty"`
	PreviousUserID string `json:"previous_user_id,omitempty"`
	NewUserID      string `json:"new_user_id,omitempty"`
	DocumentType   string `json:"document_type,omitempty"`
	DocumentID     string `json:"document_id,omitempty"`
	TaskID         string `json:"task_id,omitempty"`
	TaskTitle      string `json:"task_title,omitempty"`
	Note           string `json:"note,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// IsZero reports whether no metadata field is set.
func (m EntryMeta) IsZero() bool {
	return m == EntryMeta{}
}

// CaseTimelineEntry is one immutable audit record. The timeline is the canonical
// history of a case even though Case fields hold current-state snapshots.
type CaseTimelineEntry struct {
	EntryID         string    `gorm:"primaryKey;column:entry_id" json:"entry_id"`
	CaseID          string    `gorm:"column:case_id;index" json:"case_id"`
	ActionType      string    `gorm:"column:action_type" json:"action_type"`
	Action          string    `gorm:"column:action" json:"action"`
	PerformedBy     string    `gorm:"column:performed_by" json:"performed_by"`
	PerformedByName string    `gorm:"column:performed_by_name" json:"performed_by_name"`
	PerformedAt     time.Time `gorm:"column:performed_at" json:"performed_at"`
	Metadata        EntryMeta `gorm:"column:metadata;serializer:json" json:"metadata,omitempty"`
}

// TableName specifies the table for CaseTimelineEntry.
func (CaseTimelineEntry) TableName() string {
	return "case_timeline"
}
