package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"subsidy-crm-api/models"
)

// TimelineService reads and writes the append-only case audit log. The
// constructors below are the only place action strings are built, so the
// wording downstream displays stays consistent.
type TimelineService struct {
	store Store
}

// NewTimelineService wires the timeline over a store.
func NewTimelineService(store Store) *TimelineService {
	return &TimelineService{store: store}
}

// Append writes one entry. Failures propagate to the caller; the timeline never
// drops an event silently.
func (s *TimelineService) Append(entry *models.CaseTimelineEntry) error {
	return s.store.AppendTimeline(entry)
}

// GetByCaseID returns entries for the case, newest first.
func (s *TimelineService) GetByCaseID(caseID string) ([]models.CaseTimelineEntry, error) {
	if _, err := s.store.GetCase(caseID); err != nil {
		return nil, err
	}
	return s.store.ListTimeline(caseID)
}

func newEntry(caseID string, actor Actor, actionType, action string, meta models.EntryMeta) *models.CaseTimelineEntry {
	return &models.CaseTimelineEntry{
		EntryID:         uuid.New().String(),
		CaseID:          caseID,
		ActionType:      actionType,
		Action:          action,
		PerformedBy:     actor.UserID,
		PerformedByName: actor.Name,
		PerformedAt:     time.Now(),
		Metadata:        meta,
	}
}

// CaseCreatedEntry records the conversion of a lead into a case.
func CaseCreatedEntry(c *models.Case, actor Actor) *models.CaseTimelineEntry {
	return newEntry(c.CaseID, actor, models.ActionCaseCreated,
		fmt.Sprintf("Case %s created for %s", c.CaseNumber, c.CompanyName),
		models.EntryMeta{NewStatus: c.ProcessStatus})
}

// StatusChangedEntry records a lifecycle transition with both endpoints.
func StatusChangedEntry(caseID string, actor Actor, oldStatus, newStatus string) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionStatusChanged,
		fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus),
		models.EntryMeta{OldStatus: oldStatus, NewStatus: newStatus})
}

// AssignmentEntry records an assignment, or a reassignment when a previous
// owner existed.
func AssignmentEntry(caseID string, actor Actor, previousUserID *string, newUserID string) *models.CaseTimelineEntry {
	if previousUserID != nil && *previousUserID != "" {
		return newEntry(caseID, actor, models.ActionReassigned,
			fmt.Sprintf("Case reassigned from %s to %s", *previousUserID, newUserID),
			models.EntryMeta{PreviousUserID: *previousUserID, NewUserID: newUserID})
	}
	return newEntry(caseID, actor, models.ActionAssigned,
		fmt.Sprintf("Case assigned to %s", newUserID),
		models.EntryMeta{NewUserID: newUserID})
}

// DocumentUploadedEntry records receipt of a document.
func DocumentUploadedEntry(caseID string, actor Actor, d *models.CaseDocument) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionDocumentUploaded,
		fmt.Sprintf("Document uploaded: %s (%s)", d.DocumentType, d.FileName),
		models.EntryMeta{DocumentType: d.DocumentType, DocumentID: d.DocumentID})
}

// DocumentVerifiedEntry records a successful verification.
func DocumentVerifiedEntry(caseID string, actor Actor, d *models.CaseDocument) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionDocumentVerified,
		fmt.Sprintf("Document verified: %s", d.DocumentType),
		models.EntryMeta{DocumentType: d.DocumentType, DocumentID: d.DocumentID})
}

// DocumentRejectedEntry records a rejection with its reason.
func DocumentRejectedEntry(caseID string, actor Actor, d *models.CaseDocument, reason string) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionDocumentRejected,
		fmt.Sprintf("Document rejected: %s", d.DocumentType),
		models.EntryMeta{DocumentType: d.DocumentType, DocumentID: d.DocumentID, Reason: reason})
}

// NoteAddedEntry records a free-text note. The timeline is the note store.
func NoteAddedEntry(caseID string, actor Actor, note string) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionNoteAdded, "Note added",
		models.EntryMeta{Note: note})
}

// TaskCreatedEntry records creation of a follow-up task.
func TaskCreatedEntry(caseID string, actor Actor, t *models.CaseTask) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionTaskCreated,
		fmt.Sprintf("Task created: %s", t.Title),
		models.EntryMeta{TaskID: t.TaskID, TaskTitle: t.Title})
}

// TaskCompletedEntry records completion of a follow-up task.
func TaskCompletedEntry(caseID string, actor Actor, t *models.CaseTask) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionTaskCompleted,
		fmt.Sprintf("Task completed: %s", t.Title),
		models.EntryMeta{TaskID: t.TaskID, TaskTitle: t.Title})
}

// PriorityChangedEntry records a priority change with both endpoints.
func PriorityChangedEntry(caseID string, actor Actor, oldPriority, newPriority string) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionPriorityChanged,
		fmt.Sprintf("Priority changed from %s to %s", oldPriority, newPriority),
		models.EntryMeta{OldPriority: oldPriority, NewPriority: newPriority})
}

// CaseClosedEntry records closure with the closure reason.
func CaseClosedEntry(caseID string, actor Actor, oldStatus, reason string) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionCaseClosed,
		fmt.Sprintf("Case closed: %s", reason),
		models.EntryMeta{OldStatus: oldStatus, NewStatus: models.StatusClosed, Reason: reason})
}

// CaseReopenedEntry records a closed case returning to the active lifecycle.
func CaseReopenedEntry(caseID string, actor Actor, newStatus string) *models.CaseTimelineEntry {
	return newEntry(caseID, actor, models.ActionCaseReopened,
		fmt.Sprintf("Case reopened to %s", newStatus),
		models.EntryMeta{OldStatus: models.StatusClosed, NewStatus: newStatus})
}
