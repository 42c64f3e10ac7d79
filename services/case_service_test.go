package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"subsidy-crm-api/models"
)

func TestCreateCase_InitialState(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)

	c := mustCreateCase(t, svc, store, "L1")

	if c.ProcessStatus != models.StatusDocumentsPending {
		t.Errorf("status = %s, want %s", c.ProcessStatus, models.StatusDocumentsPending)
	}
	if c.Priority != models.PriorityMedium {
		t.Errorf("priority = %s, want %s", c.Priority, models.PriorityMedium)
	}
	if want := fmt.Sprintf("CASE-%d-0001", time.Now().Year()); c.CaseNumber != want {
		t.Errorf("case number = %s, want %s", c.CaseNumber, want)
	}
	if c.CompanyName != "GreenVolt Energy Pvt Ltd" {
		t.Errorf("company snapshot = %q", c.CompanyName)
	}
	if len(c.Contacts) != 1 || c.Contacts[0].Name != "Suresh Patel" {
		t.Errorf("contact snapshot = %+v", c.Contacts)
	}

	entries := timelineByType(t, store, c.CaseID, models.ActionCaseCreated)
	if len(entries) != 1 {
		t.Fatalf("CASE_CREATED entries = %d, want 1", len(entries))
	}

	lead, err := store.GetLead("L1")
	if err != nil {
		t.Fatalf("get lead: %v", err)
	}
	if !lead.IsConverted() || *lead.ConvertedToCaseID != c.CaseID {
		t.Errorf("lead conversion marker not written: %+v", lead)
	}
}

func TestCreateCase_DuplicateLead(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)

	mustCreateCase(t, svc, store, "L1")

	_, err := svc.CreateCase(CreateCaseInput{LeadID: "L1", SchemeType: "Solar Rooftop Subsidy"}, adminActor)
	if !IsKind(err, KindConflict) {
		t.Fatalf("second create err = %v, want Conflict", err)
	}
}

func TestCreateCase_Validation(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)

	tests := []struct {
		name string
		in   CreateCaseInput
		want ErrorKind
	}{
		{"missing lead", CreateCaseInput{SchemeType: "Solar Rooftop Subsidy"}, KindValidation},
		{"missing scheme", CreateCaseInput{LeadID: "L5"}, KindValidation},
		{"unknown lead", CreateCaseInput{LeadID: "L-none", SchemeType: "Solar Rooftop Subsidy"}, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateCase(tt.in, adminActor); !IsKind(err, tt.want) {
				t.Errorf("err = %v, want kind %s", err, tt.want)
			}
		})
	}
}

func TestUpdateStatus_EmitsTimelineAndBumpsUpdatedAt(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")
	before := c.UpdatedAt

	updated, err := svc.UpdateStatus(c.CaseID, models.StatusDocumentsReceived, adminActor)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.ProcessStatus != models.StatusDocumentsReceived {
		t.Errorf("status = %s", updated.ProcessStatus)
	}
	if !updated.UpdatedAt.After(before) {
		t.Errorf("updatedAt did not increase: %v -> %v", before, updated.UpdatedAt)
	}

	entries := timelineByType(t, store, c.CaseID, models.ActionStatusChanged)
	if len(entries) != 1 {
		t.Fatalf("STATUS_CHANGED entries = %d, want 1", len(entries))
	}
	meta := entries[0].Metadata
	if meta.OldStatus != models.StatusDocumentsPending || meta.NewStatus != models.StatusDocumentsReceived {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestUpdateStatus_PermissiveTable(t *testing.T) {
	// The transition table intentionally allows every status to reach every
	// other status; walk a deliberately out-of-order path.
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	path := []string{
		models.StatusSubmitted,
		models.StatusDocumentsPending,
		models.StatusApproved,
		models.StatusQueryRaised,
	}
	for _, target := range path {
		if _, err := svc.UpdateStatus(c.CaseID, target, adminActor); err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	if _, err := svc.UpdateStatus("missing", models.StatusSubmitted, adminActor); !IsKind(err, KindNotFound) {
		t.Errorf("missing case err = %v, want NotFound", err)
	}
	if _, err := svc.UpdateStatus(c.CaseID, "SHIPPED", adminActor); !IsKind(err, KindValidation) {
		t.Errorf("unknown status err = %v, want Validation", err)
	}
	if _, err := svc.UpdateStatus(c.CaseID, models.StatusDocumentsPending, adminActor); !IsKind(err, KindInvalidState) {
		t.Errorf("same-status err = %v, want InvalidState", err)
	}
}

func TestUpdateStatus_ClosedStampsClosedAt(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	updated, err := svc.UpdateStatus(c.CaseID, models.StatusClosed, adminActor)
	if err != nil {
		t.Fatalf("close via status: %v", err)
	}
	if updated.ClosedAt == nil {
		t.Fatal("closedAt not stamped")
	}
}

func TestUpdateCase_MergesWithoutTimelineEntry(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	entriesBefore, _ := store.ListTimeline(c.CaseID)

	updated, err := svc.UpdateCase(c.CaseID, CaseUpdate{
		CompanyName: strPtr("GreenVolt Renewables Ltd"),
		CaseType:    strPtr("Interest Subvention"),
	}, adminActor)
	if err != nil {
		t.Fatalf("update case: %v", err)
	}
	if updated.CompanyName != "GreenVolt Renewables Ltd" {
		t.Errorf("company = %q", updated.CompanyName)
	}
	if updated.SchemeType != "Solar Rooftop Subsidy" {
		t.Errorf("untouched field changed: %q", updated.SchemeType)
	}
	if !updated.UpdatedAt.After(c.UpdatedAt) {
		t.Error("updatedAt did not bump")
	}

	// The generic field merge deliberately leaves auditing to the caller.
	entriesAfter, _ := store.ListTimeline(c.CaseID)
	if len(entriesAfter) != len(entriesBefore) {
		t.Errorf("timeline grew from %d to %d on plain update", len(entriesBefore), len(entriesAfter))
	}
}

func TestDeleteCase_KeepsLeadConverted(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	if err := svc.DeleteCase(c.CaseID, adminActor); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetCase(c.CaseID); !IsKind(err, KindNotFound) {
		t.Errorf("case still present after delete")
	}

	// Conversion is irreversible: the lead stays converted.
	lead, err := store.GetLead("L1")
	if err != nil {
		t.Fatalf("get lead: %v", err)
	}
	if !lead.IsConverted() {
		t.Error("lead conversion flag was reverted by delete")
	}
}

func TestDeleteCase_RequiresManagementRole(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	if err := svc.DeleteCase(c.CaseID, consultantActor); !IsKind(err, KindUnauthorized) {
		t.Fatalf("err = %v, want Unauthorized", err)
	}
	if _, err := store.GetCase(c.CaseID); err != nil {
		t.Error("case was deleted despite failed role check")
	}
}

func TestCloseAndReopenCase(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	if _, err := svc.CloseCase(c.CaseID, "  ", adminActor); !IsKind(err, KindValidation) {
		t.Errorf("blank reason err = %v, want Validation", err)
	}

	closed, err := svc.CloseCase(c.CaseID, "Subsidy disbursed", adminActor)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.ProcessStatus != models.StatusClosed || closed.ClosedAt == nil || closed.ClosureReason == nil {
		t.Fatalf("closed case = %+v", closed)
	}
	if len(timelineByType(t, store, c.CaseID, models.ActionCaseClosed)) != 1 {
		t.Error("CASE_CLOSED entry missing")
	}

	if _, err := svc.CloseCase(c.CaseID, "again", adminActor); !IsKind(err, KindInvalidState) {
		t.Errorf("double close err = %v, want InvalidState", err)
	}

	reopened, err := svc.ReopenCase(c.CaseID, adminActor)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.ProcessStatus != models.StatusVerification {
		t.Errorf("reopened status = %s", reopened.ProcessStatus)
	}
	if reopened.ClosedAt != nil || reopened.ClosureReason != nil {
		t.Error("closure fields not cleared on reopen")
	}
	if len(timelineByType(t, store, c.CaseID, models.ActionCaseReopened)) != 1 {
		t.Error("CASE_REOPENED entry missing")
	}

	if _, err := svc.ReopenCase(c.CaseID, adminActor); !IsKind(err, KindInvalidState) {
		t.Errorf("reopen open case err = %v, want InvalidState", err)
	}
}

func TestUpdatePriority(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	updated, err := svc.UpdatePriority(c.CaseID, models.PriorityUrgent, adminActor)
	if err != nil {
		t.Fatalf("update priority: %v", err)
	}
	if updated.Priority != models.PriorityUrgent {
		t.Errorf("priority = %s", updated.Priority)
	}

	entries := timelineByType(t, store, c.CaseID, models.ActionPriorityChanged)
	if len(entries) != 1 {
		t.Fatalf("PRIORITY_CHANGED entries = %d, want 1", len(entries))
	}
	if entries[0].Metadata.OldPriority != models.PriorityMedium || entries[0].Metadata.NewPriority != models.PriorityUrgent {
		t.Errorf("metadata = %+v", entries[0].Metadata)
	}

	// Same value is a no-op, no extra entry.
	if _, err := svc.UpdatePriority(c.CaseID, models.PriorityUrgent, adminActor); err != nil {
		t.Fatalf("no-op priority: %v", err)
	}
	if len(timelineByType(t, store, c.CaseID, models.ActionPriorityChanged)) != 1 {
		t.Error("no-op priority change emitted an entry")
	}

	if _, err := svc.UpdatePriority(c.CaseID, "SEVERE", adminActor); !IsKind(err, KindValidation) {
		t.Errorf("unknown priority err = %v, want Validation", err)
	}
}

func TestAddNote(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	entry, err := svc.AddNote(c.CaseID, "Client will send GST certificate on Monday", consultantActor)
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	if entry.ActionType != models.ActionNoteAdded || !strings.Contains(entry.Metadata.Note, "GST certificate") {
		t.Errorf("entry = %+v", entry)
	}

	if _, err := svc.AddNote(c.CaseID, "   ", consultantActor); !IsKind(err, KindValidation) {
		t.Errorf("blank note err = %v, want Validation", err)
	}
	if _, err := svc.AddNote("missing", "hi", consultantActor); !IsKind(err, KindNotFound) {
		t.Errorf("missing case err = %v, want NotFound", err)
	}
}

func TestTasks(t *testing.T) {
	store := newTestStore()
	svc := NewCaseService(store, nil)
	c := mustCreateCase(t, svc, store, "L1")

	task, err := svc.CreateTask(c.CaseID, CreateTaskInput{Title: "Collect bank statement", AssignedTo: strPtr("user-42")}, managerActor)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != models.TaskStatusOpen {
		t.Errorf("task status = %s", task.Status)
	}
	if len(timelineByType(t, store, c.CaseID, models.ActionTaskCreated)) != 1 {
		t.Error("TASK_CREATED entry missing")
	}

	done, err := svc.CompleteTask(task.TaskID, consultantActor)
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if done.Status != models.TaskStatusDone || done.CompletedBy == nil || done.CompletedAt == nil {
		t.Errorf("completed task = %+v", done)
	}
	if len(timelineByType(t, store, c.CaseID, models.ActionTaskCompleted)) != 1 {
		t.Error("TASK_COMPLETED entry missing")
	}

	if _, err := svc.CompleteTask(task.TaskID, consultantActor); !IsKind(err, KindInvalidState) {
		t.Errorf("double complete err = %v, want InvalidState", err)
	}
	if _, err := svc.CreateTask(c.CaseID, CreateTaskInput{}, managerActor); !IsKind(err, KindValidation) {
		t.Errorf("empty title err = %v, want Validation", err)
	}
}
