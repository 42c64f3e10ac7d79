package services

import (
	"testing"

	"subsidy-crm-api/models"
)

func TestAssignmentEntry_TypeDependsOnPreviousOwner(t *testing.T) {
	fresh := AssignmentEntry("c1", managerActor, nil, "user-42")
	if fresh.ActionType != models.ActionAssigned {
		t.Errorf("fresh type = %s, want %s", fresh.ActionType, models.ActionAssigned)
	}
	if fresh.Metadata.PreviousUserID != "" || fresh.Metadata.NewUserID != "user-42" {
		t.Errorf("fresh metadata = %+v", fresh.Metadata)
	}

	re := AssignmentEntry("c1", managerActor, strPtr("user-42"), "user-7")
	if re.ActionType != models.ActionReassigned {
		t.Errorf("reassign type = %s, want %s", re.ActionType, models.ActionReassigned)
	}
	if re.Metadata.PreviousUserID != "user-42" || re.Metadata.NewUserID != "user-7" {
		t.Errorf("reassign metadata = %+v", re.Metadata)
	}

	// An empty previous owner counts as a fresh assignment.
	blank := AssignmentEntry("c1", managerActor, strPtr(""), "user-7")
	if blank.ActionType != models.ActionAssigned {
		t.Errorf("blank previous type = %s, want %s", blank.ActionType, models.ActionAssigned)
	}
}

func TestEntryConstructors_CarryActorAndMetadata(t *testing.T) {
	e := StatusChangedEntry("c1", consultantActor, models.StatusDocumentsPending, models.StatusVerification)
	if e.PerformedBy != consultantActor.UserID || e.PerformedByName != consultantActor.Name {
		t.Errorf("actor = %s/%s", e.PerformedBy, e.PerformedByName)
	}
	if e.Metadata.OldStatus != models.StatusDocumentsPending || e.Metadata.NewStatus != models.StatusVerification {
		t.Errorf("metadata = %+v", e.Metadata)
	}
	if e.EntryID == "" || e.PerformedAt.IsZero() {
		t.Error("entry id or timestamp missing")
	}

	closed := CaseClosedEntry("c1", managerActor, models.StatusApproved, "client withdrew")
	if closed.Metadata.NewStatus != models.StatusClosed || closed.Metadata.Reason != "client withdrew" {
		t.Errorf("close metadata = %+v", closed.Metadata)
	}
}

func TestGetByCaseID_UnknownCase(t *testing.T) {
	store := newTestStore()
	timeline := NewTimelineService(store)

	if _, err := timeline.GetByCaseID("missing"); !IsKind(err, KindNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}
