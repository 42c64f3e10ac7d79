package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"subsidy-crm-api/models"
)

// CaseService owns the case lifecycle: creation from a lead, the status state
// machine, priority, closure and the note/task operations that land on the
// timeline.
type CaseService struct {
	store    Store
	notifier *NotificationService
}

// NewCaseService wires the lifecycle engine over a store. notifier may be nil
// when email/in-app notifications are not configured.
func NewCaseService(store Store, notifier *NotificationService) *CaseService {
	return &CaseService{store: store, notifier: notifier}
}

// CreateCaseInput carries the conversion request. Lead contact and company
// fields are copied into the case at creation and never re-synced.
type CreateCaseInput struct {
	LeadID       string   `json:"lead_id"`
	SchemeType   string   `json:"scheme_type"`
	CaseType     string   `json:"case_type"`
	BenefitTypes []string `json:"benefit_types"`
}

// CreateCase converts a lead into a case: exactly one case may ever exist per
// lead. The new case starts at DOCUMENTS_PENDING with MEDIUM priority and a
// CASE_CREATED timeline entry; the lead's conversion marker is written in the
// same transaction.
func (s *CaseService) CreateCase(in CreateCaseInput, actor Actor) (*models.Case, error) {
	if strings.TrimSpace(in.LeadID) == "" {
		return nil, ErrValidation("lead id is required")
	}
	if strings.TrimSpace(in.SchemeType) == "" {
		return nil, ErrValidation("scheme type is required")
	}

	lead, err := s.store.GetLead(in.LeadID)
	if err != nil {
		return nil, err
	}
	if lead.IsConverted() {
		return nil, ErrConflict("lead %s is already converted to case %s", lead.LeadID, *lead.ConvertedToCaseID)
	}
	if existing, err := s.store.GetCaseByLeadID(in.LeadID); err == nil {
		return nil, ErrConflict("lead %s already has case %s", in.LeadID, existing.CaseNumber)
	}

	now := time.Now()
	number, err := s.store.AllocateCaseNumber(now.Year())
	if err != nil {
		return nil, err
	}

	c := &models.Case{
		CaseID:        uuid.New().String(),
		LeadID:        lead.LeadID,
		CaseNumber:    number,
		SchemeType:    in.SchemeType,
		CaseType:      in.CaseType,
		BenefitTypes:  append([]string(nil), in.BenefitTypes...),
		ProcessStatus: models.StatusDocumentsPending,
		Priority:      models.PriorityMedium,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	copyLeadSnapshot(c, lead)

	fx := &SideEffects{}
	fx.AddTimeline(CaseCreatedEntry(c, actor))

	if err := s.store.CreateCase(c, fx); err != nil {
		return nil, err
	}
	return c, nil
}

// copyLeadSnapshot is the one-time copy-on-create of lead fields. The case
// holds its own denormalized snapshot, never a live reference to the lead.
func copyLeadSnapshot(c *models.Case, lead *models.Lead) {
	if lead.Company != nil {
		c.CompanyName = *lead.Company
	}
	if c.CompanyName == "" {
		c.CompanyName = lead.ClientName
	}
	if lead.CompanyType != nil {
		c.CompanyType = *lead.CompanyType
	}
	contact := models.CaseContact{Name: lead.ClientName, IsMain: true}
	if lead.MobileNumber != nil {
		contact.Phone = *lead.MobileNumber
	}
	if lead.Email != nil {
		contact.Email = *lead.Email
	}
	c.Contacts = []models.CaseContact{contact}
}

// GetCase returns one case by id.
func (s *CaseService) GetCase(caseID string) (*models.Case, error) {
	return s.store.GetCase(caseID)
}

// ListCases returns the current snapshot of every case.
func (s *CaseService) ListCases() ([]models.Case, error) {
	return s.store.ListCases()
}

// UpdateStatus moves the case through the state machine. The transition is
// validated against models.StatusTransitions (currently permissive), closedAt
// is stamped when the target is CLOSED, updatedAt always bumps, and a
// STATUS_CHANGED entry carrying both endpoints lands on the timeline.
func (s *CaseService) UpdateStatus(caseID, newStatus string, actor Actor) (*models.Case, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, ErrValidation("unknown status %q", newStatus)
	}

	var oldStatus string
	updated, err := s.store.WithCase(caseID, func(c *models.Case, fx *SideEffects) error {
		oldStatus = c.ProcessStatus
		if newStatus == oldStatus {
			return ErrInvalidState("case %s is already %s", caseID, newStatus)
		}
		if !models.IsTransitionAllowed(oldStatus, newStatus) {
			return ErrInvalidState("transition %s -> %s is not allowed", oldStatus, newStatus)
		}

		c.ProcessStatus = newStatus
		if newStatus == models.StatusClosed {
			now := time.Now()
			c.ClosedAt = &now
		}

		fx.AddTimeline(StatusChangedEntry(caseID, actor, oldStatus, newStatus))
		if c.AssignedUserID != nil && *c.AssignedUserID != actor.UserID {
			fx.AddNotification(statusNotification(c, oldStatus, newStatus))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.emailOwner(updated, "Case status updated",
		"Case "+updated.CaseNumber+" moved from "+oldStatus+" to "+newStatus+".")
	return updated, nil
}

// CaseUpdate is a partial field merge. Nil fields are left untouched.
type CaseUpdate struct {
	SchemeType   *string               `json:"scheme_type"`
	CaseType     *string               `json:"case_type"`
	BenefitTypes *[]string             `json:"benefit_types"`
	CompanyName  *string               `json:"company_name"`
	CompanyType  *string               `json:"company_type"`
	Contacts     *[]models.CaseContact `json:"contacts"`
}

// UpdateCase merges the supplied fields and bumps updatedAt. It deliberately
// emits no timeline entry; callers that want an audit record append one
// themselves.
func (s *CaseService) UpdateCase(caseID string, update CaseUpdate, actor Actor) (*models.Case, error) {
	return s.store.WithCase(caseID, func(c *models.Case, fx *SideEffects) error {
		if update.SchemeType != nil {
			c.SchemeType = *update.SchemeType
		}
		if update.CaseType != nil {
			c.CaseType = *update.CaseType
		}
		if update.BenefitTypes != nil {
			c.BenefitTypes = append([]string(nil), (*update.BenefitTypes)...)
		}
		if update.CompanyName != nil {
			c.CompanyName = *update.CompanyName
		}
		if update.CompanyType != nil {
			c.CompanyType = *update.CompanyType
		}
		if update.Contacts != nil {
			c.Contacts = append([]models.CaseContact(nil), (*update.Contacts)...)
		}
		return nil
	})
}

// UpdatePriority changes the case priority and records PRIORITY_CHANGED.
func (s *CaseService) UpdatePriority(caseID, priority string, actor Actor) (*models.Case, error) {
	if !models.IsValidPriority(priority) {
		return nil, ErrValidation("unknown priority %q", priority)
	}
	return s.store.WithCase(caseID, func(c *models.Case, fx *SideEffects) error {
		if c.Priority == priority {
			return nil
		}
		old := c.Priority
		c.Priority = priority
		fx.AddTimeline(PriorityChangedEntry(caseID, actor, old, priority))
		return nil
	})
}

// CloseCase closes the case with a mandatory reason and emits CASE_CLOSED.
func (s *CaseService) CloseCase(caseID, reason string, actor Actor) (*models.Case, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrValidation("closure reason is required")
	}
	return s.store.WithCase(caseID, func(c *models.Case, fx *SideEffects) error {
		if c.ProcessStatus == models.StatusClosed {
			return ErrInvalidState("case %s is already closed", caseID)
		}
		old := c.ProcessStatus
		now := time.Now()
		c.ProcessStatus = models.StatusClosed
		c.ClosedAt = &now
		c.ClosureReason = &reason
		fx.AddTimeline(CaseClosedEntry(caseID, actor, old, reason))
		return nil
	})
}

// ReopenCase returns a closed case to VERIFICATION and emits CASE_REOPENED.
func (s *CaseService) ReopenCase(caseID string, actor Actor) (*models.Case, error) {
	return s.store.WithCase(caseID, func(c *models.Case, fx *SideEffects) error {
		if c.ProcessStatus != models.StatusClosed {
			return ErrInvalidState("case %s is not closed", caseID)
		}
		c.ProcessStatus = models.StatusVerification
		c.ClosedAt = nil
		c.ClosureReason = nil
		fx.AddTimeline(CaseReopenedEntry(caseID, actor, models.StatusVerification))
		return nil
	})
}

// DeleteCase removes the case. The lead's conversion marker is not reverted
// (conversion is irreversible) and document records are kept.
func (s *CaseService) DeleteCase(caseID string, actor Actor) error {
	if !models.CanManageCases(actor.Role) {
		return ErrUnauthorized("role %s may not delete cases", actor.Role)
	}
	return s.store.DeleteCase(caseID)
}

// AddNote appends a NOTE_ADDED entry. Notes live only on the timeline.
func (s *CaseService) AddNote(caseID, note string, actor Actor) (*models.CaseTimelineEntry, error) {
	if strings.TrimSpace(note) == "" {
		return nil, ErrValidation("note text is required")
	}
	if _, err := s.store.GetCase(caseID); err != nil {
		return nil, err
	}
	entry := NoteAddedEntry(caseID, actor, note)
	if err := s.store.AppendTimeline(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateTaskInput carries a follow-up task request.
type CreateTaskInput struct {
	Title      string     `json:"title"`
	AssignedTo *string    `json:"assigned_to"`
	DueDate    *time.Time `json:"due_date"`
}

// CreateTask attaches a follow-up task to the case and emits TASK_CREATED.
func (s *CaseService) CreateTask(caseID string, in CreateTaskInput, actor Actor) (*models.CaseTask, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrValidation("task title is required")
	}
	t := &models.CaseTask{
		TaskID:     uuid.New().String(),
		CaseID:     caseID,
		Title:      in.Title,
		Status:     models.TaskStatusOpen,
		AssignedTo: in.AssignedTo,
		DueDate:    in.DueDate,
		CreatedBy:  actor.UserID,
		CreatedAt:  time.Now(),
	}
	fx := &SideEffects{}
	fx.AddTimeline(TaskCreatedEntry(caseID, actor, t))
	if err := s.store.CreateTask(t, fx); err != nil {
		return nil, err
	}
	return t, nil
}

// CompleteTask marks an open task done and emits TASK_COMPLETED. Completing an
// already completed task is an InvalidState error.
func (s *CaseService) CompleteTask(taskID string, actor Actor) (*models.CaseTask, error) {
	return s.store.WithTask(taskID, func(t *models.CaseTask, fx *SideEffects) error {
		if t.Status != models.TaskStatusOpen {
			return ErrInvalidState("task %s is not open", taskID)
		}
		now := time.Now()
		t.Status = models.TaskStatusDone
		t.CompletedBy = &actor.UserID
		t.CompletedAt = &now
		fx.AddTimeline(TaskCompletedEntry(t.CaseID, actor, t))
		return nil
	})
}

// ListTasks returns the case's tasks, oldest first.
func (s *CaseService) ListTasks(caseID string) ([]models.CaseTask, error) {
	if _, err := s.store.GetCase(caseID); err != nil {
		return nil, err
	}
	return s.store.ListTasksByCase(caseID)
}
