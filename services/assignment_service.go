package services

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"subsidy-crm-api/models"
)

// AssignmentService changes case ownership. Every act writes an immutable
// history entry carrying the full before/after snapshot, then the case fields,
// then the timeline entry — all in one unit, serialized per case so the
// previous-owner snapshot always reflects the true prior state.
type AssignmentService struct {
	store    Store
	notifier *NotificationService
}

// NewAssignmentService wires assignment over a store. notifier may be nil.
func NewAssignmentService(store Store, notifier *NotificationService) *AssignmentService {
	return &AssignmentService{store: store, notifier: notifier}
}

// AssignCase sets the case owner. The role check runs before any mutation; a
// failed check writes neither history nor timeline.
func (s *AssignmentService) AssignCase(caseID, userID string, role *string, actor Actor) (*models.Case, error) {
	if !models.CanManageCases(actor.Role) {
		return nil, ErrUnauthorized("role %s may not assign cases", actor.Role)
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrValidation("user id is required")
	}

	updated, err := s.store.WithCase(caseID, func(c *models.Case, fx *SideEffects) error {
		s.applyAssignment(c, userID, role, actor, fx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.emailUser(userID, "Case assigned to you",
		"Case "+updated.CaseNumber+" ("+updated.CompanyName+") has been assigned to you.")
	return updated, nil
}

// applyAssignment captures the previous owner, appends history, mutates the
// case and queues the ASSIGNED/REASSIGNED timeline entry.
func (s *AssignmentService) applyAssignment(c *models.Case, userID string, role *string, actor Actor, fx *SideEffects) {
	previousUserID := c.AssignedUserID
	previousRole := c.AssignedRole

	fx.AddHistory(&models.CaseAssignmentHistoryEntry{
		HistoryID:      uuid.New().String(),
		CaseID:         c.CaseID,
		PreviousRole:   previousRole,
		PreviousUserID: previousUserID,
		NewRole:        role,
		NewUserID:      userID,
		AssignedBy:     actor.UserID,
		AssignedByName: actor.Name,
		AssignedAt:     time.Now(),
	})

	assignee := userID
	c.AssignedUserID = &assignee
	c.AssignedRole = role

	fx.AddTimeline(AssignmentEntry(c.CaseID, actor, previousUserID, userID))
	if userID != actor.UserID {
		fx.AddNotification(assignmentNotification(c, userID, actor))
	}
}

// BulkAssignCases applies AssignCase semantics to every case in the batch,
// best-effort: unknown case ids are skipped and the count of cases actually
// modified is returned. No lock is held across the batch; each case commits
// atomically on its own.
func (s *AssignmentService) BulkAssignCases(caseIDs []string, userID string, role *string, actor Actor) (int, error) {
	if !models.CanManageCases(actor.Role) {
		return 0, ErrUnauthorized("role %s may not assign cases", actor.Role)
	}
	if strings.TrimSpace(userID) == "" {
		return 0, ErrValidation("user id is required")
	}

	count := 0
	for _, caseID := range caseIDs {
		updated, err := s.store.WithCase(caseID, func(c *models.Case, fx *SideEffects) error {
			s.applyAssignment(c, userID, role, actor, fx)
			return nil
		})
		if err != nil {
			if !IsKind(err, KindNotFound) {
				log.Printf("bulk assign: case %s: %v", caseID, err)
			}
			continue
		}
		count++
		s.notifier.emailUser(userID, "Case assigned to you",
			"Case "+updated.CaseNumber+" ("+updated.CompanyName+") has been assigned to you.")
	}
	return count, nil
}

// GetAssignmentHistory returns the append-only history for a case, oldest first.
func (s *AssignmentService) GetAssignmentHistory(caseID string) ([]models.CaseAssignmentHistoryEntry, error) {
	if _, err := s.store.GetCase(caseID); err != nil {
		return nil, err
	}
	return s.store.ListAssignmentHistory(caseID)
}
