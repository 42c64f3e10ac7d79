package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"subsidy-crm-api/models"
)

// EmailSender delivers a single message. config.Mailer implements it over SMTP.
type EmailSender interface {
	Send(to, subject, body string) error
}

// NotificationService resolves notification recipients and sends best-effort
// email. In-app notification rows are queued through SideEffects by the
// services that own the mutation, so they commit atomically with it; email is
// sent after commit and failures are logged, never returned.
type NotificationService struct {
	store  Store
	sender EmailSender
}

// NewNotificationService wires notifications. sender may be nil when SMTP is
// not configured.
func NewNotificationService(store Store, sender EmailSender) *NotificationService {
	return &NotificationService{store: store, sender: sender}
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(userID string) ([]models.Notification, error) {
	return s.store.ListNotifications(userID)
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(notificationID, userID string) error {
	return s.store.MarkNotificationRead(notificationID, userID)
}

// emailOwner emails the case's assigned user. Nil-safe on the service, the
// sender and the assignment; failures are logged only.
func (s *NotificationService) emailOwner(c *models.Case, subject, body string) {
	if s == nil || s.sender == nil || c == nil || c.AssignedUserID == nil {
		return
	}
	s.emailUser(*c.AssignedUserID, subject, body)
}

// emailUser emails one user by id, best effort.
func (s *NotificationService) emailUser(userID, subject, body string) {
	if s == nil || s.sender == nil {
		return
	}
	user, err := s.store.GetUser(userID)
	if err != nil {
		log.Printf("notification: skip email, %v", err)
		return
	}
	if err := s.sender.Send(user.Email, subject, body); err != nil {
		log.Printf("notification: email to %s failed: %v", user.Email, err)
	}
}

func newNotification(userID, title, message, ntype string, caseID string) *models.Notification {
	return &models.Notification{
		NotificationID: uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           ntype,
		RelatedCaseID:  &caseID,
		CreatedAt:      time.Now(),
	}
}

// assignmentNotification targets the new assignee of a case.
func assignmentNotification(c *models.Case, newUserID string, actor Actor) *models.Notification {
	return newNotification(newUserID,
		"Case assigned to you",
		fmt.Sprintf("%s assigned case %s (%s) to you", actor.Name, c.CaseNumber, c.CompanyName),
		models.NotificationTypeInfo, c.CaseID)
}

// statusNotification targets the case owner on a status change.
func statusNotification(c *models.Case, oldStatus, newStatus string) *models.Notification {
	return newNotification(*c.AssignedUserID,
		"Case status updated",
		fmt.Sprintf("Case %s moved from %s to %s", c.CaseNumber, oldStatus, newStatus),
		models.NotificationTypeInfo, c.CaseID)
}
