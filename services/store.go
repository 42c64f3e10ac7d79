package services

import (
	"fmt"

	"subsidy-crm-api/models"
)

// Actor is the acting user, supplied by the authorization collaborator (the JWT
// middleware in this deployment).
type Actor struct {
	UserID string
	Name   string
	Role   string
}

// SideEffects collects the append-only records a mutation produces. The store
// commits them together with the primary write: either everything lands or
// nothing does, so a failed operation never leaves a history entry without its
// field update or a timeline entry for a change that didn't commit.
type SideEffects struct {
	History       []*models.CaseAssignmentHistoryEntry
	Timeline      []*models.CaseTimelineEntry
	Notifications []*models.Notification
}

// AddHistory queues an assignment history entry.
func (s *SideEffects) AddHistory(e *models.CaseAssignmentHistoryEntry) {
	s.History = append(s.History, e)
}

// AddTimeline queues a timeline entry.
func (s *SideEffects) AddTimeline(e *models.CaseTimelineEntry) {
	s.Timeline = append(s.Timeline, e)
}

// AddNotification queues an in-app notification.
func (s *SideEffects) AddNotification(n *models.Notification) {
	s.Notifications = append(s.Notifications, n)
}

// Store is the persistence boundary the engine is built against. Two
// implementations exist: a gorm/MySQL store for the running service and an
// in-memory store for tests. Both linearize case-number allocation and
// serialize mutations on the same case.
type Store interface {
	// AllocateCaseNumber hands out the next CASE-{year}-{NNNN} number. Safe
	// under concurrent allocation; numbers are never reused.
	AllocateCaseNumber(year int) (string, error)

	// CreateCase inserts the case, marks its lead converted and commits the
	// side effects in one unit. Conflict when the lead already has a case.
	CreateCase(c *models.Case, fx *SideEffects) error
	GetCase(caseID string) (*models.Case, error)
	GetCaseByLeadID(leadID string) (*models.Case, error)
	ListCases() ([]models.Case, error)
	// WithCase loads the case, runs fn under per-case serialization and, when
	// fn succeeds, persists the mutated case (bumping UpdatedAt) together with
	// the side effects fn queued. fn errors abort with nothing written.
	WithCase(caseID string, fn func(c *models.Case, fx *SideEffects) error) (*models.Case, error)
	// DeleteCase removes the case. The lead's conversion marker and the case's
	// documents survive: conversion is irreversible and document records keep
	// their own lifecycle.
	DeleteCase(caseID string) error

	GetLead(leadID string) (*models.Lead, error)
	GetUser(userID string) (*models.User, error)

	CreateDocument(d *models.CaseDocument, fx *SideEffects) error
	GetDocument(documentID string) (*models.CaseDocument, error)
	ListDocumentsByCase(caseID string) ([]models.CaseDocument, error)
	// WithDocument mirrors WithCase for document records.
	WithDocument(documentID string, fn func(d *models.CaseDocument, fx *SideEffects) error) (*models.CaseDocument, error)

	ListAssignmentHistory(caseID string) ([]models.CaseAssignmentHistoryEntry, error)

	// AppendTimeline writes a standalone timeline entry. Append-only: the store
	// exposes no update or delete for timeline rows.
	AppendTimeline(e *models.CaseTimelineEntry) error
	// ListTimeline returns entries for the case ordered newest first.
	ListTimeline(caseID string) ([]models.CaseTimelineEntry, error)

	CreateTask(t *models.CaseTask, fx *SideEffects) error
	GetTask(taskID string) (*models.CaseTask, error)
	ListTasksByCase(caseID string) ([]models.CaseTask, error)
	WithTask(taskID string, fn func(t *models.CaseTask, fx *SideEffects) error) (*models.CaseTask, error)

	ListNotifications(userID string) ([]models.Notification, error)
	MarkNotificationRead(notificationID, userID string) error
}

// FormatCaseNumber renders the canonical human-readable case number.
func FormatCaseNumber(year, sequence int) string {
	return fmt.Sprintf("CASE-%d-%04d", year, sequence)
}
