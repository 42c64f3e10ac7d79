package services

import (
	"sort"
	"sync"
	"time"

	"subsidy-crm-api/models"
)

// MemoryStore is the in-memory Store used by tests and local development. A
// single mutex serializes every mutation, which trivially satisfies the
// per-case serialization and linearized-counter guarantees.
type MemoryStore struct {
	mu sync.RWMutex

	sequences     map[int]int
	cases         map[string]*models.Case
	casesByLead   map[string]string
	leads         map[string]*models.Lead
	users         map[string]*models.User
	documents     map[string]*models.CaseDocument
	history       []models.CaseAssignmentHistoryEntry
	timeline      []models.CaseTimelineEntry
	timelineSeq   int64
	tasks         map[string]*models.CaseTask
	notifications map[string]*models.Notification
	timelineOrder map[string]int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sequences:     make(map[int]int),
		cases:         make(map[string]*models.Case),
		casesByLead:   make(map[string]string),
		leads:         make(map[string]*models.Lead),
		users:         make(map[string]*models.User),
		documents:     make(map[string]*models.CaseDocument),
		tasks:         make(map[string]*models.CaseTask),
		notifications: make(map[string]*models.Notification),
		timelineOrder: make(map[string]int64),
	}
}

// SeedLead inserts a lead, for tests and local fixtures.
func (s *MemoryStore) SeedLead(l *models.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.leads[l.LeadID] = &cp
}

// SeedUser inserts a user record, for tests and local fixtures.
func (s *MemoryStore) SeedUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.UserID] = &cp
}

func (s *MemoryStore) GetUser(userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound("user %s not found", userID)
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) AllocateCaseNumber(year int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[year]++
	return FormatCaseNumber(year, s.sequences[year]), nil
}

func copyCase(c *models.Case) *models.Case {
	cp := *c
	cp.BenefitTypes = append([]string(nil), c.BenefitTypes...)
	cp.Contacts = append([]models.CaseContact(nil), c.Contacts...)
	return &cp
}

// applySideEffects commits queued append-only records. Caller holds the lock.
func (s *MemoryStore) applySideEffects(fx *SideEffects) {
	if fx == nil {
		return
	}
	for _, e := range fx.History {
		s.history = append(s.history, *e)
	}
	for _, e := range fx.Timeline {
		s.timelineSeq++
		s.timelineOrder[e.EntryID] = s.timelineSeq
		s.timeline = append(s.timeline, *e)
	}
	for _, n := range fx.Notifications {
		cp := *n
		s.notifications[n.NotificationID] = &cp
	}
}

func (s *MemoryStore) CreateCase(c *models.Case, fx *SideEffects) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.casesByLead[c.LeadID]; exists {
		return ErrConflict("lead %s already has a case", c.LeadID)
	}
	for _, existing := range s.cases {
		if existing.CaseNumber == c.CaseNumber {
			return ErrConflict("case number %s already allocated", c.CaseNumber)
		}
	}

	s.cases[c.CaseID] = copyCase(c)
	s.casesByLead[c.LeadID] = c.CaseID
	if lead, ok := s.leads[c.LeadID]; ok {
		id := c.CaseID
		lead.ConvertedToCaseID = &id
		lead.Status = models.LeadStatusConverted
	}
	s.applySideEffects(fx)
	return nil
}

func (s *MemoryStore) GetCase(caseID string) (*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, ErrNotFound("case %s not found", caseID)
	}
	return copyCase(c), nil
}

func (s *MemoryStore) GetCaseByLeadID(leadID string) (*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	caseID, ok := s.casesByLead[leadID]
	if !ok {
		return nil, ErrNotFound("no case for lead %s", leadID)
	}
	return copyCase(s.cases[caseID]), nil
}

func (s *MemoryStore) ListCases() ([]models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Case, 0, len(s.cases))
	for _, c := range s.cases {
		out = append(out, *copyCase(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) WithCase(caseID string, fn func(c *models.Case, fx *SideEffects) error) (*models.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.cases[caseID]
	if !ok {
		return nil, ErrNotFound("case %s not found", caseID)
	}

	working := copyCase(stored)
	fx := &SideEffects{}
	if err := fn(working, fx); err != nil {
		return nil, err
	}

	now := time.Now()
	if !now.After(stored.UpdatedAt) {
		now = stored.UpdatedAt.Add(time.Microsecond)
	}
	working.UpdatedAt = now

	s.cases[caseID] = copyCase(working)
	s.applySideEffects(fx)
	return working, nil
}

func (s *MemoryStore) DeleteCase(caseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cases[caseID]
	if !ok {
		return ErrNotFound("case %s not found", caseID)
	}
	delete(s.cases, caseID)
	delete(s.casesByLead, c.LeadID)
	return nil
}

func (s *MemoryStore) GetLead(leadID string) (*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leads[leadID]
	if !ok {
		return nil, ErrNotFound("lead %s not found", leadID)
	}
	cp := *l
	return &cp, nil
}

func (s *MemoryStore) CreateDocument(d *models.CaseDocument, fx *SideEffects) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[d.CaseID]; !ok {
		return ErrNotFound("case %s not found", d.CaseID)
	}
	cp := *d
	s.documents[d.DocumentID] = &cp
	s.applySideEffects(fx)
	return nil
}

func (s *MemoryStore) GetDocument(documentID string) (*models.CaseDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.documents[documentID]
	if !ok {
		return nil, ErrNotFound("document %s not found", documentID)
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) ListDocumentsByCase(caseID string) ([]models.CaseDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CaseDocument, 0)
	for _, d := range s.documents {
		if d.CaseID == caseID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

func (s *MemoryStore) WithDocument(documentID string, fn func(d *models.CaseDocument, fx *SideEffects) error) (*models.CaseDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.documents[documentID]
	if !ok {
		return nil, ErrNotFound("document %s not found", documentID)
	}

	working := *stored
	fx := &SideEffects{}
	if err := fn(&working, fx); err != nil {
		return nil, err
	}

	s.documents[documentID] = &working
	s.applySideEffects(fx)
	cp := working
	return &cp, nil
}

func (s *MemoryStore) ListAssignmentHistory(caseID string) ([]models.CaseAssignmentHistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CaseAssignmentHistoryEntry, 0)
	for _, e := range s.history {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) AppendTimeline(e *models.CaseTimelineEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timelineSeq++
	s.timelineOrder[e.EntryID] = s.timelineSeq
	s.timeline = append(s.timeline, *e)
	return nil
}

func (s *MemoryStore) ListTimeline(caseID string) ([]models.CaseTimelineEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CaseTimelineEntry, 0)
	for _, e := range s.timeline {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	// Newest first; insertion order breaks timestamp ties.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PerformedAt.Equal(out[j].PerformedAt) {
			return s.timelineOrder[out[i].EntryID] > s.timelineOrder[out[j].EntryID]
		}
		return out[i].PerformedAt.After(out[j].PerformedAt)
	})
	return out, nil
}

func (s *MemoryStore) CreateTask(t *models.CaseTask, fx *SideEffects) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[t.CaseID]; !ok {
		return ErrNotFound("case %s not found", t.CaseID)
	}
	cp := *t
	s.tasks[t.TaskID] = &cp
	s.applySideEffects(fx)
	return nil
}

func (s *MemoryStore) GetTask(taskID string) (*models.CaseTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return nil, ErrNotFound("task %s not found", taskID)
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) ListTasksByCase(caseID string) ([]models.CaseTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CaseTask, 0)
	for _, t := range s.tasks {
		if t.CaseID == caseID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) WithTask(taskID string, fn func(t *models.CaseTask, fx *SideEffects) error) (*models.CaseTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tasks[taskID]
	if !ok {
		return nil, ErrNotFound("task %s not found", taskID)
	}

	working := *stored
	fx := &SideEffects{}
	if err := fn(&working, fx); err != nil {
		return nil, err
	}

	s.tasks[taskID] = &working
	s.applySideEffects(fx)
	cp := working
	return &cp, nil
}

func (s *MemoryStore) ListNotifications(userID string) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) MarkNotificationRead(notificationID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[notificationID]
	if !ok || n.UserID != userID {
		return ErrNotFound("notification %s not found", notificationID)
	}
	n.IsRead = true
	now := time.Now()
	n.UpdatedAt = &now
	return nil
}
