package services

import (
	"strings"
	"time"

	"subsidy-crm-api/models"
)

// ReportService derives read-only statistics from the current case snapshot.
// Every aggregation below is a pure O(n) pass over the filtered set and returns
// zeroed structures for empty input.
type ReportService struct {
	store Store
}

// NewReportService wires reporting over a store.
func NewReportService(store Store) *ReportService {
	return &ReportService{store: store}
}

// CaseFilter narrows a case snapshot. Zero-value fields do not filter.
type CaseFilter struct {
	Statuses       []string
	AssignedUserID string
	Priorities     []string
	SchemeType     string
	Search         string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// Matches reports whether the case passes every set criterion. Search is a
// case-insensitive substring match over case number, contact names and phones,
// company and scheme.
func (f CaseFilter) Matches(c *models.Case) bool {
	if len(f.Statuses) > 0 && !containsString(f.Statuses, c.ProcessStatus) {
		return false
	}
	if len(f.Priorities) > 0 && !containsString(f.Priorities, c.Priority) {
		return false
	}
	if f.AssignedUserID != "" {
		if c.AssignedUserID == nil || *c.AssignedUserID != f.AssignedUserID {
			return false
		}
	}
	if f.SchemeType != "" && c.SchemeType != f.SchemeType {
		return false
	}
	if f.CreatedFrom != nil && c.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && c.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		hit := containsFold(c.CaseNumber, needle) ||
			containsFold(c.CompanyName, needle) ||
			containsFold(c.SchemeType, needle)
		for _, contact := range c.Contacts {
			hit = hit || containsFold(contact.Name, needle) || containsFold(contact.Phone, needle)
		}
		if !hit {
			return false
		}
	}
	return true
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// FilterCases returns the cases passing the filter, preserving order.
func FilterCases(cases []models.Case, f CaseFilter) []models.Case {
	out := make([]models.Case, 0, len(cases))
	for i := range cases {
		if f.Matches(&cases[i]) {
			out = append(out, cases[i])
		}
	}
	return out
}

// CaseStats aggregates counts over a case set.
type CaseStats struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	ByPriority    map[string]int `json:"by_priority"`
	ByScheme      map[string]int `json:"by_scheme"`
	ByBenefitType map[string]int `json:"by_benefit_type"`
}

// ComputeStats counts cases by status, priority, scheme and benefit type.
// Status and priority maps always carry every known key, zeroed when empty.
func ComputeStats(cases []models.Case) CaseStats {
	stats := CaseStats{
		ByStatus:      make(map[string]int, len(models.AllStatuses)),
		ByPriority:    make(map[string]int, len(models.AllPriorities)),
		ByScheme:      make(map[string]int),
		ByBenefitType: make(map[string]int),
	}
	for _, s := range models.AllStatuses {
		stats.ByStatus[s] = 0
	}
	for _, p := range models.AllPriorities {
		stats.ByPriority[p] = 0
	}
	for i := range cases {
		c := &cases[i]
		stats.Total++
		stats.ByStatus[c.ProcessStatus]++
		stats.ByPriority[c.Priority]++
		if c.SchemeType != "" {
			stats.ByScheme[c.SchemeType]++
		}
		for _, b := range c.BenefitTypes {
			stats.ByBenefitType[b]++
		}
	}
	return stats
}

// WorkloadStats describes one user's assigned cases. Completed means status
// in {CLOSED, APPROVED, REJECTED}; CompletionRate is a percentage.
type WorkloadStats struct {
	UserID         string         `json:"user_id"`
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ByPriority     map[string]int `json:"by_priority"`
	Completed      int            `json:"completed"`
	CompletionRate float64        `json:"completion_rate"`
}

// ComputeWorkload derives one user's workload from the snapshot.
func ComputeWorkload(cases []models.Case, userID string) WorkloadStats {
	w := WorkloadStats{
		UserID:     userID,
		ByStatus:   make(map[string]int, len(models.AllStatuses)),
		ByPriority: make(map[string]int, len(models.AllPriorities)),
	}
	for _, s := range models.AllStatuses {
		w.ByStatus[s] = 0
	}
	for _, p := range models.AllPriorities {
		w.ByPriority[p] = 0
	}
	for i := range cases {
		c := &cases[i]
		if c.AssignedUserID == nil || *c.AssignedUserID != userID {
			continue
		}
		w.Total++
		w.ByStatus[c.ProcessStatus]++
		w.ByPriority[c.Priority]++
		if c.IsCompleted() {
			w.Completed++
		}
	}
	if w.Total > 0 {
		w.CompletionRate = float64(w.Completed) / float64(w.Total) * 100
	}
	return w
}

// ResolutionStats covers closed cases only.
type ResolutionStats struct {
	ClosedCases int     `json:"closed_cases"`
	AverageDays float64 `json:"average_days"`
}

// ComputeResolution averages createdAt-to-closedAt in days over closed cases.
func ComputeResolution(cases []models.Case) ResolutionStats {
	var stats ResolutionStats
	var totalDays float64
	for i := range cases {
		c := &cases[i]
		if c.ClosedAt == nil {
			continue
		}
		stats.ClosedCases++
		totalDays += c.ClosedAt.Sub(c.CreatedAt).Hours() / 24
	}
	if stats.ClosedCases > 0 {
		stats.AverageDays = totalDays / float64(stats.ClosedCases)
	}
	return stats
}

// WeeklyTrendPoint is one week's creation count. Week starts Monday.
type WeeklyTrendPoint struct {
	WeekStart string `json:"week_start"`
	Created   int    `json:"created"`
}

// ComputeWeeklyTrend buckets case creation into the trailing weeks windows,
// oldest first, ending at the week containing now.
func ComputeWeeklyTrend(cases []models.Case, weeks int, now time.Time) []WeeklyTrendPoint {
	if weeks <= 0 {
		return []WeeklyTrendPoint{}
	}
	currentStart := startOfWeek(now)
	points := make([]WeeklyTrendPoint, weeks)
	index := make(map[string]int, weeks)
	for i := 0; i < weeks; i++ {
		start := currentStart.AddDate(0, 0, -7*(weeks-1-i))
		key := start.Format("2006-01-02")
		points[i] = WeeklyTrendPoint{WeekStart: key}
		index[key] = i
	}
	for i := range cases {
		key := startOfWeek(cases[i].CreatedAt).Format("2006-01-02")
		if at, ok := index[key]; ok {
			points[at].Created++
		}
	}
	return points
}

func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// Snapshot-backed wrappers used by the controllers.

// ListCases returns the filtered snapshot.
func (s *ReportService) ListCases(f CaseFilter) ([]models.Case, error) {
	cases, err := s.store.ListCases()
	if err != nil {
		return nil, err
	}
	return FilterCases(cases, f), nil
}

// Stats aggregates the filtered snapshot.
func (s *ReportService) Stats(f CaseFilter) (CaseStats, error) {
	cases, err := s.store.ListCases()
	if err != nil {
		return CaseStats{}, err
	}
	return ComputeStats(FilterCases(cases, f)), nil
}

// Workload derives one user's workload from the full snapshot.
func (s *ReportService) Workload(userID string) (WorkloadStats, error) {
	cases, err := s.store.ListCases()
	if err != nil {
		return WorkloadStats{}, err
	}
	return ComputeWorkload(cases, userID), nil
}

// Resolution derives closed-case resolution metrics from the full snapshot.
func (s *ReportService) Resolution() (ResolutionStats, error) {
	cases, err := s.store.ListCases()
	if err != nil {
		return ResolutionStats{}, err
	}
	return ComputeResolution(cases), nil
}

// Trend derives the week-over-week creation trend from the full snapshot.
func (s *ReportService) Trend(weeks int) ([]WeeklyTrendPoint, error) {
	cases, err := s.store.ListCases()
	if err != nil {
		return nil, err
	}
	return ComputeWeeklyTrend(cases, weeks, time.Now()), nil
}
