package services

import (
	"testing"

	"subsidy-crm-api/models"
)

var (
	adminActor      = Actor{UserID: "user-1", Name: "Asha Rao", Role: models.RoleAdmin}
	managerActor    = Actor{UserID: "user-2", Name: "Vikram Shah", Role: models.RoleManager}
	consultantActor = Actor{UserID: "user-9", Name: "Meera Nair", Role: models.RoleConsultant}
)

func strPtr(s string) *string { return &s }

func newTestStore() *MemoryStore {
	store := NewMemoryStore()
	store.SeedUser(&models.User{UserID: "user-1", FullName: "Asha Rao", Email: "asha@example.com", Role: models.RoleAdmin, IsActive: true})
	store.SeedUser(&models.User{UserID: "user-2", FullName: "Vikram Shah", Email: "vikram@example.com", Role: models.RoleManager, IsActive: true})
	store.SeedUser(&models.User{UserID: "user-42", FullName: "Ramesh Iyer", Email: "ramesh@example.com", Role: models.RoleConsultant, IsActive: true})
	store.SeedUser(&models.User{UserID: "user-7", FullName: "Priya Menon", Email: "priya@example.com", Role: models.RoleConsultant, IsActive: true})
	return store
}

func seedLead(store *MemoryStore, leadID string) {
	store.SeedLead(&models.Lead{
		LeadID:       leadID,
		ClientName:   "Suresh Patel",
		Email:        strPtr("suresh@greenvolt.in"),
		MobileNumber: strPtr("+91-98765-43210"),
		Company:      strPtr("GreenVolt Energy Pvt Ltd"),
		CompanyType:  strPtr("Private Limited"),
		Status:       models.LeadStatusQualified,
	})
}

func mustCreateCase(t *testing.T, svc *CaseService, store *MemoryStore, leadID string) *models.Case {
	t.Helper()
	seedLead(store, leadID)
	c, err := svc.CreateCase(CreateCaseInput{
		LeadID:       leadID,
		SchemeType:   "Solar Rooftop Subsidy",
		CaseType:     "Capital Subsidy",
		BenefitTypes: []string{"Capital", "Interest"},
	}, adminActor)
	if err != nil {
		t.Fatalf("create case for lead %s: %v", leadID, err)
	}
	return c
}

func timelineByType(t *testing.T, store *MemoryStore, caseID, actionType string) []models.CaseTimelineEntry {
	t.Helper()
	entries, err := store.ListTimeline(caseID)
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	var out []models.CaseTimelineEntry
	for _, e := range entries {
		if e.ActionType == actionType {
			out = append(out, e)
		}
	}
	return out
}
