package models

import (
	"time"
)

// Process status values mirror the government application lifecycle.
const (
	StatusDocumentsPending  = "DOCUMENTS_PENDING"
	StatusDocumentsReceived = "DOCUMENTS_RECEIVED"
	StatusVerification      = "VERIFICATION"
	StatusSubmitted         = "SUBMITTED"
	StatusQueryRaised       = "QUERY_RAISED"
	StatusApproved          = "APPROVED"
	StatusRejected          = "REJECTED"
	StatusClosed            = "CLOSED"
)

// Priority values
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// AllStatuses lists every process status in lifecycle order.
var AllStatuses = []string{
	StatusDocumentsPending,
	StatusDocumentsReceived,
	StatusVerification,
	StatusSubmitted,
	StatusQueryRaised,
	StatusApproved,
	StatusRejected,
	StatusClosed,
}

// AllPriorities lists every priority from lowest to highest.
var AllPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// StatusTransitions is the allowed-target table for the status state machine.
// Every status is currently reachable from every other status: managers routinely
// override the workflow (move a SUBMITTED case back to VERIFICATION, reopen a
// CLOSED one). Tighten enforcement by editing this table, not by adding branches.
var StatusTransitions = buildPermissiveTransitions()

func buildPermissiveTransitions() map[string][]string {
	table := make(map[string][]string, len(AllStatuses))
	for _, from := range AllStatuses {
		targets := make([]string, 0, len(AllStatuses)-1)
		for _, to := range AllStatuses {
			if to != from {
				targets = append(targets, to)
			}
		}
		table[from] = targets
	}
	return table
}

// IsValidStatus reports whether s is a known process status.
func IsValidStatus(s string) bool {
	for _, status := range AllStatuses {
		if status == s {
			return true
		}
	}
	return false
}

// IsValidPriority reports whether p is a known priority.
func IsValidPriority(p string) bool {
	for _, priority := range AllPriorities {
		if priority == p {
			return true
		}
	}
	return false
}

// IsTransitionAllowed consults the transition table.
func IsTransitionAllowed(from, to string) bool {
	for _, target := range StatusTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// CaseContact is a denormalized contact snapshot copied from the lead at conversion.
type CaseContact struct {
	Name   string `json:"name"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
	IsMain bool   `json:"is_main,omitempty"`
}

// Case represents one subsidy application in progress. Lead fields are copied once
// at creation and never re-synced from the lead afterwards.
type Case struct {
	CaseID         string        `gorm:"primaryKey;column:case_id" json:"case_id"`
	LeadID         string        `gorm:"column:lead_id;uniqueIndex" json:"lead_id"`
	CaseNumber     string        `gorm:"column:case_number;uniqueIndex" json:"case_number"`
	SchemeType     string        `gorm:"column:scheme_type" json:"scheme_type"`
	CaseType       string        `gorm:"column:case_type" json:"case_type"`
	BenefitTypes   []string      `gorm:"column:benefit_types;serializer:json" json:"benefit_types"`
	CompanyName    string        `gorm:"column:company_name" json:"company_name"`
	CompanyType    string        `gorm:"column:company_type" json:"company_type"`
	Contacts       []CaseContact `gorm:"column:contacts;serializer:json" json:"contacts"`
	AssignedUserID *string       `gorm:"column:assigned_user_id" json:"assigned_user_id"`
	AssignedRole   *string       `gorm:"column:assigned_role" json:"assigned_role"`
	ProcessStatus  string        `gorm:"column:process_status" json:"process_status"`
	Priority       string        `gorm:"column:priority" json:"priority"`
	CreatedAt      time.Time     `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"column:updated_at" json:"updated_at"`
	ClosedAt       *time.Time    `gorm:"column:closed_at" json:"closed_at,omitempty"`
	ClosureReason  *string       `gorm:"column:closure_reason" json:"closure_reason,omitempty"`
}

// TableName overrides
func (Case) TableName() string {
	return "cases"
}

// IsClosed reports whether the case reached the terminal status.
func (c *Case) IsClosed() bool {
	return c.ProcessStatus == StatusClosed
}

// IsCompleted reports whether the case counts as completed for workload stats.
func (c *Case) IsCompleted() bool {
	switch c.ProcessStatus {
	case StatusClosed, StatusApproved, StatusRejected:
		return true
	}
	return false
}
