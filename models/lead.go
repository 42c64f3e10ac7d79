package models

import "time"

// Lead status values
const (
	LeadStatusNew       = "NEW"
	LeadStatusContacted = "CONTACTED"
	LeadStatusQualified = "QUALIFIED"
	LeadStatusConverted = "CONVERTED"
	LeadStatusLost      = "LOST"
)

// Lead is the originating sales record. The case engine only reads leads and writes
// back the conversion marker; lead CRUD lives in the lead management collaborator.
// Conversion is one-way: deleting a case never clears ConvertedToCaseID.
type Lead struct {
	LeadID            string     `gorm:"primaryKey;column:lead_id" json:"lead_id"`
	ClientName        string     `gorm:"column:client_name" json:"client_name"`
	Email             *string    `gorm:"column:email" json:"email,omitempty"`
	MobileNumber      *string    `gorm:"column:mobile_number" json:"mobile_number,omitempty"`
	Company           *string    `gorm:"column:company" json:"company,omitempty"`
	CompanyType       *string    `gorm:"column:company_type" json:"company_type,omitempty"`
	Source            *string    `gorm:"column:source" json:"source,omitempty"`
	Status            string     `gorm:"column:status" json:"status"`
	Notes             *string    `gorm:"column:notes" json:"notes,omitempty"`
	ConvertedToCaseID *string    `gorm:"column:converted_to_case_id" json:"converted_to_case_id,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// TableName overrides
func (Lead) TableName() string {
	return "leads"
}

// IsConverted reports whether the lead already produced a case.
func (l *Lead) IsConverted() bool {
	return l.ConvertedToCaseID != nil && *l.ConvertedToCaseID != ""
}
