package models

import (
	"time"
)

// Document status values
const (
	DocStatusPending  = "PENDING"
	DocStatusReceived = "RECEIVED"
	DocStatusVerified = "VERIFIED"
	DocStatusRejected = "REJECTED"
)

// RequiredDocumentTypes is the fixed catalog of documents every subsidy case must
// collect before submission. Completeness reporting is derived against this list.
var RequiredDocumentTypes = []string{
	"GST Certificate",
	"Company PAN",
	"Udyam Registration",
	"Bank Statement",
	"Project Report",
	"Electricity Bill",
}

// IsKnownDocumentType reports whether the type belongs to the catalog.
func IsKnownDocumentType(documentType string) bool {
	for _, t := range RequiredDocumentTypes {
		if t == documentType {
			return true
		}
	}
	return false
}

// CaseDocument is one uploaded file tied to a case. Only file metadata lives here;
// byte persistence happens in the storage collaborator before this record is created.
type CaseDocument struct {
	DocumentID      string     `gorm:"primaryKey;column:document_id" json:"document_id"`
	CaseID          string     `gorm:"column:case_id;index" json:"case_id"`
	DocumentType    string     `gorm:"column:document_type" json:"document_type"`
	FileName        string     `gorm:"column:file_name" json:"file_name"`
	FilePath        string     `gorm:"column:file_path" json:"file_path"`
	FileSize        *int64     `gorm:"column:file_size" json:"file_size,omitempty"`
	MimeType        *string    `gorm:"column:mime_type" json:"mime_type,omitempty"`
	Status          string     `gorm:"column:status" json:"status"`
	UploadedBy      string     `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt      time.Time  `gorm:"column:uploaded_at" json:"uploaded_at"`
	VerifiedBy      *string    `gorm:"column:verified_by" json:"verified_by,omitempty"`
	VerifiedAt      *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
	RejectionReason *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
}

// TableName overrides
func (CaseDocument) TableName() string {
	return "case_documents"
}

// DocumentCompleteness reports, for one required type, whether any upload exists
// and whether a verified copy exists. Derived view, never stored.
type DocumentCompleteness struct {
	DocumentType string `json:"document_type"`
	Uploaded     bool   `json:"uploaded"`
	Verified     bool   `json:"verified"`
}
