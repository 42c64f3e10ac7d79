package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"subsidy-crm-api/models"
)

// DocumentService owns the per-case document sub-workflow:
// RECEIVED -> VERIFIED or RECEIVED -> REJECTED. File bytes never enter here;
// the storage collaborator persists them first and only validated metadata is
// recorded, so a failed upload leaves no orphan RECEIVED record.
type DocumentService struct {
	store Store
}

// NewDocumentService wires the document workflow over a store.
func NewDocumentService(store Store) *DocumentService {
	return &DocumentService{store: store}
}

// AddDocumentInput carries already-validated file metadata.
type AddDocumentInput struct {
	DocumentType string  `json:"document_type"`
	FileName     string  `json:"file_name"`
	FilePath     string  `json:"file_path"`
	FileSize     *int64  `json:"file_size"`
	MimeType     *string `json:"mime_type"`
}

// AddDocument records an uploaded document. Upload implies receipt, so the
// initial status is RECEIVED, not PENDING. Emits DOCUMENT_UPLOADED.
func (s *DocumentService) AddDocument(caseID string, in AddDocumentInput, actor Actor) (*models.CaseDocument, error) {
	if !models.IsKnownDocumentType(in.DocumentType) {
		return nil, ErrValidation("unknown document type %q", in.DocumentType)
	}
	if strings.TrimSpace(in.FileName) == "" {
		return nil, ErrValidation("file name is required")
	}

	d := &models.CaseDocument{
		DocumentID:   uuid.New().String(),
		CaseID:       caseID,
		DocumentType: in.DocumentType,
		FileName:     in.FileName,
		FilePath:     in.FilePath,
		FileSize:     in.FileSize,
		MimeType:     in.MimeType,
		Status:       models.DocStatusReceived,
		UploadedBy:   actor.UserID,
		UploadedAt:   time.Now(),
	}

	fx := &SideEffects{}
	fx.AddTimeline(DocumentUploadedEntry(caseID, actor, d))

	if err := s.store.CreateDocument(d, fx); err != nil {
		return nil, err
	}
	return d, nil
}

// VerifyDocument marks a RECEIVED document VERIFIED, stamping the verifier and
// clearing any prior rejection reason. Any other current status is an
// InvalidState error, which makes a second verify call fail.
func (s *DocumentService) VerifyDocument(documentID string, actor Actor) (*models.CaseDocument, error) {
	return s.store.WithDocument(documentID, func(d *models.CaseDocument, fx *SideEffects) error {
		if d.Status != models.DocStatusReceived {
			return ErrInvalidState("document %s is %s, expected %s", documentID, d.Status, models.DocStatusReceived)
		}
		now := time.Now()
		d.Status = models.DocStatusVerified
		d.VerifiedBy = &actor.UserID
		d.VerifiedAt = &now
		d.RejectionReason = nil
		fx.AddTimeline(DocumentVerifiedEntry(d.CaseID, actor, d))
		return nil
	})
}

// RejectDocument marks a RECEIVED document REJECTED with a mandatory reason.
func (s *DocumentService) RejectDocument(documentID, reason string, actor Actor) (*models.CaseDocument, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrValidation("rejection reason is required")
	}
	return s.store.WithDocument(documentID, func(d *models.CaseDocument, fx *SideEffects) error {
		if d.Status != models.DocStatusReceived {
			return ErrInvalidState("document %s is %s, expected %s", documentID, d.Status, models.DocStatusReceived)
		}
		now := time.Now()
		d.Status = models.DocStatusRejected
		d.VerifiedBy = &actor.UserID
		d.VerifiedAt = &now
		d.RejectionReason = &reason
		fx.AddTimeline(DocumentRejectedEntry(d.CaseID, actor, d, reason))
		return nil
	})
}

// ListDocuments returns the case's documents, oldest upload first.
func (s *DocumentService) ListDocuments(caseID string) ([]models.CaseDocument, error) {
	if _, err := s.store.GetCase(caseID); err != nil {
		return nil, err
	}
	return s.store.ListDocumentsByCase(caseID)
}

// Completeness reports, against the fixed required-document catalog, which
// types have been uploaded and which have a verified copy. Derived on demand,
// never stored.
func (s *DocumentService) Completeness(caseID string) ([]models.DocumentCompleteness, error) {
	docs, err := s.ListDocuments(caseID)
	if err != nil {
		return nil, err
	}

	uploaded := make(map[string]bool)
	verified := make(map[string]bool)
	for _, d := range docs {
		uploaded[d.DocumentType] = true
		if d.Status == models.DocStatusVerified {
			verified[d.DocumentType] = true
		}
	}

	report := make([]models.DocumentCompleteness, 0, len(models.RequiredDocumentTypes))
	for _, t := range models.RequiredDocumentTypes {
		report = append(report, models.DocumentCompleteness{
			DocumentType: t,
			Uploaded:     uploaded[t],
			Verified:     verified[t],
		})
	}
	return report, nil
}
