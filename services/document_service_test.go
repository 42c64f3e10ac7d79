package services

import (
	"testing"

	"subsidy-crm-api/models"
)

func newDocumentFixture(t *testing.T) (*MemoryStore, *DocumentService, *models.Case) {
	t.Helper()
	store := newTestStore()
	cases := NewCaseService(store, nil)
	c := mustCreateCase(t, cases, store, "L1")
	return store, NewDocumentService(store), c
}

func uploadDoc(t *testing.T, svc *DocumentService, caseID, docType string) *models.CaseDocument {
	t.Helper()
	d, err := svc.AddDocument(caseID, AddDocumentInput{
		DocumentType: docType,
		FileName:     "scan.pdf",
		FilePath:     "/uploads/scan.pdf",
	}, consultantActor)
	if err != nil {
		t.Fatalf("add document %s: %v", docType, err)
	}
	return d
}

func TestAddDocument_StartsReceived(t *testing.T) {
	store, docs, c := newDocumentFixture(t)

	d := uploadDoc(t, docs, c.CaseID, "GST Certificate")
	if d.Status != models.DocStatusReceived {
		t.Errorf("status = %s, want %s", d.Status, models.DocStatusReceived)
	}
	if d.UploadedBy != consultantActor.UserID {
		t.Errorf("uploadedBy = %s", d.UploadedBy)
	}

	entries := timelineByType(t, store, c.CaseID, models.ActionDocumentUploaded)
	if len(entries) != 1 {
		t.Fatalf("DOCUMENT_UPLOADED entries = %d, want 1", len(entries))
	}
	if entries[0].Metadata.DocumentType != "GST Certificate" {
		t.Errorf("entry metadata = %+v", entries[0].Metadata)
	}
}

func TestAddDocument_Validation(t *testing.T) {
	_, docs, c := newDocumentFixture(t)

	if _, err := docs.AddDocument(c.CaseID, AddDocumentInput{DocumentType: "Horoscope", FileName: "x.pdf"}, consultantActor); !IsKind(err, KindValidation) {
		t.Errorf("unknown type err = %v, want Validation", err)
	}
	if _, err := docs.AddDocument(c.CaseID, AddDocumentInput{DocumentType: "GST Certificate", FileName: "  "}, consultantActor); !IsKind(err, KindValidation) {
		t.Errorf("blank file name err = %v, want Validation", err)
	}
	if _, err := docs.AddDocument("missing", AddDocumentInput{DocumentType: "GST Certificate", FileName: "x.pdf"}, consultantActor); !IsKind(err, KindNotFound) {
		t.Errorf("missing case err = %v, want NotFound", err)
	}
}

func TestVerifyDocument(t *testing.T) {
	store, docs, c := newDocumentFixture(t)
	d := uploadDoc(t, docs, c.CaseID, "Company PAN")

	verified, err := docs.VerifyDocument(d.DocumentID, managerActor)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.Status != models.DocStatusVerified {
		t.Errorf("status = %s", verified.Status)
	}
	if verified.VerifiedBy == nil || *verified.VerifiedBy != managerActor.UserID {
		t.Errorf("verifiedBy = %v", verified.VerifiedBy)
	}
	if verified.VerifiedAt == nil {
		t.Error("verifiedAt not stamped")
	}
	if len(timelineByType(t, store, c.CaseID, models.ActionDocumentVerified)) != 1 {
		t.Error("DOCUMENT_VERIFIED entry missing")
	}

	// A second verify finds the document no longer RECEIVED.
	if _, err := docs.VerifyDocument(d.DocumentID, managerActor); !IsKind(err, KindInvalidState) {
		t.Errorf("double verify err = %v, want InvalidState", err)
	}
}

func TestRejectDocument(t *testing.T) {
	store, docs, c := newDocumentFixture(t)
	d := uploadDoc(t, docs, c.CaseID, "GST Certificate")

	rejected, err := docs.RejectDocument(d.DocumentID, "illegible scan", managerActor)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.DocStatusRejected {
		t.Errorf("status = %s", rejected.Status)
	}
	if rejected.RejectionReason == nil || *rejected.RejectionReason != "illegible scan" {
		t.Errorf("rejectionReason = %v", rejected.RejectionReason)
	}

	entries := timelineByType(t, store, c.CaseID, models.ActionDocumentRejected)
	if len(entries) != 1 {
		t.Fatalf("DOCUMENT_REJECTED entries = %d, want 1", len(entries))
	}
	if entries[0].Metadata.Reason != "illegible scan" {
		t.Errorf("entry reason = %q", entries[0].Metadata.Reason)
	}

	// Rejection is terminal for this record; a later verify must fail.
	if _, err := docs.VerifyDocument(d.DocumentID, managerActor); !IsKind(err, KindInvalidState) {
		t.Errorf("verify after reject err = %v, want InvalidState", err)
	}
}

func TestRejectDocument_RequiresReason(t *testing.T) {
	_, docs, c := newDocumentFixture(t)
	d := uploadDoc(t, docs, c.CaseID, "GST Certificate")

	if _, err := docs.RejectDocument(d.DocumentID, "  ", managerActor); !IsKind(err, KindValidation) {
		t.Errorf("err = %v, want Validation", err)
	}
	got, _ := docs.store.GetDocument(d.DocumentID)
	if got.Status != models.DocStatusReceived {
		t.Errorf("status changed to %s on failed reject", got.Status)
	}
}

func TestReuploadAfterRejection(t *testing.T) {
	_, docs, c := newDocumentFixture(t)

	first := uploadDoc(t, docs, c.CaseID, "Bank Statement")
	if _, err := docs.RejectDocument(first.DocumentID, "wrong account", managerActor); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// A fresh upload of the same type is a new record; the rejected one stays.
	second := uploadDoc(t, docs, c.CaseID, "Bank Statement")
	if second.DocumentID == first.DocumentID {
		t.Fatal("reupload reused document id")
	}

	list, err := docs.ListDocuments(c.CaseID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("documents = %d, want 2", len(list))
	}
	if list[0].DocumentID != first.DocumentID {
		t.Error("listing not oldest first")
	}
}

func TestCompleteness(t *testing.T) {
	_, docs, c := newDocumentFixture(t)

	gst := uploadDoc(t, docs, c.CaseID, "GST Certificate")
	if _, err := docs.VerifyDocument(gst.DocumentID, managerActor); err != nil {
		t.Fatalf("verify: %v", err)
	}
	uploadDoc(t, docs, c.CaseID, "Company PAN")

	report, err := docs.Completeness(c.CaseID)
	if err != nil {
		t.Fatalf("completeness: %v", err)
	}
	if len(report) != len(models.RequiredDocumentTypes) {
		t.Fatalf("report rows = %d, want %d", len(report), len(models.RequiredDocumentTypes))
	}

	byType := make(map[string]models.DocumentCompleteness)
	for _, row := range report {
		byType[row.DocumentType] = row
	}
	if row := byType["GST Certificate"]; !row.Uploaded || !row.Verified {
		t.Errorf("GST Certificate = %+v", row)
	}
	if row := byType["Company PAN"]; !row.Uploaded || row.Verified {
		t.Errorf("Company PAN = %+v", row)
	}
	if row := byType["Udyam Registration"]; row.Uploaded || row.Verified {
		t.Errorf("Udyam Registration = %+v", row)
	}
}
