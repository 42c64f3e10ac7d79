package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subsidy-crm-api/middleware"
	"subsidy-crm-api/services"
	"subsidy-crm-api/utils"
)

// AddCaseDocument records metadata for a file the storage collaborator already
// persisted. Size and MIME constraints are checked here at the boundary; the
// engine accepts validated metadata only.
func AddCaseDocument(c *gin.Context) {
	var req services.AddDocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.FileSize != nil && !utils.IsAllowedFileSize(*req.FileSize) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the maximum allowed size"})
		return
	}
	if req.MimeType != nil && !utils.IsAllowedMimeType(*req.MimeType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type is not allowed"})
		return
	}

	doc, err := svc.Documents.AddDocument(c.Param("id"), req, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Document recorded successfully",
		"document": doc,
	})
}

// GetCaseDocuments lists the documents for a case.
func GetCaseDocuments(c *gin.Context) {
	docs, err := svc.Documents.ListDocuments(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "documents": docs})
}

// GetDocumentCompleteness reports uploaded/verified state against the required
// document catalog.
func GetDocumentCompleteness(c *gin.Context) {
	report, err := svc.Documents.Completeness(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "completeness": report})
}

// VerifyDocument marks a received document verified.
func VerifyDocument(c *gin.Context) {
	doc, err := svc.Documents.VerifyDocument(c.Param("document_id"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "document": doc})
}

// RejectDocument marks a received document rejected with a reason.
func RejectDocument(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := svc.Documents.RejectDocument(c.Param("document_id"), req.Reason, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "document": doc})
}
