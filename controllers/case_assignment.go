package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subsidy-crm-api/middleware"
)

// AssignCase sets the owner of one case.
func AssignCase(c *gin.Context) {
	var req struct {
		UserID string  `json:"user_id" binding:"required"`
		Role   *string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := svc.Assignments.AssignCase(c.Param("id"), req.UserID, req.Role, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Case assigned successfully",
		"case":    updated,
	})
}

// BulkAssignCases assigns a batch of cases to one user, best-effort. The count
// of cases actually modified comes back; unknown case ids are skipped.
func BulkAssignCases(c *gin.Context) {
	var req struct {
		CaseIDs []string `json:"case_ids" binding:"required"`
		UserID  string   `json:"user_id" binding:"required"`
		Role    *string  `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := svc.Assignments.BulkAssignCases(req.CaseIDs, req.UserID, req.Role, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// GetAssignmentHistory returns the append-only assignment history for a case.
func GetAssignmentHistory(c *gin.Context) {
	history, err := svc.Assignments.GetAssignmentHistory(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}
