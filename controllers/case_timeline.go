package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCaseTimeline returns the audit log for a case, newest first.
func GetCaseTimeline(c *gin.Context) {
	entries, err := svc.Timeline.GetByCaseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "timeline": entries})
}
