package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"subsidy-crm-api/services"
)

// GetCaseStats returns counts by status, priority, scheme and benefit type.
func GetCaseStats(c *gin.Context) {
	filter := services.CaseFilter{SchemeType: c.Query("scheme_type")}
	if statuses := c.Query("status"); statuses != "" {
		filter.Statuses = strings.Split(statuses, ",")
	}

	stats, err := svc.Reports.Stats(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// GetUserWorkload returns one user's workload breakdown.
func GetUserWorkload(c *gin.Context) {
	workload, err := svc.Reports.Workload(c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "workload": workload})
}

// GetResolutionStats returns average resolution time over closed cases.
func GetResolutionStats(c *gin.Context) {
	stats, err := svc.Reports.Resolution()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "resolution": stats})
}

// GetCreationTrend returns the week-over-week case creation trend.
func GetCreationTrend(c *gin.Context) {
	weeks := 8
	if raw := c.Query("weeks"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 52 {
			weeks = n
		}
	}

	trend, err := svc.Reports.Trend(weeks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "trend": trend})
}
