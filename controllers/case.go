package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"subsidy-crm-api/middleware"
	"subsidy-crm-api/services"
)

// CreateCase converts a lead into a case.
func CreateCase(c *gin.Context) {
	var req services.CreateCaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := svc.Cases.CreateCase(req, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Case created successfully",
		"case":    created,
	})
}

// GetCases lists cases with optional filtering.
func GetCases(c *gin.Context) {
	filter := services.CaseFilter{
		AssignedUserID: c.Query("assigned_user_id"),
		SchemeType:     c.Query("scheme_type"),
		Search:         c.Query("search"),
	}
	if statuses := c.Query("status"); statuses != "" {
		filter.Statuses = strings.Split(statuses, ",")
	}
	if priorities := c.Query("priority"); priorities != "" {
		filter.Priorities = strings.Split(priorities, ",")
	}
	if from := c.Query("created_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.CreatedFrom = &t
		}
	}
	if to := c.Query("created_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			// Inclusive range: push the bound to end of day.
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.CreatedTo = &end
		}
	}

	cases, err := svc.Reports.ListCases(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"cases":   cases,
		"total":   len(cases),
	})
}

// GetCase returns one case.
func GetCase(c *gin.Context) {
	found, err := svc.Cases.GetCase(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "case": found})
}

// UpdateCase merges the supplied fields into the case.
func UpdateCase(c *gin.Context) {
	var req services.CaseUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := svc.Cases.UpdateCase(c.Param("id"), req, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "case": updated})
}

// UpdateCaseStatus moves the case through the state machine.
func UpdateCaseStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := svc.Cases.UpdateStatus(c.Param("id"), req.Status, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "case": updated})
}

// UpdateCasePriority changes the case priority.
func UpdateCasePriority(c *gin.Context) {
	var req struct {
		Priority string `json:"priority" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := svc.Cases.UpdatePriority(c.Param("id"), req.Priority, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "case": updated})
}

// CloseCase closes the case with a reason.
func CloseCase(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	closed, err := svc.Cases.CloseCase(c.Param("id"), req.Reason, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "case": closed})
}

// ReopenCase returns a closed case to the active lifecycle.
func ReopenCase(c *gin.Context) {
	reopened, err := svc.Cases.ReopenCase(c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "case": reopened})
}

// DeleteCase removes a case. The lead's conversion marker is not reverted.
func DeleteCase(c *gin.Context) {
	if err := svc.Cases.DeleteCase(c.Param("id"), middleware.ActorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Case deleted successfully"})
}

// AddCaseNote appends a note to the case timeline.
func AddCaseNote(c *gin.Context) {
	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := svc.Cases.AddNote(c.Param("id"), req.Note, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "entry": entry})
}

// CreateCaseTask attaches a follow-up task to the case.
func CreateCaseTask(c *gin.Context) {
	var req services.CreateTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := svc.Cases.CreateTask(c.Param("id"), req, middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "task": task})
}

// GetCaseTasks lists the case's tasks.
func GetCaseTasks(c *gin.Context) {
	tasks, err := svc.Cases.ListTasks(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks})
}

// CompleteTask marks a task done.
func CompleteTask(c *gin.Context) {
	task, err := svc.Cases.CompleteTask(c.Param("task_id"), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}
