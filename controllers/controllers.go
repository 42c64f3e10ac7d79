package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subsidy-crm-api/services"
)

// Services bundles the engine services the handlers call.
type Services struct {
	Cases         *services.CaseService
	Assignments   *services.AssignmentService
	Documents     *services.DocumentService
	Timeline      *services.TimelineService
	Reports       *services.ReportService
	Notifications *services.NotificationService
}

var svc *Services

// Init installs the service set. Must run before routes are served.
func Init(s *Services) {
	svc = s
}

// respondError maps typed engine errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindInvalidState:
		status = http.StatusUnprocessableEntity
	case services.KindUnauthorized:
		status = http.StatusForbidden
	case services.KindValidation:
		status = http.StatusBadRequest
	}

	payload := gin.H{"success": false, "error": err.Error()}
	if kind := services.KindOf(err); kind != "" {
		payload["code"] = string(kind)
	}
	c.JSON(status, payload)
}
