package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"subsidy-crm-api/middleware"
)

// GetNotifications lists the acting user's notifications, newest first.
func GetNotifications(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	items, err := svc.Notifications.ListForUser(actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": items})
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if err := svc.Notifications.MarkRead(c.Param("id"), actor.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
