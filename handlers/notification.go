// File: handlers/notification.go
package handlers

import (
	"net/http"

	"stagelink/utils"

	"github.com/gin-gonic/gin"
)

// ListNotificationsHandler returns the caller's recent notifications.
func (hb *HandlerBundle) ListNotificationsHandler(c *gin.Context) {
	notifications, err := hb.NotificationService.ListForUser(c.GetString("userID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, notifications)
}

// MarkNotificationReadHandler marks one notification read.
func (hb *HandlerBundle) MarkNotificationReadHandler(c *gin.Context) {
	if err := hb.NotificationService.MarkRead(c.Param("id"), c.GetString("userID")); err != nil {
		utils.JSONError(c, http.StatusNotFound, "notification not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"read": true})
}

// MarkAllNotificationsReadHandler marks everything unread as read.
func (hb *HandlerBundle) MarkAllNotificationsReadHandler(c *gin.Context) {
	if err := hb.NotificationService.MarkAllRead(c.GetString("userID")); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"read": true})
}
