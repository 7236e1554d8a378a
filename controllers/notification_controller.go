package controllers

import (
	"net/http"
	"strconv"

	"toolshare/app"

	"github.com/gin-gonic/gin"
)

type NotificationController struct{ *Srv }

func NewNotificationController(s *Srv) *NotificationController {
	return &NotificationController{Srv: s}
}

// GET /api/notifications
func (nc *NotificationController) List(c *gin.Context) {
	res, err := nc.Repo.ListNotifications(c.Request.Context(), app.Actor(c).ID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /api/notifications/:id/read
func (nc *NotificationController) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid notification id"})
		return
	}
	if err := nc.Repo.MarkNotificationRead(c.Request.Context(), app.Actor(c).ID, uint(id)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// PUT /api/notifications/read-all
func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	if err := nc.Repo.MarkAllNotificationsRead(c.Request.Context(), app.Actor(c).ID); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
