package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/invest-marketplace/internal/application"
	"github.com/oksasatya/invest-marketplace/pkg/response"
)

type NotificationHandler struct {
	Svc    *application.NotificationService
	Logger *logrus.Logger
}

func NewNotificationHandler(svc *application.NotificationService, logger *logrus.Logger) *NotificationHandler {
	return &NotificationHandler{Svc: svc, Logger: logger}
}

type createNotificationRequest struct {
	ToUserID string `json:"to_user_id" binding:"required"`
	Content  string `json:"content" binding:"required,max=2000"`
	Type     string `json:"type" binding:"required,notiftype"`
}

// Feed GET /api/notification?page=&limit=
func (h *NotificationHandler) Feed(c *gin.Context) {
	feed, err := h.Svc.Feed(c.Request.Context(), currentUser(c), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	items := make([]gin.H, 0, len(feed.Notifications))
	for i := range feed.Notifications {
		items = append(items, notificationJSON(&feed.Notifications[i]))
	}
	response.Success(c, http.StatusOK, "notifications", gin.H{
		"notifications":       items,
		"invitations":         feed.Invitations,
		"page":                feed.Page,
		"total_pages":         feed.TotalPages,
		"total_notifications": feed.TotalNotifications,
	})
}

// Create POST /api/notification
func (h *NotificationHandler) Create(c *gin.Context) {
	var req createNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	n, err := h.Svc.Create(c.Request.Context(), currentUser(c), req.ToUserID, req.Content, req.Type)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, "notification sent", gin.H{"notification": notificationJSON(n)})
}

// MarkSeen PATCH /api/notification/:id/seen
func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	if err := h.Svc.MarkSeen(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "notification marked as seen", nil)
}

// Delete DELETE /api/notification/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, "notification deleted", nil)
}
