package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	notificationdomain "github.com/sentinel-ews/sentinel/internal/notification/domain"
)

func (s *Server) ListNotifications(c *gin.Context) {
	userID, _ := currentUserID(c)

	unreadOnly, err := parseOptionalBool(c.Query("unread_only"))
	if err != nil {
		AbortWithError(c, newValidationError("unread_only", "invalid_unread_only", "invalid unread_only"))
		return
	}
	limit, offset, err := parsePagination(c, 20, 100)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	req := notificationdomain.ListRequest{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	}
	if unreadOnly != nil {
		req.UnreadOnly = *unreadOnly
	}

	notifications, err := s.notificationSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

func (s *Server) GetUnreadCount(c *gin.Context) {
	userID, _ := currentUserID(c)

	count, err := s.notificationSvc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"unread_count": count}})
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, err := pathID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.notificationSvc.MarkRead(c.Request.Context(), userID, id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) MarkAllNotificationsRead(c *gin.Context) {
	userID, _ := currentUserID(c)

	updated, err := s.notificationSvc.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"marked_read": updated}})
}
