package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	errs "github.com/clockwisehq/clockwise/errors"
	"github.com/clockwisehq/clockwise/models"
	"github.com/clockwisehq/clockwise/server/response"
)

func (s *Server) handleHealthCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "ok", http.StatusOK, gin.H{"mail_configured": s.Mail.Configured()}, nil)
	}
}

func (s *Server) handleListNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

		notifications, err := s.NotificationService.ListForUser(user.ID, page, pageSize)
		if err != nil {
			respondAndAbort(c, "unable to list notifications", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "notifications retrieved successfully", http.StatusOK, notifications, nil)
	}
}

func (s *Server) handleUnreadCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		count, err := s.NotificationService.UnreadCount(user.ID)
		if err != nil {
			respondAndAbort(c, "unable to count notifications", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "unread count retrieved successfully", http.StatusOK, models.UnreadCountResponse{Count: count}, nil)
	}
}

func (s *Server) handleMarkRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondAndAbort(c, "invalid notification id", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		n, err := s.NotificationService.MarkRead(uint(id), user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondAndAbort(c, "notification not found", http.StatusNotFound, nil, errs.ErrNotFound)
				return
			}
			respondAndAbort(c, "unable to mark notification read", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "notification marked read", http.StatusOK, n, nil)
	}
}

func (s *Server) handleMarkAllRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		count, err := s.NotificationService.MarkAllRead(user.ID)
		if err != nil {
			respondAndAbort(c, "unable to mark notifications read", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "notifications marked read", http.StatusOK, gin.H{"updated": count}, nil)
	}
}

func (s *Server) handleDeleteNotification() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondAndAbort(c, "invalid notification id", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		if err := s.NotificationService.Delete(uint(id), user.ID); err != nil {
			respondAndAbort(c, "notification not found", http.StatusNotFound, nil, errs.ErrNotFound)
			return
		}
		response.JSON(c, "notification deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleTestNotification() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.New("Unauthorized", http.StatusUnauthorized))
			return
		}

		var req models.TestNotificationRequest
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			respondAndAbort(c, "invalid request body", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		// Allow sending the test to an alternate address without touching
		// the account record.
		recipient := *user
		if req.Email != "" {
			recipient.Email = req.Email
		}

		n, err := s.NotificationService.SendTest(c.Request.Context(), &recipient)
		if err != nil {
			respondAndAbort(c, "unable to send test notification", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "test notification sent", http.StatusOK, n, nil)
	}
}

// handleRunReminders triggers a reminder sweep outside the schedule, mainly
// for operators verifying preference changes.
func (s *Server) handleRunReminders() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.ReminderService.RunSweep(c.Request.Context())
		response.JSON(c, "reminder sweep completed", http.StatusOK, nil, nil)
	}
}
