package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	errs "github.com/clockwisehq/clockwise/errors"
	"github.com/clockwisehq/clockwise/models"
	"github.com/clockwisehq/clockwise/server/response"
)

func (s *Server) handleCreateMentions() gin.HandlerFunc {
	return func(c *gin.Context) {
		commentID, err := strconv.ParseUint(c.Param("commentID"), 10, 32)
		if err != nil {
			respondAndAbort(c, "invalid comment id", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		var req models.MentionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAndAbort(c, err.Error(), http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		mentioned, err := s.MentionService.Parse(req.Text)
		if err != nil {
			respondAndAbort(c, "unable to resolve mentions", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		if len(mentioned) == 0 {
			response.JSON(c, "no mentions found", http.StatusOK, models.MentionResponse{CommentID: uint(commentID)}, nil)
			return
		}

		stored, err := s.MentionService.Store(uint(commentID), mentioned)
		if err != nil {
			respondAndAbort(c, "unable to store mentions", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}

		s.MentionService.Notify(c.Request.Context(), uint(commentID), mentioned, req.AuthorName, req.TaskTitle)

		recipients := make([]models.UserResponse, 0, len(mentioned))
		for i := range mentioned {
			recipients = append(recipients, mentioned[i].ToResponse())
		}
		response.JSON(c, "mentions processed", http.StatusCreated, models.MentionResponse{
			CommentID:  uint(commentID),
			Stored:     stored,
			Recipients: recipients,
		}, nil)
	}
}

func (s *Server) handleDeleteMentions() gin.HandlerFunc {
	return func(c *gin.Context) {
		commentID, err := strconv.ParseUint(c.Param("commentID"), 10, 32)
		if err != nil {
			respondAndAbort(c, "invalid comment id", http.StatusBadRequest, nil, errs.ErrBadRequest)
			return
		}

		deleted, err := s.MentionService.RemoveForComment(uint(commentID))
		if err != nil {
			respondAndAbort(c, "unable to delete mentions", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "mentions deleted", http.StatusOK, gin.H{"deleted": deleted}, nil)
	}
}
