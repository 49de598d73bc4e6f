package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"github.com/clockwisehq/clockwise/config"
	"github.com/clockwisehq/clockwise/db"
	"github.com/clockwisehq/clockwise/models"
)

// mentionPattern extracts @tokens: word characters only, so punctuation ends
// a token ("@bob," mentions bob).
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// maxMatchesPerToken caps how many users a single @token can resolve to.
const maxMatchesPerToken = 5

// MentionService turns free text into mention links and per-recipient
// notifications.
type MentionService interface {
	Parse(text string) ([]models.User, error)
	Store(commentID uint, mentioned []models.User) (int64, error)
	Notify(ctx context.Context, commentID uint, mentioned []models.User, authorName, taskTitle string)
	RemoveForComment(commentID uint) (int64, error)
}

// mentionService struct
type mentionService struct {
	Config        *config.Config
	userRepo      db.UserRepository
	mentionRepo   db.MentionRepository
	notifications NotificationService
	log           *zap.Logger
}

// NewMentionService creates a new instance of MentionService
func NewMentionService(
	userRepo db.UserRepository,
	mentionRepo db.MentionRepository,
	notifications NotificationService,
	conf *config.Config,
	log *zap.Logger,
) MentionService {
	return &mentionService{
		Config:        conf,
		userRepo:      userRepo,
		mentionRepo:   mentionRepo,
		notifications: notifications,
		log:           log,
	}
}

// Parse scans the text for @tokens and resolves each against the user
// directory (case-insensitive substring match over names and email, active
// users only). The result is de-duplicated by user id across all tokens.
func (s *mentionService) Parse(text string) ([]models.User, error) {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	seenTokens := make(map[string]struct{}, len(matches))
	seenUsers := make(map[uint]struct{})
	var mentioned []models.User

	for _, match := range matches {
		token := match[1]
		if _, ok := seenTokens[token]; ok {
			continue
		}
		seenTokens[token] = struct{}{}

		users, err := s.userRepo.SearchActiveUsers(token, maxMatchesPerToken)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			if _, ok := seenUsers[user.ID]; ok {
				continue
			}
			seenUsers[user.ID] = struct{}{}
			mentioned = append(mentioned, user)
		}
	}

	return mentioned, nil
}

// Store persists the mention links. Pairs that already exist are silently
// skipped; the returned count is the number of new rows.
func (s *mentionService) Store(commentID uint, mentioned []models.User) (int64, error) {
	mentions := make([]models.Mention, 0, len(mentioned))
	for _, user := range mentioned {
		mentions = append(mentions, models.Mention{
			CommentID:       commentID,
			MentionedUserID: user.ID,
		})
	}
	return s.mentionRepo.CreateMentions(mentions)
}

// Notify fans out an IN_APP and an EMAIL notification to every mentioned
// user through a bounded worker pool. One recipient failing only costs that
// recipient their notification; the rest of the batch proceeds.
func (s *mentionService) Notify(ctx context.Context, commentID uint, mentioned []models.User, authorName, taskTitle string) {
	if len(mentioned) == 0 {
		return
	}
	if taskTitle == "" {
		taskTitle = "a task"
	}

	pool := newWorkerPool(s.Config.NotificationWorkers, s.log)
	for i := range mentioned {
		user := mentioned[i]
		pool.Submit(func() {
			s.notifyOne(ctx, commentID, &user, authorName, taskTitle)
		})
	}
	pool.Wait()
}

func (s *mentionService) notifyOne(ctx context.Context, commentID uint, user *models.User, authorName, taskTitle string) {
	title := fmt.Sprintf("%s mentioned you", authorName)
	message := fmt.Sprintf("%s mentioned you in a comment on %s", authorName, taskTitle)
	data := map[string]string{
		"template":    "mention",
		"author_name": authorName,
		"task":        taskTitle,
		"comment_id":  strconv.FormatUint(uint64(commentID), 10),
	}

	for _, notifType := range []models.NotificationType{models.NotificationTypeInApp, models.NotificationTypeEmail} {
		n, err := s.notifications.Create(user.ID, title, message, notifType, data)
		if err != nil {
			s.log.Error("creating mention notification failed",
				zap.Uint("comment_id", commentID),
				zap.Uint("user_id", user.ID),
				zap.String("type", string(notifType)),
				zap.Error(err))
			continue
		}
		if err := s.notifications.AttemptDelivery(ctx, n); err != nil {
			s.log.Error("delivering mention notification failed",
				zap.Uint("comment_id", commentID),
				zap.Uint("user_id", user.ID),
				zap.String("type", string(notifType)),
				zap.Error(err))
		}
	}
}

// RemoveForComment drops every mention link of a deleted comment.
func (s *mentionService) RemoveForComment(commentID uint) (int64, error) {
	return s.mentionRepo.DeleteForComment(commentID)
}
