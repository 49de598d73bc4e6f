package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clockwisehq/clockwise/cache"
	"github.com/clockwisehq/clockwise/config"
	"github.com/clockwisehq/clockwise/db"
	"github.com/clockwisehq/clockwise/metrics"
	"github.com/clockwisehq/clockwise/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NotificationService owns the notification ledger and its status machine.
// Creation and delivery are deliberately separate operations: Create inserts
// a PENDING record and returns, AttemptDelivery moves it to SENT or FAILED.
type NotificationService interface {
	Create(userID uint, title, message string, notifType models.NotificationType, data map[string]string) (*models.Notification, error)
	AttemptDelivery(ctx context.Context, n *models.Notification) error
	MarkRead(id, userID uint) (*models.Notification, error)
	MarkAllRead(userID uint) (int64, error)
	Delete(id, userID uint) error
	Cleanup(maxAgeDays int) (int64, error)
	ListForUser(userID uint, page, pageSize int) ([]models.Notification, error)
	UnreadCount(userID uint) (int64, error)
	SendTest(ctx context.Context, user *models.User) (*models.Notification, error)
}

// notificationService struct
type notificationService struct {
	Config           *config.Config
	notificationRepo db.NotificationRepository
	userRepo         db.UserRepository
	channels         map[models.NotificationType]DeliveryChannel
	log              *zap.Logger
	now              func() time.Time
	sleep            func(time.Duration)
}

// NewNotificationService creates a new instance of NotificationService
func NewNotificationService(
	notificationRepo db.NotificationRepository,
	userRepo db.UserRepository,
	channels map[models.NotificationType]DeliveryChannel,
	conf *config.Config,
	log *zap.Logger,
) NotificationService {
	return &notificationService{
		Config:           conf,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		channels:         channels,
		log:              log,
		now:              time.Now,
		sleep:            time.Sleep,
	}
}

func (s *notificationService) Create(userID uint, title, message string, notifType models.NotificationType, data map[string]string) (*models.Notification, error) {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Status:  models.NotificationStatusPending,
		Data:    data,
	}
	if err := s.notificationRepo.CreateNotification(n); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(string(notifType)).Inc()
	cache.InvalidateUnreadCount(userID)
	return n, nil
}

// AttemptDelivery sends a PENDING notification through its channel and
// records the outcome. A delivery failure is not an error to the caller: the
// record goes to FAILED and the send error is logged. Email sends get a
// bounded number of retries with a fixed delay between attempts.
func (s *notificationService) AttemptDelivery(ctx context.Context, n *models.Notification) error {
	if n.Status != models.NotificationStatusPending {
		return errors.Errorf("notification %d is %s, only PENDING notifications can be delivered", n.ID, n.Status)
	}

	recipient, err := s.userRepo.FindUserByID(n.UserID)
	if err != nil {
		return errors.Wrapf(err, "loading recipient %d", n.UserID)
	}

	result := s.deliver(ctx, n, recipient)
	if result.OK {
		sentAt := s.now()
		n.Status = models.NotificationStatusSent
		n.SentAt = &sentAt
		metrics.NotificationsSent.WithLabelValues(string(n.Type)).Inc()
	} else {
		n.Status = models.NotificationStatusFailed
		metrics.NotificationsFailed.WithLabelValues(string(n.Type)).Inc()
		s.log.Warn("notification delivery failed",
			zap.Uint("notification_id", n.ID),
			zap.Uint("user_id", n.UserID),
			zap.String("type", string(n.Type)),
			zap.Error(result.Err))
	}

	return s.notificationRepo.Save(n)
}

func (s *notificationService) deliver(ctx context.Context, n *models.Notification, recipient *models.User) DeliveryResult {
	channel, ok := s.channels[n.Type]
	if !ok {
		return DeliveryResult{Err: ErrUnsupportedChannel}
	}

	attempts := 1
	if n.Type == models.NotificationTypeEmail && s.Config.MailMaxRetries > 0 {
		attempts += s.Config.MailMaxRetries
	}

	var result DeliveryResult
	for attempt := 1; attempt <= attempts; attempt++ {
		result = channel.Send(ctx, n, recipient)
		if result.OK || !retryable(result.Err) {
			return result
		}
		if attempt < attempts {
			s.log.Info("retrying email delivery",
				zap.Uint("notification_id", n.ID),
				zap.Int("attempt", attempt),
				zap.Error(result.Err))
			s.sleep(time.Duration(s.Config.MailRetryDelay) * time.Second)
		}
	}
	return result
}

// retryable excludes failures a retry cannot fix: a transport that never came
// up and channels nothing is wired for.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnsupportedChannel) {
		return false
	}
	return !isNotConfigured(err)
}

// MarkRead is idempotent: marking an already READ notification keeps its
// original ReadAt. A notification belonging to another user surfaces as
// gorm.ErrRecordNotFound, never as someone else's data.
func (s *notificationService) MarkRead(id, userID uint) (*models.Notification, error) {
	n, err := s.notificationRepo.FindForUser(id, userID)
	if err != nil {
		return nil, err
	}
	if n.Status == models.NotificationStatusRead {
		return n, nil
	}

	readAt := s.now()
	n.Status = models.NotificationStatusRead
	n.ReadAt = &readAt
	if err := s.notificationRepo.Save(n); err != nil {
		return nil, err
	}
	cache.InvalidateUnreadCount(userID)
	return n, nil
}

func (s *notificationService) MarkAllRead(userID uint) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(userID, s.now())
	if err != nil {
		return 0, err
	}
	cache.InvalidateUnreadCount(userID)
	return count, nil
}

func (s *notificationService) Delete(id, userID uint) error {
	rows, err := s.notificationRepo.DeleteForUser(id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.Errorf("notification %d not found for user %d", id, userID)
	}
	cache.InvalidateUnreadCount(userID)
	return nil
}

// Cleanup removes notifications older than maxAgeDays that reached READ or
// SENT. PENDING and FAILED rows are kept indefinitely; they are the signal
// that something needs operator attention.
func (s *notificationService) Cleanup(maxAgeDays int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -maxAgeDays)
	count, err := s.notificationRepo.DeleteOlderThan(cutoff, []models.NotificationStatus{
		models.NotificationStatusRead,
		models.NotificationStatusSent,
	})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		metrics.NotificationsCleaned.Add(float64(count))
		s.log.Info("retention sweep removed notifications",
			zap.Int64("count", count),
			zap.Time("cutoff", cutoff))
	}
	return count, nil
}

func (s *notificationService) ListForUser(userID uint, page, pageSize int) ([]models.Notification, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return s.notificationRepo.ListForUser(userID, (page-1)*pageSize, pageSize)
}

func (s *notificationService) UnreadCount(userID uint) (int64, error) {
	if count, ok := cache.GetUnreadCount(userID); ok {
		return count, nil
	}
	count, err := s.notificationRepo.UnreadCount(userID)
	if err != nil {
		return 0, err
	}
	cache.SetUnreadCount(userID, count)
	return count, nil
}

// SendTest creates and immediately delivers a test email. The address of the
// passed user is pinned in the notification data so delivery goes where the
// caller pointed it, even though the recipient record is re-read.
func (s *notificationService) SendTest(ctx context.Context, user *models.User) (*models.Notification, error) {
	n, err := s.Create(user.ID, "Test notification",
		"This is a test notification confirming your email settings work.",
		models.NotificationTypeEmail,
		map[string]string{"template": "test", "recipient_override": user.Email})
	if err != nil {
		return nil, err
	}
	if err := s.AttemptDelivery(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
