package db

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/clockwisehq/clockwise/models"
)

// NotificationRepository persists the notification ledger. Status transitions
// are decided by the service layer; the repository only reads and writes rows.
// Deletes are hard deletes: a removed notification leaves no tombstone.
type NotificationRepository interface {
	CreateNotification(n *models.Notification) error
	FindForUser(id, userID uint) (*models.Notification, error)
	Save(n *models.Notification) error
	ListForUser(userID uint, offset, limit int) ([]models.Notification, error)
	UnreadCount(userID uint) (int64, error)
	MarkAllRead(userID uint, readAt time.Time) (int64, error)
	DeleteForUser(id, userID uint) (int64, error)
	DeleteOlderThan(cutoff time.Time, statuses []models.NotificationStatus) (int64, error)
}

// notificationRepo struct
type notificationRepo struct {
	DB *gorm.DB
}

// NewNotificationRepo creates a new instance of NotificationRepository
func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (r *notificationRepo) CreateNotification(n *models.Notification) error {
	if err := r.DB.Create(n).Error; err != nil {
		return errors.Wrap(err, "creating notification")
	}
	return nil
}

// FindForUser scopes the lookup to the owner, so another user's id behaves
// exactly like a missing record.
func (r *notificationRepo) FindForUser(id, userID uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) Save(n *models.Notification) error {
	if err := r.DB.Save(n).Error; err != nil {
		return errors.Wrap(err, "saving notification")
	}
	return nil
}

func (r *notificationRepo) ListForUser(userID uint, offset, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	return notifications, nil
}

func (r *notificationRepo) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Notification{}).
		Where("user_id = ? AND status <> ?", userID, models.NotificationStatusRead).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting unread notifications")
	}
	return count, nil
}

func (r *notificationRepo) MarkAllRead(userID uint, readAt time.Time) (int64, error) {
	result := r.DB.Model(&models.Notification{}).
		Where("user_id = ? AND status <> ?", userID, models.NotificationStatusRead).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": readAt,
		})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "marking notifications read")
	}
	return result.RowsAffected, nil
}

func (r *notificationRepo) DeleteForUser(id, userID uint) (int64, error) {
	result := r.DB.Unscoped().
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "deleting notification")
	}
	return result.RowsAffected, nil
}

func (r *notificationRepo) DeleteOlderThan(cutoff time.Time, statuses []models.NotificationStatus) (int64, error) {
	result := r.DB.Unscoped().
		Where("created_at < ? AND status IN ?", cutoff, statuses).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "cleaning up notifications")
	}
	return result.RowsAffected, nil
}
