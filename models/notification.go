package models

import "time"

// NotificationType selects the delivery channel for a notification.
type NotificationType string

const (
	NotificationTypeEmail NotificationType = "EMAIL"
	NotificationTypePush  NotificationType = "PUSH"
	NotificationTypeSMS   NotificationType = "SMS"
	NotificationTypeInApp NotificationType = "IN_APP"
)

// NotificationStatus tracks a notification through its lifecycle:
// PENDING -> SENT or FAILED after a delivery attempt, any of those -> READ
// once the user opens it.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
	NotificationStatusRead    NotificationStatus = "READ"
)

// Notification represents a single entry in the notification ledger
type Notification struct {
	Model
	UserID  uint               `json:"user_id" gorm:"index;not null"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
	Type    NotificationType   `json:"type" gorm:"type:varchar(16);default:'IN_APP'"`
	Status  NotificationStatus `json:"status" gorm:"type:varchar(16);default:'PENDING';index"`
	Data    map[string]string  `json:"data,omitempty" gorm:"serializer:json"`
	SentAt  *time.Time         `json:"sent_at,omitempty"`
	ReadAt  *time.Time         `json:"read_at,omitempty"`
}

// IsRead reports whether the user has opened the notification.
func (n *Notification) IsRead() bool {
	return n.Status == NotificationStatusRead
}

type TestNotificationRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
}

type MentionRequest struct {
	Text       string `json:"text" binding:"required"`
	AuthorName string `json:"author_name" binding:"required"`
	TaskTitle  string `json:"task_title"`
}

type MentionResponse struct {
	CommentID  uint           `json:"comment_id"`
	Stored     int64          `json:"stored"`
	Recipients []UserResponse `json:"recipients"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
