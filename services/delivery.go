package services

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clockwisehq/clockwise/mailingservices"
	"github.com/clockwisehq/clockwise/models"
	"github.com/clockwisehq/clockwise/realtime"
)

// ErrUnsupportedChannel is the delivery error for channel types nothing is
// wired to handle (SMS, or an unknown type on the record).
var ErrUnsupportedChannel = errors.New("unsupported delivery channel")

func isNotConfigured(err error) bool {
	return errors.Is(err, mailingservices.ErrNotConfigured)
}

// DeliveryResult is the outcome of one delivery attempt.
type DeliveryResult struct {
	OK  bool
	Err error
}

// Mailer is the transport the email channel hands rendered content to.
// Implemented by mailingservices.Mailgun.
type Mailer interface {
	SendEmail(ctx context.Context, recipient, subject, html, text string) error
}

// DeliveryChannel turns a PENDING notification into a delivered message for
// one transport. Implementations must return a failed result instead of
// panicking on configuration problems.
type DeliveryChannel interface {
	Send(ctx context.Context, n *models.Notification, recipient *models.User) DeliveryResult
}

// NewDeliveryChannels wires the channel registry: EMAIL renders through the
// template service then hands off to the mailer, IN_APP pushes to connected
// websocket clients, PUSH is a logging stub, SMS is declared but unsupported.
func NewDeliveryChannels(templates TemplateService, mailer Mailer, hub *realtime.Hub, log *zap.Logger) map[models.NotificationType]DeliveryChannel {
	return map[models.NotificationType]DeliveryChannel{
		models.NotificationTypeEmail: &emailChannel{templates: templates, mailer: mailer},
		models.NotificationTypeInApp: &inAppChannel{hub: hub, log: log},
		models.NotificationTypePush:  &pushChannel{log: log},
		models.NotificationTypeSMS:   &smsChannel{},
	}
}

type emailChannel struct {
	templates TemplateService
	mailer    Mailer
}

func (c *emailChannel) Send(ctx context.Context, n *models.Notification, recipient *models.User) DeliveryResult {
	vars := map[string]string{
		"title":           n.Title,
		"message":         n.Message,
		"first_name":      recipient.FirstName,
		"recipient_email": recipient.Email,
	}
	for k, v := range n.Data {
		vars[k] = v
	}

	address := recipient.Email
	if override := n.Data["recipient_override"]; override != "" {
		address = override
		vars["recipient_email"] = override
	}

	templateID := n.Data["template"]
	if templateID == "" {
		templateID = "default"
	}
	rendered := c.templates.Render(templateID, vars)

	if err := c.mailer.SendEmail(ctx, address, rendered.Subject, rendered.HTML, rendered.Text); err != nil {
		return DeliveryResult{Err: err}
	}
	return DeliveryResult{OK: true}
}

type inAppChannel struct {
	hub *realtime.Hub
	log *zap.Logger
}

// Send always succeeds: an in-app notification is visible through the ledger
// query regardless of whether the user is connected right now. The websocket
// push is best effort.
func (c *inAppChannel) Send(_ context.Context, n *models.Notification, _ *models.User) DeliveryResult {
	if c.hub != nil {
		payload, err := json.Marshal(n)
		if err == nil {
			delivered := c.hub.Push(n.UserID, payload)
			if delivered > 0 {
				c.log.Debug("pushed in-app notification over websocket",
					zap.Uint("user_id", n.UserID),
					zap.Int("connections", delivered))
			}
		}
	}
	return DeliveryResult{OK: true}
}

type pushChannel struct {
	log *zap.Logger
}

// Send logs the intent and reports success; real push delivery is not wired.
func (c *pushChannel) Send(_ context.Context, n *models.Notification, _ *models.User) DeliveryResult {
	c.log.Info("push notification suppressed (stub transport)",
		zap.Uint("user_id", n.UserID),
		zap.String("title", n.Title))
	return DeliveryResult{OK: true}
}

type smsChannel struct{}

func (c *smsChannel) Send(_ context.Context, _ *models.Notification, _ *models.User) DeliveryResult {
	return DeliveryResult{Err: ErrUnsupportedChannel}
}
