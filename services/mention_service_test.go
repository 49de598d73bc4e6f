package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clockwisehq/clockwise/config"
	"github.com/clockwisehq/clockwise/models"
)

func mentionUsers() []*models.User {
	return []*models.User{
		{Model: models.Model{ID: 1}, FirstName: "John", LastName: "Smith", Email: "john@example.com", Active: true},
		{Model: models.Model{ID: 2}, FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", Active: true},
		{Model: models.Model{ID: 3}, FirstName: "Johanna", LastName: "Doe", Email: "johanna@example.com", Active: true},
		{Model: models.Model{ID: 4}, FirstName: "Inactive", LastName: "John", Email: "gone@example.com", Active: false},
	}
}

type mentionFixture struct {
	svc         *mentionService
	mentionRepo *fakeMentionRepo
	notifier    *fakeNotifier
}

func newMentionFixture(t *testing.T) *mentionFixture {
	t.Helper()
	mentionRepo := newFakeMentionRepo()
	notifier := newFakeNotifier()
	svc := &mentionService{
		Config:        &config.Config{NotificationWorkers: 2},
		userRepo:      newFakeUserRepo(mentionUsers()...),
		mentionRepo:   mentionRepo,
		notifications: notifier,
		log:           zap.NewNop(),
	}
	return &mentionFixture{svc: svc, mentionRepo: mentionRepo, notifier: notifier}
}

func TestParseDeduplicatesRepeatedMentions(t *testing.T) {
	f := newMentionFixture(t)

	// "john" matches John Smith and Johanna (substring), each exactly once.
	mentioned, err := f.svc.Parse("ping @john and @john again")
	require.NoError(t, err)

	ids := make(map[uint]int)
	for _, u := range mentioned {
		ids[u.ID]++
	}
	assert.Equal(t, 1, ids[1])
	assert.Equal(t, 1, ids[3])
	assert.NotContains(t, ids, uint(4), "inactive users are never mentioned")
}

func TestParseNoMentions(t *testing.T) {
	f := newMentionFixture(t)

	mentioned, err := f.svc.Parse("no at-tokens in here")
	require.NoError(t, err)
	assert.Empty(t, mentioned)
}

func TestParseStopsTokenAtPunctuation(t *testing.T) {
	f := newMentionFixture(t)

	mentioned, err := f.svc.Parse("thanks @bob, much appreciated")
	require.NoError(t, err)
	require.Len(t, mentioned, 1)
	assert.Equal(t, uint(2), mentioned[0].ID)
}

func TestStoreIsIdempotent(t *testing.T) {
	f := newMentionFixture(t)
	mentioned := []models.User{
		{Model: models.Model{ID: 1}},
		{Model: models.Model{ID: 2}},
	}

	inserted, err := f.svc.Store(7, mentioned)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inserted)

	inserted, err = f.svc.Store(7, mentioned)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)

	links, err := f.mentionRepo.ListForComment(7)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestNotifyCreatesInAppAndEmailPerRecipient(t *testing.T) {
	f := newMentionFixture(t)
	mentioned := []models.User{
		{Model: models.Model{ID: 1}, FirstName: "John"},
		{Model: models.Model{ID: 2}, FirstName: "Bob"},
	}

	f.svc.Notify(context.Background(), 7, mentioned, "Grace", "Payroll revamp")

	created := f.notifier.createdFor(1)
	require.Len(t, created, 2)
	types := map[models.NotificationType]bool{}
	for _, n := range created {
		types[n.Type] = true
		assert.Equal(t, "Grace mentioned you", n.Title)
		assert.Equal(t, "mention", n.Data["template"])
		assert.Equal(t, "7", n.Data["comment_id"])
	}
	assert.True(t, types[models.NotificationTypeInApp])
	assert.True(t, types[models.NotificationTypeEmail])

	assert.Len(t, f.notifier.createdFor(2), 2)
	assert.Equal(t, 4, f.notifier.deliveries())
}

func TestNotifyIsolatesRecipientFailures(t *testing.T) {
	f := newMentionFixture(t)
	f.notifier.failCreateFor = 1

	mentioned := []models.User{
		{Model: models.Model{ID: 1}, FirstName: "John"},
		{Model: models.Model{ID: 2}, FirstName: "Bob"},
		{Model: models.Model{ID: 3}, FirstName: "Johanna"},
	}

	f.svc.Notify(context.Background(), 7, mentioned, "Grace", "Payroll revamp")

	assert.Empty(t, f.notifier.createdFor(1))
	assert.Len(t, f.notifier.createdFor(2), 2)
	assert.Len(t, f.notifier.createdFor(3), 2)
}

func TestRemoveForComment(t *testing.T) {
	f := newMentionFixture(t)
	_, err := f.svc.Store(7, []models.User{{Model: models.Model{ID: 1}}})
	require.NoError(t, err)

	deleted, err := f.svc.RemoveForComment(7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	links, err := f.mentionRepo.ListForComment(7)
	require.NoError(t, err)
	assert.Empty(t, links)
}

// End to end: user A mentions user B in a comment, B gets a mention link plus
// an IN_APP and an EMAIL notification, and the email attempt settles the
// status.
func TestMentionEndToEnd(t *testing.T) {
	userRepo := newFakeUserRepo(
		&models.User{Model: models.Model{ID: 2}, FirstName: "Bob", Email: "bob@example.com", Active: true},
	)
	notificationRepo := newFakeNotificationRepo()
	emailCh := &fakeChannel{results: []DeliveryResult{{OK: true}}}
	conf := &config.Config{NotificationWorkers: 2, CompanyName: "Clockwise"}

	notifications := &notificationService{
		Config:           conf,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		channels: map[models.NotificationType]DeliveryChannel{
			models.NotificationTypeEmail: emailCh,
			models.NotificationTypeInApp: &inAppChannel{log: zap.NewNop()},
		},
		log:   zap.NewNop(),
		now:   func() time.Time { return time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC) },
		sleep: func(time.Duration) {},
	}

	mentionRepo := newFakeMentionRepo()
	mentions := &mentionService{
		Config:        conf,
		userRepo:      userRepo,
		mentionRepo:   mentionRepo,
		notifications: notifications,
		log:           zap.NewNop(),
	}

	mentioned, err := mentions.Parse("@bob please review")
	require.NoError(t, err)
	require.Len(t, mentioned, 1)

	stored, err := mentions.Store(42, mentioned)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored)

	mentions.Notify(context.Background(), 42, mentioned, "Alice", "Task T")

	all := notificationRepo.all()
	require.Len(t, all, 2)
	for _, n := range all {
		assert.Equal(t, uint(2), n.UserID)
		switch n.Type {
		case models.NotificationTypeInApp:
			assert.Equal(t, models.NotificationStatusSent, n.Status)
		case models.NotificationTypeEmail:
			assert.Equal(t, models.NotificationStatusSent, n.Status)
			require.NotNil(t, n.SentAt)
		default:
			t.Fatalf("unexpected notification type %s", n.Type)
		}
	}
}
