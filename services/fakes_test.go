package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/clockwisehq/clockwise/models"
)

// In-memory doubles for the db interfaces, shared by the service tests.

type fakeNotificationRepo struct {
	mu    sync.Mutex
	seq   uint
	items map[uint]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{items: make(map[uint]*models.Notification)}
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.ID = r.seq
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	clone := *n
	r.items[n.ID] = &clone
	return nil
}

func (r *fakeNotificationRepo) FindForUser(id, userID uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *n
	return &clone, nil
}

func (r *fakeNotificationRepo) Save(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[n.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *n
	r.items[n.ID] = &clone
	return nil
}

func (r *fakeNotificationRepo) ListForUser(userID uint, offset, limit int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) UnreadCount(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.UserID == userID && n.Status != models.NotificationStatusRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAllRead(userID uint, readAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.items {
		if n.UserID == userID && n.Status != models.NotificationStatusRead {
			n.Status = models.NotificationStatusRead
			at := readAt
			n.ReadAt = &at
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) DeleteForUser(id, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return 0, nil
	}
	delete(r.items, id)
	return 1, nil
}

func (r *fakeNotificationRepo) DeleteOlderThan(cutoff time.Time, statuses []models.NotificationStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, n := range r.items {
		if !n.CreatedAt.Before(cutoff) {
			continue
		}
		for _, status := range statuses {
			if n.Status == status {
				delete(r.items, id)
				count++
				break
			}
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.items {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindUserByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindUserByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindActiveUsersWithPreferences() ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) SearchActiveUsers(term string, limit int) ([]models.User, error) {
	needle := strings.ToLower(term)
	var out []models.User
	for _, u := range r.users {
		if !u.Active {
			continue
		}
		haystack := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email)
		if strings.Contains(haystack, needle) {
			out = append(out, *u)
		}
		if len(out) == limit {
			break
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTimesheetRepo struct {
	entries map[string]bool
}

func newFakeTimesheetRepo() *fakeTimesheetRepo {
	return &fakeTimesheetRepo{entries: make(map[string]bool)}
}

func (r *fakeTimesheetRepo) logEntry(userID uint, date time.Time) {
	r.entries[fmt.Sprintf("%d:%s", userID, date.Format("2006-01-02"))] = true
}

func (r *fakeTimesheetRepo) HasEntryForDate(userID uint, date time.Time) (bool, error) {
	return r.entries[fmt.Sprintf("%d:%s", userID, date.Format("2006-01-02"))], nil
}

type fakeMentionRepo struct {
	mu    sync.Mutex
	seq   uint
	pairs map[string]models.Mention
}

func newFakeMentionRepo() *fakeMentionRepo {
	return &fakeMentionRepo{pairs: make(map[string]models.Mention)}
}

func (r *fakeMentionRepo) CreateMentions(mentions []models.Mention) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var inserted int64
	for _, m := range mentions {
		key := fmt.Sprintf("%d:%d", m.CommentID, m.MentionedUserID)
		if _, ok := r.pairs[key]; ok {
			continue
		}
		r.seq++
		m.ID = r.seq
		r.pairs[key] = m
		inserted++
	}
	return inserted, nil
}

func (r *fakeMentionRepo) ListForComment(commentID uint) ([]models.Mention, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Mention
	for _, m := range r.pairs {
		if m.CommentID == commentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMentionRepo) DeleteForComment(commentID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key, m := range r.pairs {
		if m.CommentID == commentID {
			delete(r.pairs, key)
			count++
		}
	}
	return count, nil
}

// fakeChannel returns configured results in order, repeating the last one.
type fakeChannel struct {
	mu      sync.Mutex
	calls   int
	results []DeliveryResult
}

func (c *fakeChannel) Send(_ context.Context, _ *models.Notification, _ *models.User) DeliveryResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.calls
	c.calls++
	if idx >= len(c.results) {
		idx = len(c.results) - 1
	}
	if idx < 0 {
		return DeliveryResult{OK: true}
	}
	return c.results[idx]
}

func (c *fakeChannel) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// fakeNotifier records Create and AttemptDelivery calls so fan-out behaviour
// can be asserted without standing up the full delivery pipeline.
type fakeNotifier struct {
	mu            sync.Mutex
	nextID        uint
	created       map[uint][]*models.Notification
	delivered     int
	cleaned       int
	failCreateFor uint
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{created: make(map[uint][]*models.Notification)}
}

func (f *fakeNotifier) Create(userID uint, title, message string, notifType models.NotificationType, data map[string]string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateFor != 0 && userID == f.failCreateFor {
		return nil, errors.New("create failed")
	}
	f.nextID++
	n := &models.Notification{
		Model:   models.Model{ID: f.nextID},
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
		Status:  models.NotificationStatusPending,
		Data:    data,
	}
	f.created[userID] = append(f.created[userID], n)
	return n, nil
}

func (f *fakeNotifier) AttemptDelivery(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered++
	n.Status = models.NotificationStatusSent
	return nil
}

func (f *fakeNotifier) MarkRead(id, userID uint) (*models.Notification, error) { return nil, nil }
func (f *fakeNotifier) MarkAllRead(userID uint) (int64, error)                 { return 0, nil }
func (f *fakeNotifier) Delete(id, userID uint) error                           { return nil }
func (f *fakeNotifier) Cleanup(maxAgeDays int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned++
	return 0, nil
}
func (f *fakeNotifier) ListForUser(userID uint, page, pageSize int) ([]models.Notification, error) {
	return nil, nil
}
func (f *fakeNotifier) UnreadCount(userID uint) (int64, error) { return 0, nil }
func (f *fakeNotifier) SendTest(_ context.Context, _ *models.User) (*models.Notification, error) {
	return nil, nil
}

func (f *fakeNotifier) createdFor(userID uint) []*models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.Notification(nil), f.created[userID]...)
}

func (f *fakeNotifier) deliveries() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.delivered
}

func (f *fakeNotifier) cleanups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cleaned
}
