package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clockwisehq/clockwise/config"
	"github.com/clockwisehq/clockwise/db"
	"github.com/clockwisehq/clockwise/metrics"
	"github.com/clockwisehq/clockwise/models"
)

// ReminderService evaluates per-user reminder rules and drives them on a
// fixed tick. The tick interval defaults to one minute so an exact "HH:MM"
// reminder time is always observed; an hourly sweep comparing against
// minute-granular preferences would skip most configured times.
type ReminderService interface {
	Start(ctx context.Context)
	Stop()
	RunSweep(ctx context.Context)
	EvaluateUser(ctx context.Context, user *models.User, now time.Time) (bool, error)
}

// reminderService struct
type reminderService struct {
	Config        *config.Config
	userRepo      db.UserRepository
	timesheetRepo db.TimesheetRepository
	notifications NotificationService
	log           *zap.Logger
	now           func() time.Time

	stopOnce    sync.Once
	stop        chan struct{}
	mu          sync.Mutex
	lastCleanup time.Time
}

// NewReminderService creates a new instance of ReminderService
func NewReminderService(
	userRepo db.UserRepository,
	timesheetRepo db.TimesheetRepository,
	notifications NotificationService,
	conf *config.Config,
	log *zap.Logger,
) ReminderService {
	return &reminderService{
		Config:        conf,
		userRepo:      userRepo,
		timesheetRepo: timesheetRepo,
		notifications: notifications,
		log:           log,
		now:           time.Now,
		stop:          make(chan struct{}),
	}
}

// Start runs one sweep immediately, then one per tick until the context is
// cancelled or Stop is called.
func (s *reminderService) Start(ctx context.Context) {
	interval := time.Duration(s.Config.ReminderInterval) * time.Minute
	if interval < time.Minute {
		interval = time.Minute
	}

	go func() {
		s.RunSweep(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.RunSweep(ctx)
			}
		}
	}()
}

func (s *reminderService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// RunSweep loads every active user with preferences and evaluates each one
// through the bounded pool. Evaluation errors are logged per user and never
// abort the sweep. Once a day the sweep also runs the retention cleanup.
func (s *reminderService) RunSweep(ctx context.Context) {
	now := s.now()

	users, err := s.userRepo.FindActiveUsersWithPreferences()
	if err != nil {
		s.log.Error("loading users for reminder sweep failed", zap.Error(err))
		return
	}

	pool := newWorkerPool(s.Config.NotificationWorkers, s.log)
	for i := range users {
		user := users[i]
		pool.Submit(func() {
			if _, err := s.EvaluateUser(ctx, &user, now); err != nil {
				s.log.Error("reminder evaluation failed",
					zap.Uint("user_id", user.ID),
					zap.Error(err))
			}
		})
	}
	pool.Wait()

	s.maybeCleanup(now)
}

// EvaluateUser applies the reminder rules for one user at the given instant
// and, when all of them pass, creates and delivers the reminder. Returns
// whether a reminder was triggered.
func (s *reminderService) EvaluateUser(ctx context.Context, user *models.User, now time.Time) (bool, error) {
	prefs := user.Preferences
	if prefs == nil || !prefs.TimesheetReminders || !prefs.EmailNotifications {
		return false, nil
	}
	if !prefs.RemindsOn(now.Weekday().String()) {
		return false, nil
	}
	if now.Format("15:04") != prefs.ReminderTime {
		return false, nil
	}

	// Dedup rule: a logged entry for today wins over the schedule match.
	hasEntry, err := s.timesheetRepo.HasEntryForDate(user.ID, now)
	if err != nil {
		return false, err
	}
	if hasEntry {
		return false, nil
	}

	data := map[string]string{
		"template":      "timesheet_reminder",
		"timesheet_url": s.Config.BaseUrl + "/timesheets",
		"date":          now.Format("2006-01-02"),
	}
	n, err := s.notifications.Create(user.ID, "Timesheet reminder",
		"You haven't logged any hours today yet.",
		models.NotificationTypeEmail, data)
	if err != nil {
		return false, err
	}
	metrics.RemindersTriggered.Inc()

	if err := s.notifications.AttemptDelivery(ctx, n); err != nil {
		return true, err
	}
	return true, nil
}

func (s *reminderService) maybeCleanup(now time.Time) {
	s.mu.Lock()
	due := now.Sub(s.lastCleanup) >= 24*time.Hour
	if due {
		s.lastCleanup = now
	}
	s.mu.Unlock()
	if !due {
		return
	}

	if _, err := s.notifications.Cleanup(s.Config.RetentionDays); err != nil {
		s.log.Error("retention sweep failed", zap.Error(err))
	}
}
