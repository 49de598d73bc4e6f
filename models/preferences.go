package models

import "strings"

// NotificationPreferences holds the per-user reminder settings consulted by
// the reminder evaluator. ReminderTime is wall-clock "HH:MM"; ReminderDays is
// a comma-separated list of weekday names ("Monday,Tuesday,...").
type NotificationPreferences struct {
	Model
	UserID             uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	EmailNotifications bool   `json:"email_notifications" gorm:"default:true"`
	TimesheetReminders bool   `json:"timesheet_reminders" gorm:"default:true"`
	ReminderTime       string `json:"reminder_time" gorm:"default:'09:00'"`
	ReminderDays       string `json:"reminder_days" gorm:"default:'Monday,Tuesday,Wednesday,Thursday,Friday'"`
}

// ReminderDayList splits ReminderDays into trimmed weekday names.
func (p *NotificationPreferences) ReminderDayList() []string {
	if p.ReminderDays == "" {
		return nil
	}
	parts := strings.Split(p.ReminderDays, ",")
	days := make([]string, 0, len(parts))
	for _, part := range parts {
		if d := strings.TrimSpace(part); d != "" {
			days = append(days, d)
		}
	}
	return days
}

// RemindsOn reports whether the given weekday name is a configured reminder day.
func (p *NotificationPreferences) RemindsOn(weekday string) bool {
	for _, d := range p.ReminderDayList() {
		if strings.EqualFold(d, weekday) {
			return true
		}
	}
	return false
}
