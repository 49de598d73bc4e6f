package models

import "time"

// TimeEntry is a single logged block of work. Timesheet CRUD is handled by
// the tracking side of the application; the notification core only checks
// whether an entry exists for a user on a given date.
type TimeEntry struct {
	Model
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	ProjectID uint      `json:"project_id" gorm:"index"`
	EntryDate time.Time `json:"entry_date" gorm:"type:date;index:idx_time_entries_user_date"`
	Hours     float64   `json:"hours"`
	Note      string    `json:"note"`
}
