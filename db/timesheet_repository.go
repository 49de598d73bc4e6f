package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/clockwisehq/clockwise/models"
)

// TimesheetRepository answers the one question the reminder evaluator asks:
// has this user logged any time for a given date.
type TimesheetRepository interface {
	HasEntryForDate(userID uint, date time.Time) (bool, error)
}

// timesheetRepo struct
type timesheetRepo struct {
	DB *gorm.DB
}

// NewTimesheetRepo creates a new instance of TimesheetRepository
func NewTimesheetRepo(db *GormDB) TimesheetRepository {
	return &timesheetRepo{db.DB}
}

func (r *timesheetRepo) HasEntryForDate(userID uint, date time.Time) (bool, error) {
	var count int64
	err := r.DB.Model(&models.TimeEntry{}).
		Where("user_id = ? AND entry_date = ?", userID, date.Format("2006-01-02")).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
