package db

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/clockwisehq/clockwise/models"
)

// UserRepository is the directory lookup surface the notification core
// consumes. User CRUD itself is owned by the account side of the app.
type UserRepository interface {
	FindUserByID(id uint) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	FindActiveUsersWithPreferences() ([]models.User, error)
	SearchActiveUsers(term string, limit int) ([]models.User, error)
}

// userRepo struct
type userRepo struct {
	DB *gorm.DB
}

// NewUserRepo creates a new instance of UserRepository
func NewUserRepo(db *GormDB) UserRepository {
	return &userRepo{db.DB}
}

func (r *userRepo) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.Preload("Preferences").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindActiveUsersWithPreferences() ([]models.User, error) {
	var users []models.User
	err := r.DB.Preload("Preferences").
		Where("active = ?", true).
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "loading active users")
	}
	return users, nil
}

func (r *userRepo) SearchActiveUsers(term string, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 5
	}
	like := "%" + strings.ToLower(term) + "%"

	var users []models.User
	err := r.DB.Where("active = ?", true).
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrapf(err, "searching users for %q", term)
	}
	return users, nil
}
