package models

import "fmt"

// User is the directory view the notification core needs: identity, contact
// address, active flag and notification preferences. Account management and
// authentication live elsewhere.
type User struct {
	Model
	FirstName     string                   `json:"first_name" binding:"required,min=2"`
	LastName      string                   `json:"last_name"`
	Email         string                   `json:"email" gorm:"unique;not null" binding:"required,email"`
	Active        bool                     `json:"active" gorm:"default:true"`
	Preferences   *NotificationPreferences `json:"preferences,omitempty" gorm:"foreignKey:UserID"`
	Notifications []Notification           `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
