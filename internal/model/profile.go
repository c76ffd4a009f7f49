package model

import "time"

// ProfileRole distinguishes the host from cleaning collaborators.
type ProfileRole string

const (
	RoleHost    ProfileRole = "HOST"
	RoleCleaner ProfileRole = "CLEANER"
)

// Profile is a local user profile of the application.
type Profile struct {
	ID          string      `gorm:"primaryKey;size:64" json:"id"`
	Name        string      `gorm:"size:256;not null" json:"name"`
	Email       string      `gorm:"size:256" json:"email"`
	Role        ProfileRole `gorm:"size:16;not null" json:"role"`
	Phone       string      `gorm:"size:32" json:"phone"`
	Address     string      `gorm:"size:512" json:"address"`
	PhotoURL    string      `json:"photoUrl"`
	Preferences string      `json:"preferences"`
	CreatedAt   time.Time   `json:"-"`
	UpdatedAt   time.Time   `json:"-"`
}
