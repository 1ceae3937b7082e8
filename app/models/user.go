package models

import "time"

// User is an admin account for the catalog backoffice.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Username  string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
