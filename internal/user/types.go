// Package user implements the user store: one record per email carrying the
// credential hash and the streak counters the streak engine maintains.
package user

import (
	"errors"
	"time"
)

// User is a single user record, keyed by email.
//
// LongestStreak is a high-water mark and never drops below CurrentStreak.
// Streak fields are mutated only through the streak service. Users are never
// deleted in-app.
type User struct {
	Email          string    `gorm:"primarykey;size:254" json:"email"`
	Name           string    `gorm:"size:100" json:"name"`
	PasswordHash   string    `gorm:"size:100;not null" json:"-"`
	Avatar         string    `gorm:"size:500" json:"avatar,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"-"`
	CurrentStreak  int       `gorm:"not null;default:0" json:"currentStreak"`
	LongestStreak  int       `gorm:"not null;default:0" json:"longestStreak"`
	LastActiveDate time.Time `json:"lastActiveDate"`
	WeeklyProgress [7]bool   `gorm:"serializer:json" json:"weeklyProgress"`
}

// TableName returns the table name for the User model.
func (User) TableName() string {
	return "users"
}

var (
	ErrNotFound           = errors.New("user not found")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyEmail         = errors.New("email is required")
	ErrEmptyPassword      = errors.New("password is required")
)
