package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fyrsmithlabs/motivatr/internal/streak"
)

// Repository provides access to user storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new user. ErrAlreadyExists if the email is taken.
func (r *Repository) Create(ctx context.Context, u *User) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return ErrAlreadyExists
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

// GetStreak returns the streak subset of the user record.
func (r *Repository) GetStreak(ctx context.Context, email string) (streak.Data, error) {
	u, err := r.FindByEmail(ctx, email)
	if err != nil {
		return streak.Data{}, err
	}
	return streak.Data{
		Current:        u.CurrentStreak,
		Longest:        u.LongestStreak,
		LastActiveDate: u.LastActiveDate,
		WeeklyProgress: u.WeeklyProgress,
	}, nil
}

// UpdateStreak persists new streak state for the user.
func (r *Repository) UpdateStreak(ctx context.Context, email string, data streak.Data) error {
	fields := User{
		CurrentStreak:  data.Current,
		LongestStreak:  data.Longest,
		LastActiveDate: data.LastActiveDate,
		WeeklyProgress: data.WeeklyProgress,
	}
	result := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", email).
		Select("current_streak", "longest_streak", "last_active_date", "weekly_progress").
		Updates(fields)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update streak: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
