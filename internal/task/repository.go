package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository provides access to task storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task.
func (r *Repository) Create(ctx context.Context, t *Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindAll retrieves all tasks, optionally restricted to one owner.
// Order is storage order; callers that need a particular order sort themselves.
func (r *Repository) FindAll(ctx context.Context, owner string) ([]*Task, error) {
	var tasks []*Task
	q := r.db.WithContext(ctx)
	if owner != "" {
		q = q.Where("owner_email = ?", owner)
	}
	if err := q.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Save persists the full record of an existing task.
func (r *Repository) Save(ctx context.Context, t *Task) error {
	result := r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", t.ID).Select("*").
		Omit("id", "created_at").Updates(t)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by ID. A second delete of the same ID reports ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindDueBetween retrieves unreminded tasks whose due date falls in (from, to).
// Used by the reminder sweep; the open lower bound lets a failed send from a
// previous tick be retried until the due time has fully elapsed.
func (r *Repository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*Task, error) {
	var tasks []*Task
	err := r.db.WithContext(ctx).
		Where("reminded = ? AND due_date > ? AND due_date < ?", false, from, to).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}
	return tasks, nil
}

// MarkReminded flips the reminded flag for a task.
func (r *Repository) MarkReminded(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&Task{}).Where("id = ?", id).Update("reminded", true)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to mark task reminded: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasCompletionSince reports whether the owner has a completed task (other
// than excludeID) with a completion timestamp at or after since.
func (r *Repository) HasCompletionSince(ctx context.Context, owner string, since time.Time, excludeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Task{}).
		Where("owner_email = ? AND status = ? AND completed_at >= ? AND id <> ?",
			owner, StatusCompleted, since, excludeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count completions: %w", err)
	}
	return count > 0, nil
}
