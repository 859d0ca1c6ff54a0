package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store defines the storage operations the lifecycle service needs.
//
// Implemented by Repository; the interface exists so tests can substitute
// failing stores.
type Store interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	FindAll(ctx context.Context, owner string) ([]*Task, error)
	Save(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
	HasCompletionSince(ctx context.Context, owner string, since time.Time, excludeID string) (bool, error)
}

// StreakRecorder records a completion toward the owner's streak.
type StreakRecorder interface {
	RecordCompletion(ctx context.Context, owner string, now time.Time) error
}

// Publisher publishes task lifecycle events. Publish failures never fail the
// operation that produced them.
type Publisher interface {
	PublishTask(event string, t *Task) error
}

// Service implements the task lifecycle: CRUD plus the completion transition
// that feeds the streak engine at most once per owner per calendar day.
type Service struct {
	store   Store
	streaks StreakRecorder
	events  Publisher
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a new task lifecycle service.
//
// streaks and events may be nil; completion recording and event publishing
// are then skipped.
func NewService(store Store, streaks StreakRecorder, events Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		streaks: streaks,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// List returns all tasks, optionally restricted to one owner.
func (s *Service) List(ctx context.Context, owner string) ([]*Task, error) {
	return s.store.FindAll(ctx, owner)
}

// Get returns a single task by ID.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	return s.store.FindByID(ctx, id)
}

// Create validates and stores a new task, assigning its ID and creation time.
//
// A task created directly in the completed column counts as a completion,
// same as a transition via Update.
func (s *Service) Create(ctx context.Context, t *Task) (*Task, error) {
	if t.Priority == "" {
		t.Priority = PriorityLow
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.Reminded = false

	completed := t.Status == StatusCompleted
	if completed {
		t.CompletedAt = &now
	}

	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}

	s.publish("created", t)
	if completed {
		s.recordCompletion(ctx, t, now)
	}
	return t, nil
}

// Update merges the patch into the stored task.
//
// A merge that moves status into completed sets CompletedAt and records the
// completion toward the owner's streak, but only if this is the owner's first
// completion of the calendar day. CompletedAt is never cleared on leaving the
// completed column.
func (s *Service) Update(ctx context.Context, id string, patch *Patch) (*Task, error) {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := t.Status == StatusCompleted
	patch.Apply(t)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	nowCompleted := t.Status == StatusCompleted && !wasCompleted
	if nowCompleted {
		t.CompletedAt = &now
	}

	if err := s.store.Save(ctx, t); err != nil {
		return nil, err
	}

	if nowCompleted {
		s.publish("completed", t)
		s.recordCompletion(ctx, t, now)
	} else {
		s.publish("updated", t)
	}
	return t, nil
}

// Delete removes a task. Deleting an absent ID reports ErrNotFound, including
// the second delete of the same task.
func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish("deleted", t)
	return nil
}

// recordCompletion forwards a completion to the streak recorder if it is the
// owner's first of the day. Streak failures are logged, never fatal to the
// task mutation that triggered them.
func (s *Service) recordCompletion(ctx context.Context, t *Task, now time.Time) {
	if s.streaks == nil {
		return
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	already, err := s.store.HasCompletionSince(ctx, t.OwnerEmail, todayStart, t.ID)
	if err != nil {
		s.logger.Error("completion check failed, skipping streak update",
			zap.String("owner", t.OwnerEmail), zap.Error(err))
		return
	}
	if already {
		return
	}

	if err := s.streaks.RecordCompletion(ctx, t.OwnerEmail, now); err != nil {
		s.logger.Error("streak update failed",
			zap.String("owner", t.OwnerEmail), zap.Error(err))
	}
}

func (s *Service) publish(event string, t *Task) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishTask(event, t); err != nil {
		s.logger.Warn("task event publish failed",
			zap.String("event", event), zap.String("task_id", t.ID), zap.Error(err))
	}
}
