// Package reminder sweeps for tasks coming due and notifies their owners.
package reminder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/motivatr/internal/task"
)

// Store defines the storage operations the scheduler needs.
type Store interface {
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*task.Task, error)
	MarkReminded(ctx context.Context, id string) error
}

// Publisher announces a delivered reminder on the event bus.
type Publisher interface {
	PublishReminder(t *task.Task) error
}

// Scheduler periodically scans for tasks due within one sweep interval and
// delivers a single reminder per task.
//
// The scan window reaches one interval into the past as well, so a task whose
// delivery failed on the previous sweep gets retried before falling out of
// the window. The reminded flag is only set after a successful delivery.
type Scheduler struct {
	store    Store
	notifier Notifier
	events   Publisher
	interval time.Duration
	logger   *zap.Logger
	metrics  *Metrics
	now      func() time.Time
}

// New creates a reminder scheduler. events may be nil.
func New(store Store, notifier Notifier, events Publisher, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		store:    store,
		notifier: notifier,
		events:   events,
		interval: interval,
		logger:   logger,
		metrics:  NewMetrics(),
		now:      time.Now,
	}
}

// Run sweeps once per interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("reminder scheduler started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one scan: find unsent tasks due within the window, notify each
// owner, and mark delivered tasks so they never match again. One failing task
// does not block the rest of the batch.
func (s *Scheduler) Sweep(ctx context.Context) {
	start := s.now()
	s.metrics.SweepsTotal.Inc()
	defer func() {
		s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	due, err := s.store.FindDueBetween(ctx, start.Add(-s.interval), start.Add(s.interval))
	if err != nil {
		s.logger.Error("reminder sweep query failed", zap.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}
	s.metrics.TasksDueTotal.Add(float64(len(due)))

	for _, t := range due {
		if err := s.notifier.Notify(ctx, t); err != nil {
			s.metrics.SendFailuresTotal.Inc()
			s.logger.Error("reminder delivery failed",
				zap.String("task_id", t.ID), zap.String("owner", t.OwnerEmail), zap.Error(err))
			continue
		}

		if err := s.store.MarkReminded(ctx, t.ID); err != nil {
			// The task may be reminded twice on the next sweep; preferable to
			// never reminding at all.
			s.logger.Error("marking task reminded failed",
				zap.String("task_id", t.ID), zap.Error(err))
		}
		s.metrics.RemindersSentTotal.Inc()

		if s.events != nil {
			if err := s.events.PublishReminder(t); err != nil {
				s.logger.Warn("reminder event publish failed",
					zap.String("task_id", t.ID), zap.Error(err))
			}
		}
	}
}
