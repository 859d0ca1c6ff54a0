package streak

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// UserStore defines the user storage operations the streak service needs.
type UserStore interface {
	GetStreak(ctx context.Context, email string) (Data, error)
	UpdateStreak(ctx context.Context, email string, data Data) error
}

// Service applies the streak rule to stored users.
//
// All updates for one owner are serialized through a per-owner mutex, so two
// concurrent completions cannot both read the stale state and race the write.
type Service struct {
	users  UserStore
	logger *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a new streak service.
func NewService(users UserStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		users:  users,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// RecordCompletion advances the owner's streak for a completion at now.
//
// Calling it again the same day is a no-op: the engine treats a zero
// calendar-day difference as already counted.
func (s *Service) RecordCompletion(ctx context.Context, owner string, now time.Time) error {
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.users.GetStreak(ctx, owner)
	if err != nil {
		return err
	}

	if daysBetween(current.LastActiveDate, now) < 0 {
		s.logger.Warn("completion timestamp precedes last active date, treating as same day",
			zap.String("owner", owner),
			zap.Time("last_active", current.LastActiveDate),
			zap.Time("now", now))
	}

	next := Next(current, now)
	if next == current {
		return nil
	}

	if err := s.users.UpdateStreak(ctx, owner, next); err != nil {
		return err
	}

	s.logger.Info("streak updated",
		zap.String("owner", owner),
		zap.Int("current", next.Current),
		zap.Int("longest", next.Longest))
	return nil
}

// Get returns the owner's stored streak state.
func (s *Service) Get(ctx context.Context, owner string) (Data, error) {
	return s.users.GetStreak(ctx, owner)
}

// Put stores client-supplied streak state, rejecting values that violate the
// streak invariants. The endpoint exists for wire compatibility with clients
// that compute streaks locally; the server remains authoritative and will not
// let a sync lower the longest-streak high-water mark.
func (s *Service) Put(ctx context.Context, owner string, data Data) error {
	lock := s.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.users.GetStreak(ctx, owner)
	if err != nil {
		return err
	}

	if data.Current < 0 {
		data.Current = 0
	}
	if data.Longest < current.Longest {
		data.Longest = current.Longest
	}
	if data.Longest < data.Current {
		data.Longest = data.Current
	}

	return s.users.UpdateStreak(ctx, owner, data)
}

func (s *Service) ownerLock(owner string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[owner]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[owner] = lock
	}
	return lock
}
