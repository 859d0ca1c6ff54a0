package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/motivatr/internal/storage"
	"github.com/fyrsmithlabs/motivatr/internal/task"
)

func newRepo(t *testing.T) *task.Repository {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	return task.NewRepository(db)
}

func newTask(owner string, status task.Status) *task.Task {
	return &task.Task{
		ID:         uuid.NewString(),
		Title:      "write report",
		Priority:   task.PriorityLow,
		Status:     status,
		Tags:       []string{"work"},
		OwnerEmail: owner,
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created := newTask("a@b.com", task.StatusTodo)
	created.Tags = []string{"work", "urgent"}
	require.NoError(t, repo.Create(ctx, created))

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "write report", got.Title)
	assert.Equal(t, task.StatusTodo, got.Status)
	assert.Equal(t, []string{"work", "urgent"}, got.Tags)
	assert.False(t, got.Reminded)
}

func TestRepositoryFindByIDNotFound(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestRepositoryFindAllOwnerFilter(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTask("a@b.com", task.StatusTodo)))
	require.NoError(t, repo.Create(ctx, newTask("a@b.com", task.StatusIdeas)))
	require.NoError(t, repo.Create(ctx, newTask("c@d.com", task.StatusTodo)))

	all, err := repo.FindAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := repo.FindAll(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, got := range mine {
		assert.Equal(t, "a@b.com", got.OwnerEmail)
	}
}

func TestRepositoryDeleteTwiceReportsNotFound(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created := newTask("a@b.com", task.StatusTodo)
	require.NoError(t, repo.Create(ctx, created))

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), task.ErrNotFound)
}

func TestRepositoryFindDueBetween(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now()

	due := func(offset time.Duration, reminded bool) *task.Task {
		tk := newTask("a@b.com", task.StatusTodo)
		d := now.Add(offset)
		tk.DueDate = &d
		tk.Reminded = reminded
		return tk
	}

	inWindow := due(30*time.Second, false)
	alreadySent := due(30*time.Second, true)
	farFuture := due(time.Hour, false)
	longPast := due(-time.Hour, false)
	recentlyMissed := due(-30*time.Second, false)
	noDueDate := newTask("a@b.com", task.StatusTodo)

	for _, tk := range []*task.Task{inWindow, alreadySent, farFuture, longPast, recentlyMissed, noDueDate} {
		require.NoError(t, repo.Create(ctx, tk))
	}

	// Sweep window: one period back (retry grace) to one period forward.
	got, err := repo.FindDueBetween(ctx, now.Add(-time.Minute), now.Add(time.Minute))
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, tk := range got {
		ids = append(ids, tk.ID)
	}
	assert.ElementsMatch(t, []string{inWindow.ID, recentlyMissed.ID}, ids)
}

func TestRepositoryMarkReminded(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now()

	tk := newTask("a@b.com", task.StatusTodo)
	d := now.Add(20 * time.Second)
	tk.DueDate = &d
	require.NoError(t, repo.Create(ctx, tk))

	require.NoError(t, repo.MarkReminded(ctx, tk.ID))

	// Once sent, the task never matches the sweep again.
	got, err := repo.FindDueBetween(ctx, now.Add(-time.Minute), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.ErrorIs(t, repo.MarkReminded(ctx, "missing"), task.ErrNotFound)
}

func TestRepositoryHasCompletionSince(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	fresh := newTask("a@b.com", task.StatusCompleted)
	fresh.CompletedAt = &now
	require.NoError(t, repo.Create(ctx, fresh))

	yesterday := now.AddDate(0, 0, -1)
	stale := newTask("a@b.com", task.StatusCompleted)
	stale.CompletedAt = &yesterday
	require.NoError(t, repo.Create(ctx, stale))

	has, err := repo.HasCompletionSince(ctx, "a@b.com", todayStart, "other-id")
	require.NoError(t, err)
	assert.True(t, has)

	// Excluding the only completion of the day reports false.
	has, err = repo.HasCompletionSince(ctx, "a@b.com", todayStart, fresh.ID)
	require.NoError(t, err)
	assert.False(t, has)

	has, err = repo.HasCompletionSince(ctx, "nobody@b.com", todayStart, "other-id")
	require.NoError(t, err)
	assert.False(t, has)
}
