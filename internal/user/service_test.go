package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/motivatr/internal/config"
	"github.com/fyrsmithlabs/motivatr/internal/storage"
	"github.com/fyrsmithlabs/motivatr/internal/streak"
	"github.com/fyrsmithlabs/motivatr/internal/user"
)

func newService(t *testing.T) (*user.Service, *user.Repository) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	repo := user.NewRepository(db)
	cfg := config.AuthConfig{
		JWTSecret: config.Secret("test-secret"),
		TokenTTL:  config.Duration(time.Hour),
		Issuer:    "motivatrd-test",
	}
	return user.NewService(repo, cfg, nil), repo
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ada", "ada@example.com", "s3cret", "")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.NotEqual(t, "s3cret", created.PasswordHash, "password must be stored hashed")
	assert.Zero(t, created.CurrentStreak)
	assert.Zero(t, created.LongestStreak)

	got, token, err := svc.Login(ctx, "ada@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestSignupNormalizesEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "  Ada@Example.COM ", "s3cret", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ada@example.com", "s3cret")
	assert.NoError(t, err)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@example.com", "s3cret", "")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Imposter", "ada@example.com", "other", "")
	assert.ErrorIs(t, err, user.ErrAlreadyExists)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "", "s3cret", "")
	assert.ErrorIs(t, err, user.ErrEmptyEmail)

	_, err = svc.Signup(ctx, "Ada", "ada@example.com", "", "")
	assert.ErrorIs(t, err, user.ErrEmptyPassword)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = svc.Signup(ctx, "Ada", "ada@example.com", "s3cret", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRepositoryStreakRoundTrip(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ada", "ada@example.com", "s3cret", "")
	require.NoError(t, err)

	want := streak.Data{
		Current:        4,
		Longest:        7,
		LastActiveDate: time.Date(2023, time.July, 5, 0, 0, 0, 0, time.UTC),
	}
	want.WeeklyProgress[time.Wednesday] = true

	require.NoError(t, repo.UpdateStreak(ctx, "ada@example.com", want))

	got, err := repo.GetStreak(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, want.Current, got.Current)
	assert.Equal(t, want.Longest, got.Longest)
	assert.Equal(t, want.WeeklyProgress, got.WeeklyProgress)
	assert.True(t, want.LastActiveDate.Equal(got.LastActiveDate))
}

func TestRepositoryUpdateStreakUnknownUser(t *testing.T) {
	_, repo := newService(t)
	err := repo.UpdateStreak(context.Background(), "nobody@example.com", streak.Data{Current: 1})
	assert.ErrorIs(t, err, user.ErrNotFound)
}
