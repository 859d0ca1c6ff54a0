package httpapi_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/motivatr/internal/config"
	"github.com/fyrsmithlabs/motivatr/internal/httpapi"
	"github.com/fyrsmithlabs/motivatr/internal/storage"
	"github.com/fyrsmithlabs/motivatr/internal/streak"
	"github.com/fyrsmithlabs/motivatr/internal/task"
	"github.com/fyrsmithlabs/motivatr/internal/user"
)

func newTestServer(t *testing.T) *httpapi.Server {
	t.Helper()

	db, err := storage.Open(":memory:")
	require.NoError(t, err)

	userRepo := user.NewRepository(db)
	streakSvc := streak.NewService(userRepo, nil)
	taskSvc := task.NewService(task.NewRepository(db), streakSvc, nil, nil)
	userSvc := user.NewService(userRepo, config.AuthConfig{
		JWTSecret: config.Secret("test-secret"),
		TokenTTL:  config.Duration(time.Hour),
		Issuer:    "motivatrd-test",
	}, nil)

	srv, err := httpapi.NewServer(config.ServerConfig{Host: "localhost", Port: 0}, taskSvc, streakSvc, userSvc, nil)
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *httpapi.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echoContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

const echoContentType = "Content-Type"

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func signup(t *testing.T, srv *httpapi.Server, email string) {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/signup",
		fmt.Sprintf(`{"name":"Ada","email":%q,"password":"s3cret"}`, email))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[httpapi.HealthResponse](t, rec)
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "motivatrd", got.Service)
}

func TestCreateAndListTasks(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/tasks",
		`{"title":"write report","status":"todo","userEmail":"a@b.com","tags":["work"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[task.Task](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, task.PriorityLow, created.Priority, "priority defaults to low")

	rec = do(t, srv, http.MethodPost, "/api/tasks",
		`{"title":"other owner","status":"ideas","userEmail":"c@d.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]task.Task](t, rec), 2)

	rec = do(t, srv, http.MethodGet, "/api/tasks?owner=a@b.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]task.Task](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, "write report", mine[0].Title)
}

func TestCreateTaskValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"status":"todo","userEmail":"a@b.com"}`},
		{"bad status", `{"title":"x","status":"soon","userEmail":"a@b.com"}`},
		{"bad priority", `{"title":"x","status":"todo","priority":"urgent","userEmail":"a@b.com"}`},
		{"missing owner", `{"title":"x","status":"todo"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[httpapi.ErrorResponse](t, rec).Error)
		})
	}
}

func TestUpdateTaskCompletionAdvancesStreak(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "a@b.com")

	rec := do(t, srv, http.MethodPost, "/api/tasks",
		`{"title":"write report","status":"todo","userEmail":"a@b.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[task.Task](t, rec)

	rec = do(t, srv, http.MethodPut, "/api/tasks/"+created.ID, `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[task.Task](t, rec)
	assert.Equal(t, task.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	rec = do(t, srv, http.MethodGet, "/api/users/a@b.com/streak", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[streak.Data](t, rec)
	assert.Equal(t, 1, data.Current)
	assert.Equal(t, 1, data.Longest)
	assert.True(t, data.WeeklyProgress[time.Now().Weekday()])
}

func TestUpdateTaskNotFound(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodPut, "/api/tasks/missing", `{"status":"todo"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTask(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/tasks",
		`{"title":"x","status":"todo","userEmail":"a@b.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[task.Task](t, rec)

	rec = do(t, srv, http.MethodDelete, "/api/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[httpapi.SuccessResponse](t, rec).Success)

	rec = do(t, srv, http.MethodDelete, "/api/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStreakEndpoints(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "a@b.com")

	rec := do(t, srv, http.MethodGet, "/api/users/a@b.com/streak", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode[streak.Data](t, rec)
	assert.Zero(t, data.Current)

	rec = do(t, srv, http.MethodPost, "/api/users/a@b.com/streak",
		`{"currentStreak":3,"longestStreak":5,"lastActiveDate":"2026-03-01T00:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/users/a@b.com/streak", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data = decode[streak.Data](t, rec)
	assert.Equal(t, 3, data.Current)
	assert.Equal(t, 5, data.Longest)

	// A sync cannot lower the longest-streak high-water mark.
	rec = do(t, srv, http.MethodPost, "/api/users/a@b.com/streak",
		`{"currentStreak":1,"longestStreak":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/users/a@b.com/streak", "")
	data = decode[streak.Data](t, rec)
	assert.Equal(t, 1, data.Current)
	assert.Equal(t, 5, data.Longest)
}

func TestStreakUnknownUser(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/api/users/nobody@b.com/streak", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSignupAndLoginFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/signup",
		`{"name":"Ada","email":"ada@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[httpapi.AuthResponse](t, rec)
	require.NotNil(t, created.User)
	assert.Equal(t, "ada@example.com", created.User.Email)
	assert.NotContains(t, rec.Body.String(), "s3cret", "password never appears in responses")

	rec = do(t, srv, http.MethodPost, "/api/signup",
		`{"name":"Imposter","email":"ada@example.com","password":"other"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/login",
		`{"email":"ada@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	logged := decode[httpapi.AuthResponse](t, rec)
	assert.NotEmpty(t, logged.Token)

	rec = do(t, srv, http.MethodPost, "/api/login",
		`{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown users are indistinguishable from wrong passwords.
	rec = do(t, srv, http.MethodPost, "/api/login",
		`{"email":"nobody@example.com","password":"whatever"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
