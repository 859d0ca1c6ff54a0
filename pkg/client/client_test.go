package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasksFiltersByOwner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tasks", r.URL.Path)
		assert.Equal(t, "a@b.com", r.URL.Query().Get("owner"))
		json.NewEncoder(w).Encode([]Task{{ID: "t1", Title: "x", Status: StatusTodo, OwnerEmail: "a@b.com"}})
	}))
	defer srv.Close()

	tasks, err := New(srv.URL).ListTasks(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
}

func TestCreateTaskPostsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "write report", got.Title)

		got.ID = "assigned"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	created, err := New(srv.URL).CreateTask(context.Background(), &Task{
		Title: "write report", Status: StatusTodo, OwnerEmail: "a@b.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "assigned", created.ID)
}

func TestMoveTaskSendsStatusPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/tasks/t1", r.URL.Path)

		var patch map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		assert.Equal(t, map[string]any{"status": "completed"}, patch)

		json.NewEncoder(w).Encode(Task{ID: "t1", Status: StatusCompleted})
	}))
	defer srv.Close()

	moved, err := New(srv.URL).CompleteTask(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, moved.Status)
}

func TestErrorResponsesBecomeAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "task not found"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetTask(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "task not found", apiErr.Message)
}

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			json.NewEncoder(w).Encode(AuthResult{Token: "tok-123", User: &User{Email: "a@b.com"}})
		case "/api/tasks":
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode([]Task{})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Login(context.Background(), "a@b.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", res.Token)

	_, err = c.ListTasks(context.Background(), "")
	require.NoError(t, err)
}

func TestStreakRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/a@b.com/streak", r.URL.Path)
		json.NewEncoder(w).Encode(Streak{Current: 3, Longest: 5})
	}))
	defer srv.Close()

	s, err := New(srv.URL).Streak(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 5, s.Longest)
}
