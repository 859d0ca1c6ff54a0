package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/motivatr/internal/streak"
	"github.com/fyrsmithlabs/motivatr/internal/task"
	"github.com/fyrsmithlabs/motivatr/internal/user"
)

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// SuccessResponse is the response body for mutations without a payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SignupRequest is the request body for POST /api/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

// LoginRequest is the request body for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the response body for signup and login.
type AuthResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token,omitempty"`
	User    *user.User `json:"user"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Service: "motivatrd"})
}

func (s *Server) handleListTasks(c echo.Context) error {
	tasks, err := s.tasks.List(c.Request().Context(), c.QueryParam("owner"))
	if err != nil {
		return s.fail(c, err)
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleGetTask(c echo.Context) error {
	t, err := s.tasks.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var t task.Task
	if err := c.Bind(&t); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	created, err := s.tasks.Create(c.Request().Context(), &t)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var patch task.Patch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	updated, err := s.tasks.Update(c.Request().Context(), c.Param("id"), &patch)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.tasks.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleGetStreak(c echo.Context) error {
	data, err := s.streaks.Get(c.Request().Context(), c.Param("email"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func (s *Server) handlePutStreak(c echo.Context) error {
	var data streak.Data
	if err := c.Bind(&data); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	if err := s.streaks.Put(c.Request().Context(), c.Param("email"), data); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func (s *Server) handleSignup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	u, err := s.users.Signup(c.Request().Context(), req.Name, req.Email, req.Password, req.Avatar)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, AuthResponse{Message: "user created", User: u})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	u, token, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// A missing user and a wrong password look the same to the caller.
		if errors.Is(err, user.ErrNotFound) {
			err = user.ErrInvalidCredentials
		}
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, AuthResponse{Message: "login successful", Token: token, User: u})
}

// fail maps a service error to its HTTP status and JSON error body.
func (s *Server) fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, task.ErrNotFound), errors.Is(err, user.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, task.ErrEmptyTitle),
		errors.Is(err, task.ErrEmptyOwner),
		errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, task.ErrInvalidPriority),
		errors.Is(err, user.ErrEmptyEmail),
		errors.Is(err, user.ErrEmptyPassword):
		status = http.StatusBadRequest
	case errors.Is(err, user.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
		return c.JSON(status, ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(status, ErrorResponse{Error: err.Error()})
}
