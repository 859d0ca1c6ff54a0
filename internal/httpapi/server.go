// Package httpapi provides the REST API for motivatrd.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/motivatr/internal/config"
	"github.com/fyrsmithlabs/motivatr/internal/streak"
	"github.com/fyrsmithlabs/motivatr/internal/task"
	"github.com/fyrsmithlabs/motivatr/internal/user"
)

// TaskService is the task lifecycle surface exposed over HTTP.
type TaskService interface {
	List(ctx context.Context, owner string) ([]*task.Task, error)
	Get(ctx context.Context, id string) (*task.Task, error)
	Create(ctx context.Context, t *task.Task) (*task.Task, error)
	Update(ctx context.Context, id string, patch *task.Patch) (*task.Task, error)
	Delete(ctx context.Context, id string) error
}

// StreakService is the streak surface exposed over HTTP.
type StreakService interface {
	Get(ctx context.Context, owner string) (streak.Data, error)
	Put(ctx context.Context, owner string, data streak.Data) error
}

// UserService is the auth surface exposed over HTTP.
type UserService interface {
	Signup(ctx context.Context, name, email, password, avatar string) (*user.User, error)
	Login(ctx context.Context, email, password string) (*user.User, string, error)
}

// Server serves the motivatr REST API.
type Server struct {
	echo    *echo.Echo
	cfg     config.ServerConfig
	tasks   TaskService
	streaks StreakService
	users   UserService
	logger  *zap.Logger
}

// NewServer creates the API server with all middleware and routes registered.
func NewServer(cfg config.ServerConfig, tasks TaskService, streaks StreakService, users UserService, logger *zap.Logger) (*Server, error) {
	if tasks == nil || streaks == nil || users == nil {
		return nil, fmt.Errorf("task, streak, and user services are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		}))
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})
	e.Use(NewHTTPMetrics(logger).Middleware())

	s := &Server{
		echo:    e,
		cfg:     cfg,
		tasks:   tasks,
		streaks: streaks,
		users:   users,
		logger:  logger,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.GET("/tasks", s.handleListTasks)
	api.POST("/tasks", s.handleCreateTask)
	api.GET("/tasks/:id", s.handleGetTask)
	api.PUT("/tasks/:id", s.handleUpdateTask)
	api.DELETE("/tasks/:id", s.handleDeleteTask)

	api.GET("/users/:email/streak", s.handleGetStreak)
	api.POST("/users/:email/streak", s.handlePutStreak)

	api.POST("/signup", s.handleSignup)
	api.POST("/login", s.handleLogin)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// ServeHTTP dispatches to the echo router. Exposed for in-process tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
