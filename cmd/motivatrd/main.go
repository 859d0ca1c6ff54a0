// Motivatrd is the motivatr server daemon.
//
// It serves the task board REST API over SQLite storage, runs the due-task
// reminder sweep, and publishes lifecycle events over NATS (embedded by
// default).
//
// Usage:
//
//	# Start with defaults (config at ~/.config/motivatr/config.yaml if present)
//	motivatrd
//
//	# Explicit config file
//	motivatrd --config /etc/motivatr/config.yaml
//
//	# Configure via environment
//	MOTIVATR_SERVER_HTTP_PORT=8080 MOTIVATR_DATABASE_PATH=/var/lib/motivatr.db motivatrd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/motivatr/internal/config"
	"github.com/fyrsmithlabs/motivatr/internal/events"
	"github.com/fyrsmithlabs/motivatr/internal/httpapi"
	"github.com/fyrsmithlabs/motivatr/internal/logging"
	"github.com/fyrsmithlabs/motivatr/internal/reminder"
	"github.com/fyrsmithlabs/motivatr/internal/storage"
	"github.com/fyrsmithlabs/motivatr/internal/streak"
	"github.com/fyrsmithlabs/motivatr/internal/task"
	"github.com/fyrsmithlabs/motivatr/internal/telemetry"
	"github.com/fyrsmithlabs/motivatr/internal/user"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("motivatrd\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("motivatrd: %v", err)
	}
}

// run wires the daemon and blocks until ctx is cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting motivatrd",
		zap.String("version", version),
		zap.String("commit", gitCommit))

	tel, err := telemetry.New(ctx, cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	logger.Info("storage ready", zap.String("path", cfg.Database.Path))

	var bus *events.Bus
	if cfg.Events.Enabled {
		bus, err = events.New(cfg.Events, logger.Named("events"))
		if err != nil {
			return fmt.Errorf("starting event bus: %w", err)
		}
		defer bus.Close()
	}

	taskRepo := task.NewRepository(db)
	userRepo := user.NewRepository(db)
	streakSvc := streak.NewService(userRepo, logger.Named("streak"))
	userSvc := user.NewService(userRepo, cfg.Auth, logger.Named("auth"))

	var publisher task.Publisher
	if bus != nil {
		publisher = bus
	}
	taskSvc := task.NewService(taskRepo, streakSvc, publisher, logger.Named("task"))

	if cfg.Reminder.Enabled {
		var notifier reminder.Notifier
		switch cfg.Reminder.Notifier {
		case "smtp":
			notifier = reminder.NewSMTPNotifier(cfg.Reminder.SMTP)
		default:
			notifier = reminder.NewLogNotifier(logger.Named("reminder"))
		}

		var reminderEvents reminder.Publisher
		if bus != nil {
			reminderEvents = bus
		}
		sched := reminder.New(taskRepo, notifier, reminderEvents,
			cfg.Reminder.Interval.Duration(), logger.Named("reminder"))
		go sched.Run(ctx)
	}

	srv, err := httpapi.NewServer(cfg.Server, taskSvc, streakSvc, userSvc, logger.Named("http"))
	if err != nil {
		return fmt.Errorf("creating http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
