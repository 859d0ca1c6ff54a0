// Package events publishes task lifecycle events over NATS.
//
// The bus runs either against an external NATS server or an embedded
// in-process one, so single-binary deployments get events without extra
// infrastructure.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/motivatr/internal/config"
	"github.com/fyrsmithlabs/motivatr/internal/task"
)

// Subjects carried by the bus. Task events append the event name, e.g.
// motivatr.tasks.completed.
const (
	SubjectTasksPrefix = "motivatr.tasks."
	SubjectReminders   = "motivatr.reminders.due"
)

const serverStartTimeout = 5 * time.Second

// TaskEvent is the JSON envelope published for every task mutation.
type TaskEvent struct {
	Event string     `json:"event"`
	Task  *task.Task `json:"task"`
	At    time.Time  `json:"at"`
}

// ReminderEvent is published when a reminder fires for a due task.
type ReminderEvent struct {
	TaskID     string    `json:"taskId"`
	Title      string    `json:"title"`
	OwnerEmail string    `json:"userEmail"`
	DueDate    time.Time `json:"dueDate"`
	At         time.Time `json:"at"`
}

// Bus is a NATS-backed event publisher.
type Bus struct {
	srv    *natsserver.Server
	nc     *nats.Conn
	logger *zap.Logger
}

// New connects the bus according to cfg. With cfg.Embedded it starts an
// in-process NATS server on a random port and connects to that.
func New(cfg config.EventsConfig, logger *zap.Logger) (*Bus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Bus{logger: logger}

	url := cfg.URL
	if cfg.Embedded {
		srv, err := natsserver.NewServer(&natsserver.Options{
			Host:   "127.0.0.1",
			Port:   -1, // random port
			NoLog:  true,
			NoSigs: true,
		})
		if err != nil {
			return nil, fmt.Errorf("creating embedded nats server: %w", err)
		}
		go srv.Start()
		if !srv.ReadyForConnections(serverStartTimeout) {
			srv.Shutdown()
			return nil, fmt.Errorf("embedded nats server not ready after %s", serverStartTimeout)
		}
		b.srv = srv
		url = srv.ClientURL()
		logger.Info("embedded nats server started", zap.String("url", url))
	}

	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		b.shutdownServer()
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	b.nc = nc

	logger.Info("event bus connected", zap.String("url", url))
	return b, nil
}

// PublishTask publishes a task lifecycle event (created, updated, completed,
// deleted).
func (b *Bus) PublishTask(event string, t *task.Task) error {
	data, err := json.Marshal(TaskEvent{Event: event, Task: t, At: time.Now()})
	if err != nil {
		return fmt.Errorf("marshaling task event: %w", err)
	}
	if err := b.nc.Publish(SubjectTasksPrefix+event, data); err != nil {
		return fmt.Errorf("publishing task event: %w", err)
	}
	return nil
}

// PublishReminder publishes a reminder-sent event for a due task.
func (b *Bus) PublishReminder(t *task.Task) error {
	ev := ReminderEvent{
		TaskID:     t.ID,
		Title:      t.Title,
		OwnerEmail: t.OwnerEmail,
		At:         time.Now(),
	}
	if t.DueDate != nil {
		ev.DueDate = *t.DueDate
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling reminder event: %w", err)
	}
	if err := b.nc.Publish(SubjectReminders, data); err != nil {
		return fmt.Errorf("publishing reminder event: %w", err)
	}
	return nil
}

// SubscribeTasks delivers every task event to handler. The caller owns the
// returned subscription and unsubscribes when done.
func (b *Bus) SubscribeTasks(handler func(TaskEvent)) (*nats.Subscription, error) {
	sub, err := b.nc.Subscribe(SubjectTasksPrefix+">", func(msg *nats.Msg) {
		var ev TaskEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			b.logger.Warn("dropping malformed task event", zap.Error(err))
			return
		}
		handler(ev)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to task events: %w", err)
	}
	return sub, nil
}

// Close drains the connection and stops the embedded server if one is running.
func (b *Bus) Close() {
	if b.nc != nil {
		if err := b.nc.Drain(); err != nil {
			b.logger.Warn("nats drain failed", zap.Error(err))
		}
	}
	b.shutdownServer()
}

func (b *Bus) shutdownServer() {
	if b.srv != nil {
		b.srv.Shutdown()
		b.srv.WaitForShutdown()
	}
}
