package reminder

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/motivatr/internal/config"
	"github.com/fyrsmithlabs/motivatr/internal/task"
)

// Notifier delivers a reminder for a due task to its owner.
type Notifier interface {
	Notify(ctx context.Context, t *task.Task) error
}

// LogNotifier writes reminders to the log. It is the default notifier and the
// fallback for deployments without outbound mail.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs each reminder.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the reminder at info level.
func (n *LogNotifier) Notify(_ context.Context, t *task.Task) error {
	fields := []zap.Field{
		zap.String("task_id", t.ID),
		zap.String("title", t.Title),
		zap.String("owner", t.OwnerEmail),
	}
	if t.DueDate != nil {
		fields = append(fields, zap.Time("due", *t.DueDate))
	}
	n.logger.Info("task due soon", fields...)
	return nil
}

// sendMailFunc matches smtp.SendMail, substitutable in tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier emails reminders to task owners.
type SMTPNotifier struct {
	cfg      config.SMTPConfig
	sendMail sendMailFunc
}

// NewSMTPNotifier creates a notifier that sends mail through cfg's server.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, sendMail: smtp.SendMail}
}

// Notify sends one reminder email to the task owner.
func (n *SMTPNotifier) Notify(_ context.Context, t *task.Task) error {
	if t.OwnerEmail == "" {
		return fmt.Errorf("task %s has no owner to notify", t.ID)
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password.Value(), n.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	msg := buildMessage(n.cfg.From, t)
	if err := n.sendMail(addr, auth, n.cfg.From, []string{t.OwnerEmail}, msg); err != nil {
		return fmt.Errorf("sending reminder mail for task %s: %w", t.ID, err)
	}
	return nil
}

func buildMessage(from string, t *task.Task) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", t.OwnerEmail)
	fmt.Fprintf(&b, "Subject: Reminder: %s\r\n", t.Title)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Your task %q is due", t.Title)
	if t.DueDate != nil {
		fmt.Fprintf(&b, " at %s", t.DueDate.Format(time.RFC1123))
	}
	b.WriteString(".\r\n")
	return []byte(b.String())
}
