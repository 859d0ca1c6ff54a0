package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "motivatr.db", cfg.Database.Path)
	assert.True(t, cfg.Reminder.Enabled)
	assert.Equal(t, time.Minute, cfg.Reminder.Interval.Duration())
	assert.Equal(t, "log", cfg.Reminder.Notifier)
	assert.True(t, cfg.Events.Embedded)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  http_port: 8080
  shutdown_timeout: 5s
database:
  path: /tmp/motivatr-test.db
reminder:
  interval: 30s
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, "/tmp/motivatr-test.db", cfg.Database.Path)
	assert.Equal(t, 30*time.Second, cfg.Reminder.Interval.Duration())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	// Untouched sections keep their defaults.
	assert.Equal(t, "log", cfg.Reminder.Notifier)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: 8080\n"), 0600))

	t.Setenv("MOTIVATR_SERVER_HTTP_PORT", "9999")
	t.Setenv("MOTIVATR_REMINDER_NOTIFIER", "smtp")
	t.Setenv("MOTIVATR_REMINDER_SMTP_HOST", "smtp.example.com")
	t.Setenv("MOTIVATR_REMINDER_SMTP_FROM", "motivatr@example.com")
	t.Setenv("MOTIVATR_AUTH_JWT_SECRET", "hunter2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "smtp", cfg.Reminder.Notifier)
	assert.Equal(t, "smtp.example.com", cfg.Reminder.SMTP.Host)
	assert.Equal(t, "motivatr@example.com", cfg.Reminder.SMTP.From)
	assert.Equal(t, "hunter2", cfg.Auth.JWTSecret.Value())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "bad port",
			env:  map[string]string{"MOTIVATR_SERVER_HTTP_PORT": "0"},
		},
		{
			name: "unknown notifier",
			env:  map[string]string{"MOTIVATR_REMINDER_NOTIFIER": "pigeon"},
		},
		{
			name: "smtp without host",
			env:  map[string]string{"MOTIVATR_REMINDER_NOTIFIER": "smtp"},
		},
		{
			name: "bad log format",
			env:  map[string]string{"MOTIVATR_LOGGING_FORMAT": "xml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.Error(t, err)
		})
	}
}

func TestTransformEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"MOTIVATR_SERVER_HTTP_PORT", "server.http_port"},
		{"MOTIVATR_DATABASE_PATH", "database.path"},
		{"MOTIVATR_REMINDER_SMTP_HOST", "reminder.smtp.host"},
		{"MOTIVATR_AUTH_JWT_SECRET", "auth.jwt_secret"},
		{"MOTIVATR_EVENTS_URL", "events.url"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, transformEnvKey(tt.in), tt.in)
	}
}

func TestSecretRedaction(t *testing.T) {
	s := Secret("hunter2")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "hunter2", s.Value())
	assert.True(t, s.IsSet())

	out, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"[REDACTED]"`, string(out))

	var empty Secret
	assert.Equal(t, "", empty.String())
	assert.False(t, empty.IsSet())
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-5s")))
	assert.Error(t, d.UnmarshalText([]byte("not-a-duration")))
}
