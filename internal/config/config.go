// Package config provides configuration loading for motivatrd.
//
// Configuration is layered: hardcoded defaults, then an optional YAML file,
// then environment variable overrides. See Load for the mapping rules.
package config

import (
	"fmt"
	"time"
)

// Config holds the complete motivatrd configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Reminder  ReminderConfig  `koanf:"reminder"`
	Events    EventsConfig    `koanf:"events"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	RateLimit       float64  `koanf:"rate_limit"`  // requests per second per client, 0 disables
	RateBurst       int      `koanf:"rate_burst"`
}

// DatabaseConfig holds SQLite storage configuration.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// AuthConfig holds credential and token settings.
type AuthConfig struct {
	JWTSecret Secret   `koanf:"jwt_secret"`
	TokenTTL  Duration `koanf:"token_ttl"`
	Issuer    string   `koanf:"issuer"`
}

// ReminderConfig holds the due-task reminder sweep settings.
type ReminderConfig struct {
	Enabled  bool       `koanf:"enabled"`
	Interval Duration   `koanf:"interval"`
	Notifier string     `koanf:"notifier"` // "log" or "smtp"
	SMTP     SMTPConfig `koanf:"smtp"`
}

// SMTPConfig holds outbound mail settings for the SMTP notifier.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password Secret `koanf:"password"`
	From     string `koanf:"from"`
}

// EventsConfig holds NATS event bus settings.
//
// With Embedded set, motivatrd runs an in-process NATS server and ignores URL.
type EventsConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Embedded bool   `koanf:"embedded"`
	URL      string `koanf:"url"`
}

// LoggingConfig holds logger construction settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Endpoint       string   `koanf:"endpoint"`
	Protocol       string   `koanf:"protocol"` // "grpc" (default) or "http/protobuf"
	Insecure       bool     `koanf:"insecure"`
	ServiceName    string   `koanf:"service_name"`
	ServiceVersion string   `koanf:"service_version"`
	SampleRate     float64  `koanf:"sample_rate"`
	ExportInterval Duration `koanf:"export_interval"`
}

// NewDefaultConfig returns the configuration defaults used before file and
// environment overrides are applied.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            5000,
			ShutdownTimeout: Duration(10 * time.Second),
			RateLimit:       20,
			RateBurst:       40,
		},
		Database: DatabaseConfig{
			Path: "motivatr.db",
		},
		Auth: AuthConfig{
			TokenTTL: Duration(24 * time.Hour),
			Issuer:   "motivatrd",
		},
		Reminder: ReminderConfig{
			Enabled:  true,
			Interval: Duration(time.Minute),
			Notifier: "log",
			SMTP: SMTPConfig{
				Port: 587,
			},
		},
		Events: EventsConfig{
			Enabled:  true,
			Embedded: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:        false,
			Endpoint:       "localhost:4317",
			Protocol:       "grpc",
			Insecure:       true,
			ServiceName:    "motivatrd",
			ServiceVersion: "0.1.0",
			SampleRate:     1.0,
			ExportInterval: Duration(15 * time.Second),
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit cannot be negative")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Auth.TokenTTL.Duration() <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Reminder.Enabled {
		if c.Reminder.Interval.Duration() <= 0 {
			return fmt.Errorf("reminder.interval must be positive")
		}
		switch c.Reminder.Notifier {
		case "log":
		case "smtp":
			if c.Reminder.SMTP.Host == "" {
				return fmt.Errorf("reminder.smtp.host is required for the smtp notifier")
			}
			if c.Reminder.SMTP.From == "" {
				return fmt.Errorf("reminder.smtp.from is required for the smtp notifier")
			}
		default:
			return fmt.Errorf("reminder.notifier must be \"log\" or \"smtp\", got %q", c.Reminder.Notifier)
		}
	}
	if c.Events.Enabled && !c.Events.Embedded && c.Events.URL == "" {
		return fmt.Errorf("events.url is required when events.embedded is false")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be \"json\" or \"console\", got %q", c.Logging.Format)
	}
	if c.Telemetry.Enabled {
		if c.Telemetry.Endpoint == "" {
			return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			return fmt.Errorf("telemetry.sample_rate must be between 0 and 1, got %f", c.Telemetry.SampleRate)
		}
		if c.Telemetry.ExportInterval.Duration() <= 0 {
			return fmt.Errorf("telemetry.export_interval must be positive")
		}
	}
	return nil
}
