package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// envPrefix is stripped from environment variables before mapping.
	envPrefix = "MOTIVATR_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// Load loads configuration from a YAML file, then overrides with environment
// variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (MOTIVATR_SERVER_HTTP_PORT, MOTIVATR_REMINDER_INTERVAL, ...)
//  2. YAML config file (~/.config/motivatr/config.yaml by default)
//  3. Hardcoded defaults (NewDefaultConfig)
//
// Environment variables use underscore separators and are uppercased. The
// first segment after the prefix selects the config section, the remainder is
// the field name:
//
//	MOTIVATR_SERVER_HTTP_PORT      -> server.http_port
//	MOTIVATR_REMINDER_INTERVAL     -> reminder.interval
//	MOTIVATR_REMINDER_SMTP_HOST    -> reminder.smtp.host
//	MOTIVATR_AUTH_JWT_SECRET       -> auth.jwt_secret
//
// The configPath parameter specifies the YAML file to load. If empty, the
// default path is used; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "motivatr", "config.yaml")
	}

	if _, err := os.Stat(configPath); err == nil {
		f, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", configPath, maxConfigFileSize)
		}

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", transformEnvKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// transformEnvKey maps a prefixed environment variable to a koanf key.
//
// The first underscore separates the section from the field; field names keep
// their underscores. The smtp sub-section of reminder is the one nested case:
//
//	MOTIVATR_SERVER_HTTP_PORT   -> server.http_port
//	MOTIVATR_REMINDER_SMTP_FROM -> reminder.smtp.from
func transformEnvKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))

	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}

	section, field := parts[0], parts[1]
	if section == "reminder" && strings.HasPrefix(field, "smtp_") {
		return "reminder.smtp." + strings.TrimPrefix(field, "smtp_")
	}
	return section + "." + field
}
