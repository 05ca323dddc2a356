package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Development-only fallbacks. Anything still running on these in production
// deserves the startup warning it gets.
const (
	DefaultSessionSecret = "dev-key-please-change-in-production"
	DefaultAdminPasscode = "2222"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Admin    AdminConfig
	Reminder ReminderConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds settings for the SQLite database file.
type DatabaseConfig struct {
	Path string
}

// SessionConfig holds the secret used to sign session cookies.
type SessionConfig struct {
	Secret string
}

// AdminConfig holds the shared passcode gating the report pages.
type AdminConfig struct {
	Passcode string
}

// ReminderConfig holds scheduler-related settings for the missing-entry check.
type ReminderConfig struct {
	CronSchedule string
	Timezone     string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Path: getenvWithDefault("DB_PATH", "data/stock.db"),
		},
		Session: SessionConfig{
			Secret: getenvWithDefault("SESSION_SECRET", DefaultSessionSecret),
		},
		Admin: AdminConfig{
			Passcode: getenvWithDefault("ADMIN_PASSCODE", DefaultAdminPasscode),
		},
		Reminder: ReminderConfig{
			CronSchedule: getenvWithDefault("ENTRY_REMINDER_CRON", "0 21 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/New_York"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Database.Path == "" {
		return errors.New("DB_PATH must be provided")
	}

	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}

	if c.Admin.Passcode == "" {
		return errors.New("ADMIN_PASSCODE must not be empty")
	}

	if c.Reminder.CronSchedule == "" {
		return errors.New("ENTRY_REMINDER_CRON must be provided")
	}

	if c.Reminder.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

// InsecureDefaults reports which secret-bearing settings are still running on
// their development fallbacks so main can warn at startup.
func (c *Config) InsecureDefaults() []string {
	var names []string
	if c.Session.Secret == DefaultSessionSecret {
		names = append(names, "SESSION_SECRET")
	}
	if c.Admin.Passcode == DefaultAdminPasscode {
		names = append(names, "ADMIN_PASSCODE")
	}
	return names
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
