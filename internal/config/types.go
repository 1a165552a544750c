package config

import (
	"fmt"
	"strings"
	"time"

	"studenthub/internal/notifier"
	"studenthub/internal/services/digest"
	"studenthub/internal/services/reminder"
	"studenthub/internal/storage"
	logx "studenthub/pkg/logx"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Logging LoggingConfig `json:"logging"`

	// Storage is required in practice; omitting it runs the hub in-memory,
	// which is only useful for experiments.
	Storage *StorageConfig `json:"storage,omitempty"`

	Reminder ReminderConfig `json:"reminder"`
	Digest   DigestConfig   `json:"digest"`

	// Notifier defaults to enabled with the console adapter when omitted.
	Notifier *NotifierConfig `json:"notifier,omitempty"`

	// Telegram switches delivery to a Telegram chat when both fields are set.
	Telegram *TelegramConfig `json:"telegram,omitempty"`
}

type ServerConfig struct {
	Listen string `json:"listen"` // default "127.0.0.1:8787"
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// StorageConfig controls the persistence layer.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./studenthub_data" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

// ReminderConfig controls the per-minute class reminder loop.
type ReminderConfig struct {
	Enabled bool `json:"enabled"`
	// Interval is a Go duration string; default "1m". Shorter intervals are
	// mainly useful in development.
	Interval string `json:"interval,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// DigestConfig controls the daily morning digest.
type DigestConfig struct {
	Enabled bool `json:"enabled"`
	// Cron is a 5-field cron spec; default "0 7 * * *".
	Cron     string `json:"cron,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// NotifierConfig controls the async notification pipeline.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type NotifierConfig struct {
	Enabled       bool   `json:"enabled"`
	Workers       int    `json:"workers"`
	QueueSize     int    `json:"queue_size"`
	RatePerSec    int    `json:"rate_per_sec"`
	RetryMax      int    `json:"retry_max"`
	RetryBase     string `json:"retry_base"`
	RetryMaxDelay string `json:"retry_max_delay"`
	DedupWindow   string `json:"dedup_window"`
}

type TelegramConfig struct {
	Token  string `json:"token"`
	ChatID int64  `json:"chat_id"`
}

const defaultListen = "127.0.0.1:8787"

func (c *Config) ListenAddr() string {
	if c == nil || strings.TrimSpace(c.Server.Listen) == "" {
		return defaultListen
	}
	return strings.TrimSpace(c.Server.Listen)
}

func (c *Config) LogxConfig() logx.Config {
	return logx.Config{
		Level:   c.Logging.Level,
		Console: c.Logging.Console,
		File: logx.FileConfig{
			Enabled: c.Logging.File.Enabled,
			Path:    c.Logging.File.Path,
		},
	}
}

// StorageConfig materializes the storage section; a nil section disables
// persistence.
func (c *Config) StorageConfig() (storage.Config, error) {
	if c.Storage == nil {
		return storage.Config{Driver: "none"}, nil
	}
	busy, err := parseDuration("storage.busy_timeout", c.Storage.BusyTimeout)
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{
		Driver:      c.Storage.Driver,
		Path:        c.Storage.Path,
		BusyTimeout: busy,
	}, nil
}

func (c *Config) ReminderConfig() (reminder.Config, error) {
	interval, err := durationOr("reminder.interval", c.Reminder.Interval, time.Minute)
	if err != nil {
		return reminder.Config{}, err
	}
	return reminder.Config{
		Enabled:  c.Reminder.Enabled,
		Interval: interval,
		Timezone: c.Reminder.Timezone,
	}, nil
}

func (c *Config) DigestConfig() digest.Config {
	return digest.Config{
		Enabled:  c.Digest.Enabled,
		Spec:     c.Digest.Cron,
		Timezone: c.Digest.Timezone,
	}
}

// NotifierConfig materializes the notifier section. An omitted section means
// enabled with defaults.
func (c *Config) NotifierConfig() (notifier.Config, error) {
	n := c.Notifier
	if n == nil {
		return notifier.Config{Enabled: true}, nil
	}
	base, err := parseDuration("notifier.retry_base", n.RetryBase)
	if err != nil {
		return notifier.Config{}, err
	}
	maxDelay, err := parseDuration("notifier.retry_max_delay", n.RetryMaxDelay)
	if err != nil {
		return notifier.Config{}, err
	}
	window, err := parseDuration("notifier.dedup_window", n.DedupWindow)
	if err != nil {
		return notifier.Config{}, err
	}
	return notifier.Config{
		Enabled:       n.Enabled,
		Workers:       n.Workers,
		QueueSize:     n.QueueSize,
		RatePerSec:    n.RatePerSec,
		RetryMax:      n.RetryMax,
		RetryBase:     base,
		RetryMaxDelay: maxDelay,
		DedupWindow:   window,
	}, nil
}

// TelegramEnabled reports whether Telegram delivery is fully configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram != nil &&
		strings.TrimSpace(c.Telegram.Token) != "" &&
		c.Telegram.ChatID != 0
}

// Validate checks cross-field constraints that the strict decoder can't.
func (c *Config) Validate() error {
	if c.Storage != nil {
		switch strings.TrimSpace(c.Storage.Driver) {
		case "", "none", "file", "sqlite":
		default:
			return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
		}
		if d := strings.TrimSpace(c.Storage.Driver); (d == "file" || d == "sqlite") && strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("storage.path is required for driver %q", d)
		}
	}
	if c.Telegram != nil && strings.TrimSpace(c.Telegram.Token) != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required when a token is set")
	}
	if _, err := c.ReminderConfig(); err != nil {
		return err
	}
	if _, err := c.NotifierConfig(); err != nil {
		return err
	}
	if _, err := c.StorageConfig(); err != nil {
		return err
	}
	return nil
}
