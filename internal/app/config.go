package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"navigator/internal/store"
)

// Default configuration constants
const (
	DefaultBaud            = 4800
	DefaultTimeout         = 2 * time.Second
	DefaultHistorySamples  = store.DefaultHistorySamples
	DefaultPublishInterval = 1 * time.Second
	DefaultStatsInterval   = 30 * time.Second
	DefaultUIInterval      = 1 * time.Second
	DefaultLogEntries      = 200
	DefaultMQTTTopicPrefix = "navigator"
	DefaultMQTTClientID    = "navigator"
)

// Config holds application configuration
type Config struct {
	// Device is the serial port to read; File replays a capture instead
	Device  string        `yaml:"device"`
	File    string        `yaml:"file"`
	Baud    int           `yaml:"baud"`
	Timeout time.Duration `yaml:"timeout"`

	// Debug dump only
	Raw          bool `yaml:"raw"`
	IgnoreErrors bool `yaml:"ignore_errors"`

	CaptureDir string `yaml:"capture_dir"`
	CaptureUTC bool   `yaml:"capture_utc"`
	// CaptureRetentionDays removes capture files older than this, 0 keeps all
	CaptureRetentionDays int `yaml:"capture_retention_days"`

	HistorySamples int           `yaml:"history_samples"`
	StatsInterval  time.Duration `yaml:"stats_interval"`
	Headless       bool          `yaml:"headless"`
	// UIInterval is the dashboard redraw period
	UIInterval time.Duration `yaml:"ui_interval"`
	Verbose    bool          `yaml:"verbose"`

	Web  WebConfig  `yaml:"web"`
	MQTT MQTTConfig `yaml:"mqtt"`
}

// WebConfig enables the HTTP snapshot and websocket feed when Listen is set
type WebConfig struct {
	Listen   string        `yaml:"listen"`
	Interval time.Duration `yaml:"interval"`
}

// MQTTConfig enables snapshot publishing when Broker is set
type MQTTConfig struct {
	Broker      string        `yaml:"broker"`
	ClientID    string        `yaml:"client_id"`
	TopicPrefix string        `yaml:"topic_prefix"`
	Interval    time.Duration `yaml:"interval"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		Baud:           DefaultBaud,
		Timeout:        DefaultTimeout,
		HistorySamples: DefaultHistorySamples,
		StatsInterval:  DefaultStatsInterval,
		UIInterval:     DefaultUIInterval,
		Web: WebConfig{
			Interval: DefaultPublishInterval,
		},
		MQTT: MQTTConfig{
			ClientID:    DefaultMQTTClientID,
			TopicPrefix: DefaultMQTTTopicPrefix,
			Interval:    DefaultPublishInterval,
		},
	}
}

// LoadConfig reads a YAML file over cfg. Keys missing from the file keep
// the value already in cfg.
func LoadConfig(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration can be used to open a source
func (c Config) Validate() error {
	if c.Device == "" && c.File == "" {
		return fmt.Errorf("a serial device or a replay file is required")
	}
	if c.File == "" && c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.HistorySamples < 0 {
		return fmt.Errorf("history_samples must not be negative, got %d", c.HistorySamples)
	}
	if c.CaptureRetentionDays < 0 {
		return fmt.Errorf("capture_retention_days must not be negative, got %d", c.CaptureRetentionDays)
	}
	if !c.Headless && c.UIInterval <= 0 {
		return fmt.Errorf("ui_interval must be positive, got %s", c.UIInterval)
	}
	if c.StatsInterval <= 0 {
		return fmt.Errorf("stats_interval must be positive, got %s", c.StatsInterval)
	}
	if c.Web.Listen != "" && c.Web.Interval <= 0 {
		return fmt.Errorf("web.interval must be positive")
	}
	if c.MQTT.Broker != "" && c.MQTT.Interval <= 0 {
		return fmt.Errorf("mqtt.interval must be positive")
	}
	return nil
}
