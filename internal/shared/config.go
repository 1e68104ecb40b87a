package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Realtime RealtimeConfig `toml:"realtime"`
	Database DatabaseConfig `toml:"database"`
	AutoSave AutoSaveConfig `toml:"autosave"`
}

// ServerConfig contains the tracking service connection settings.
type ServerConfig struct {
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// RealtimeConfig contains realtime channel connection settings.
type RealtimeConfig struct {
	ReconnectAttempts   int `toml:"reconnect_attempts"`
	ReconnectDelayMs    int `toml:"reconnect_delay_ms"`
	ReconnectDelayMaxMs int `toml:"reconnect_delay_max_ms"`
	ConnectTimeoutMs    int `toml:"connect_timeout_ms"`
}

// ReconnectDelay returns the base delay between reconnection attempts.
func (c RealtimeConfig) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelayMs) * time.Millisecond
}

// ReconnectDelayMax returns the ceiling for the reconnection delay.
func (c RealtimeConfig) ReconnectDelayMax() time.Duration {
	return time.Duration(c.ReconnectDelayMaxMs) * time.Millisecond
}

// ConnectTimeout returns the websocket handshake timeout.
func (c RealtimeConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMs) * time.Millisecond
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AutoSaveConfig contains the periodic auto-save settings.
type AutoSaveConfig struct {
	IntervalSeconds int `toml:"interval_seconds"`
}

// Interval returns the auto-save period.
func (c AutoSaveConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
