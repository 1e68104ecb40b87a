package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Server.BaseURL == "" {
		t.Error("expected default base URL")
	}
	if config.Realtime.ReconnectAttempts != 10 {
		t.Errorf("expected 10 reconnect attempts, got %d", config.Realtime.ReconnectAttempts)
	}
	if config.Realtime.ReconnectDelay() != time.Second {
		t.Errorf("expected 1s reconnect delay, got %v", config.Realtime.ReconnectDelay())
	}
	if config.Realtime.ReconnectDelayMax() != 5*time.Second {
		t.Errorf("expected 5s delay cap, got %v", config.Realtime.ReconnectDelayMax())
	}
	if config.Realtime.ConnectTimeout() != 20*time.Second {
		t.Errorf("expected 20s connect timeout, got %v", config.Realtime.ConnectTimeout())
	}
	if config.AutoSave.Interval() != 30*time.Second {
		t.Errorf("expected 30s auto-save interval, got %v", config.AutoSave.Interval())
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Valid File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		content := `
[server]
base_url = "https://materials.example.com"

[realtime]
reconnect_attempts = 3
reconnect_delay_ms = 250

[database]
path = "test.db"

[autosave]
interval_seconds = 5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if config.Server.BaseURL != "https://materials.example.com" {
			t.Errorf("unexpected base URL: %s", config.Server.BaseURL)
		}
		if config.Realtime.ReconnectAttempts != 3 {
			t.Errorf("unexpected reconnect attempts: %d", config.Realtime.ReconnectAttempts)
		}
		if config.AutoSave.Interval() != 5*time.Second {
			t.Errorf("unexpected auto-save interval: %v", config.AutoSave.Interval())
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Invalid TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		if err := os.WriteFile(path, []byte("[server\nbase_url"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("Creates From Template", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("created config should parse: %v", err)
		}
		if config.Realtime.ReconnectAttempts != 10 {
			t.Errorf("unexpected template content: %+v", config.Realtime)
		}
	})

	t.Run("Refuses To Overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error when file exists")
		}
	})
}
