package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL != "http://localhost:5000/api" {
			t.Errorf("expected base url http://localhost:5000/api, got %s", config.API.BaseURL)
		}

		if config.API.TimeoutSeconds != 30 {
			t.Errorf("expected 30s timeout, got %d", config.API.TimeoutSeconds)
		}

		if config.Poller.IntervalSeconds != 3 {
			t.Errorf("expected 3s poll interval, got %d", config.Poller.IntervalSeconds)
		}

		if config.Poller.MaxConsecutiveFailures != 0 {
			t.Errorf("expected unlimited poll retries by default, got %d", config.Poller.MaxConsecutiveFailures)
		}

		if config.Database.Path != "squall.db" {
			t.Errorf("expected database path squall.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}
	})

	t.Run("Durations", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.Timeout() != 30*time.Second {
			t.Errorf("expected 30s timeout duration, got %v", config.API.Timeout())
		}
		if config.Poller.Interval() != 3*time.Second {
			t.Errorf("expected 3s interval duration, got %v", config.Poller.Interval())
		}
	})

	t.Run("BaseURL", func(t *testing.T) {
		config := DefaultConfig()

		t.Run("prefers the environment override", func(t *testing.T) {
			t.Setenv("SQUALL_API_URL", "http://example.com/api")

			if got := config.BaseURL(); got != "http://example.com/api" {
				t.Errorf("expected env override, got %s", got)
			}
		})

		t.Run("falls back to the configured value", func(t *testing.T) {
			t.Setenv("SQUALL_API_URL", "")

			if got := config.BaseURL(); got != config.API.BaseURL {
				t.Errorf("expected configured base url, got %s", got)
			}
		})
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("parses a custom file", func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.toml")

			testConfig := `[api]
base_url = "http://research.local/api"
timeout_seconds = 10

[poller]
interval_seconds = 1
max_consecutive_failures = 4

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080
`
			if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			config, err := LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if config.API.BaseURL != "http://research.local/api" {
				t.Errorf("expected base url http://research.local/api, got %s", config.API.BaseURL)
			}

			if config.Poller.MaxConsecutiveFailures != 4 {
				t.Errorf("expected failure cap 4, got %d", config.Poller.MaxConsecutiveFailures)
			}

			if config.Database.Path != "/custom/path.db" {
				t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
			}

			if config.Server.Port != 8080 {
				t.Errorf("expected server port 8080, got %d", config.Server.Port)
			}
		})

		t.Run("missing file", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("malformed file", func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte("[api\nbase_url ="), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			_, err := LoadConfig(configPath)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}
