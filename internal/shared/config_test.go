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

		if config.API.BaseURL != "http://localhost:4000" {
			t.Errorf("expected base URL http://localhost:4000, got %s", config.API.BaseURL)
		}
		if config.Player.PlayDelay != 100*time.Millisecond {
			t.Errorf("expected play delay 100ms, got %v", config.Player.PlayDelay)
		}
		if config.Player.TickInterval != 250*time.Millisecond {
			t.Errorf("expected tick interval 250ms, got %v", config.Player.TickInterval)
		}
		if config.History.Enabled {
			t.Error("expected history to be disabled by default")
		}
		if config.API.OAuth.Enabled() {
			t.Error("expected oauth to be disabled by default")
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected default config to validate, got %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.API.BaseURL != DefaultConfig().API.BaseURL {
			t.Errorf("created config base URL doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[api]
base_url = "http://music.internal:9000"
rate_limit = 5.0

[api.oauth]
client_id = "id"
client_secret = "secret"
token_url = "http://auth.internal/token"

[player]
play_delay = "250ms"

[history]
enabled = true
path = "/tmp/plays.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "http://music.internal:9000" {
			t.Errorf("expected custom base URL, got %s", config.API.BaseURL)
		}
		if config.API.RateLimit != 5.0 {
			t.Errorf("expected rate limit 5, got %v", config.API.RateLimit)
		}
		if !config.API.OAuth.Enabled() {
			t.Error("expected oauth to be enabled")
		}
		if config.Player.PlayDelay != 250*time.Millisecond {
			t.Errorf("expected play delay 250ms, got %v", config.Player.PlayDelay)
		}
		if config.Player.SeekStep != 5*time.Second {
			t.Errorf("expected seek step to keep default 5s, got %v", config.Player.SeekStep)
		}
		if !config.History.Enabled || config.History.Path != "/tmp/plays.db" {
			t.Errorf("unexpected history config: %+v", config.History)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[history]\nenabled = true\npath = \"\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		env := map[string]string{
			EnvAPIURL:   "http://override:4000",
			EnvLogLevel: "debug",
		}
		config.ApplyEnv(func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		})

		if config.API.BaseURL != "http://override:4000" {
			t.Errorf("expected env base URL, got %s", config.API.BaseURL)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected env log level, got %s", config.Log.Level)
		}
	})
}

func TestSetLogLevelString(t *testing.T) {
	logger := NewLogger(nil)

	if err := SetLogLevelString(logger, "debug"); err != nil {
		t.Fatalf("expected valid level, got %v", err)
	}
	if err := SetLogLevelString(logger, ""); err != nil {
		t.Errorf("expected empty level to be ignored, got %v", err)
	}
	if err := SetLogLevelString(logger, "loud"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected unique non-empty ids, got %q and %q", a, b)
	}
}
