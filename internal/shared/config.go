package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values loaded from the config file.
const (
	EnvAPIURL   = "JUKEBOX_API_URL"
	EnvLogLevel = "JUKEBOX_LOG_LEVEL"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Player  PlayerConfig  `toml:"player"`
	History HistoryConfig `toml:"history"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig contains catalog backend settings.
type APIConfig struct {
	BaseURL   string        `toml:"base_url"`
	Timeout   time.Duration `toml:"timeout"`
	RateLimit float64       `toml:"rate_limit"` // requests per second, 0 disables limiting
	OAuth     OAuthConfig   `toml:"oauth"`
}

// OAuthConfig contains optional client-credentials settings for the catalog API.
type OAuthConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	TokenURL     string   `toml:"token_url"`
	Scopes       []string `toml:"scopes"`
}

// Enabled reports whether enough fields are set to request tokens.
func (o OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.TokenURL != ""
}

// PlayerConfig contains playback timing settings.
type PlayerConfig struct {
	PlayDelay    time.Duration `toml:"play_delay"`
	TickInterval time.Duration `toml:"tick_interval"`
	SeekStep     time.Duration `toml:"seek_step"`
}

// HistoryConfig contains the opt-in play history database settings.
type HistoryConfig struct {
	Enabled      bool   `toml:"enabled"`
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config values from the process environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.API.BaseURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("%w: api.base_url is required", ErrInvalidConfig)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("%w: api.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Player.PlayDelay < 0 || c.Player.TickInterval < 0 || c.Player.SeekStep < 0 {
		return fmt.Errorf("%w: player durations must not be negative", ErrInvalidConfig)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("%w: history.path is required when history is enabled", ErrInvalidConfig)
	}
	return nil
}
