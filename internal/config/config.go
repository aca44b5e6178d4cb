package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete duechat configuration
type Config struct {
	API          APIConfig          `mapstructure:"api"`
	Pacing       PacingConfig       `mapstructure:"pacing"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	TUI          TUIConfig          `mapstructure:"tui"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// APIConfig controls how the backend is reached
type APIConfig struct {
	// BaseURL is the backend root including the /api prefix
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds bounds each request (default: 60)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// PacingConfig controls the artificial delays that make replies feel natural
type PacingConfig struct {
	// MinDelayMs is the lower bound of the randomized reply delay (default: 1000)
	MinDelayMs int `mapstructure:"min_delay_ms"`
	// MaxDelayMs is the upper bound of the randomized reply delay (default: 2000)
	MaxDelayMs int `mapstructure:"max_delay_ms"`
	// ExpiredResetDelayMs is how long the expiry notice shows before the
	// automatic reset (default: 2000)
	ExpiredResetDelayMs int `mapstructure:"expired_reset_delay_ms"`
}

// ConversationConfig controls state reconciliation policy
type ConversationConfig struct {
	// StickyCompletion keeps is_complete when a response omits it.
	// When false (default), an omitted flag resets completion.
	StickyCompletion bool `mapstructure:"sticky_completion"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// ShowTimestamps prints message timestamps when the backend sends them
	ShowTimestamps bool `mapstructure:"show_timestamps"`
	// ShowQuickReplies shows the Payment/Account/Callback/Help row (default: true)
	ShowQuickReplies bool `mapstructure:"show_quick_replies"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is where duechat.log is written. Empty means <config dir>/logs.
	// Supports ~ for home directory expansion.
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000/api",
			TimeoutSeconds: 60,
		},
		Pacing: PacingConfig{
			MinDelayMs:          1000,
			MaxDelayMs:          2000,
			ExpiredResetDelayMs: 2000,
		},
		Conversation: ConversationConfig{
			StickyCompletion: false,
		},
		TUI: TUIConfig{
			ShowTimestamps:   false,
			ShowQuickReplies: true,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			Dir:     "", // Empty means use default: <config dir>/logs
		},
	}
}

// Timeout returns the request timeout as a time.Duration
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MinDelay returns the lower pacing bound as a time.Duration
func (c *PacingConfig) MinDelay() time.Duration {
	return time.Duration(c.MinDelayMs) * time.Millisecond
}

// MaxDelay returns the upper pacing bound as a time.Duration
func (c *PacingConfig) MaxDelay() time.Duration {
	return time.Duration(c.MaxDelayMs) * time.Millisecond
}

// ExpiredResetDelay returns the session-expiry reset delay as a time.Duration
func (c *PacingConfig) ExpiredResetDelay() time.Duration {
	return time.Duration(c.ExpiredResetDelayMs) * time.Millisecond
}

// ResolveDir returns the log directory. An empty Dir resolves to
// <ConfigDir()>/logs, and a leading ~ expands to the home directory.
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}

	path := c.Dir
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	return path
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)

	// Pacing defaults
	viper.SetDefault("pacing.min_delay_ms", defaults.Pacing.MinDelayMs)
	viper.SetDefault("pacing.max_delay_ms", defaults.Pacing.MaxDelayMs)
	viper.SetDefault("pacing.expired_reset_delay_ms", defaults.Pacing.ExpiredResetDelayMs)

	// Conversation defaults
	viper.SetDefault("conversation.sticky_completion", defaults.Conversation.StickyCompletion)

	// TUI defaults
	viper.SetDefault("tui.show_timestamps", defaults.TUI.ShowTimestamps)
	viper.SetDefault("tui.show_quick_replies", defaults.TUI.ShowQuickReplies)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded one is invalid
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "duechat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".duechat"
	}
	return filepath.Join(home, ".config", "duechat")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
