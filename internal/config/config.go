// Package config handles configuration for faqchat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "FAQCHAT_"

// MarkdownConfig configures markdown rendering of completed replies
type MarkdownConfig struct {
	Style       string `json:"style" env:"STYLE"` // "dark", "light", "notty" or path to JSON theme
	EnableEmoji bool   `json:"enable_emoji" env:"EMOJI"`
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the base URL of the chat backend; /chat is appended.
	Endpoint string `json:"endpoint" env:"ENDPOINT"`
	// RevealDelayMS is the per-character delay of the reveal animation.
	RevealDelayMS int `json:"reveal_delay_ms" env:"REVEAL_DELAY_MS"`
	// TypingIntervalMS is the tick period of the typing indicator.
	TypingIntervalMS int `json:"typing_interval_ms" env:"TYPING_INTERVAL_MS"`
	// TimeoutSeconds bounds a request. 0 leaves the transport default in place.
	TimeoutSeconds  int            `json:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	LogLevel        string         `json:"log_level" env:"LOG_LEVEL"`
	CopyToClipboard bool           `json:"copy_to_clipboard" env:"COPY"`
	TUITheme        string         `json:"tui_theme,omitempty" env:"THEME"`
	Markdown        MarkdownConfig `json:"markdown" envPrefix:"MARKDOWN_"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:       "dark",
		EnableEmoji: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:         "http://localhost:5000",
		RevealDelayMS:    20,
		TypingIntervalMS: 400,
		TimeoutSeconds:   0,
		LogLevel:         "info",
		CopyToClipboard:  false,
		TUITheme:         "tokyonight",
		Markdown:         DefaultMarkdownConfig(),
	}
}

// RevealDelay returns the per-character reveal delay
func (c Config) RevealDelay() time.Duration {
	return time.Duration(c.RevealDelayMS) * time.Millisecond
}

// TypingInterval returns the typing indicator period
func (c Config) TypingInterval() time.Duration {
	return time.Duration(c.TypingIntervalMS) * time.Millisecond
}

// Validate checks the configuration for values the client cannot use
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", c.Endpoint)
	}
	if c.RevealDelayMS < 0 {
		return fmt.Errorf("reveal_delay_ms must not be negative")
	}
	if c.TypingIntervalMS <= 0 {
		return fmt.Errorf("typing_interval_ms must be positive")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".faqchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path of the log file used while the TUI owns the terminal
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "faqchat.log"), nil
}

// LoadConfig loads the configuration from disk and applies environment overrides
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile loads the configuration file only, falling back to defaults
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overlays FAQCHAT_* environment variables onto cfg.
// Unset variables leave the existing value untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setters maps config keys to functions that parse and assign a value
var setters = map[string]func(*Config, string) error{
	"endpoint": func(c *Config, v string) error {
		c.Endpoint = strings.TrimRight(v, "/")
		return nil
	},
	"reveal_delay_ms":    intSetter(func(c *Config) *int { return &c.RevealDelayMS }),
	"typing_interval_ms": intSetter(func(c *Config) *int { return &c.TypingIntervalMS }),
	"timeout_seconds":    intSetter(func(c *Config) *int { return &c.TimeoutSeconds }),
	"log_level": func(c *Config, v string) error {
		switch v {
		case "debug", "info", "warn", "error":
			c.LogLevel = v
			return nil
		}
		return fmt.Errorf("invalid log level %q (want debug, info, warn or error)", v)
	},
	"copy_to_clipboard": boolSetter(func(c *Config) *bool { return &c.CopyToClipboard }),
	"tui_theme": func(c *Config, v string) error {
		c.TUITheme = v
		return nil
	},
	"markdown.style": func(c *Config, v string) error {
		c.Markdown.Style = v
		return nil
	},
	"markdown.enable_emoji": boolSetter(func(c *Config) *bool { return &c.Markdown.EnableEmoji }),
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", v)
		}
		*field(c) = n
		return nil
	}
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		*field(c) = b
		return nil
	}
}

// Set assigns value to the named key and validates the result
func Set(cfg *Config, key, value string) error {
	setter, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	updated := *cfg
	if err := setter(&updated, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*cfg = updated
	return nil
}

// Keys returns the settable config keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
