// Package config loads hemiciclo's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/hemiciclo/pkg/api"
	"github.com/coolbeans/hemiciclo/pkg/directory"
)

// Config holds all hemiciclo configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Display   DisplayConfig   `yaml:"display"`
	Logging   LoggingConfig   `yaml:"logging"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   string `yaml:"timeout"`
	RateLimit string `yaml:"rate_limit"`
	CacheTTL  string `yaml:"cache_ttl"`
	UserAgent string `yaml:"user_agent"`
}

// DisplayConfig configures listings and rendering.
type DisplayConfig struct {
	PageSize    int    `yaml:"page_size"`
	Legislature string `yaml:"legislature"` // empty: use the resolved default
	Theme       string `yaml:"theme"`       // glamour style: auto, dark, light, notty
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SnapshotsConfig configures SQLite exports.
type SnapshotsConfig struct {
	Directory string `yaml:"directory"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   api.DefaultBaseURL,
			Timeout:   api.DefaultTimeout.String(),
			RateLimit: api.DefaultRequestInterval.String(),
			CacheTTL:  api.DefaultCacheTTL.String(),
			UserAgent: api.DefaultUserAgent,
		},
		Display: DisplayConfig{
			PageSize: directory.DefaultPerPage,
			Theme:    "auto",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Snapshots: SnapshotsConfig{
			Directory: ".",
		},
	}
}

// DefaultPath returns the per-user configuration file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "hemiciclo.yaml"
	}
	return filepath.Join(dir, "hemiciclo", "config.yaml")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("HEMICICLO_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if level := os.Getenv("HEMICICLO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if size := os.Getenv("HEMICICLO_PAGE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			c.Display.PageSize = n
		}
	}
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	for name, value := range map[string]string{
		"api.timeout":    c.API.Timeout,
		"api.rate_limit": c.API.RateLimit,
		"api.cache_ttl":  c.API.CacheTTL,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses the configured logging level.
func (c *Config) LogLevel() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid logging.level %q: %w", c.Logging.Level, err)
	}
	return level, nil
}

// ClientConfig builds the API client configuration. Empty durations fall back
// to the client defaults; "0s" disables rate limiting or caching.
func (c *Config) ClientConfig() api.Config {
	cfg := api.DefaultConfig()
	cfg.BaseURL = c.API.BaseURL
	if c.API.UserAgent != "" {
		cfg.UserAgent = c.API.UserAgent
	}
	cfg.Timeout = duration(c.API.Timeout, cfg.Timeout)
	cfg.RateLimit = duration(c.API.RateLimit, cfg.RateLimit)
	cfg.CacheTTL = duration(c.API.CacheTTL, cfg.CacheTTL)
	return cfg
}

func duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
