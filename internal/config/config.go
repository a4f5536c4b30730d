// Package config handles loading and validating the server configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func init() {
	// Load .env file if it exists.
	_ = godotenv.Load()
}

// Config is the root configuration for the FontLab MCP server.
type Config struct {
	// HostPath is the FontLab executable. Empty = probe conventional
	// install locations. Override: FONTLAB_PATH env var.
	HostPath string `json:"host_path,omitempty" yaml:"host_path,omitempty"`

	// MaxConcurrent caps simultaneous host processes. Default: 3.
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`

	// MaxTimeoutSeconds is the ceiling any caller-supplied timeout is
	// clamped to. Default: 10.
	MaxTimeoutSeconds int `json:"max_timeout_seconds,omitempty" yaml:"max_timeout_seconds,omitempty"`

	// DefaultTimeoutSeconds applies when a caller supplies no timeout.
	// Default: MaxTimeoutSeconds.
	DefaultTimeoutSeconds int `json:"default_timeout_seconds,omitempty" yaml:"default_timeout_seconds,omitempty"`

	// WorkDir is the base directory for per-execution work areas.
	// Empty = system temp dir.
	WorkDir string `json:"work_dir,omitempty" yaml:"work_dir,omitempty"`

	// AuditDB is the SQLite audit database path.
	// Default: ~/.fontlab-mcp/audit.db. The value "off" disables auditing.
	AuditDB string `json:"audit_db,omitempty" yaml:"audit_db,omitempty"`

	// MetricsAddr enables the Prometheus /metrics listener when set
	// (e.g. "127.0.0.1:9090"). Empty = disabled.
	MetricsAddr string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty"`

	// LogLevel is one of "debug", "info", "warn", "error". Default: "info".
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// DefaultConfigPath returns ~/.fontlab-mcp/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".fontlab-mcp", "config.yaml")
}

// Load reads the config file at path (missing file = defaults), then applies
// environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Defaults only.
		default:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("FONTLAB_PATH"); v != "" {
		c.HostPath = v
	}
	if v := os.Getenv("FONTLAB_MCP_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("FONTLAB_MCP_MAX_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTimeoutSeconds = n
		}
	}
	if v := os.Getenv("FONTLAB_MCP_AUDIT_DB"); v != "" {
		c.AuditDB = v
	}
	if v := os.Getenv("FONTLAB_MCP_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("FONTLAB_MCP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) applyDefaults() {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 3
	}
	if c.AuditDB == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.AuditDB = filepath.Join(home, ".fontlab-mcp", "audit.db")
		}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// MaxTimeout returns the timeout ceiling with a default of 10s.
func (c *Config) MaxTimeout() time.Duration {
	if c.MaxTimeoutSeconds > 0 {
		return time.Duration(c.MaxTimeoutSeconds) * time.Second
	}
	return 10 * time.Second
}

// DefaultTimeout returns the default per-call timeout, clamped to MaxTimeout.
func (c *Config) DefaultTimeout() time.Duration {
	if c.DefaultTimeoutSeconds > 0 {
		d := time.Duration(c.DefaultTimeoutSeconds) * time.Second
		if d > c.MaxTimeout() {
			return c.MaxTimeout()
		}
		return d
	}
	return c.MaxTimeout()
}

// SlogLevel maps the configured log level to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AuditEnabled reports whether the audit store should be opened.
func (c *Config) AuditEnabled() bool {
	return c.AuditDB != "" && c.AuditDB != "off"
}
