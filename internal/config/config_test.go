package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %d, want 3", cfg.MaxConcurrent)
	}
	if cfg.MaxTimeout() != 10*time.Second {
		t.Errorf("MaxTimeout = %s, want 10s", cfg.MaxTimeout())
	}
	if cfg.DefaultTimeout() != cfg.MaxTimeout() {
		t.Errorf("DefaultTimeout = %s, want %s", cfg.DefaultTimeout(), cfg.MaxTimeout())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "host_path: /opt/fontlab/FontLab\nmax_concurrent: 5\nmax_timeout_seconds: 8\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HostPath != "/opt/fontlab/FontLab" {
		t.Errorf("HostPath = %q", cfg.HostPath)
	}
	if cfg.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %d, want 5", cfg.MaxConcurrent)
	}
	if cfg.MaxTimeout() != 8*time.Second {
		t.Errorf("MaxTimeout = %s, want 8s", cfg.MaxTimeout())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FONTLAB_PATH", "/custom/fontlab")
	t.Setenv("FONTLAB_MCP_MAX_CONCURRENT", "7")
	t.Setenv("FONTLAB_MCP_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HostPath != "/custom/fontlab" {
		t.Errorf("HostPath = %q", cfg.HostPath)
	}
	if cfg.MaxConcurrent != 7 {
		t.Errorf("MaxConcurrent = %d, want 7", cfg.MaxConcurrent)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestDefaultTimeoutClampedToMax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max_timeout_seconds: 5\ndefault_timeout_seconds: 30\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultTimeout() != 5*time.Second {
		t.Errorf("DefaultTimeout = %s, want clamped to 5s", cfg.DefaultTimeout())
	}
}

func TestAuditEnabled(t *testing.T) {
	cfg := &Config{AuditDB: "off"}
	if cfg.AuditEnabled() {
		t.Error("audit should be disabled for \"off\"")
	}
	cfg.AuditDB = "/tmp/audit.db"
	if !cfg.AuditEnabled() {
		t.Error("audit should be enabled")
	}
}
