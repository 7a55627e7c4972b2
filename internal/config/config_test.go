package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
database:
  path: "/var/lib/jmdict/store.db"
  busy_timeout: "10s"
  max_open_conns: 8

build:
  batch_size: 250
  gloss_lang: "ger"

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Database
	if cfg.Database.Path != "/var/lib/jmdict/store.db" {
		t.Errorf("database.path = %q", cfg.Database.Path)
	}
	if cfg.Database.BusyTimeout != 10*time.Second {
		t.Errorf("database.busy_timeout = %v, want %v", cfg.Database.BusyTimeout, 10*time.Second)
	}
	if cfg.Database.MaxOpenConns != 8 {
		t.Errorf("database.max_open_conns = %d, want 8", cfg.Database.MaxOpenConns)
	}

	// Build
	if cfg.Build.BatchSize != 250 {
		t.Errorf("build.batch_size = %d, want 250", cfg.Build.BatchSize)
	}
	if cfg.Build.GlossLang != "ger" {
		t.Errorf("build.gloss_lang = %q, want %q", cfg.Build.GlossLang, "ger")
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("BUILD_BATCH_SIZE", "1000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Build.BatchSize != 1000 {
		t.Errorf("build.batch_size = %d, want 1000 (ENV override)", cfg.Build.BatchSize)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_DefaultsOnly(t *testing.T) {
	// Unset CONFIG_PATH so the "./config.yaml" fallback kicks in, and run
	// from a temp dir where that file is absent.
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.Path != "jmdict.db" {
		t.Errorf("database.path = %q, want %q (default)", cfg.Database.Path, "jmdict.db")
	}
	if cfg.Database.BusyTimeout != 5*time.Second {
		t.Errorf("database.busy_timeout = %v, want 5s (default)", cfg.Database.BusyTimeout)
	}
	if cfg.Build.BatchSize != 500 {
		t.Errorf("build.batch_size = %d, want 500 (default)", cfg.Build.BatchSize)
	}
	if cfg.Build.GlossLang != "eng" {
		t.Errorf("build.gloss_lang = %q, want %q (default)", cfg.Build.GlossLang, "eng")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log.level = %q, want %q (default)", cfg.Log.Level, "info")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_EmptyDatabasePath(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty database path")
	}
}

func TestValidate_NegativeBusyTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Database.BusyTimeout = -time.Second

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative busy timeout")
	}
}

func TestValidate_MaxOpenConnsZero(t *testing.T) {
	cfg := validConfig()
	cfg.Database.MaxOpenConns = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for MaxOpenConns = 0")
	}
}

func TestValidate_BatchSizeZero(t *testing.T) {
	cfg := validConfig()
	cfg.Build.BatchSize = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for BatchSize = 0")
	}
}

func TestValidate_BatchSizeNegative(t *testing.T) {
	cfg := validConfig()
	cfg.Build.BatchSize = -1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative BatchSize")
	}
}

func TestValidate_EmptyGlossLang(t *testing.T) {
	cfg := validConfig()
	cfg.Build.GlossLang = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty gloss language")
	}
}

func TestValidate_ValidBoundaryValues(t *testing.T) {
	cfg := validConfig()
	cfg.Database.BusyTimeout = 0
	cfg.Database.MaxOpenConns = 1
	cfg.Build.BatchSize = 1

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error for boundary values: %v", err)
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Database: DatabaseConfig{
			Path:         "jmdict.db",
			BusyTimeout:  5 * time.Second,
			MaxOpenConns: 4,
		},
		Build: BuildConfig{
			BatchSize: 500,
			GlossLang: "eng",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
