package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate runs the test in an empty directory so no stray habitd.yaml or .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.AIBackend != BackendProxy || cfg.SQLiteDriver != "sqlite3" {
		t.Fatalf("unexpected backend defaults: %+v", cfg)
	}
	if !cfg.CheatDays || !cfg.LevelDown || cfg.DesktopNotifications {
		t.Fatalf("unexpected rule defaults: %+v", cfg)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout default: %s", cfg.RequestTimeout)
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != Default().Model {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	body := "db_path: /tmp/h.db\nsqlite_driver: sqlite\nai_backend: genai\nmodel: gemini-pro\nrequest_timeout: 5s\ncheat_days: false\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("HABITD_MODEL", "gemini-flash")
	t.Setenv("HABITD_LEVEL_DOWN", "off")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/h.db" || cfg.SQLiteDriver != "sqlite" || cfg.AIBackend != BackendGenAI {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.RequestTimeout != 5*time.Second || cfg.CheatDays {
		t.Fatalf("yaml timeout/rules not applied: %+v", cfg)
	}
	if cfg.Model != "gemini-flash" || cfg.LevelDown {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadDefaultFileAndDotEnv(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte("companion_name: Nova\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("HABITD_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// register for restore, then unset so the .env value is the one that lands
	t.Setenv("HABITD_LOG_LEVEL", "")
	if err := os.Unsetenv("HABITD_LOG_LEVEL"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CompanionName != "Nova" {
		t.Fatalf("expected companion from habitd.yaml, got %q", cfg.CompanionName)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log level from .env, got %q", cfg.LogLevel)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("request_timeout: [\n"), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("HABITD_REQUEST_TIMEOUT", "soon")
	t.Setenv("HABITD_SCHEDULER_BUFFER", "-3")
	t.Setenv("HABITD_DESKTOP_NOTIFICATIONS", "maybe")

	base := Default()
	cfg := FromEnv(base)
	if cfg.RequestTimeout != base.RequestTimeout || cfg.SchedulerBuffer != base.SchedulerBuffer {
		t.Fatalf("garbage env should be ignored: %+v", cfg)
	}
	if cfg.DesktopNotifications != base.DesktopNotifications {
		t.Fatal("garbage bool should be ignored")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty db":      func(c *Config) { c.DBPath = " " },
		"bad driver":    func(c *Config) { c.SQLiteDriver = "postgres" },
		"bad backend":   func(c *Config) { c.AIBackend = "openai" },
		"no proxy url":  func(c *Config) { c.ProxyURL = "" },
		"genai model":   func(c *Config) { c.AIBackend = BackendGenAI; c.Model = "" },
		"zero timeout":  func(c *Config) { c.RequestTimeout = 0 },
		"bad log level": func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %+v", cfg)
			}
		})
	}
}
