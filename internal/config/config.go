// Package config resolves runtime settings from defaults, an optional YAML file, a .env file
// and HABITD_* environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendProxy = "proxy"
	BackendGenAI = "genai"

	DefaultFile = "habitd.yaml"
)

type Config struct {
	DBPath       string `yaml:"db_path"`
	SQLiteDriver string `yaml:"sqlite_driver"`

	AIBackend      string        `yaml:"ai_backend"`
	ProxyURL       string        `yaml:"proxy_url"`
	ModelsURL      string        `yaml:"models_url"`
	GenAIBaseURL   string        `yaml:"genai_base_url"`
	Model          string        `yaml:"model"`
	CompanionName  string        `yaml:"companion_name"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	DesktopNotifications bool `yaml:"desktop_notifications"`
	CheatDays            bool `yaml:"cheat_days"`
	LevelDown            bool `yaml:"level_down"`
	SchedulerBuffer      int  `yaml:"scheduler_buffer"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

func Default() Config {
	dataDir := "."
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "habitd")
	}
	return Config{
		DBPath:               filepath.Join(dataDir, "habitd.db"),
		SQLiteDriver:         "sqlite3",
		AIBackend:            BackendProxy,
		ProxyURL:             "http://localhost:8000/ai-proxy",
		ModelsURL:            "http://localhost:8000/ai-models",
		Model:                "gemini-2.0-flash",
		CompanionName:        "Seraphina",
		RequestTimeout:       30 * time.Second,
		DesktopNotifications: false,
		CheatDays:            true,
		LevelDown:            true,
		SchedulerBuffer:      16,
		LogLevel:             "info",
		LogFile:              filepath.Join(dataDir, "habitd.log"),
	}
}

// Load builds the effective config. path names a YAML file; when it is empty DefaultFile is
// tried and silently skipped if missing. An explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	cfg = FromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv overlays HABITD_* variables on base. Unparseable values are ignored.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("HABITD_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("HABITD_SQLITE_DRIVER"); ok {
		cfg.SQLiteDriver = v
	}
	if v, ok := getEnvString("HABITD_AI_BACKEND"); ok {
		cfg.AIBackend = strings.ToLower(v)
	}
	if v, ok := getEnvString("HABITD_PROXY_URL"); ok {
		cfg.ProxyURL = v
	}
	if v, ok := getEnvString("HABITD_MODELS_URL"); ok {
		cfg.ModelsURL = v
	}
	if v, ok := getEnvString("HABITD_GENAI_BASE_URL"); ok {
		cfg.GenAIBaseURL = v
	}
	if v, ok := getEnvString("HABITD_MODEL"); ok {
		cfg.Model = v
	}
	if v, ok := getEnvString("HABITD_COMPANION_NAME"); ok {
		cfg.CompanionName = v
	}
	if v, ok := getEnvDuration("HABITD_REQUEST_TIMEOUT"); ok && v > 0 {
		cfg.RequestTimeout = v
	}
	if v, ok := getEnvBool("HABITD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvBool("HABITD_CHEAT_DAYS"); ok {
		cfg.CheatDays = v
	}
	if v, ok := getEnvBool("HABITD_LEVEL_DOWN"); ok {
		cfg.LevelDown = v
	}
	if v, ok := getEnvInt("HABITD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvString("HABITD_LOG_LEVEL"); ok {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := getEnvString("HABITD_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	return cfg
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: db_path is required")
	}
	switch c.SQLiteDriver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("config: unsupported sqlite_driver %q (want sqlite3 or sqlite)", c.SQLiteDriver)
	}
	switch c.AIBackend {
	case BackendProxy:
		if strings.TrimSpace(c.ProxyURL) == "" {
			return errors.New("config: proxy_url is required for the proxy backend")
		}
	case BackendGenAI:
		if strings.TrimSpace(c.Model) == "" {
			return errors.New("config: model is required for the genai backend")
		}
	default:
		return fmt.Errorf("config: unsupported ai_backend %q (want proxy or genai)", c.AIBackend)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log_level %q", c.LogLevel)
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
