package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds process-wide settings for the editor.
type Config struct {
	// Home is the directory holding editor state.
	Home        string
	StateDB     string
	LogLevel    string
	LogFormat   string
	RecentLimit int
	// LogUseCases reports every service call at info level instead of debug.
	LogUseCases bool
}

// DefaultConfig returns defaults rooted at ~/.atest.
func DefaultConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	dir := filepath.Join(home, ".atest")
	return Config{
		Home:        dir,
		StateDB:     filepath.Join(dir, "state.db"),
		LogLevel:    "warn",
		LogFormat:   "text",
		RecentLimit: 10,
	}, nil
}

// LoadConfig reads ATEST_* environment variables over the defaults.
// Invalid numeric or enum values are ignored.
func LoadConfig() (Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	if v := os.Getenv("ATEST_HOME"); v != "" {
		cfg.Home = v
		cfg.StateDB = filepath.Join(v, "state.db")
	}
	if v := os.Getenv("ATEST_STATE_DB"); v != "" {
		cfg.StateDB = v
	}
	if v := strings.ToLower(os.Getenv("ATEST_LOG_LEVEL")); v != "" {
		switch v {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = v
		}
	}
	if v := strings.ToLower(os.Getenv("ATEST_LOG_FORMAT")); v == "text" || v == "json" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("ATEST_RECENT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RecentLimit = n
		}
	}
	if v := os.Getenv("ATEST_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	return cfg, nil
}

// EnsureHome creates the state directory when the state database lives in it.
func (c Config) EnsureHome() error {
	if c.StateDB == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.StateDB), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
