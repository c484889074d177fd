// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AverageMode selects how "average unit cost" is computed.
type AverageMode string

const (
	// AverageItems averages the per-MasterItemNo means.
	AverageItems AverageMode = "items"
	// AverageRows averages every non-null row directly.
	AverageRows AverageMode = "rows"
)

// Config holds the application configuration.
type Config struct {
	DatasetPath          string
	DatasetTable         string
	DatasetSheet         string
	CurrencySymbol       string
	AverageMode          AverageMode
	MatchRowLimit        int
	TopKDefault          int
	FuzzyThreshold       float64
	WatchDataset         bool
	ReloadDebounce       time.Duration
	DesktopNotifications bool
	LogPath              string
	LogLevel             string
}

// Default values
const (
	defaultDatasetPath    = "submission_with_cost.csv"
	defaultDatasetTable   = "predictions"
	defaultCurrency       = "Rs."
	defaultMatchRowLimit  = 10
	defaultTopK           = 5
	defaultFuzzyThreshold = 0.6
	defaultReloadDebounce = 200 * time.Millisecond
	defaultLogLevel       = "info"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatasetPath:          getEnvString("DATASET_PATH", defaultDatasetPath),
		DatasetTable:         getEnvString("DATASET_TABLE", defaultDatasetTable),
		DatasetSheet:         getEnvString("DATASET_SHEET", ""),
		CurrencySymbol:       getEnvRaw("CURRENCY_SYMBOL", defaultCurrency),
		AverageMode:          AverageMode(strings.ToLower(getEnvString("AVERAGE_MODE", string(AverageItems)))),
		MatchRowLimit:        getEnvInt("MATCH_ROW_LIMIT", defaultMatchRowLimit),
		TopKDefault:          getEnvInt("TOP_K_DEFAULT", defaultTopK),
		FuzzyThreshold:       getEnvFloat("FUZZY_THRESHOLD", defaultFuzzyThreshold),
		WatchDataset:         getEnvBool("WATCH_DATASET", true),
		ReloadDebounce:       getEnvDuration("RELOAD_DEBOUNCE", defaultReloadDebounce),
		DesktopNotifications: getEnvBool("DESKTOP_NOTIFICATIONS", true),
		LogPath:              getEnvString("LOG_PATH", getDefaultLogPath()),
		LogLevel:             getEnvString("LOG_LEVEL", defaultLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure log directory exists
	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a configuration populated with defaults only, ignoring the
// environment. Used by tests and the one-shot CLI before Load runs.
func Default() *Config {
	return &Config{
		DatasetPath:          defaultDatasetPath,
		DatasetTable:         defaultDatasetTable,
		CurrencySymbol:       defaultCurrency,
		AverageMode:          AverageItems,
		MatchRowLimit:        defaultMatchRowLimit,
		TopKDefault:          defaultTopK,
		FuzzyThreshold:       defaultFuzzyThreshold,
		WatchDataset:         true,
		ReloadDebounce:       defaultReloadDebounce,
		DesktopNotifications: true,
		LogPath:              getDefaultLogPath(),
		LogLevel:             defaultLogLevel,
	}
}

// Validate checks values that cannot silently fall back to a default.
func (c *Config) Validate() error {
	switch c.AverageMode {
	case AverageItems, AverageRows:
	default:
		return fmt.Errorf("AVERAGE_MODE must be %q or %q, got %q", AverageItems, AverageRows, c.AverageMode)
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return fmt.Errorf("FUZZY_THRESHOLD must be in (0, 1], got %v", c.FuzzyThreshold)
	}
	if c.MatchRowLimit <= 0 {
		c.MatchRowLimit = defaultMatchRowLimit
	}
	if c.TopKDefault <= 0 {
		c.TopKDefault = defaultTopK
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "mft", ".env"),
			filepath.Join(home, ".mft", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mft.log"
	}
	return filepath.Join(home, ".config", "mft", "mft.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRaw is like getEnvString but honors an explicitly empty value.
func getEnvRaw(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
