// ABOUTME: Client configuration stored at XDG paths with environment overrides
// ABOUTME: Resolves API base URL, Places key, store backend, logging and timing settings
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG directories.
	AppName = "adda"

	// DefaultAPIBaseURL is used when neither the file nor the environment sets one.
	DefaultAPIBaseURL = "https://api.brokeradda.in"

	DefaultSearchDebounceMS      = 500
	DefaultRequestTimeoutSeconds = 30
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreBadger = "badger"
	StoreMemory = "memory"
)

// Config holds everything the client needs to reach the backend.
type Config struct {
	APIBaseURL            string `json:"api_base_url"`
	PlacesAPIKey          string `json:"places_api_key,omitempty"`
	Store                 string `json:"store"`
	DataDir               string `json:"data_dir,omitempty"`
	LogLevel              string `json:"log_level"`
	SearchDebounceMS      int    `json:"search_debounce_ms"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
}

// Default returns the hardcoded fallback configuration.
func Default() *Config {
	return &Config{
		APIBaseURL:            DefaultAPIBaseURL,
		Store:                 StoreSQLite,
		LogLevel:              "warn",
		SearchDebounceMS:      DefaultSearchDebounceMS,
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
	}
}

// Path returns the XDG-compliant config file path.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.json")
}

// Load reads configuration in increasing precedence: defaults, config file,
// .env in the working directory, then environment variables:
// - ADDA_API_URL
// - ADDA_PLACES_API_KEY
// - ADDA_STORE
// - ADDA_DATA_DIR
// - ADDA_LOG_LEVEL
// - ADDA_SEARCH_DEBOUNCE_MS
// - ADDA_REQUEST_TIMEOUT_SECONDS.
func Load() (*Config, error) {
	return LoadFrom(Path(), ".env")
}

// LoadFrom is Load with explicit file locations.
func LoadFrom(path, envFile string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer func() { _ = f.Close() }()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if envFile != "" {
		// godotenv never overrides variables already set in the process.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()

	return cfg, cfg.Validate()
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("ADDA_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("ADDA_PLACES_API_KEY"); v != "" {
		cfg.PlacesAPIKey = v
	}
	if v := os.Getenv("ADDA_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("ADDA_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("ADDA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ADDA_SEARCH_DEBOUNCE_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ADDA_SEARCH_DEBOUNCE_MS: %w", err)
		}
		cfg.SearchDebounceMS = n
	}
	if v := os.Getenv("ADDA_REQUEST_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ADDA_REQUEST_TIMEOUT_SECONDS: %w", err)
		}
		cfg.RequestTimeoutSeconds = n
	}
	return nil
}

func (c *Config) fillDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.Store == "" {
		c.Store = StoreSQLite
	}
	if c.SearchDebounceMS <= 0 {
		c.SearchDebounceMS = DefaultSearchDebounceMS
	}
	if c.RequestTimeoutSeconds < 0 {
		c.RequestTimeoutSeconds = DefaultRequestTimeoutSeconds
	}
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreBadger, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want sqlite, badger or memory)", c.Store)
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url must be an http(s) URL, got %q", c.APIBaseURL)
	}
	return nil
}

// Save writes the config file with restricted permissions.
func Save(cfg *Config) error {
	return SaveTo(Path(), cfg)
}

func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// DataPath returns the directory holding local state.
func (c *Config) DataPath() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(xdg.DataHome, AppName)
}

// DatabasePath is the SQLite session database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataPath(), "adda.db")
}

// KVPath is the badger directory location.
func (c *Config) KVPath() string {
	return filepath.Join(c.DataPath(), "kv")
}

func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMS) * time.Millisecond
}

// RequestTimeout is zero when timeouts are disabled.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Level maps LogLevel to a logger level, defaulting to warn.
func (c *Config) Level() log.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	}
	return log.WarnLevel
}
