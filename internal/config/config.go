// Package config loads service and CLI configuration from the environment,
// with an optional JSON file overlay.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults used when neither the environment nor a config file sets a value.
const (
	DefaultPort                 = 8080
	DefaultFetchTimeout         = 30 * time.Second
	DefaultCORSOrigin           = "*"
	DefaultHistoryRetentionDays = 90
	DefaultPruneSchedule        = "0 3 * * *"
)

// Config holds everything the server and CLI need. JSON tags are used by the
// file overlay; every field can also be set through the environment.
type Config struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Redis URL for stats counters
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key

	FetchTimeout time.Duration `json:"-"`
	// FetchTimeoutSeconds mirrors FetchTimeout for the JSON overlay.
	FetchTimeoutSeconds int  `json:"fetch_timeout_seconds,omitempty"`
	UseBrowser          bool `json:"use_browser,omitempty"` // Render with headless Chrome when static HTML has no job data
	Verbose             bool `json:"verbose,omitempty"`

	CORSOrigin           string `json:"cors_origin,omitempty"`
	HistoryRetentionDays int    `json:"history_retention_days,omitempty"`
	PruneSchedule        string `json:"prune_schedule,omitempty"` // cron spec for the retention job

	// JWT is nil when JWT_SECRET is unset, which disables auth.
	JWT *JWTConfig `json:"-"`
}

// Default returns a Config with every default applied.
func Default() Config {
	return Config{
		Port:                 DefaultPort,
		FetchTimeout:         DefaultFetchTimeout,
		FetchTimeoutSeconds:  int(DefaultFetchTimeout / time.Second),
		CORSOrigin:           DefaultCORSOrigin,
		HistoryRetentionDays: DefaultHistoryRetentionDays,
		PruneSchedule:        DefaultPruneSchedule,
	}
}

// Load reads configuration from environment variables on top of Default.
func Load() (*Config, error) {
	cfg := Default()

	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.APIKey = os.Getenv("GEMINI_API_KEY")

	if cfg.FetchTimeoutSeconds, err = envInt("FETCH_TIMEOUT_SECONDS", cfg.FetchTimeoutSeconds); err != nil {
		return nil, err
	}
	cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	if cfg.UseBrowser, err = envBool("USE_BROWSER_FALLBACK", false); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = envBool("VERBOSE", false); err != nil {
		return nil, err
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		cfg.CORSOrigin = v
	}
	if cfg.HistoryRetentionDays, err = envInt("HISTORY_RETENTION_DAYS", cfg.HistoryRetentionDays); err != nil {
		return nil, err
	}
	if v := os.Getenv("PRUNE_SCHEDULE"); v != "" {
		cfg.PruneSchedule = v
	}

	if cfg.JWT, err = LoadJWTConfig(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if cfg.FetchTimeoutSeconds > 0 {
		cfg.FetchTimeout = time.Duration(cfg.FetchTimeoutSeconds) * time.Second
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("config error: fetch timeout must be non-negative")
	}
	if c.HistoryRetentionDays < 0 {
		return fmt.Errorf("config error: 'history_retention_days' must be non-negative")
	}
	if c.DatabaseURL != "" && !strings.HasPrefix(c.DatabaseURL, "postgres://") && !strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("config error: database_url must be a postgres:// URL")
	}
	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		return fmt.Errorf("config error: redis_url must be a redis:// URL")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Values loaded from a file are passed through here so that the
// environment still wins where it is set.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.FetchTimeout == 0 {
		result.FetchTimeout = defaults.FetchTimeout
		result.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if result.CORSOrigin == "" {
		result.CORSOrigin = defaults.CORSOrigin
	}
	if result.HistoryRetentionDays == 0 {
		result.HistoryRetentionDays = defaults.HistoryRetentionDays
	}
	if result.PruneSchedule == "" {
		result.PruneSchedule = defaults.PruneSchedule
	}
	if result.JWT == nil {
		result.JWT = defaults.JWT
	}

	// Bool fields: cannot distinguish unset from false, so true on either side wins
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// LoadWithFile loads the environment and overlays the JSON file at path when
// one is given. Environment values take precedence over the file.
func LoadWithFile(path string) (*Config, error) {
	env, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return env, nil
	}

	file, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	merged := envOverrides(*env).MergeWithDefaults(file.MergeWithDefaults(*env))
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// envOverrides keeps only the fields explicitly set in the environment so they
// can be merged over file values.
func envOverrides(env Config) *Config {
	out := &Config{JWT: env.JWT}
	if os.Getenv("PORT") != "" {
		out.Port = env.Port
	}
	out.DatabaseURL = env.DatabaseURL
	out.RedisURL = env.RedisURL
	out.APIKey = env.APIKey
	if os.Getenv("FETCH_TIMEOUT_SECONDS") != "" {
		out.FetchTimeout = env.FetchTimeout
		out.FetchTimeoutSeconds = env.FetchTimeoutSeconds
	}
	if os.Getenv("CORS_ORIGIN") != "" {
		out.CORSOrigin = env.CORSOrigin
	}
	if os.Getenv("HISTORY_RETENTION_DAYS") != "" {
		out.HistoryRetentionDays = env.HistoryRetentionDays
	}
	if os.Getenv("PRUNE_SCHEDULE") != "" {
		out.PruneSchedule = env.PruneSchedule
	}
	out.UseBrowser = env.UseBrowser
	out.Verbose = env.Verbose
	return out
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %v", key, err)
	}
	return b, nil
}
