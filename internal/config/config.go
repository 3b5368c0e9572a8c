// Package config provides configuration loading and validation for the CLI
// and server. Values merge in order: built-in defaults, JSON config file,
// environment variables.
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

// Default values applied when neither config file nor environment provides
// an override.
const (
	DefaultPort            = 8080
	DefaultAttemptTimeout  = 25 * time.Second
	DefaultGraphTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRateLimitPerMin = 60
	DefaultRateLimitBurst  = 10
)

// Config represents the runtime configuration. All fields are optional;
// missing values use defaults. Credentials are never written back to disk.
type Config struct {
	// Extraction
	GeminiAPIKeys []string `json:"gemini_api_keys,omitempty"` // Ordered credential pool for semantic extraction

	// Knowledge graph
	GraphAPIKey      string `json:"graph_api_key,omitempty"`      // Knowledge graph API key
	GraphBaseURL     string `json:"graph_base_url,omitempty"`     // Search API host override
	GraphInsightsURL string `json:"graph_insights_url,omitempty"` // Insights API host override
	GraphCache       bool   `json:"graph_cache,omitempty"`        // Opt-in lookup memoization; default is a fresh query per request

	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Timeouts, in seconds when read from JSON
	AttemptTimeoutSec int `json:"attempt_timeout_sec,omitempty"` // Per-credential extraction timeout
	GraphTimeoutSec   int `json:"graph_timeout_sec,omitempty"`   // Per-request graph timeout

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. GEMINI_API_KEYS is a
// comma-separated ordered pool; a singular GEMINI_API_KEY is accepted for
// compatibility and appended after the pool.
func FromEnv() *Config {
	cfg := &Config{}

	cfg.GeminiAPIKeys = SplitCredentials(os.Getenv("GEMINI_API_KEYS"))
	if single := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); single != "" {
		cfg.GeminiAPIKeys = append(cfg.GeminiAPIKeys, single)
	}

	cfg.GraphAPIKey = os.Getenv("QLOO_API_KEY")
	cfg.GraphBaseURL = os.Getenv("QLOO_API_URL")
	cfg.GraphInsightsURL = os.Getenv("QLOO_INSIGHTS_URL")
	if v, err := strconv.ParseBool(os.Getenv("QLOO_CACHE")); err == nil {
		cfg.GraphCache = v
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}

	return cfg
}

// SplitCredentials parses a comma-separated credential list, trimming
// whitespace and dropping empty entries while preserving order.
func SplitCredentials(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in [0, 65535]")
	}
	if c.AttemptTimeoutSec < 0 {
		return fmt.Errorf("config error: 'attempt_timeout_sec' must be non-negative")
	}
	if c.GraphTimeoutSec < 0 {
		return fmt.Errorf("config error: 'graph_timeout_sec' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Used to apply config file values underneath environment values.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if len(result.GeminiAPIKeys) == 0 {
		result.GeminiAPIKeys = defaults.GeminiAPIKeys
	}
	if result.GraphAPIKey == "" {
		result.GraphAPIKey = defaults.GraphAPIKey
	}
	if result.GraphBaseURL == "" {
		result.GraphBaseURL = defaults.GraphBaseURL
	}
	if result.GraphInsightsURL == "" {
		result.GraphInsightsURL = defaults.GraphInsightsURL
	}
	if !result.GraphCache {
		result.GraphCache = defaults.GraphCache
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.AttemptTimeoutSec == 0 {
		result.AttemptTimeoutSec = defaults.AttemptTimeoutSec
	}
	if result.GraphTimeoutSec == 0 {
		result.GraphTimeoutSec = defaults.GraphTimeoutSec
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}

// ListenPort returns the configured port, or DefaultPort.
func (c *Config) ListenPort() int {
	if c.Port > 0 {
		return c.Port
	}
	return DefaultPort
}

// AttemptTimeout returns the per-credential extraction timeout.
func (c *Config) AttemptTimeout() time.Duration {
	if c.AttemptTimeoutSec > 0 {
		return time.Duration(c.AttemptTimeoutSec) * time.Second
	}
	return DefaultAttemptTimeout
}

// GraphTimeout returns the per-request knowledge graph timeout.
func (c *Config) GraphTimeout() time.Duration {
	if c.GraphTimeoutSec > 0 {
		return time.Duration(c.GraphTimeoutSec) * time.Second
	}
	return DefaultGraphTimeout
}
