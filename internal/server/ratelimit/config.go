package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Tier is the rate limit applied to one endpoint. A non-positive Limit
// means unlimited.
type Tier struct {
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Tiers           map[string]Tier // endpoint path -> tier
}

// DefaultConfig returns the built-in limits: the resolve endpoint is
// expensive (two external APIs per request) and gets a tight budget, the
// health check is unlimited.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    120,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Tiers: map[string]Tier{
			"/resolve-taste": {Limit: 30, Window: time.Minute, Burst: 10},
			"/health":        {Limit: 0},
		},
	}
}

// LoadConfig loads rate limiting configuration from environment variables,
// starting from the defaults.
func LoadConfig() *Config {
	cfg := DefaultConfig()

	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)

	if limit := getEnvInt("RATE_LIMIT_RESOLVE_LIMIT", 0); limit > 0 {
		tier := cfg.Tiers["/resolve-taste"]
		tier.Limit = limit
		cfg.Tiers["/resolve-taste"] = tier
	}

	return cfg
}

// tierFor returns the tier for an endpoint, falling back to the default.
func (c *Config) tierFor(endpoint string) Tier {
	for path, tier := range c.Tiers {
		if endpoint == path || strings.HasPrefix(endpoint, path+"/") {
			return tier
		}
	}
	return Tier{Limit: c.DefaultLimit, Window: c.DefaultWindow}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
