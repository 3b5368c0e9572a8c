package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
		"gemini_api_keys": ["key-1", "key-2"],
		"graph_api_key": "qloo-key",
		"port": 9090,
		"attempt_timeout_sec": 15,
		"verbose": true
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"key-1", "key-2"}, cfg.GeminiAPIKeys)
	assert.Equal(t, "qloo-key", cfg.GraphAPIKey)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 15, cfg.AttemptTimeoutSec)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "pool-1, pool-2")
	t.Setenv("GEMINI_API_KEY", "single")
	t.Setenv("QLOO_API_KEY", "graph-key")
	t.Setenv("QLOO_API_URL", "https://example.com")
	t.Setenv("PORT", "3000")

	cfg := FromEnv()

	assert.Equal(t, []string{"pool-1", "pool-2", "single"}, cfg.GeminiAPIKeys,
		"singular key is appended after the pool")
	assert.Equal(t, "graph-key", cfg.GraphAPIKey)
	assert.Equal(t, "https://example.com", cfg.GraphBaseURL)
	assert.Equal(t, 3000, cfg.Port)
}

func TestFromEnv_GraphCacheOptIn(t *testing.T) {
	t.Setenv("QLOO_CACHE", "")
	assert.False(t, FromEnv().GraphCache, "caching is off unless requested")

	t.Setenv("QLOO_CACHE", "true")
	assert.True(t, FromEnv().GraphCache)
}

func TestFromEnv_Empty(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("QLOO_API_KEY", "")
	t.Setenv("PORT", "")

	cfg := FromEnv()

	assert.Empty(t, cfg.GeminiAPIKeys)
	assert.Empty(t, cfg.GraphAPIKey)
	assert.Zero(t, cfg.Port)
}

func TestSplitCredentials(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"single", "key-1", []string{"key-1"}},
		{"multiple", "key-1,key-2,key-3", []string{"key-1", "key-2", "key-3"}},
		{"trims whitespace", " key-1 , key-2 ", []string{"key-1", "key-2"}},
		{"drops empty entries", "key-1,,key-2,", []string{"key-1", "key-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitCredentials(tt.raw))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero config", Config{}, false},
		{"valid port", Config{Port: 8080}, false},
		{"negative port", Config{Port: -1}, true},
		{"port too large", Config{Port: 70000}, true},
		{"negative attempt timeout", Config{AttemptTimeoutSec: -5}, true},
		{"negative graph timeout", Config{GraphTimeoutSec: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	base := Config{
		GraphAPIKey: "env-key",
		Port:        3000,
	}
	defaults := Config{
		GeminiAPIKeys: []string{"file-key"},
		GraphAPIKey:   "file-graph-key",
		Port:          9090,
		Verbose:       true,
	}

	merged := base.MergeWithDefaults(defaults)

	assert.Equal(t, "env-key", merged.GraphAPIKey, "set values win")
	assert.Equal(t, 3000, merged.Port)
	assert.Equal(t, []string{"file-key"}, merged.GeminiAPIKeys, "empty values backfill")
	assert.True(t, merged.Verbose)
}

func TestAccessors_Defaults(t *testing.T) {
	cfg := Config{}

	assert.Equal(t, DefaultPort, cfg.ListenPort())
	assert.Equal(t, DefaultAttemptTimeout, cfg.AttemptTimeout())
	assert.Equal(t, DefaultGraphTimeout, cfg.GraphTimeout())
}

func TestAccessors_Configured(t *testing.T) {
	cfg := Config{Port: 3000, AttemptTimeoutSec: 5, GraphTimeoutSec: 3}

	assert.Equal(t, 3000, cfg.ListenPort())
	assert.Equal(t, 5*time.Second, cfg.AttemptTimeout())
	assert.Equal(t, 3*time.Second, cfg.GraphTimeout())
}
