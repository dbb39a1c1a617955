package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_PORT", "JWT_SECRET", "TOKEN_TTL_HOURS", "RATE_LIMIT_PER_MINUTE", "CORS_ALLOWED_ORIGINS",
	"GIN_MODE", "GIN_PATH", "STORAGE_DRIVER", "STORAGE_DIR", "STORAGE_LATENCY_MS",
	"DATABASE_URI", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"REDIS_HOST", "REDIS_PORT", "REDIS_DB", "REDIS_PASSWORD", "LOG_LEVEL", "LOG_PATH",
}

// reset clears the cached config and the environment it reads.
func reset(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	cfg = AppConfig{}
	loaded = false
	t.Cleanup(func() {
		cfg = AppConfig{}
		loaded = false
	})
}

func TestDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, 72, c.TokenTTLHours)
	assert.Equal(t, 120, c.RateLimitPerMinute)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
	assert.Equal(t, StorageFile, c.StorageDriver)
	assert.Equal(t, "vm_groups", c.GroupsKey)
	assert.Equal(t, "vm_notifications", c.NotificationsKey)
	assert.Equal(t, "vm_users", c.UsersKey)
	assert.Equal(t, 6379, c.RedisPort)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.JWTSecret, "secrets never get a default")
}

func TestLoadFromFileThenEnv(t *testing.T) {
	reset(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"app": {"AppPort": "9000", "JWTSecret": "from-file", "AllowedOrigins": ["https://vivemedellin.co"]},
		"storage": {"Driver": "redis", "LatencyMS": 150},
		"redis": {"RedisHost": "cache", "RedisPort": 6380, "RedisPrefix": "vm:"},
		"log": {"Level": "debug", "Compress": true}
	}`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("APP_PORT", "9100")
	t.Setenv("STORAGE_DRIVER", "MYSQL")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.co, ,https://b.co")

	c := Load()
	assert.Equal(t, "9100", c.AppPort)
	assert.Equal(t, "from-file", c.JWTSecret)
	assert.Equal(t, StorageMySQL, c.StorageDriver)
	assert.Equal(t, 150, c.LatencyMS)
	assert.Equal(t, "cache", c.RedisHost)
	assert.Equal(t, 6380, c.RedisPort)
	assert.Equal(t, "vm:", c.RedisPrefix)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.LogCompress)
	assert.Equal(t, []string{"https://a.co", "https://b.co"}, c.AllowedOrigins)
	assert.Equal(t, 72, c.TokenTTLHours)

	assert.Equal(t, c, Get(), "Get returns the cached value")
}

func TestLoadIgnoresInvalidFile(t *testing.T) {
	reset(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STORAGE_LATENCY_MS", "25")

	c := Load()
	assert.Equal(t, "from-env", c.JWTSecret)
	assert.Equal(t, 25, c.LatencyMS)
	assert.Equal(t, "8080", c.AppPort)
}

func TestSampleConfigParses(t *testing.T) {
	var c AppConfig
	require.NoError(t, loadJSONConfig("config.example.json", &c))
	assert.Equal(t, StorageFile, c.StorageDriver)
	assert.Equal(t, "change-me", c.JWTSecret)
	assert.Equal(t, []string{"http://localhost:3000"}, c.AllowedOrigins)
}

func TestSetAppliesDefaults(t *testing.T) {
	reset(t)
	Set(AppConfig{JWTSecret: "s"})
	got := Get()
	assert.Equal(t, "s", got.JWTSecret)
	assert.Equal(t, "8080", got.AppPort)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a ,, b "))
	assert.Empty(t, splitAndTrim(" , "))
}
