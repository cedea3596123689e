package config

import (
	"testing"
	"time"

	"royale-rivals/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"CR_API_KEY": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.CRAPIKey)
	assert.Equal(t, "https://api.clashroyale.com/v1", cfg.CRBaseURL)
	assert.Equal(t, "royale.db", cfg.DBPath)
	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RedisAddr)
	assert.True(t, cfg.Sync.Enabled)
	assert.Equal(t, constants.DefaultSyncInterval, cfg.Sync.Interval)
	assert.Equal(t, constants.DefaultForceSyncCooldown, cfg.Sync.ForceSyncCooldown)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"CR_API_KEY":          "secret",
		"DB_PATH":             "/tmp/x.db",
		"SERVER_PORT":         "9090",
		"LOG_LEVEL":           "DEBUG",
		"REDIS_ADDR":          "localhost:6379",
		"SYNC_ENABLED":        "false",
		"SYNC_INTERVAL":       "30m",
		"SYNC_PLAYER_DELAY":   "250ms",
		"FORCE_SYNC_COOLDOWN": "5m",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.False(t, cfg.Sync.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.PlayerDelay)
	assert.Equal(t, 5*time.Minute, cfg.Sync.ForceSyncCooldown)
}

func TestFromEnvValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing api key", map[string]string{}},
		{"bad duration", map[string]string{"CR_API_KEY": "k", "SYNC_INTERVAL": "soon"}},
		{"non positive duration", map[string]string{"CR_API_KEY": "k", "SYNC_PLAYER_DELAY": "0s"}},
		{"bad bool", map[string]string{"CR_API_KEY": "k", "SYNC_ENABLED": "maybe"}},
		{"bad port", map[string]string{"CR_API_KEY": "k", "SERVER_PORT": "http"}},
		{"bad log level", map[string]string{"CR_API_KEY": "k", "LOG_LEVEL": "loud"}},
		{"bad base url", map[string]string{"CR_API_KEY": "k", "CR_API_BASE_URL": "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envMap(tt.env))
			assert.Error(t, err)
		})
	}
}
