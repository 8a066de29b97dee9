package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "")
	t.Setenv("IMPACT_WORKERS", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("GMAIL_CLIENT_ID", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMongo, cfg.StorageType)
	assert.Equal(t, 4, cfg.ImpactWorkers)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.False(t, cfg.GmailEnabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "MEMORY")
	t.Setenv("IMPACT_WORKERS", "8")
	t.Setenv("IMPACT_DEDUP_TTL", "15m")
	t.Setenv("LLM_TIMEOUT", "12")
	t.Setenv("GMAIL_CLIENT_ID", "id")
	t.Setenv("GMAIL_CLIENT_SECRET", "secret")
	t.Setenv("GMAIL_REFRESH_TOKEN", "refresh")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, 8, cfg.ImpactWorkers)
	assert.Equal(t, 15*time.Minute, cfg.ImpactDedupTTL)
	assert.Equal(t, 12*time.Second, cfg.LLMTimeout)
	assert.True(t, cfg.GmailEnabled())
}

func TestGetEnvAsDuration_Invalid(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "soon")
	assert.Equal(t, time.Minute, getEnvAsDuration("SOME_TIMEOUT", time.Minute))
}
