package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 8080\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(50000), cfg.Pricing.FreeDeliveryThresholdPaise)
	assert.Equal(t, 30*time.Minute, cfg.Catalog.RefreshTTL())
	assert.Equal(t, "memory", cfg.Storage.Sessions)
	assert.Equal(t, 45*time.Minute, cfg.Schedule.EstimatedDelivery())
}

func TestLoadSecretsComeFromEnvironment(t *testing.T) {
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "token-123")
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "verify-456")
	t.Setenv("REDIS_ADDR", "redis-host:6380")

	path := writeConfig(t, "whatsapp:\n  catalog_id: cat-1\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.WhatsApp.AccessToken)
	assert.Equal(t, "verify-456", cfg.WhatsApp.VerifyToken)
	assert.Equal(t, "cat-1", cfg.WhatsApp.CatalogID)
	assert.Equal(t, "redis-host:6380", cfg.Redis.Addr)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
