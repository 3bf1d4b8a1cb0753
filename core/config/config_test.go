package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.DefaultLimit)
		assert.Equal(t, "mysql", cfg.Database.Driver)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Equal(t, "X-Tenant-ID", cfg.Tenant.Header)
		assert.Equal(t, "tenant_id", cfg.Tenant.Column)
		assert.False(t, cfg.Tenant.Required)
		assert.Equal(t, 300, cfg.Schema.CacheTTLSeconds)
		assert.True(t, cfg.Schema.Tables)
		assert.Equal(t, "schemas/", cfg.Schema.Prefix)
	})

	t.Run("Environment Overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("DATABASE_DRIVER", "sqlite")
		t.Setenv("TENANT_REQUIRED", "true")
		t.Setenv("SCHEMA_CACHE_TTL_SECONDS", "0")

		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.True(t, cfg.Tenant.Required)
		assert.Equal(t, 0, cfg.Schema.CacheTTLSeconds)
	})

	t.Run("Dotenv File", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nSTORAGE_BUCKET=schemas-test\n"), 0o600))
		t.Cleanup(func() {
			os.Unsetenv("LOG_LEVEL")
			os.Unsetenv("STORAGE_BUCKET")
		})

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "schemas-test", cfg.Storage.Bucket)
	})

	t.Run("Invalid Limits", func(t *testing.T) {
		t.Setenv("SERVER_DEFAULT_LIMIT", "1000")
		_, err := LoadConfig(t.TempDir())
		assert.Error(t, err)
	})
}
