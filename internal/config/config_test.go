package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/scrapbook/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	_ = os.Unsetenv("SCRAPBOOK_STORAGE_ENGINE")
	_ = os.Unsetenv("SCRAPBOOK_DATA_PATH")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Engine)
	assert.Equal(t, "./data", cfg.Storage.DataPath)
	assert.Equal(t, 24*time.Hour, cfg.Backup.Interval)
	assert.True(t, cfg.Backup.Verify)
	assert.Equal(t, 24, cfg.Backup.Retention.Hourly)
	assert.Equal(t, 7, cfg.Backup.Retention.Daily)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, 6, cfg.Watch.ReloadsPerMinute)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SCRAPBOOK_DATA_PATH", "/tmp/scrapbook-test")
	t.Setenv("SCRAPBOOK_BACKUP_INTERVAL", "2h30m")
	t.Setenv("SCRAPBOOK_BACKUP_RETENTION_DAILY", "14")
	t.Setenv("SCRAPBOOK_WATCH", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/scrapbook-test", cfg.Storage.DataPath)
	assert.Equal(t, 2*time.Hour+30*time.Minute, cfg.Backup.Interval)
	assert.Equal(t, 14, cfg.Backup.Retention.Daily)
	assert.True(t, cfg.Watch.Enabled)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("SCRAPBOOK_BACKUP_INTERVAL", "soon")
	t.Setenv("SCRAPBOOK_BACKUP_RETENTION_HOURLY", "many")
	t.Setenv("SCRAPBOOK_WATCH", "yep")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Backup.Interval)
	assert.Equal(t, 24, cfg.Backup.Retention.Hourly)
	assert.False(t, cfg.Watch.Enabled)
}

func TestLoad_UnknownEngineRejected(t *testing.T) {
	t.Setenv("SCRAPBOOK_STORAGE_ENGINE", "clay-tablets")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("SCRAPBOOK_STORAGE_ENGINE", "postgres")
	_ = os.Unsetenv("SCRAPBOOK_POSTGRES_DSN")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("SCRAPBOOK_POSTGRES_DSN", "postgres://localhost/scrapbook")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Engine)
}

func TestArchivePath(t *testing.T) {
	t.Setenv("SCRAPBOOK_DATA_PATH", "/var/lib/scrapbook")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/var/lib/scrapbook", "scrapbook.db"), cfg.ArchivePath())
}
