// Package config provides configuration for the scrapbook tools. Settings
// come from environment variables with the SCRAPBOOK_ prefix, with sensible
// defaults for every option.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the scrapbook application.
type Config struct {
	Storage StorageConfig
	Backup  BackupConfig
	Watch   WatchConfig
}

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Engine      string // Storage engine: sqlite or postgres (default: sqlite)
	DataPath    string // Directory holding the sqlite archive file (default: ./data)
	PostgresDSN string // Connection string when Engine is postgres
}

// BackupConfig controls the backup tool.
type BackupConfig struct {
	Dir       string        // Backup directory (default: ./backups)
	Interval  time.Duration // Interval between automatic backups (default: 24h)
	Verify    bool          // Verify each backup after creation (default: true)
	Retention RetentionConfig
}

// RetentionConfig sets how many backups each age tier keeps.
type RetentionConfig struct {
	Hourly  int // Backups younger than a day (default: 24)
	Daily   int // Younger than a week (default: 7)
	Weekly  int // Younger than a month (default: 4)
	Monthly int // Younger than a year (default: 12)
}

// WatchConfig controls the external-change watcher.
type WatchConfig struct {
	Enabled          bool // Watch the archive file for external changes (default: false)
	ReloadsPerMinute int  // Reload rate cap while the file churns (default: 6)
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Engine:      getEnv("SCRAPBOOK_STORAGE_ENGINE", "sqlite"),
			DataPath:    getEnv("SCRAPBOOK_DATA_PATH", "./data"),
			PostgresDSN: getEnv("SCRAPBOOK_POSTGRES_DSN", ""),
		},
		Backup: BackupConfig{
			Dir:      getEnv("SCRAPBOOK_BACKUP_DIR", "./backups"),
			Interval: getEnvDuration("SCRAPBOOK_BACKUP_INTERVAL", 24*time.Hour),
			Verify:   getEnvBool("SCRAPBOOK_BACKUP_VERIFY", true),
			Retention: RetentionConfig{
				Hourly:  getEnvInt("SCRAPBOOK_BACKUP_RETENTION_HOURLY", 24),
				Daily:   getEnvInt("SCRAPBOOK_BACKUP_RETENTION_DAILY", 7),
				Weekly:  getEnvInt("SCRAPBOOK_BACKUP_RETENTION_WEEKLY", 4),
				Monthly: getEnvInt("SCRAPBOOK_BACKUP_RETENTION_MONTHLY", 12),
			},
		},
		Watch: WatchConfig{
			Enabled:          getEnvBool("SCRAPBOOK_WATCH", false),
			ReloadsPerMinute: getEnvInt("SCRAPBOOK_WATCH_RELOADS_PER_MINUTE", 6),
		},
	}

	if cfg.Storage.Engine != "sqlite" && cfg.Storage.Engine != "postgres" {
		return nil, fmt.Errorf("config: unknown storage engine %q", cfg.Storage.Engine)
	}
	if cfg.Storage.Engine == "postgres" && cfg.Storage.PostgresDSN == "" {
		return nil, fmt.Errorf("config: SCRAPBOOK_POSTGRES_DSN is required for the postgres engine")
	}

	return cfg, nil
}

// ArchivePath returns the path of the sqlite archive file.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.Storage.DataPath, "scrapbook.db")
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
