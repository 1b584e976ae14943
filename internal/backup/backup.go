// Package backup creates and prunes point-in-time copies of the scrapbook
// archive file. Backups are plain SQLite databases named by creation time and
// thinned by a tiered retention policy, so recent history is dense and old
// history is sparse.
package backup

import "time"

// Config holds backup service configuration.
type Config struct {
	// ArchivePath is the SQLite archive file to back up.
	ArchivePath string

	// Dir is where backups are written.
	Dir string

	// Interval between automatic backups when running as a service.
	Interval time.Duration

	// Retention defines how many backups each age tier keeps.
	Retention RetentionPolicy

	// Verify runs an integrity check on each backup after creation.
	Verify bool
}

// RetentionPolicy sets the number of backups kept per age tier.
// Tiers: hourly (< 24h old), daily (< 7d), weekly (< 30d), monthly (< 365d).
// Anything older than a year is always pruned.
type RetentionPolicy struct {
	Hourly  int
	Daily   int
	Weekly  int
	Monthly int
}

// Info describes one backup file on disk.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}
