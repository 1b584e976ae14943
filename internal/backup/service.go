package backup

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Service creates, verifies, restores and prunes archive backups.
type Service struct {
	cfg Config
}

// NewService validates the configuration and prepares the backup directory.
func NewService(cfg Config) (*Service, error) {
	if cfg.ArchivePath == "" {
		return nil, fmt.Errorf("backup: archive path is required")
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("backup: backup directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("backup: failed to create backup directory: %w", err)
	}
	return &Service{cfg: cfg}, nil
}

// Create takes a point-in-time backup and applies retention afterwards.
// Returns the path of the new backup file.
func (s *Service) Create(ctx context.Context) (string, error) {
	name := fmt.Sprintf("scrapbook-%s.db", time.Now().Format("20060102-150405"))
	dest := filepath.Join(s.cfg.Dir, name)

	if err := vacuumInto(ctx, s.cfg.ArchivePath, dest); err != nil {
		return "", err
	}

	if s.cfg.Verify {
		if err := verify(ctx, dest); err != nil {
			os.Remove(dest)
			return "", fmt.Errorf("backup: verification failed, backup discarded: %w", err)
		}
	}

	if err := s.applyRetention(); err != nil {
		// The backup itself succeeded; pruning failure is logged, not fatal.
		log.Printf("backup: retention pass failed: %v", err)
	}

	log.Printf("backup: wrote %s", dest)
	return dest, nil
}

// Restore replaces the archive file with the given backup. The archive must
// not be open in another process.
func (s *Service) Restore(ctx context.Context, backupPath string) error {
	if err := verify(ctx, backupPath); err != nil {
		return fmt.Errorf("backup: refusing to restore unverified backup: %w", err)
	}

	if err := copyFile(backupPath, s.cfg.ArchivePath); err != nil {
		return fmt.Errorf("backup: restore failed: %w", err)
	}

	// Stale WAL sidecars from the replaced database would shadow the
	// restored content.
	os.Remove(s.cfg.ArchivePath + "-wal")
	os.Remove(s.cfg.ArchivePath + "-shm")

	return verify(ctx, s.cfg.ArchivePath)
}

// Run performs a backup every Interval until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	log.Printf("backup: service started, interval %s", s.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Create(ctx); err != nil {
				log.Printf("backup: %v", err)
			}
		}
	}
}

// vacuumInto writes a consistent copy of the source database. VACUUM INTO
// handles WAL mode correctly, so the copy is a clean point-in-time snapshot
// even while the archive is open elsewhere.
func vacuumInto(ctx context.Context, sourcePath, destPath string) error {
	src, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", sourcePath))
	if err != nil {
		return fmt.Errorf("backup: failed to open archive: %w", err)
	}
	defer src.Close()

	if err := src.PingContext(ctx); err != nil {
		return fmt.Errorf("backup: archive not readable: %w", err)
	}

	if _, err := src.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", destPath)); err != nil {
		return fmt.Errorf("backup: vacuum failed: %w", err)
	}
	return nil
}

// verify opens the database read-only and runs SQLite's integrity check.
func verify(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return fmt.Errorf("backup: failed to open %s: %w", path, err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("backup: integrity check on %s: %w", path, err)
	}
	if result != "ok" {
		return fmt.Errorf("backup: integrity check on %s returned %q", path, result)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
