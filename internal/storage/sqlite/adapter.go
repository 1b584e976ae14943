// Package sqlite implements the storage adapter on a local SQLite database.
// This is the default backend for a local-first archive: a single file the
// user owns, no server required.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/calyptra/scrapbook/internal/storage"
	"github.com/calyptra/scrapbook/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Adapter stores each archive collection as a JSON payload in a keyed
// records table.
type Adapter struct {
	db *sql.DB
}

// New opens (creating if necessary) a SQLite-backed adapter at the given DSN.
func New(dsn string) (*Adapter, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single open connection
	// serialises writes and avoids SQLITE_BUSY errors; WAL mode lets
	// readers proceed without blocking the writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to create schema: %w", err)
	}

	return &Adapter{db: db}, nil
}

// Load reads the memories, albums and achievements records. Absent records
// load as empty collections.
func (a *Adapter) Load(ctx context.Context) (*storage.Snapshot, error) {
	snap := &storage.Snapshot{}

	if err := a.loadRecord(ctx, storage.RecordMemories, &snap.Memories); err != nil {
		return nil, err
	}
	if err := a.loadRecord(ctx, storage.RecordAlbums, &snap.Albums); err != nil {
		return nil, err
	}
	if err := a.loadRecord(ctx, storage.RecordAchievements, &snap.Achievements); err != nil {
		return nil, err
	}

	return snap, nil
}

func (a *Adapter) loadRecord(ctx context.Context, key string, dst interface{}) error {
	var payload string
	err := a.db.QueryRowContext(ctx, "SELECT payload FROM records WHERE key = ?", key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil // never persisted, collection stays empty
	}
	if err != nil {
		return fmt.Errorf("sqlite: failed to read record %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("sqlite: record %q: %v: %w", key, err, storage.ErrDeserialization)
	}
	return nil
}

// Save writes all three records in a single transaction, so the persisted
// archive can never hold a memories record and an albums record from
// different snapshots.
func (a *Adapter) Save(ctx context.Context, snap *storage.Snapshot) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: failed to begin transaction: %v: %w", err, storage.ErrWrite)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	records := []struct {
		key   string
		value interface{}
	}{
		{storage.RecordMemories, nonNilMemories(snap.Memories)},
		{storage.RecordAlbums, nonNilAlbums(snap.Albums)},
		{storage.RecordAchievements, nonNilStates(snap.Achievements)},
	}

	for _, rec := range records {
		payload, err := json.Marshal(rec.value)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: failed to encode record %q: %w", rec.key, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (key, payload, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
			rec.key, string(payload), now)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: failed to write record %q: %v: %w", rec.key, err, storage.ErrWrite)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: failed to commit: %v: %w", err, storage.ErrWrite)
	}
	return nil
}

// Close closes the underlying database.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// JSON-encoding nil slices would store "null", which round-trips fine but
// makes hand inspection of the file confusing. Store empty arrays instead.

func nonNilMemories(s []types.Memory) []types.Memory {
	if s == nil {
		return []types.Memory{}
	}
	return s
}

func nonNilAlbums(s []types.Album) []types.Album {
	if s == nil {
		return []types.Album{}
	}
	return s
}

func nonNilStates(s []types.AchievementState) []types.AchievementState {
	if s == nil {
		return []types.AchievementState{}
	}
	return s
}
