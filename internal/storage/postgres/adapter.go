// Package postgres implements the storage adapter on PostgreSQL, for users
// who point several machines at one database instead of syncing the SQLite
// file. The record contract is identical to the sqlite backend.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/calyptra/scrapbook/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS scrapbook_records (
	key        TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`

// Adapter stores each archive collection as a JSONB payload in a keyed table.
type Adapter struct {
	db *sql.DB
}

// New connects to PostgreSQL and ensures the records table exists.
func New(dsn string) (*Adapter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to connect: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: failed to create schema: %w", err)
	}

	return &Adapter{db: db}, nil
}

// Load reads the memories, albums and achievements records.
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
	var payload []byte
	err := a.db.QueryRowContext(ctx,
		"SELECT payload FROM scrapbook_records WHERE key = $1", key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("postgres: failed to read record %q: %w", key, err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("postgres: record %q: %v: %w", key, err, storage.ErrDeserialization)
	}
	return nil
}

// Save writes all three records in one transaction.
func (a *Adapter) Save(ctx context.Context, snap *storage.Snapshot) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %v: %w", err, storage.ErrWrite)
	}

	now := time.Now().UTC()
	records := []struct {
		key   string
		value interface{}
	}{
		{storage.RecordMemories, snap.Memories},
		{storage.RecordAlbums, snap.Albums},
		{storage.RecordAchievements, snap.Achievements},
	}

	for _, rec := range records {
		payload, err := json.Marshal(rec.value)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("postgres: failed to encode record %q: %w", rec.key, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scrapbook_records (key, payload, updated_at) VALUES ($1, $2, $3)
			 ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
			rec.key, payload, now)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("postgres: failed to write record %q: %v: %w", rec.key, err, storage.ErrWrite)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: failed to commit: %v: %w", err, storage.ErrWrite)
	}
	return nil
}

// Close closes the connection pool.
func (a *Adapter) Close() error {
	return a.db.Close()
}
