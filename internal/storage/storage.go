// Package storage defines the persistence contract for the scrapbook archive.
//
// The archive persists as three independently keyed records (memories,
// albums, achievements), each a JSON array of entity records with all dates
// encoded as RFC 3339 strings. Backends only need to store and return those
// opaque payloads; entity semantics live entirely above this layer.
package storage

import (
	"context"
	"errors"

	"github.com/calyptra/scrapbook/pkg/types"
)

var (
	// ErrDeserialization indicates a stored payload was present but not
	// well-formed. Callers should fall back to an empty archive rather
	// than crash.
	ErrDeserialization = errors.New("stored payload is not well-formed")

	// ErrWrite indicates the underlying medium rejected a write
	// (quota exceeded, permissions, connection lost). Writes are
	// reported, not retried.
	ErrWrite = errors.New("write rejected by storage medium")
)

// Record keys for the persisted collections.
const (
	RecordMemories     = "memories"
	RecordAlbums       = "albums"
	RecordAchievements = "achievements"
)

// Snapshot is the full persisted state of the archive.
type Snapshot struct {
	Memories     []types.Memory
	Albums       []types.Album
	Achievements []types.AchievementState
}

// Adapter serializes and deserializes the archive collections to a durable
// key-value substrate. Implementations must round-trip date fields exactly
// to day granularity or better.
type Adapter interface {
	// Load reads all records. Missing records load as empty collections;
	// a malformed record fails with ErrDeserialization.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes all records. A rejected write fails with ErrWrite.
	Save(ctx context.Context, snap *Snapshot) error

	// Close releases the underlying resources.
	Close() error
}
