package archive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/calyptra/scrapbook/internal/achievement"
	"github.com/calyptra/scrapbook/internal/capsule"
	"github.com/calyptra/scrapbook/internal/storage"
	"github.com/calyptra/scrapbook/pkg/types"
)

// State is the lifecycle of the store: uninitialized until Load is called,
// loading while the initial read from storage is in flight, ready afterwards.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// Store is the composition root of the archive. It loads both repositories
// through the storage adapter, exposes a single read/write facade, and
// guarantees writes only happen after a successful initial load, so a slow
// load can never be raced into clobbering persisted data with empty state.
//
// Construct one Store at process start and hand it to consumers; there is no
// ambient global.
//
// In-memory state is the source of truth for the session: every successful
// mutation is persisted, and a failed persist is returned to the caller but
// does not roll the mutation back. The next successful write catches up.
type Store struct {
	mu       sync.RWMutex
	adapter  storage.Adapter
	state    State
	memories *MemoryRepository
	albums   *AlbumRepository
	engine   *achievement.Engine

	now func() time.Time // test hook
}

// NewStore wires a store over the given adapter. Call Load before mutating.
func NewStore(adapter storage.Adapter) *Store {
	return &Store{
		adapter: adapter,
		state:   StateUninitialized,
		now:     time.Now,
	}
}

// Load performs the initial read from storage and transitions the store to
// ready. A malformed payload (storage.ErrDeserialization) is logged and
// treated as an empty archive: the stored data was unusable, so starting
// empty and allowing writes is the intended recovery, not data loss.
// Any other load failure leaves the store unready.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateLoading

	snap, err := s.adapter.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrDeserialization) {
			s.state = StateUninitialized
			return fmt.Errorf("archive: load failed: %w", err)
		}
		log.Printf("archive: stored payload unreadable, starting empty: %v", err)
		snap = &storage.Snapshot{}
	}

	s.installSnapshot(snap)
	s.state = StateReady
	return nil
}

// Reload re-reads storage and replaces the in-memory state. Used when the
// backing file was replaced externally (e.g. a sync tool). Unlike Load, a
// malformed payload here keeps the current in-memory state.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return fmt.Errorf("archive: reload: %w", ErrNotReady)
	}

	snap, err := s.adapter.Load(ctx)
	if err != nil {
		return fmt.Errorf("archive: reload failed: %w", err)
	}

	s.installSnapshot(snap)
	return nil
}

func (s *Store) installSnapshot(snap *storage.Snapshot) {
	s.memories = NewMemoryRepository(snap.Memories)
	s.albums = NewAlbumRepository(snap.Albums, s.memories.Exists)
	s.engine = achievement.NewEngine(achievement.Definitions, snap.Achievements)
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Loading reports whether the initial load has not completed yet.
func (s *Store) Loading() bool {
	return s.State() != StateReady
}

// guard returns ErrNotReady unless the initial load has completed.
// Callers must hold s.mu.
func (s *Store) guard() error {
	if s.state != StateReady {
		return ErrNotReady
	}
	return nil
}

// persist writes the full snapshot. Failures are logged and returned, but the
// in-memory mutation that triggered the write stands.
func (s *Store) persist(ctx context.Context) error {
	snap := &storage.Snapshot{
		Memories:     s.memories.List(),
		Albums:       s.albums.List(),
		Achievements: s.engine.State(),
	}
	if err := s.adapter.Save(ctx, snap); err != nil {
		log.Printf("archive: persist failed (in-memory state kept): %v", err)
		return fmt.Errorf("archive: persist failed: %w", err)
	}
	return nil
}

// --- memory operations ---

// CreateMemory validates and stores a new memory, returning its id.
func (s *Store) CreateMemory(ctx context.Context, draft types.MemoryDraft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return "", err
	}
	id, err := s.memories.Create(draft)
	if err != nil {
		return "", err
	}
	return id, s.persist(ctx)
}

// UpdateMemory merges the patch into the memory.
func (s *Store) UpdateMemory(ctx context.Context, id string, patch types.MemoryPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if err := s.memories.Update(id, patch); err != nil {
		return err
	}
	return s.persist(ctx)
}

// DeleteMemory removes the memory and strips its id from every album in the
// same in-memory step, so the two collections are never persisted with a
// dangling reference between them. Deleting a missing id is a no-op.
func (s *Store) DeleteMemory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if !s.memories.Delete(id) {
		return nil // idempotent: nothing changed, nothing to persist
	}
	s.albums.RemoveMemoryFromAll(id)
	return s.persist(ctx)
}

// GetMemory returns a copy of the memory.
func (s *Store) GetMemory(id string) (types.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.guard(); err != nil {
		return types.Memory{}, err
	}
	return s.memories.Get(id)
}

// Memories returns all memories in insertion order.
func (s *Store) Memories() []types.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateReady {
		return nil
	}
	return s.memories.List()
}

// ToggleLike flips the memory's liked flag.
func (s *Store) ToggleLike(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if err := s.memories.ToggleLike(id); err != nil {
		return err
	}
	return s.persist(ctx)
}

// ApplyFilter sets the memory's cosmetic filter; an empty name clears it.
func (s *Store) ApplyFilter(ctx context.Context, id, filter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if err := s.memories.ApplyFilter(id, filter); err != nil {
		return err
	}
	return s.persist(ctx)
}

// --- album operations ---

// CreateAlbum validates and stores a new album, returning its id.
func (s *Store) CreateAlbum(ctx context.Context, draft types.AlbumDraft) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return "", err
	}
	id, err := s.albums.Create(draft)
	if err != nil {
		return "", err
	}
	return id, s.persist(ctx)
}

// UpdateAlbum merges the patch into the album.
func (s *Store) UpdateAlbum(ctx context.Context, id string, patch types.AlbumPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if err := s.albums.Update(id, patch); err != nil {
		return err
	}
	return s.persist(ctx)
}

// DeleteAlbum removes the album. Deleting a missing id is a no-op.
func (s *Store) DeleteAlbum(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if !s.albums.Delete(id) {
		return nil
	}
	return s.persist(ctx)
}

// GetAlbum returns a copy of the album.
func (s *Store) GetAlbum(id string) (types.Album, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.guard(); err != nil {
		return types.Album{}, err
	}
	return s.albums.Get(id)
}

// Albums returns all albums in insertion order.
func (s *Store) Albums() []types.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateReady {
		return nil
	}
	return s.albums.List()
}

// AddMemoryToAlbum appends the memory to the album after checking the memory
// still exists.
func (s *Store) AddMemoryToAlbum(ctx context.Context, albumID, memoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if err := s.albums.AddMemory(albumID, memoryID); err != nil {
		return err
	}
	return s.persist(ctx)
}

// RemoveMemoryFromAlbum removes the memory from the album; absent is a no-op.
func (s *Store) RemoveMemoryFromAlbum(ctx context.Context, albumID, memoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if err := s.albums.RemoveMemory(albumID, memoryID); err != nil {
		return err
	}
	return s.persist(ctx)
}

// --- derived views ---

// CapsuleTimeline returns lock state and unlock progress for every time
// capsule, soonest unlock first. Recomputed on every call.
func (s *Store) CapsuleTimeline() []capsule.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateReady {
		return nil
	}
	return capsule.Timeline(s.memories.List(), s.now())
}

// Stats derives the aggregate statistics snapshot.
func (s *Store) Stats() achievement.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateReady {
		return achievement.Stats{}
	}
	return achievement.ComputeStats(s.memories.List(), s.albums.Len(), s.now())
}

// Achievements evaluates the achievement catalogue against current stats.
// Newly crossed thresholds record their unlock timestamp and are persisted;
// a persist failure is returned alongside the evaluations, which are valid
// regardless.
func (s *Store) Achievements(ctx context.Context) ([]achievement.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, ErrNotReady
	}

	now := s.now()
	stats := achievement.ComputeStats(s.memories.List(), s.albums.Len(), now)
	evals, newlyUnlocked := s.engine.Evaluate(stats, now)
	if newlyUnlocked == 0 {
		return evals, nil
	}
	return evals, s.persist(ctx)
}
