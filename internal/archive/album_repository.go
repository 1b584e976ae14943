package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calyptra/scrapbook/pkg/types"
)

// AlbumRepository owns the album collection and enforces referential
// integrity against the memory collection: an album may only ever reference
// memories that still exist. Membership checks go through the memoryExists
// hook so the repository stays decoupled from the concrete memory store.
type AlbumRepository struct {
	albums       []types.Album
	index        map[string]int // id -> position in albums
	memoryExists func(id string) bool
}

// NewAlbumRepository builds a repository from previously persisted albums.
// Dangling references in the persisted payload (written by older versions
// that did not validate membership) are stripped on load.
func NewAlbumRepository(existing []types.Album, memoryExists func(id string) bool) *AlbumRepository {
	r := &AlbumRepository{
		albums:       make([]types.Album, 0, len(existing)),
		index:        make(map[string]int, len(existing)),
		memoryExists: memoryExists,
	}
	for _, a := range existing {
		if _, dup := r.index[a.ID]; dup {
			continue
		}
		a.MemoryIDs = r.sanitizeMembers(a.MemoryIDs)
		r.index[a.ID] = len(r.albums)
		r.albums = append(r.albums, a)
	}
	return r
}

// sanitizeMembers drops duplicates and references to missing memories,
// preserving order.
func (r *AlbumRepository) sanitizeMembers(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] || !r.memoryExists(id) {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Create validates the draft and appends the album. Initial members must
// reference existing memories.
func (r *AlbumRepository) Create(draft types.AlbumDraft) (string, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return "", fmt.Errorf("album title must not be empty: %w", ErrValidation)
	}

	members := make([]string, 0, len(draft.MemoryIDs))
	seen := make(map[string]bool, len(draft.MemoryIDs))
	for _, id := range draft.MemoryIDs {
		if !r.memoryExists(id) {
			return "", fmt.Errorf("album member %s: %w", id, ErrDanglingReference)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}

	a := types.Album{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		CoverURL:    draft.CoverURL,
		CreatedAt:   time.Now(),
		MemoryIDs:   members,
	}

	r.index[a.ID] = len(r.albums)
	r.albums = append(r.albums, a)
	return a.ID, nil
}

// Update merges the patch into the album's own fields.
func (r *AlbumRepository) Update(id string, patch types.AlbumPatch) error {
	pos, ok := r.index[id]
	if !ok {
		return fmt.Errorf("album %s: %w", id, ErrNotFound)
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("album title must not be empty: %w", ErrValidation)
	}

	a := &r.albums[pos]
	if patch.Title != nil {
		a.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.CoverURL != nil {
		a.CoverURL = *patch.CoverURL
	}
	return nil
}

// Delete removes the album. Deleting a missing id is a no-op.
func (r *AlbumRepository) Delete(id string) bool {
	pos, ok := r.index[id]
	if !ok {
		return false
	}

	r.albums = append(r.albums[:pos], r.albums[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.albums); i++ {
		r.index[r.albums[i].ID] = i
	}
	return true
}

// Get returns a copy of the album.
func (r *AlbumRepository) Get(id string) (types.Album, error) {
	pos, ok := r.index[id]
	if !ok {
		return types.Album{}, fmt.Errorf("album %s: %w", id, ErrNotFound)
	}
	return cloneAlbum(r.albums[pos]), nil
}

// List returns copies of all albums in insertion order.
func (r *AlbumRepository) List() []types.Album {
	out := make([]types.Album, len(r.albums))
	for i, a := range r.albums {
		out[i] = cloneAlbum(a)
	}
	return out
}

// Len returns the number of albums.
func (r *AlbumRepository) Len() int {
	return len(r.albums)
}

// AddMemory appends the memory id to the album. The memory must currently
// exist, otherwise the call fails with ErrDanglingReference and the album is
// unchanged. Adding an id already present is a no-op.
func (r *AlbumRepository) AddMemory(albumID, memoryID string) error {
	pos, ok := r.index[albumID]
	if !ok {
		return fmt.Errorf("album %s: %w", albumID, ErrNotFound)
	}
	if !r.memoryExists(memoryID) {
		return fmt.Errorf("memory %s: %w", memoryID, ErrDanglingReference)
	}

	a := &r.albums[pos]
	if a.Contains(memoryID) {
		return nil
	}
	a.MemoryIDs = append(a.MemoryIDs, memoryID)
	return nil
}

// RemoveMemory removes the memory id from the album if present; removing an
// absent id is a no-op.
func (r *AlbumRepository) RemoveMemory(albumID, memoryID string) error {
	pos, ok := r.index[albumID]
	if !ok {
		return fmt.Errorf("album %s: %w", albumID, ErrNotFound)
	}
	removeID(&r.albums[pos], memoryID)
	return nil
}

// RemoveMemoryFromAll strips the memory id from every album. Called as part
// of the same logical step as a memory delete, before anything is persisted,
// so no album can ever be durably stored with a dangling reference.
// Returns the number of albums changed.
func (r *AlbumRepository) RemoveMemoryFromAll(memoryID string) int {
	changed := 0
	for i := range r.albums {
		if removeID(&r.albums[i], memoryID) {
			changed++
		}
	}
	return changed
}

func removeID(a *types.Album, memoryID string) bool {
	for i, id := range a.MemoryIDs {
		if id == memoryID {
			a.MemoryIDs = append(a.MemoryIDs[:i], a.MemoryIDs[i+1:]...)
			return true
		}
	}
	return false
}

func cloneAlbum(a types.Album) types.Album {
	a.MemoryIDs = append([]string(nil), a.MemoryIDs...)
	return a
}
