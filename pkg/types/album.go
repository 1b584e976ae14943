package types

import "time"

// Album is a named, ordered collection of memory references.
// MemoryIDs preserves insertion order and never contains duplicates; every id
// must reference a memory that still exists (the album repository enforces
// this on mutation, and deletes cascade).
type Album struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	MemoryIDs   []string  `json:"memories"`
}

// Contains reports whether the album references the given memory id.
func (a *Album) Contains(memoryID string) bool {
	for _, id := range a.MemoryIDs {
		if id == memoryID {
			return true
		}
	}
	return false
}

// AlbumDraft carries the user-settable fields for creating an album.
// Initial MemoryIDs are validated against the memory collection.
type AlbumDraft struct {
	Title       string
	Description string
	CoverURL    string
	MemoryIDs   []string
}

// AlbumPatch describes a partial update to an album's own fields.
// Membership changes go through AddMemory/RemoveMemory instead.
type AlbumPatch struct {
	Title       *string
	Description *string
	CoverURL    *string
}
