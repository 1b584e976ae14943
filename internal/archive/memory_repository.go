package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calyptra/scrapbook/pkg/types"
)

// MemoryRepository owns the memory collection. It keeps insertion order for
// display and enforces per-entity invariants. It is not safe for concurrent
// use on its own; the ArchiveStore serialises access.
type MemoryRepository struct {
	memories []types.Memory
	index    map[string]int // id -> position in memories
}

// NewMemoryRepository builds a repository from previously persisted memories.
func NewMemoryRepository(existing []types.Memory) *MemoryRepository {
	r := &MemoryRepository{
		memories: make([]types.Memory, 0, len(existing)),
		index:    make(map[string]int, len(existing)),
	}
	for _, m := range existing {
		if _, dup := r.index[m.ID]; dup {
			continue // defend against a corrupted payload with repeated ids
		}
		r.index[m.ID] = len(r.memories)
		r.memories = append(r.memories, m)
	}
	return r
}

// Create validates the draft, assigns an id and creation timestamp, and
// appends the memory. Returns the new id.
func (r *MemoryRepository) Create(draft types.MemoryDraft) (string, error) {
	now := time.Now()
	if err := validateDraft(draft, now); err != nil {
		return "", err
	}

	m := types.Memory{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(draft.Title),
		Description:   draft.Description,
		Location:      draft.Location,
		Date:          draft.Date,
		Tags:          append([]string(nil), draft.Tags...),
		Type:          draft.Type,
		Content:       draft.Content,
		MediaURL:      draft.MediaURL,
		IsTimeCapsule: draft.IsTimeCapsule,
		CreatedAt:     now,
		IsLiked:       false,
		Mood:          draft.Mood,
	}
	if draft.UnlockDate != nil {
		d := *draft.UnlockDate
		m.UnlockDate = &d
	}

	r.index[m.ID] = len(r.memories)
	r.memories = append(r.memories, m)
	return m.ID, nil
}

func validateDraft(draft types.MemoryDraft, now time.Time) error {
	if strings.TrimSpace(draft.Title) == "" {
		return fmt.Errorf("memory title must not be empty: %w", ErrValidation)
	}
	if draft.Date.IsZero() {
		return fmt.Errorf("memory date is required: %w", ErrValidation)
	}
	if !draft.Type.Valid() {
		return fmt.Errorf("unknown memory type %q: %w", draft.Type, ErrValidation)
	}
	if !draft.Mood.Valid() {
		return fmt.Errorf("unknown mood %q: %w", draft.Mood, ErrValidation)
	}
	if err := validateTags(draft.Tags); err != nil {
		return err
	}
	if draft.IsTimeCapsule {
		if draft.UnlockDate == nil {
			return fmt.Errorf("time capsule requires an unlock date: %w", ErrValidation)
		}
		// The unlock date must lie after creation, otherwise the unlock
		// progress math degenerates.
		if !draft.UnlockDate.After(now) {
			return fmt.Errorf("unlock date must be after creation: %w", ErrValidation)
		}
	}
	return nil
}

func validateTags(tags []string) error {
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("empty tag: %w", ErrValidation)
		}
		if seen[tag] {
			return fmt.Errorf("duplicate tag %q: %w", tag, ErrValidation)
		}
		seen[tag] = true
	}
	return nil
}

// Update merges the patch into the memory. Attempting to change Type or
// CreatedAt fails with ErrImmutableField and leaves the memory untouched.
func (r *MemoryRepository) Update(id string, patch types.MemoryPatch) error {
	pos, ok := r.index[id]
	if !ok {
		return fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}

	if patch.Type != nil {
		return fmt.Errorf("memory type: %w", ErrImmutableField)
	}
	if patch.CreatedAt != nil {
		return fmt.Errorf("memory created_at: %w", ErrImmutableField)
	}

	// Validate before touching anything so a bad patch changes nothing.
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("memory title must not be empty: %w", ErrValidation)
	}
	if patch.Date != nil && patch.Date.IsZero() {
		return fmt.Errorf("memory date is required: %w", ErrValidation)
	}
	if patch.Mood != nil && !patch.Mood.Valid() {
		return fmt.Errorf("unknown mood %q: %w", *patch.Mood, ErrValidation)
	}
	if patch.Tags != nil {
		if err := validateTags(patch.Tags); err != nil {
			return err
		}
	}

	m := &r.memories[pos]
	if patch.Title != nil {
		m.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.Location != nil {
		m.Location = *patch.Location
	}
	if patch.Date != nil {
		m.Date = *patch.Date
	}
	if patch.Tags != nil {
		m.Tags = append([]string(nil), patch.Tags...)
	}
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.MediaURL != nil {
		m.MediaURL = *patch.MediaURL
	}
	if patch.Mood != nil {
		m.Mood = *patch.Mood
	}
	return nil
}

// Delete removes the memory. Deleting a missing id is a no-op, so deleting
// twice is safe. Returns whether a memory was actually removed; the caller
// is responsible for cascading the removal into album membership.
func (r *MemoryRepository) Delete(id string) bool {
	pos, ok := r.index[id]
	if !ok {
		return false
	}

	r.memories = append(r.memories[:pos], r.memories[pos+1:]...)
	delete(r.index, id)
	for i := pos; i < len(r.memories); i++ {
		r.index[r.memories[i].ID] = i
	}
	return true
}

// Get returns a copy of the memory.
func (r *MemoryRepository) Get(id string) (types.Memory, error) {
	pos, ok := r.index[id]
	if !ok {
		return types.Memory{}, fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}
	return cloneMemory(r.memories[pos]), nil
}

// Exists reports whether a memory with the given id is present.
func (r *MemoryRepository) Exists(id string) bool {
	_, ok := r.index[id]
	return ok
}

// List returns copies of all memories in insertion order.
func (r *MemoryRepository) List() []types.Memory {
	out := make([]types.Memory, len(r.memories))
	for i, m := range r.memories {
		out[i] = cloneMemory(m)
	}
	return out
}

// Len returns the number of memories.
func (r *MemoryRepository) Len() int {
	return len(r.memories)
}

// ToggleLike flips the liked flag. Two toggles restore the prior state.
func (r *MemoryRepository) ToggleLike(id string) error {
	pos, ok := r.index[id]
	if !ok {
		return fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}
	r.memories[pos].IsLiked = !r.memories[pos].IsLiked
	return nil
}

// ApplyFilter sets the cosmetic filter name. An empty name clears the filter.
// Filters are mutually exclusive, so setting one replaces any previous one.
func (r *MemoryRepository) ApplyFilter(id, filter string) error {
	pos, ok := r.index[id]
	if !ok {
		return fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}
	r.memories[pos].AppliedFilter = filter
	return nil
}

func cloneMemory(m types.Memory) types.Memory {
	m.Tags = append([]string(nil), m.Tags...)
	if m.UnlockDate != nil {
		d := *m.UnlockDate
		m.UnlockDate = &d
	}
	return m
}
