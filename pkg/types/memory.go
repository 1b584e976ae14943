package types

import "time"

// MemoryType identifies what kind of media a memory holds.
type MemoryType string

const (
	MemoryTypePhoto MemoryType = "photo"
	MemoryTypeVideo MemoryType = "video"
	MemoryTypeAudio MemoryType = "audio"
	MemoryTypeText  MemoryType = "text"
)

// ValidMemoryTypes lists every accepted memory type.
var ValidMemoryTypes = []MemoryType{
	MemoryTypePhoto,
	MemoryTypeVideo,
	MemoryTypeAudio,
	MemoryTypeText,
}

// Valid reports whether t is one of the known memory types.
func (t MemoryType) Valid() bool {
	for _, v := range ValidMemoryTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Mood is an optional emotional tag attached to a memory.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodExcited   Mood = "excited"
	MoodPeaceful  Mood = "peaceful"
	MoodNostalgic Mood = "nostalgic"
	MoodGrateful  Mood = "grateful"
)

// ValidMoods lists every accepted mood value.
var ValidMoods = []Mood{
	MoodHappy,
	MoodSad,
	MoodExcited,
	MoodPeaceful,
	MoodNostalgic,
	MoodGrateful,
}

// Valid reports whether m is empty (mood unset) or a known mood.
func (m Mood) Valid() bool {
	if m == "" {
		return true
	}
	for _, v := range ValidMoods {
		if m == v {
			return true
		}
	}
	return false
}

// Memory is a single recorded moment in the archive.
// ID, Type and CreatedAt are assigned at creation and never change afterwards.
type Memory struct {
	ID          string     `json:"id"`                    // Unique identifier (UUIDv4)
	Title       string     `json:"title"`                 // Non-empty display title
	Description string     `json:"description,omitempty"` // Optional longer description
	Location    string     `json:"location,omitempty"`    // Optional place name
	Date        time.Time  `json:"date"`                  // When the moment happened (user-chosen)
	Tags        []string   `json:"tags,omitempty"`        // Ordered set of tags, no duplicates
	Type        MemoryType `json:"type"`                  // photo, video, audio or text; immutable
	Content     string     `json:"content,omitempty"`     // Text body, meaningful for text memories
	MediaURL    string     `json:"media_url,omitempty"`   // Stored media reference for photo/video/audio

	// Time capsule fields. When IsTimeCapsule is set, UnlockDate is mandatory
	// and the memory stays locked until that date.
	IsTimeCapsule bool       `json:"is_time_capsule"`
	UnlockDate    *time.Time `json:"unlock_date,omitempty"`

	CreatedAt     time.Time `json:"created_at"`               // When the memory entered the archive
	IsLiked       bool      `json:"is_liked"`                 // Favourite flag, toggled independently
	AppliedFilter string    `json:"applied_filter,omitempty"` // Cosmetic filter name, empty when none
	Mood          Mood      `json:"mood,omitempty"`           // Optional mood tag
}

// HasTag reports whether the memory carries the given tag.
func (m *Memory) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// MemoryDraft carries the user-settable fields for creating a memory.
// The repository assigns ID and CreatedAt.
type MemoryDraft struct {
	Title         string
	Description   string
	Location      string
	Date          time.Time
	Tags          []string
	Type          MemoryType
	Content       string
	MediaURL      string
	IsTimeCapsule bool
	UnlockDate    *time.Time
	Mood          Mood
}

// MemoryPatch describes a partial update to a memory. Nil fields are left
// unchanged. Type and CreatedAt are immutable; a patch that sets either is
// rejected by the repository.
type MemoryPatch struct {
	Title       *string
	Description *string
	Location    *string
	Date        *time.Time
	Tags        []string // nil = unchanged, empty slice = clear all tags
	Content     *string
	MediaURL    *string
	Mood        *Mood

	// Immutable fields. Present only so that callers attempting the change
	// get an explicit rejection instead of a silent drop.
	Type      *MemoryType
	CreatedAt *time.Time
}
