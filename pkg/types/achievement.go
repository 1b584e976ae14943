package types

import "time"

// AchievementCategory groups achievement definitions for display.
type AchievementCategory string

const (
	CategoryCollection AchievementCategory = "collection"
	CategoryExplorer   AchievementCategory = "explorer"
	CategoryDedication AchievementCategory = "dedication"
	CategoryCreative   AchievementCategory = "creative"
	CategoryCurator    AchievementCategory = "curator"
)

// Rarity ranks how hard an achievement is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// StatField names an aggregate statistic an achievement is evaluated against.
type StatField string

const (
	StatTotalMemories   StatField = "total_memories"
	StatPhotoCount      StatField = "photo_count"
	StatVideoCount      StatField = "video_count"
	StatAudioCount      StatField = "audio_count"
	StatTextCount       StatField = "text_count"
	StatUniqueLocations StatField = "unique_locations"
	StatUniqueTags      StatField = "unique_tags"
	StatLikedCount      StatField = "liked_count"
	StatFilteredCount   StatField = "filtered_count"
	StatCollageCount    StatField = "collage_count"
	StatCapsuleCount    StatField = "capsule_count"
	StatCurrentStreak   StatField = "current_streak"
	StatLongestStreak   StatField = "longest_streak"
	StatAlbumCount      StatField = "album_count"
)

// AchievementDefinition is a static rule evaluated against the archive's
// aggregate statistics. Requirement is the integer threshold the named stat
// must reach for the achievement to unlock.
type AchievementDefinition struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	Requirement int                 `json:"requirement"`
	Rarity      Rarity              `json:"rarity"`
	StatField   StatField           `json:"stat_field"`
}

// AchievementState is the persisted portion of an achievement: the moment it
// first unlocked. Progress is always re-derived and never stored. UnlockedAt
// is written once and never overwritten, even if the underlying stat later
// regresses.
type AchievementState struct {
	ID         string     `json:"id"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
