// Package achievement derives aggregate statistics from the memory collection
// and evaluates static achievement rules against them. Progress is always
// recomputed; the only owned state is the first-unlock timestamp per rule,
// which is written once and never reset.
package achievement

import (
	"sort"
	"time"

	"github.com/calyptra/scrapbook/pkg/types"
)

// CollageTag marks a memory as a saved collage artifact. Collages come out of
// the editing layer as photo memories carrying this tag.
const CollageTag = "collage"

// Stats is an aggregate snapshot over the memory collection.
type Stats struct {
	TotalMemories   int `json:"total_memories"`
	PhotoCount      int `json:"photo_count"`
	VideoCount      int `json:"video_count"`
	AudioCount      int `json:"audio_count"`
	TextCount       int `json:"text_count"`
	UniqueLocations int `json:"unique_locations"`
	UniqueTags      int `json:"unique_tags"`
	LikedCount      int `json:"liked_count"`
	FilteredCount   int `json:"filtered_count"`
	CollageCount    int `json:"collage_count"`
	CapsuleCount    int `json:"capsule_count"`
	CurrentStreak   int `json:"current_streak"`
	LongestStreak   int `json:"longest_streak"`
	AlbumCount      int `json:"album_count"`
}

// Field returns the stat named by f, or 0 for an unknown field.
func (s Stats) Field(f types.StatField) int {
	switch f {
	case types.StatTotalMemories:
		return s.TotalMemories
	case types.StatPhotoCount:
		return s.PhotoCount
	case types.StatVideoCount:
		return s.VideoCount
	case types.StatAudioCount:
		return s.AudioCount
	case types.StatTextCount:
		return s.TextCount
	case types.StatUniqueLocations:
		return s.UniqueLocations
	case types.StatUniqueTags:
		return s.UniqueTags
	case types.StatLikedCount:
		return s.LikedCount
	case types.StatFilteredCount:
		return s.FilteredCount
	case types.StatCollageCount:
		return s.CollageCount
	case types.StatCapsuleCount:
		return s.CapsuleCount
	case types.StatCurrentStreak:
		return s.CurrentStreak
	case types.StatLongestStreak:
		return s.LongestStreak
	case types.StatAlbumCount:
		return s.AlbumCount
	}
	return 0
}

// ComputeStats derives the full snapshot from the memory and album
// collections. now anchors the streak computation's notion of today.
func ComputeStats(memories []types.Memory, albumCount int, now time.Time) Stats {
	s := Stats{
		TotalMemories: len(memories),
		AlbumCount:    albumCount,
	}

	locations := make(map[string]bool)
	tags := make(map[string]bool)

	for _, m := range memories {
		switch m.Type {
		case types.MemoryTypePhoto:
			s.PhotoCount++
		case types.MemoryTypeVideo:
			s.VideoCount++
		case types.MemoryTypeAudio:
			s.AudioCount++
		case types.MemoryTypeText:
			s.TextCount++
		}
		if m.Location != "" {
			locations[m.Location] = true
		}
		for _, t := range m.Tags {
			tags[t] = true
		}
		if m.IsLiked {
			s.LikedCount++
		}
		if m.AppliedFilter != "" {
			s.FilteredCount++
		}
		if m.HasTag(CollageTag) {
			s.CollageCount++
		}
		if m.IsTimeCapsule {
			s.CapsuleCount++
		}
	}

	s.UniqueLocations = len(locations)
	s.UniqueTags = len(tags)
	s.CurrentStreak, s.LongestStreak = streaks(memories, now)
	return s
}

// civilDay truncates t to its calendar day, normalised to UTC so that two
// timestamps on the same local day compare equal.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// streaks computes the current and longest runs of consecutive calendar days
// that have at least one created memory. The current streak counts the
// trailing run only if it ends today or yesterday; a gap of two or more days
// resets it to zero. The longest streak is the historical maximum and never
// shrinks with time.
func streaks(memories []types.Memory, now time.Time) (current, longest int) {
	if len(memories) == 0 {
		return 0, 0
	}

	daySet := make(map[time.Time]bool, len(memories))
	for _, m := range memories {
		daySet[civilDay(m.CreatedAt)] = true
	}

	days := make([]time.Time, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	// run now holds the length of the trailing consecutive run. It only
	// counts as the current streak when it is still alive, meaning the
	// last creation day is today or yesterday.
	today := civilDay(now)
	last := days[len(days)-1]
	gap := today.Sub(last)
	if gap == 0 || gap == 24*time.Hour {
		current = run
	}
	return current, longest
}
