// Package capsule computes lock state and unlock progress for time-capsule
// memories. It is a pure view over the memory collection: nothing here is
// cached or written back, every read recomputes from the clock.
package capsule

import (
	"math"
	"sort"
	"time"

	"github.com/calyptra/scrapbook/pkg/types"
)

// Entry is the derived unlock state for one time-capsule memory.
type Entry struct {
	Memory          types.Memory `json:"memory"`
	IsLocked        bool         `json:"is_locked"`
	ProgressPercent int          `json:"progress_percent"`
}

// Timeline returns the unlock state for every time-capsule memory, sorted
// ascending by unlock date (soonest first). Memories without the capsule
// flag, or with a missing unlock date, are skipped.
func Timeline(memories []types.Memory, now time.Time) []Entry {
	var entries []Entry
	for _, m := range memories {
		if !m.IsTimeCapsule || m.UnlockDate == nil {
			continue
		}
		entries = append(entries, Entry{
			Memory:          m,
			IsLocked:        now.Before(*m.UnlockDate),
			ProgressPercent: progress(m.CreatedAt, *m.UnlockDate, now),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Memory.UnlockDate, entries[j].Memory.UnlockDate
		if a.Equal(*b) {
			return entries[i].Memory.CreatedAt.Before(entries[j].Memory.CreatedAt)
		}
		return a.Before(*b)
	})
	return entries
}

// progress is the percentage of the capsule's waiting span that has elapsed,
// rounded and clamped to [0, 100]. A zero-span capsule (unlock date equal to
// the creation instant) is complete immediately; its lock state is still
// decided by comparing the instants, never by dividing by the zero span.
func progress(createdAt, unlockDate, now time.Time) int {
	totalDays := daysBetween(createdAt, unlockDate)
	if totalDays <= 0 {
		return 100
	}
	elapsedDays := daysBetween(createdAt, now)
	pct := int(math.Round(100 * elapsedDays / totalDays))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// daysBetween measures the span from a to b in fractional days, so that half
// a day into a one-day capsule reads as exactly 50 percent.
func daysBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}
