package achievement

import (
	"sort"
	"time"

	"github.com/calyptra/scrapbook/pkg/types"
)

// Evaluation is the derived state of one achievement at evaluation time.
type Evaluation struct {
	Definition types.AchievementDefinition `json:"definition"`
	Progress   int                         `json:"progress"` // min(stat, requirement)
	IsUnlocked bool                        `json:"is_unlocked"`
	UnlockedAt *time.Time                  `json:"unlocked_at,omitempty"`
}

// Engine evaluates the achievement catalogue against stat snapshots. Its only
// owned state is the per-achievement first-unlock timestamp: once set it is
// never overwritten, so an achievement stays unlocked even if the underlying
// stat later regresses (a broken streak, deleted memories).
type Engine struct {
	definitions []types.AchievementDefinition
	unlockedAt  map[string]time.Time
}

// NewEngine builds an engine over the given catalogue, seeded with previously
// persisted unlock state. States whose id no longer appears in the catalogue
// are kept: unlocks are permanent, a catalogue change must not revoke them.
func NewEngine(definitions []types.AchievementDefinition, persisted []types.AchievementState) *Engine {
	e := &Engine{
		definitions: definitions,
		unlockedAt:  make(map[string]time.Time, len(persisted)),
	}
	for _, st := range persisted {
		if st.UnlockedAt != nil {
			e.unlockedAt[st.ID] = *st.UnlockedAt
		}
	}
	return e
}

// Evaluate computes progress and unlock state for every definition. The first
// evaluation where a stat reaches its requirement records the unlock
// timestamp; newlyUnlocked reports how many achievements crossed the line in
// this call, so the caller knows the unlock state needs persisting.
func (e *Engine) Evaluate(stats Stats, now time.Time) (evals []Evaluation, newlyUnlocked int) {
	evals = make([]Evaluation, 0, len(e.definitions))
	for _, def := range e.definitions {
		value := stats.Field(def.StatField)

		progress := value
		if progress > def.Requirement {
			progress = def.Requirement
		}

		ev := Evaluation{Definition: def, Progress: progress}

		if at, ok := e.unlockedAt[def.ID]; ok {
			// First unlock wins, permanently.
			ev.IsUnlocked = true
			t := at
			ev.UnlockedAt = &t
		} else if value >= def.Requirement {
			e.unlockedAt[def.ID] = now
			newlyUnlocked++
			ev.IsUnlocked = true
			t := now
			ev.UnlockedAt = &t
		}

		evals = append(evals, ev)
	}
	return evals, newlyUnlocked
}

// State returns the persistable unlock state, sorted by achievement id for a
// stable on-disk encoding.
func (e *Engine) State() []types.AchievementState {
	out := make([]types.AchievementState, 0, len(e.unlockedAt))
	for id, at := range e.unlockedAt {
		t := at
		out = append(out, types.AchievementState{ID: id, UnlockedAt: &t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
