package achievement

import "github.com/calyptra/scrapbook/pkg/types"

// Definitions is the static achievement catalogue. IDs are stable: they key
// the persisted unlock state, so renaming one orphans its unlock timestamp.
var Definitions = []types.AchievementDefinition{
	{
		ID:          "first-memory",
		Name:        "First Steps",
		Description: "Record your first memory",
		Category:    types.CategoryCollection,
		Requirement: 1,
		Rarity:      types.RarityCommon,
		StatField:   types.StatTotalMemories,
	},
	{
		ID:          "collector-10",
		Name:        "Collector",
		Description: "Record 10 memories",
		Category:    types.CategoryCollection,
		Requirement: 10,
		Rarity:      types.RarityCommon,
		StatField:   types.StatTotalMemories,
	},
	{
		ID:          "collector-50",
		Name:        "Archivist",
		Description: "Record 50 memories",
		Category:    types.CategoryCollection,
		Requirement: 50,
		Rarity:      types.RarityRare,
		StatField:   types.StatTotalMemories,
	},
	{
		ID:          "collector-200",
		Name:        "Historian",
		Description: "Record 200 memories",
		Category:    types.CategoryCollection,
		Requirement: 200,
		Rarity:      types.RarityEpic,
		StatField:   types.StatTotalMemories,
	},
	{
		ID:          "explorer-5",
		Name:        "Wanderer",
		Description: "Record memories in 5 different places",
		Category:    types.CategoryExplorer,
		Requirement: 5,
		Rarity:      types.RarityCommon,
		StatField:   types.StatUniqueLocations,
	},
	{
		ID:          "explorer-20",
		Name:        "Globetrotter",
		Description: "Record memories in 20 different places",
		Category:    types.CategoryExplorer,
		Requirement: 20,
		Rarity:      types.RarityEpic,
		StatField:   types.StatUniqueLocations,
	},
	{
		ID:          "streak-3",
		Name:        "Warming Up",
		Description: "Record memories 3 days in a row",
		Category:    types.CategoryDedication,
		Requirement: 3,
		Rarity:      types.RarityCommon,
		StatField:   types.StatCurrentStreak,
	},
	{
		ID:          "streak-7",
		Name:        "One Week Wonder",
		Description: "Record memories 7 days in a row",
		Category:    types.CategoryDedication,
		Requirement: 7,
		Rarity:      types.RarityRare,
		StatField:   types.StatCurrentStreak,
	},
	{
		ID:          "streak-30",
		Name:        "Committed",
		Description: "Record memories 30 days in a row",
		Category:    types.CategoryDedication,
		Requirement: 30,
		Rarity:      types.RarityLegendary,
		StatField:   types.StatCurrentStreak,
	},
	{
		ID:          "filter-artist-5",
		Name:        "Filter Fan",
		Description: "Apply filters to 5 memories",
		Category:    types.CategoryCreative,
		Requirement: 5,
		Rarity:      types.RarityCommon,
		StatField:   types.StatFilteredCount,
	},
	{
		ID:          "filter-artist-25",
		Name:        "Darkroom Regular",
		Description: "Apply filters to 25 memories",
		Category:    types.CategoryCreative,
		Requirement: 25,
		Rarity:      types.RarityRare,
		StatField:   types.StatFilteredCount,
	},
	{
		ID:          "collage-1",
		Name:        "Cut and Paste",
		Description: "Save your first collage",
		Category:    types.CategoryCreative,
		Requirement: 1,
		Rarity:      types.RarityCommon,
		StatField:   types.StatCollageCount,
	},
	{
		ID:          "collage-10",
		Name:        "Mosaic Maker",
		Description: "Save 10 collages",
		Category:    types.CategoryCreative,
		Requirement: 10,
		Rarity:      types.RarityEpic,
		StatField:   types.StatCollageCount,
	},
	{
		ID:          "tag-curator-15",
		Name:        "Librarian",
		Description: "Use 15 different tags",
		Category:    types.CategoryCurator,
		Requirement: 15,
		Rarity:      types.RarityRare,
		StatField:   types.StatUniqueTags,
	},
	{
		ID:          "album-3",
		Name:        "Curator",
		Description: "Create 3 albums",
		Category:    types.CategoryCurator,
		Requirement: 3,
		Rarity:      types.RarityCommon,
		StatField:   types.StatAlbumCount,
	},
	{
		ID:          "capsule-1",
		Name:        "Time Traveler",
		Description: "Seal your first time capsule",
		Category:    types.CategoryCurator,
		Requirement: 1,
		Rarity:      types.RarityCommon,
		StatField:   types.StatCapsuleCount,
	},
	{
		ID:          "capsule-5",
		Name:        "Letters to the Future",
		Description: "Seal 5 time capsules",
		Category:    types.CategoryCurator,
		Requirement: 5,
		Rarity:      types.RarityRare,
		StatField:   types.StatCapsuleCount,
	},
	{
		ID:          "admirer-10",
		Name:        "Fond Looks",
		Description: "Like 10 memories",
		Category:    types.CategoryCollection,
		Requirement: 10,
		Rarity:      types.RarityCommon,
		StatField:   types.StatLikedCount,
	},
}
