package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/scrapbook/internal/storage"
	"github.com/calyptra/scrapbook/pkg/types"
)

func tempAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := New(filepath.Join(t.TempDir(), "scrapbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestLoadEmptyDatabase(t *testing.T) {
	a := tempAdapter(t)

	snap, err := a.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Memories)
	assert.Empty(t, snap.Albums)
	assert.Empty(t, snap.Achievements)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := tempAdapter(t)
	ctx := context.Background()

	date := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	unlock := date.AddDate(1, 0, 0)
	unlockedAt := date.Add(time.Hour)

	in := &storage.Snapshot{
		Memories: []types.Memory{
			{
				ID: "m1", Title: "Pi day", Description: "circles everywhere",
				Location: "Kitchen", Date: date, Tags: []string{"math", "baking"},
				Type: types.MemoryTypePhoto, MediaURL: "media/pi.jpg",
				CreatedAt: date, IsLiked: true, AppliedFilter: "vintage",
				Mood: types.MoodHappy,
			},
			{
				ID: "m2", Title: "Sealed note", Date: date,
				Type: types.MemoryTypeText, Content: "open later",
				IsTimeCapsule: true, UnlockDate: &unlock, CreatedAt: date,
			},
		},
		Albums: []types.Album{
			{ID: "a1", Title: "Spring", CreatedAt: date, MemoryIDs: []string{"m1", "m2"}},
		},
		Achievements: []types.AchievementState{
			{ID: "first-memory", UnlockedAt: &unlockedAt},
		},
	}

	require.NoError(t, a.Save(ctx, in))

	out, err := a.Load(ctx)
	require.NoError(t, err)

	require.Len(t, out.Memories, 2)
	assert.Equal(t, in.Memories[0], out.Memories[0])
	require.NotNil(t, out.Memories[1].UnlockDate)
	assert.True(t, out.Memories[1].UnlockDate.Equal(unlock), "dates round-trip exactly")
	assert.Equal(t, in.Albums, out.Albums)
	require.Len(t, out.Achievements, 1)
	assert.True(t, out.Achievements[0].UnlockedAt.Equal(unlockedAt))
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	a := tempAdapter(t)
	ctx := context.Background()
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &storage.Snapshot{Memories: []types.Memory{
		{ID: "m1", Title: "one", Date: date, Type: types.MemoryTypeText, CreatedAt: date},
		{ID: "m2", Title: "two", Date: date, Type: types.MemoryTypeText, CreatedAt: date},
	}}
	require.NoError(t, a.Save(ctx, first))

	second := &storage.Snapshot{Memories: []types.Memory{first.Memories[0]}}
	require.NoError(t, a.Save(ctx, second))

	out, err := a.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Memories, 1)
	assert.Equal(t, "m1", out.Memories[0].ID)
}

func TestLoadMalformedPayloadFailsWithDeserializationError(t *testing.T) {
	a := tempAdapter(t)
	ctx := context.Background()

	_, err := a.db.ExecContext(ctx,
		"INSERT INTO records (key, payload, updated_at) VALUES (?, ?, ?)",
		storage.RecordMemories, "{not json", time.Now().UTC().Format(time.RFC3339))
	require.NoError(t, err)

	_, err = a.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrDeserialization)
}

func TestLoadUnparseableDateFailsWithDeserializationError(t *testing.T) {
	a := tempAdapter(t)
	ctx := context.Background()

	payload := `[{"id":"m1","title":"x","date":"not-a-date","type":"text","created_at":"also-not"}]`
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO records (key, payload, updated_at) VALUES (?, ?, ?)",
		storage.RecordMemories, payload, time.Now().UTC().Format(time.RFC3339))
	require.NoError(t, err)

	_, err = a.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrDeserialization)
}

func TestSaveAfterCloseFailsWithWriteError(t *testing.T) {
	a, err := New(filepath.Join(t.TempDir(), "scrapbook.db"))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	err = a.Save(context.Background(), &storage.Snapshot{})
	assert.ErrorIs(t, err, storage.ErrWrite)
}

func TestNilSlicesStoredAsEmptyArrays(t *testing.T) {
	a := tempAdapter(t)
	ctx := context.Background()

	require.NoError(t, a.Save(ctx, &storage.Snapshot{}))

	var payload string
	err := a.db.QueryRowContext(ctx,
		"SELECT payload FROM records WHERE key = ?", storage.RecordMemories).Scan(&payload)
	require.NoError(t, err)
	assert.Equal(t, "[]", payload)
}
