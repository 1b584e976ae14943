package archive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/scrapbook/internal/achievement"
	"github.com/calyptra/scrapbook/internal/storage"
	"github.com/calyptra/scrapbook/pkg/types"
)

// fakeAdapter is an in-memory storage adapter with failure injection.
type fakeAdapter struct {
	snapshot  storage.Snapshot
	loadErr   error
	saveErr   error
	saveCalls int
}

func (f *fakeAdapter) Load(ctx context.Context) (*storage.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	snap := f.snapshot
	return &snap, nil
}

func (f *fakeAdapter) Save(ctx context.Context, snap *storage.Snapshot) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.snapshot = *snap
	return nil
}

func (f *fakeAdapter) Close() error { return nil }

func readyStore(t *testing.T) (*Store, *fakeAdapter) {
	t.Helper()
	fake := &fakeAdapter{}
	s := NewStore(fake)
	require.NoError(t, s.Load(context.Background()))
	return s, fake
}

func TestMutationsGatedUntilLoaded(t *testing.T) {
	fake := &fakeAdapter{}
	s := NewStore(fake)
	ctx := context.Background()

	_, err := s.CreateMemory(ctx, validDraft())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, s.DeleteMemory(ctx, "x"), ErrNotReady)
	assert.ErrorIs(t, s.ToggleLike(ctx, "x"), ErrNotReady)
	_, err = s.CreateAlbum(ctx, types.AlbumDraft{Title: "t"})
	assert.ErrorIs(t, err, ErrNotReady)

	assert.Equal(t, 0, fake.saveCalls, "gated mutations must not produce writes")
	assert.True(t, s.Loading())
}

func TestLoadFailureKeepsStoreUnready(t *testing.T) {
	fake := &fakeAdapter{loadErr: errors.New("disk on fire")}
	s := NewStore(fake)

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateUninitialized, s.State())

	_, err = s.CreateMemory(context.Background(), validDraft())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestLoadTreatsMalformedPayloadAsEmpty(t *testing.T) {
	fake := &fakeAdapter{loadErr: storage.ErrDeserialization}
	s := NewStore(fake)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, StateReady, s.State())
	assert.Empty(t, s.Memories())
}

func TestMutationPersistsSnapshot(t *testing.T) {
	s, fake := readyStore(t)
	ctx := context.Background()

	id, err := s.CreateMemory(ctx, validDraft())
	require.NoError(t, err)
	require.Equal(t, 1, fake.saveCalls)
	require.Len(t, fake.snapshot.Memories, 1)
	assert.Equal(t, id, fake.snapshot.Memories[0].ID)
}

func TestSaveFailureSurfacesButKeepsMutation(t *testing.T) {
	s, fake := readyStore(t)
	ctx := context.Background()
	fake.saveErr = storage.ErrWrite

	id, err := s.CreateMemory(ctx, validDraft())
	assert.ErrorIs(t, err, storage.ErrWrite)
	require.NotEmpty(t, id)

	// In-memory state is the session's source of truth.
	m, getErr := s.GetMemory(id)
	require.NoError(t, getErr)
	assert.Equal(t, "Beach day", m.Title)

	// The next successful write catches up with the full state.
	fake.saveErr = nil
	require.NoError(t, s.ToggleLike(ctx, id))
	require.Len(t, fake.snapshot.Memories, 1)
	assert.True(t, fake.snapshot.Memories[0].IsLiked)
}

func TestDeleteMemoryCascadesAcrossAlbums(t *testing.T) {
	s, fake := readyStore(t)
	ctx := context.Background()

	keep, err := s.CreateMemory(ctx, validDraft())
	require.NoError(t, err)
	doomed, err := s.CreateMemory(ctx, validDraft())
	require.NoError(t, err)

	a1, err := s.CreateAlbum(ctx, types.AlbumDraft{Title: "One", MemoryIDs: []string{keep, doomed}})
	require.NoError(t, err)
	a2, err := s.CreateAlbum(ctx, types.AlbumDraft{Title: "Two", MemoryIDs: []string{doomed}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteMemory(ctx, doomed))

	got1, _ := s.GetAlbum(a1)
	got2, _ := s.GetAlbum(a2)
	assert.Equal(t, []string{keep}, got1.MemoryIDs)
	assert.Empty(t, got2.MemoryIDs)

	// The persisted snapshot may never hold a dangling reference either.
	for _, a := range fake.snapshot.Albums {
		for _, id := range a.MemoryIDs {
			assert.NotEqual(t, doomed, id, "album %s persisted with dangling reference", a.Title)
		}
	}
}

func TestDeleteMissingMemoryIsNoOpWithoutWrite(t *testing.T) {
	s, fake := readyStore(t)
	before := fake.saveCalls

	require.NoError(t, s.DeleteMemory(context.Background(), "missing"))
	assert.Equal(t, before, fake.saveCalls, "no-op delete must not trigger a persist")
}

func TestAchievementUnlockPersistsAndIsPermanent(t *testing.T) {
	s, fake := readyStore(t)
	ctx := context.Background()

	_, err := s.CreateMemory(ctx, validDraft())
	require.NoError(t, err)

	evals, err := s.Achievements(ctx)
	require.NoError(t, err)

	first := findEval(t, evals, "first-memory")
	require.True(t, first.IsUnlocked)
	require.NotNil(t, first.UnlockedAt)
	unlockedAt := *first.UnlockedAt

	// Unlock state reached the adapter.
	require.NotEmpty(t, fake.snapshot.Achievements)

	// Delete the memory: the stat drops below the requirement, the unlock stays.
	id := s.Memories()[0].ID
	require.NoError(t, s.DeleteMemory(ctx, id))

	evals, err = s.Achievements(ctx)
	require.NoError(t, err)
	first = findEval(t, evals, "first-memory")
	assert.True(t, first.IsUnlocked, "unlocking is permanent")
	assert.True(t, first.UnlockedAt.Equal(unlockedAt), "first unlock timestamp wins")
	assert.Equal(t, 0, first.Progress, "progress still reflects the current stat")
}

func TestAchievementStateSurvivesReload(t *testing.T) {
	s, fake := readyStore(t)
	ctx := context.Background()

	_, err := s.CreateMemory(ctx, validDraft())
	require.NoError(t, err)
	_, err = s.Achievements(ctx)
	require.NoError(t, err)

	// A fresh store over the same adapter sees the recorded unlock.
	s2 := NewStore(fake)
	require.NoError(t, s2.Load(ctx))
	evals, err := s2.Achievements(ctx)
	require.NoError(t, err)
	assert.True(t, findEval(t, evals, "first-memory").IsUnlocked)
}

func TestReloadReplacesState(t *testing.T) {
	s, fake := readyStore(t)
	ctx := context.Background()

	_, err := s.CreateMemory(ctx, validDraft())
	require.NoError(t, err)

	// Simulate an external process replacing the archive content.
	fake.snapshot = storage.Snapshot{
		Memories: []types.Memory{{
			ID: "external", Title: "From elsewhere", Date: time.Now(),
			Type: types.MemoryTypeText, CreatedAt: time.Now(),
		}},
	}

	require.NoError(t, s.Reload(ctx))
	mems := s.Memories()
	require.Len(t, mems, 1)
	assert.Equal(t, "external", mems[0].ID)
}

func TestReloadBeforeLoadRejected(t *testing.T) {
	s := NewStore(&fakeAdapter{})
	assert.ErrorIs(t, s.Reload(context.Background()), ErrNotReady)
}

func TestCapsuleTimelineThroughFacade(t *testing.T) {
	s, _ := readyStore(t)
	ctx := context.Background()

	unlock := time.Now().Add(10 * 24 * time.Hour)
	draft := validDraft()
	draft.IsTimeCapsule = true
	draft.UnlockDate = &unlock
	_, err := s.CreateMemory(ctx, draft)
	require.NoError(t, err)
	_, err = s.CreateMemory(ctx, validDraft()) // not a capsule
	require.NoError(t, err)

	entries := s.CapsuleTimeline()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsLocked)
}

func findEval(t *testing.T, evals []achievement.Evaluation, id string) achievement.Evaluation {
	t.Helper()
	for _, ev := range evals {
		if ev.Definition.ID == id {
			return ev
		}
	}
	t.Fatalf("achievement %q not in evaluations", id)
	return achievement.Evaluation{}
}
