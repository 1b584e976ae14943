package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/scrapbook/pkg/types"
)

func TestParseEntryFullFrontMatter(t *testing.T) {
	content := []byte(`---
title: Cabin weekend
date: 2026-02-14
location: Lake Bled
mood: peaceful
tags:
  - winter
  - friends
---
We rented the same cabin as last year. #snow
`)

	entry, err := ParseEntry(content, "journal/2026/cabin.md")
	require.NoError(t, err)

	d := entry.Draft
	assert.Equal(t, "Cabin weekend", d.Title)
	assert.Equal(t, "Lake Bled", d.Location)
	assert.Equal(t, types.MoodPeaceful, d.Mood)
	assert.Equal(t, types.MemoryTypeText, d.Type)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), d.Date)
	assert.Equal(t, []string{"winter", "friends", "snow"}, d.Tags)
	assert.Contains(t, d.Content, "rented the same cabin")
	assert.NotContains(t, d.Content, "---", "front matter is stripped from the body")
}

func TestParseEntryNoFrontMatter(t *testing.T) {
	content := []byte("# Morning run\n\nFirst 10k of the year. #running\n")

	entry, err := ParseEntry(content, "notes/morning-run.md")
	require.NoError(t, err)

	assert.Equal(t, "Morning run", entry.Draft.Title, "H1 heading wins over filename")
	assert.Equal(t, []string{"running"}, entry.Draft.Tags)
	assert.False(t, entry.Draft.Date.IsZero(), "missing date falls back to now")
}

func TestParseEntryTitleFromFilename(t *testing.T) {
	entry, err := ParseEntry([]byte("just some text"), "old_trip-notes.md")
	require.NoError(t, err)
	assert.Equal(t, "old trip notes", entry.Draft.Title)
}

func TestParseEntryCommaSeparatedTags(t *testing.T) {
	content := []byte("---\ntags: alpha, beta , alpha\n---\nbody\n")

	entry, err := ParseEntry(content, "x.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, entry.Draft.Tags, "tags deduplicate case-insensitively")
}

func TestParseEntryUnknownMoodDropped(t *testing.T) {
	content := []byte("---\nmood: chaotic\n---\nbody\n")

	entry, err := ParseEntry(content, "x.md")
	require.NoError(t, err)
	assert.Empty(t, entry.Draft.Mood, "unknown mood degrades to unset, not an import failure")
}

func TestParseEntryInvalidFrontMatter(t *testing.T) {
	content := []byte("---\ntitle: [unclosed\n---\nbody\n")

	_, err := ParseEntry(content, "broken.md")
	assert.Error(t, err)
}

func TestParseEntryUnclosedFrontMatterTreatedAsBody(t *testing.T) {
	content := []byte("---\ntitle: never closed\njust text\n")

	entry, err := ParseEntry(content, "odd.md")
	require.NoError(t, err)
	assert.Contains(t, entry.Draft.Content, "never closed")
}

func TestParseEntryDateLayouts(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want time.Time
	}{
		{"2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2026-03-01T08:30:00", time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)},
		{"January 2, 2026", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
	} {
		entry, err := ParseEntry([]byte("---\ndate: \""+tc.raw+"\"\n---\nbody\n"), "x.md")
		require.NoError(t, err, tc.raw)
		assert.True(t, entry.Draft.Date.Equal(tc.want), "layout %s", tc.raw)
	}
}
