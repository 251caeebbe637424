package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRecord(t *testing.T) {
	t.Run("first record creates today's entry", func(t *testing.T) {
		store := NewMemoryStore(0)

		require.NoError(t, store.Record(context.Background(), 85))

		entries, err := store.Entries(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 85, entries[0].Score)
		assert.Equal(t, time.Now().Format("2006-01-02"), entries[0].Date)
		assert.NotZero(t, entries[0].Timestamp)
	})

	t.Run("same-day record updates in place", func(t *testing.T) {
		store := NewMemoryStore(0)

		require.NoError(t, store.Record(context.Background(), 60))
		require.NoError(t, store.Record(context.Background(), 90))

		entries, err := store.Entries(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 90, entries[0].Score)
	})

	t.Run("oldest entries are evicted past the cap", func(t *testing.T) {
		store := NewMemoryStore(3)
		store.entries = []Entry{
			{Date: "2026-08-01", Score: 70},
			{Date: "2026-08-08", Score: 75},
			{Date: "2026-08-15", Score: 80},
		}

		require.NoError(t, store.Record(context.Background(), 95))

		entries, err := store.Entries(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "2026-08-08", entries[0].Date, "oldest entry evicted first")
		assert.Equal(t, 95, entries[2].Score)
	})

	t.Run("zero max falls back to the default cap", func(t *testing.T) {
		store := NewMemoryStore(0)
		assert.Equal(t, DefaultMaxEntries, store.maxEntries)
	})
}

func TestMemoryStorePrevious(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		store := NewMemoryStore(0)

		previous, err := store.Previous(context.Background())
		require.NoError(t, err)
		assert.Nil(t, previous)
	})

	t.Run("returns most recent entry", func(t *testing.T) {
		store := NewMemoryStore(0)
		store.entries = []Entry{
			{Date: "2026-08-22", Score: 70},
			{Date: "2026-08-29", Score: 85},
		}

		previous, err := store.Previous(context.Background())
		require.NoError(t, err)
		require.NotNil(t, previous)
		assert.Equal(t, 85, previous.Score)
	})
}

func TestMemoryStoreEntriesCopy(t *testing.T) {
	store := NewMemoryStore(0)
	require.NoError(t, store.Record(context.Background(), 50))

	entries, err := store.Entries(context.Background())
	require.NoError(t, err)
	entries[0].Score = 1

	again, err := store.Entries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, again[0].Score)
}

func TestScoreDiff(t *testing.T) {
	t.Run("no previous entry", func(t *testing.T) {
		_, ok := ScoreDiff(80, nil)
		assert.False(t, ok)
	})

	t.Run("positive and negative diffs", func(t *testing.T) {
		diff, ok := ScoreDiff(85, &Entry{Score: 70})
		require.True(t, ok)
		assert.Equal(t, 15, diff)

		diff, ok = ScoreDiff(60, &Entry{Score: 75})
		require.True(t, ok)
		assert.Equal(t, -15, diff)
	})
}
