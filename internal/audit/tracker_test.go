package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trackedItem(t *testing.T, tracker *Tracker) AuditItem {
	t.Helper()
	item := openItem(PatternShallowAnalysis)
	tracker.Register([]AuditItem{item})
	return item
}

func TestTrackerResolve(t *testing.T) {
	t.Run("open item becomes resolved", func(t *testing.T) {
		tracker := NewTracker()
		item := trackedItem(t, tracker)

		assert.True(t, tracker.Resolve(item.ID))

		got, ok := tracker.Get(item.ID)
		require.True(t, ok)
		assert.Equal(t, StatusResolved, got.Status)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		tracker := NewTracker()
		assert.False(t, tracker.Resolve("nope"))
	})

	t.Run("resolve on dismissed item is a no-op", func(t *testing.T) {
		tracker := NewTracker()
		item := trackedItem(t, tracker)

		require.True(t, tracker.Dismiss(item.ID, "duplicate"))
		assert.False(t, tracker.Resolve(item.ID))

		got, _ := tracker.Get(item.ID)
		assert.Equal(t, StatusDismissed, got.Status)
	})

	t.Run("resolve twice changes nothing", func(t *testing.T) {
		tracker := NewTracker()
		item := trackedItem(t, tracker)

		require.True(t, tracker.Resolve(item.ID))
		assert.False(t, tracker.Resolve(item.ID))
	})
}

func TestTrackerDismiss(t *testing.T) {
	t.Run("dismiss with reason sets status and reason", func(t *testing.T) {
		tracker := NewTracker()
		item := trackedItem(t, tracker)

		assert.True(t, tracker.Dismiss(item.ID, "known limitation"))

		got, ok := tracker.Get(item.ID)
		require.True(t, ok)
		assert.Equal(t, StatusDismissed, got.Status)
		assert.Equal(t, "known limitation", got.DismissReason)
	})

	t.Run("empty reason leaves item unchanged", func(t *testing.T) {
		tracker := NewTracker()
		item := trackedItem(t, tracker)

		assert.False(t, tracker.Dismiss(item.ID, ""))

		got, _ := tracker.Get(item.ID)
		assert.Equal(t, StatusOpen, got.Status)
		assert.Empty(t, got.DismissReason)
	})

	t.Run("whitespace-only reason is rejected", func(t *testing.T) {
		tracker := NewTracker()
		item := trackedItem(t, tracker)

		assert.False(t, tracker.Dismiss(item.ID, "   \t"))

		got, _ := tracker.Get(item.ID)
		assert.Equal(t, StatusOpen, got.Status)
	})

	t.Run("dismiss on resolved item is a no-op", func(t *testing.T) {
		tracker := NewTracker()
		item := trackedItem(t, tracker)

		require.True(t, tracker.Resolve(item.ID))
		assert.False(t, tracker.Dismiss(item.ID, "reason"))

		got, _ := tracker.Get(item.ID)
		assert.Equal(t, StatusResolved, got.Status)
	})
}

func TestTrackerGet(t *testing.T) {
	t.Run("returns a copy", func(t *testing.T) {
		tracker := NewTracker()
		item := trackedItem(t, tracker)

		got, ok := tracker.Get(item.ID)
		require.True(t, ok)

		got.Status = StatusResolved

		again, _ := tracker.Get(item.ID)
		assert.Equal(t, StatusOpen, again.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		tracker := NewTracker()
		_, ok := tracker.Get("missing")
		assert.False(t, ok)
	})
}

func TestTrackerRegister(t *testing.T) {
	t.Run("runs never merge", func(t *testing.T) {
		tracker := NewTracker()

		first := NewItems([]Finding{{Pattern: PatternShallowAnalysis, MatchedText: "a"}}, time.Now())
		second := NewItems([]Finding{{Pattern: PatternShallowAnalysis, MatchedText: "a"}}, time.Now())

		tracker.Register(first)
		tracker.Register(second)

		assert.NotEqual(t, first[0].ID, second[0].ID)

		_, ok := tracker.Get(first[0].ID)
		assert.True(t, ok)
		_, ok = tracker.Get(second[0].ID)
		assert.True(t, ok)
	})
}
