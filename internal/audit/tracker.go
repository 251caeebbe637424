package audit

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/reportaudit/backend/pkg/logger"
)

// Tracker holds the items the pipeline has produced and owns their
// lifecycle: open -> resolved, or open -> dismissed with a reason. Both
// end states are terminal. Misuse (unknown id, non-open item, blank
// dismiss reason) is a silent no-op, never an error.
type Tracker struct {
	mu    sync.RWMutex
	items map[string]*AuditItem
}

func NewTracker() *Tracker {
	return &Tracker{
		items: make(map[string]*AuditItem),
	}
}

// Register adds items from a pipeline run. Items are never merged or
// deduplicated across runs; each run contributes fresh identities.
func (t *Tracker) Register(items []AuditItem) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range items {
		item := items[i]
		t.items[item.ID] = &item
	}
}

// Get returns a copy of the item, if tracked.
func (t *Tracker) Get(id string) (AuditItem, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	item, ok := t.items[id]
	if !ok {
		return AuditItem{}, false
	}
	return *item, true
}

// Resolve transitions an open item to resolved. Returns whether the
// state changed.
func (t *Tracker) Resolve(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	item, ok := t.items[id]
	if !ok || item.Status != StatusOpen {
		return false
	}

	item.Status = StatusResolved

	logger.Info("Audit item resolved",
		zap.String("item_id", id),
		zap.String("pattern", string(item.Pattern)),
	)

	return true
}

// Dismiss transitions an open item to dismissed. A blank or
// whitespace-only reason is rejected with no state change.
func (t *Tracker) Dismiss(id, reason string) bool {
	if strings.TrimSpace(reason) == "" {
		logger.Warn("Dismiss rejected: empty reason", zap.String("item_id", id))
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	item, ok := t.items[id]
	if !ok || item.Status != StatusOpen {
		return false
	}

	item.Status = StatusDismissed
	item.DismissReason = reason

	logger.Info("Audit item dismissed",
		zap.String("item_id", id),
		zap.String("pattern", string(item.Pattern)),
	)

	return true
}
