// Package history tracks the quality score over time as a bounded,
// date-keyed ring: one entry per calendar day, updated in place on
// re-record, oldest evicted past the cap (52 entries, one year of weekly
// reports). The store is an explicit capability handed to whoever needs
// it, not ambient state.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// DefaultMaxEntries keeps one year of weekly scores.
const DefaultMaxEntries = 52

type Entry struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Score     int    `json:"score"`
	Timestamp int64  `json:"timestamp"`
}

type Store interface {
	// Record upserts today's score, evicting the oldest entry when the
	// cap is exceeded.
	Record(ctx context.Context, score int) error
	// Entries returns the retained history, oldest first.
	Entries(ctx context.Context) ([]Entry, error)
	// Previous returns the most recent entry, or nil when the history
	// is empty.
	Previous(ctx context.Context) (*Entry, error)
}

// ScoreDiff returns current minus the previous recorded score. The bool
// is false when there is no previous entry.
func ScoreDiff(current int, previous *Entry) (int, bool) {
	if previous == nil {
		return 0, false
	}
	return current - previous.Score, true
}

// SQLiteStore persists the ring in the score_history table.
type SQLiteStore struct {
	db         *sql.DB
	maxEntries int
}

func NewSQLiteStore(db *sql.DB, maxEntries int) *SQLiteStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &SQLiteStore{db: db, maxEntries: maxEntries}
}

func (s *SQLiteStore) Record(ctx context.Context, score int) error {
	now := time.Now()
	date := now.Format("2006-01-02")

	query := `
		INSERT INTO score_history (date, score, timestamp)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			score = excluded.score,
			timestamp = excluded.timestamp
	`

	_, err := s.db.ExecContext(ctx, query, date, score, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}

	evict := `
		DELETE FROM score_history
		WHERE date NOT IN (
			SELECT date FROM score_history ORDER BY date DESC LIMIT ?
		)
	`

	_, err = s.db.ExecContext(ctx, evict, s.maxEntries)
	if err != nil {
		return fmt.Errorf("failed to trim score history: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, score, timestamp FROM score_history ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.Score, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *SQLiteStore) Previous(ctx context.Context) (*Entry, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `SELECT date, score, timestamp FROM score_history ORDER BY date DESC LIMIT 1`).
		Scan(&e.Date, &e.Score, &e.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query previous score: %w", err)
	}
	return &e, nil
}

// MemoryStore is the in-process implementation, used in tests and by
// embedding callers that supply their own persistence.
type MemoryStore struct {
	mu         sync.Mutex
	entries    []Entry
	maxEntries int
}

func NewMemoryStore(maxEntries int) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{maxEntries: maxEntries}
}

func (s *MemoryStore) Record(ctx context.Context, score int) error {
	now := time.Now()
	entry := Entry{
		Date:      now.Format("2006-01-02"),
		Score:     score,
		Timestamp: now.Unix(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := false
	for i := range s.entries {
		if s.entries[i].Date == entry.Date {
			s.entries[i] = entry
			updated = true
			break
		}
	}
	if !updated {
		s.entries = append(s.entries, entry)
	}

	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[len(s.entries)-s.maxEntries:]
	}

	return nil
}

func (s *MemoryStore) Entries(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Entry(nil), s.entries...), nil
}

func (s *MemoryStore) Previous(ctx context.Context) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return nil, nil
	}
	last := s.entries[len(s.entries)-1]
	return &last, nil
}
