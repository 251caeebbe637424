package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/reportaudit/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS score_history (
		date TEXT PRIMARY KEY,
		score INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_runs (
		report_id TEXT PRIMARY KEY,
		score INTEGER NOT NULL,
		status TEXT NOT NULL,
		item_count INTEGER NOT NULL,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_runs_created ON audit_runs(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// AuditRun is the persisted summary of one pipeline invocation. Items
// themselves are never written to disk.
type AuditRun struct {
	ReportID  string    `json:"report_id"`
	Score     int       `json:"score"`
	Status    string    `json:"status"`
	ItemCount int       `json:"item_count"`
	LatencyMS int       `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) InsertAuditRun(run *AuditRun) error {
	query := `
		INSERT INTO audit_runs (report_id, score, status, item_count, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(
		query,
		run.ReportID,
		run.Score,
		run.Status,
		run.ItemCount,
		run.LatencyMS,
		run.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert audit run: %w", err)
	}

	logger.Debug("Audit run recorded",
		zap.String("report_id", run.ReportID),
		zap.Int("score", run.Score),
	)

	return nil
}

func (c *Client) GetRecentRuns(limit int) ([]AuditRun, error) {
	query := `
		SELECT report_id, score, status, item_count, latency_ms, created_at
		FROM audit_runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit runs: %w", err)
	}
	defer rows.Close()

	var runs []AuditRun
	for rows.Next() {
		var r AuditRun
		var createdAt int64

		err := rows.Scan(&r.ReportID, &r.Score, &r.Status, &r.ItemCount, &r.LatencyMS, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.CreatedAt = time.Unix(createdAt, 0)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
