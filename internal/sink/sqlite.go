package sink

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/leok974/ai-finance-agent-oss-sub001/internal/common"
)

// SQLiteSink appends decision events to an event table. The surrounding
// system's dashboards read this table; the serving core only ever inserts.
type SQLiteSink struct {
	db     *sql.DB
	insert *sql.Stmt
}

const eventSchema = `
CREATE TABLE IF NOT EXISTS suggestion_events (
	id TEXT PRIMARY KEY,
	txn_id TEXT NOT NULL,
	label TEXT NOT NULL,
	confidence REAL NOT NULL,
	source TEXT NOT NULL,
	shadow_agreement TEXT NOT NULL,
	model_version TEXT NOT NULL DEFAULT '',
	fallback TEXT NOT NULL DEFAULT '',
	duration_us INTEGER NOT NULL DEFAULT 0,
	occurred_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_suggestion_events_occurred_at ON suggestion_events(occurred_at);
CREATE INDEX IF NOT EXISTS idx_suggestion_events_source ON suggestion_events(source);
`

// NewSQLiteSink opens (creating if needed) the event database at dbPath.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sink: %w: empty database path", common.ErrInvalidConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(eventSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create event schema: %w", err)
	}

	insert, err := db.Prepare(`INSERT INTO suggestion_events
		(id, txn_id, label, confidence, source, shadow_agreement, model_version, fallback, duration_us, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}

	return &SQLiteSink{db: db, insert: insert}, nil
}

// Emit implements Sink.
func (s *SQLiteSink) Emit(e Event) error {
	_, err := s.insert.Exec(
		e.ID,
		e.TransactionID,
		e.Label,
		e.Confidence,
		string(e.Source),
		string(e.ShadowAgreement),
		e.ModelVersion,
		e.Fallback,
		e.Duration.Microseconds(),
		e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Close implements Sink.
func (s *SQLiteSink) Close() error {
	if err := s.insert.Close(); err != nil {
		_ = s.db.Close()
		return fmt.Errorf("failed to close statement: %w", err)
	}
	return s.db.Close()
}
