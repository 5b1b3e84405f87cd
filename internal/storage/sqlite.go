// Package storage persists accepted quiz sessions and their terminal
// outcomes as an audit trail. Loop behavior never depends on it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"QuizSolver/internal/domain"
	"QuizSolver/internal/ports"
)

// SQLiteStore implements ports.ResultStore over an embedded database.
type SQLiteStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.ResultStore = (*SQLiteStore)(nil)

// NewSQLite opens (creating if needed) the store at the given path.
func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS quiz_sessions (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		start_url TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		state TEXT NOT NULL,
		questions_solved INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_quiz_sessions_state ON quiz_sessions(state);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveAccepted records a freshly accepted session in the running state.
func (s *SQLiteStore) SaveAccepted(ctx context.Context, rec domain.SessionRecord) error {
	query, args, err := s.sb.
		Insert("quiz_sessions").
		Columns("id", "email", "start_url", "started_at", "state", "updated_at").
		Values(rec.ID, rec.Email, rec.StartURL, rec.StartedAt.Unix(), string(domain.SessionRunning), time.Now().Unix()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SaveOutcome upserts the terminal state of a session.
func (s *SQLiteStore) SaveOutcome(ctx context.Context, id string, state domain.SessionState, solved int, errText string) error {
	query, args, err := s.sb.
		Update("quiz_sessions").
		Set("state", string(state)).
		Set("questions_solved", solved).
		Set("error", errText).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
