package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed implementation of Log and LLMLog.
type Store struct {
	db *sql.DB
}

var _ Log = (*Store)(nil)
var _ LLMLog = (*Store)(nil)

// Open connects to the SQLite database at dsn, applies recommended pragmas,
// and creates the tables if they don't exist.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores a new message record, assigning ID and CreatedAt.
func (s *Store) Append(ctx context.Context, rec *Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (mode, sender, content, created_at) VALUES (?, ?, ?, ?)`,
		string(rec.Mode), rec.Sender, rec.Content, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("append message id: %w", err)
	}
	return nil
}

// ReadAll returns all records for a mode, oldest first. The insertion id is
// the tiebreaker for records created within the same nanosecond.
func (s *Store) ReadAll(ctx context.Context, mode Mode) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, sender, content, created_at
		 FROM messages WHERE mode = ? ORDER BY created_at, id`,
		string(mode),
	)
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var mode string
		var createdAt int64
		if err := rows.Scan(&rec.ID, &mode, &rec.Sender, &rec.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		rec.Mode = Mode(mode)
		rec.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Clear deletes a mode's transcript. Used only by the reset command — the
// chat core itself never deletes records.
func (s *Store) Clear(ctx context.Context, mode Mode) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE mode = ?`, string(mode))
	if err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return nil
}

// AppendLLMRequest records one model API call.
func (s *Store) AppendLLMRequest(ctx context.Context, data LLMRequestData) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO llm_log (provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.Success, data.ErrorMessage, time.Now().UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("append llm request: %w", err)
	}
	return nil
}

// LLMUsageByModel aggregates the request log per model.
func (s *Store) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT model, COUNT(*), SUM(CASE WHEN success THEN 0 ELSE 1 END),
		        COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0)
		 FROM llm_log GROUP BY model ORDER BY model`,
	)
	if err != nil {
		return nil, fmt.Errorf("llm usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		if err := rows.Scan(&u.Model, &u.Requests, &u.Failures, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// applyPragmas configures SQLite for single-user interactive use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			sender TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_mode_created ON messages (mode, created_at)`,
		`CREATE TABLE IF NOT EXISTS llm_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms INTEGER NOT NULL DEFAULT 0,
			success INTEGER NOT NULL DEFAULT 1,
			error_message TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. AVA_DB environment variable
// 2. $XDG_DATA_HOME/ava/ava.db
// 3. ~/.local/share/ava/ava.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("AVA_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "ava", "ava.db")
	return p, EnsureDir(p)
}

// DocumentsDir resolves the directory for uploaded attachment copies,
// next to the database file.
func DocumentsDir() (string, error) {
	dbPath, err := DefaultDBPath()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(filepath.Dir(dbPath), "documents")
	return dir, os.MkdirAll(dir, 0o755)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
