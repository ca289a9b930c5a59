package resultcache

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/raysh454/vulnscan-web/internal/logging"

	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

// SQLiteStore keeps payloads in a SQLite table so they survive restarts.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

// OpenSQLiteStore opens (creating if needed) the database at path.
func OpenSQLiteStore(path string, logger logging.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir for %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening result cache database: %w", err)
	}
	s, err := NewSQLiteStore(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore runs the schema on db and returns a store using it.
func NewSQLiteStore(db *sql.DB, logger logging.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger.With(logging.Field{Key: "component", Value: "resultcache"})}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, sessionID string, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cached_results (session_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
		  payload = excluded.payload,
		  updated_at = excluded.updated_at
	`, sessionID, payload, time.Now().UnixMilli())
	if err != nil {
		s.logger.Warn("writing cached result", logging.Field{Key: "error", Value: err.Error()})
		return fmt.Errorf("upsert cached result: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, sessionID string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM cached_results WHERE session_id = ?`, sessionID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("select cached result: %w", err)
	}
	return payload, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
