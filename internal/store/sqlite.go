package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"shopledger/internal/logger"
	"shopledger/pkg/models"

	_ "modernc.org/sqlite"
)

// schema is applied in order on every open; statements must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS kv (
        key        TEXT PRIMARY KEY,
        value      BLOB NOT NULL,
        updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );`,
}

// SQLiteStore keeps items in a single key/value table.
type SQLiteStore struct {
	db  *sqlx.DB
	log zerolog.Logger
}

// NewSQLiteStore opens (and creates, if needed) the database at dsn.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	const op = "NewSQLiteStore"

	if dsn == "" {
		return nil, fmt.Errorf("%s: empty DSN", op)
	}
	if path := sqlitePath(dsn); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%s: failed to create database directory: %w", op, err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	// one writer keeps SQLite from returning SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:  db,
		log: logger.WithComponent("sqlite-store"),
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug().Str("dsn", dsn).Msg("SQLite store ready")
	return s, nil
}

// sqlitePath extracts the file path from a DSN, or "" for in-memory databases.
func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	return path
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// DB returns the underlying database handle.
func (s *SQLiteStore) DB() *sqlx.DB { return s.db }

func (s *SQLiteStore) Load(ctx context.Context) (*models.Document, error) {
	data, err := s.GetItem(ctx, DocumentKey)
	if errors.Is(err, ErrKeyNotFound) {
		s.log.Debug().Msg("No saved document, starting fresh")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDocument(data)
}

func (s *SQLiteStore) Save(ctx context.Context, doc *models.Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	return s.SetItem(ctx, DocumentKey, data)
}

func (s *SQLiteStore) GetItem(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetItem: failed to read %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) SetItem(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("SetItem: failed to write %s: %w", key, err)
	}

	s.log.Debug().
		Str("key", key).
		Int("bytes", len(value)).
		Msg("Item written")
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
