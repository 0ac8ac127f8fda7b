// Package store persists the ledger document.
//
// A DocumentStore holds one JSON document under DocumentKey plus arbitrary
// auxiliary key/value items. Three backends are provided:
//   - FileStore: one JSON file per key inside a data directory
//   - SQLiteStore: a key/value table in a SQLite database (pure Go driver)
//   - MemoryStore: process-local, used by tests and the "memory" driver
//
// Load returns (nil, nil) when nothing has been saved yet; callers seed a
// default document in that case.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"shopledger/internal/config"
	"shopledger/pkg/models"
)

// DocumentKey is the key under which the ledger document is stored.
const DocumentKey = "ShopLedgerData"

var (
	// ErrKeyNotFound is returned by GetItem when the key has never been set.
	ErrKeyNotFound = errors.New("store: key not found")

	// ErrInvalidKey is returned for keys that cannot be used as a file name.
	ErrInvalidKey = errors.New("store: invalid key")

	// ErrClosed is returned after Close has been called.
	ErrClosed = errors.New("store: closed")
)

// DocumentStore is the persistence boundary of the ledger.
type DocumentStore interface {
	// Load returns the saved document, or nil if none exists.
	Load(ctx context.Context) (*models.Document, error)

	// Save replaces the saved document in a single write.
	Save(ctx context.Context, doc *models.Document) error

	// GetItem returns the raw value of an auxiliary key.
	GetItem(ctx context.Context, key string) ([]byte, error)

	// SetItem stores the raw value of an auxiliary key.
	SetItem(ctx context.Context, key string, value []byte) error

	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func encodeDocument(doc *models.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func decodeDocument(data []byte) (*models.Document, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

// Open creates the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (DocumentStore, error) {
	switch cfg.StoreDriver {
	case config.DriverFile:
		return NewFileStore(cfg.DataDir)
	case config.DriverSQLite:
		return NewSQLiteStore(ctx, cfg.SQLiteDSN)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("store: unknown driver %q", cfg.StoreDriver)
	}
}
