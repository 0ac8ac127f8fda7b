package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"shopledger/internal/logger"
	"shopledger/pkg/models"
)

// FileStore keeps every key in its own JSON file under a directory.
// Writes go to a temporary file that is renamed into place, so a reader never
// sees a partially written document.
type FileStore struct {
	dir string
	log zerolog.Logger
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	const op = "NewFileStore"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: failed to create data directory %s: %w", op, dir, err)
	}

	s := &FileStore{
		dir: dir,
		log: logger.WithComponent("file-store"),
	}
	s.log.Debug().Str("dir", dir).Msg("File store ready")
	return s, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Load(ctx context.Context) (*models.Document, error) {
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

func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	return s.SetItem(ctx, DocumentKey, data)
}

func (s *FileStore) GetItem(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetItem: failed to read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) SetItem(ctx context.Context, key string, value []byte) error {
	const op = "SetItem"

	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%s: failed to create temp file: %w", op, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: failed to write %s: %w", op, key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: failed to sync %s: %w", op, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: failed to close %s: %w", op, key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: failed to replace %s: %w", op, key, err)
	}

	s.log.Debug().
		Str("key", key).
		Int("bytes", len(value)).
		Msg("Item written")
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }
