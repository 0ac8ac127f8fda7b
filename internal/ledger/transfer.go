package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"shopledger/pkg/models"
)

// ExportFilename is the suggested file name for an export taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("shopledger-data-%s.json", now.Format(DateLayout))
}

// Export writes the whole document as indented JSON.
func (l *Ledger) Export(w io.Writer) error {
	const op = "Export"

	doc := l.Document()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: failed to encode document: %w", op, err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%s: failed to write export: %w", op, err)
	}
	return nil
}

// Import replaces the document with the JSON read from r. Malformed input is
// reported as *FormatError and the current document is kept.
func (l *Ledger) Import(ctx context.Context, r io.Reader) (*models.Document, error) {
	const op = "Import"

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read input: %w", op, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, &FormatError{Err: errors.New("no document in input")}
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Err: err}
	}
	doc.Normalize()

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.commit(ctx, op, &doc); err != nil {
		return doc.Clone(), err
	}

	l.log.Info().
		Int("products", len(doc.Products)).
		Int("customers", len(doc.Customers)).
		Int("invoices", len(doc.Invoices)).
		Msg("Document imported")
	return doc.Clone(), nil
}

// Clear resets the ledger to a freshly seeded document.
func (l *Ledger) Clear(ctx context.Context) error {
	const op = "Clear"

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.commit(ctx, op, models.NewDocument()); err != nil {
		return err
	}
	l.log.Warn().Msg("All data cleared")
	return nil
}
