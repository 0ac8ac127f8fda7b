// Package ledger keeps the invoicing document consistent.
//
// A Ledger owns one in-memory models.Document and applies every mutation as
// copy-on-write: the next document is built and validated in full, swapped in,
// and flushed to the DocumentStore in a single Save call. Readers therefore see
// either the state before an operation or the state after it, never a mix.
//
// Business rules live in pure functions (ResolveCustomer, NextNumber,
// ApplyDelta, ComputeTotals, PlanSave) so they can be exercised without a
// store; the Ledger methods add locking, persistence and logging.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"shopledger/internal/logger"
	"shopledger/internal/store"
	"shopledger/pkg/models"
)

// Ledger is safe for concurrent use; operations are serialised.
type Ledger struct {
	mu    sync.Mutex
	store store.DocumentStore
	doc   *models.Document

	now             func() time.Time
	newID           func() string
	restoreOnDelete bool

	validate *validator.Validate
	log      zerolog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator replaces the UUID generator used for new records.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithRestoreStockOnDelete controls whether deleting an invoice gives its
// stock back and reverses the customer's total. Enabled by default.
func WithRestoreStockOnDelete(restore bool) Option {
	return func(l *Ledger) { l.restoreOnDelete = restore }
}

// Open loads the document from s, seeding the default document on first run.
func Open(ctx context.Context, s store.DocumentStore, opts ...Option) (*Ledger, error) {
	const op = "Open"

	l := &Ledger{
		store:           s,
		now:             time.Now,
		newID:           uuid.NewString,
		restoreOnDelete: true,
		validate:        newValidator(),
		log:             logger.WithComponent("ledger"),
	}
	for _, opt := range opts {
		opt(l)
	}

	doc, err := s.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load document: %w", op, err)
	}
	if doc == nil {
		l.log.Info().Msg("No saved data found, seeding default document")
		doc = models.NewDocument()
	}
	doc.Normalize()
	l.doc = doc

	l.log.Debug().
		Int("products", len(doc.Products)).
		Int("categories", len(doc.Categories)).
		Int("customers", len(doc.Customers)).
		Int("invoices", len(doc.Invoices)).
		Msg("Ledger opened")

	return l, nil
}

// Document returns a deep copy of the current document.
func (l *Ledger) Document() *models.Document {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Clone()
}

// commit swaps in next and flushes it. The caller must hold l.mu and must not
// touch next afterwards.
func (l *Ledger) commit(ctx context.Context, op string, next *models.Document) error {
	l.doc = next

	if err := l.store.Save(ctx, next); err != nil {
		l.log.Error().
			Err(err).
			Str("op", op).
			Msg("Failed to persist document; in-memory state is ahead of storage")
		return &PersistenceError{Op: op, Err: err}
	}

	l.log.Debug().Str("op", op).Msg("Document persisted")
	return nil
}
