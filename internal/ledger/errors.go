package ledger

import (
	"errors"
	"fmt"
)

// Lookup and referential-integrity errors.
var (
	// ErrNotFound is matched by every *NotFound error below.
	ErrNotFound = errors.New("not found")

	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	ErrInvoiceNotFound  = fmt.Errorf("invoice %w", ErrNotFound)
	ErrItemNotFound     = fmt.Errorf("line item %w", ErrNotFound)

	// ErrCategoryInUse is returned when deleting a category that products still reference.
	ErrCategoryInUse = errors.New("Cannot delete category with products. Reassign or delete products first.")

	// ErrCustomerHasInvoices is returned when deleting a customer that invoices still reference.
	ErrCustomerHasInvoices = errors.New("Cannot delete customer with invoices. Delete invoices first.")

	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
)

// ValidationError is returned when input is rejected before any mutation.
// Message is meant to be shown to the user as is.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true for any validation error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// PersistenceError reports a failed store write. The in-memory document
// already holds the new state when this is returned.
type PersistenceError struct {
	// Op is the ledger operation whose flush failed (e.g. "SaveInvoice").
	Op string

	// Err is the underlying store error.
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger: %s: failed to persist document: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// FormatError is returned when an import payload is not a valid document.
type FormatError struct {
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("Invalid JSON file: %v", e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is one of the lookup errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// UserMessage returns the text to show for err: the bare message for
// validation and integrity errors, err.Error() otherwise.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
