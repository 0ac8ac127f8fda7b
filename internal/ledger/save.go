package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"shopledger/pkg/models"
)

// DateLayout is the format of Invoice.Date.
const DateLayout = "2006-01-02"

// InvoiceInput is what a caller submits to create (empty ID) or edit an invoice.
// Item totals and ids are filled in by the ledger.
type InvoiceInput struct {
	ID            string
	Number        string
	Date          string
	CustomerName  string
	CustomerPhone string
	Items         []models.LineItem
	Discount      decimal.Decimal
	DiscountType  models.DiscountType
}

// SaveResult describes a successful save.
type SaveResult struct {
	Invoice models.Invoice
	Created bool
}

// Message is the outcome text shown to the user.
func (r SaveResult) Message() string {
	if r.Created {
		return "Invoice saved successfully!"
	}
	return "Invoice updated successfully!"
}

// PlanSave validates in against doc and returns the document that results from
// saving it. doc is not modified. On a validation failure the returned error is
// a *ValidationError and no document is returned.
func PlanSave(doc *models.Document, in InvoiceInput, now time.Time, newID func() string) (*models.Document, SaveResult, error) {
	var prev *models.Invoice
	if in.ID != "" {
		idx := doc.FindInvoice(in.ID)
		if idx < 0 {
			return nil, SaveResult{}, ErrInvoiceNotFound
		}
		prev = &doc.Invoices[idx]
	}

	if err := validateInput(doc, in); err != nil {
		return nil, SaveResult{}, err
	}

	items := make([]models.LineItem, len(in.Items))
	for i, item := range in.Items {
		item.Name = strings.TrimSpace(item.Name)
		if item.ID == "" {
			item.ID = newID()
		}
		item.Total = lineTotal(item.Price, item.Quantity)
		items[i] = item
	}

	discountType := in.DiscountType
	if discountType == "" {
		discountType = models.DiscountFlat
	}
	totals := ComputeTotals(items, in.Discount, discountType)

	next := doc.Clone()

	if prev != nil {
		next.Products = applyItems(next.Products, prev.Items, Restore)
	}
	next.Products = applyItems(next.Products, items, Consume)

	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.CustomerPhone)
	update := CustomerUpdate{Name: name, Phone: phone, Amount: totals.Total.Round(2)}
	if prev != nil {
		update.IsEdit = true
		update.ExistingID = prev.CustomerID
		// a walk-in invoice never counted towards anyone
		if !isWalkIn(*prev) {
			update.OldAmount = prev.Total
		}
	}
	customerID, customers := ResolveCustomer(next.Customers, update, newID, now)
	next.Customers = customers

	if name == "" {
		name = WalkInCustomer
	}
	inv := models.Invoice{
		Number:        strings.TrimSpace(in.Number),
		Date:          in.Date,
		CustomerID:    customerID,
		CustomerName:  name,
		CustomerPhone: phone,
		Items:         items,
		Subtotal:      totals.Subtotal.Round(2),
		Discount:      totals.Discount.Round(2),
		DiscountValue: in.Discount,
		DiscountType:  discountType,
		Total:         totals.Total.Round(2),
	}

	result := SaveResult{Created: prev == nil}
	if prev == nil {
		inv.ID = newID()
		inv.CreatedAt = models.NewTimestamp(now)
		next.Invoices = append(next.Invoices, inv)
	} else {
		inv.ID = prev.ID
		inv.CreatedAt = prev.CreatedAt
		ts := models.NewTimestamp(now)
		inv.UpdatedAt = &ts
		next.Invoices[next.FindInvoice(prev.ID)] = inv
	}
	result.Invoice = inv.Clone()

	return next, result, nil
}

func isWalkIn(inv models.Invoice) bool {
	return inv.CustomerID == "" && inv.CustomerPhone == "" &&
		(inv.CustomerName == "" || inv.CustomerName == WalkInCustomer)
}

// validateInput runs the save checks in order and stops at the first failure.
func validateInput(doc *models.Document, in InvoiceInput) error {
	if len(in.Items) == 0 {
		return NewValidationError("items", nil, "Please add at least one item to the invoice")
	}

	number := strings.TrimSpace(in.Number)
	if number == "" {
		return NewValidationError("number", in.Number, "Please enter invoice number")
	}
	if NumberTaken(doc.Invoices, number, in.ID) {
		return NewValidationError("number", number, "Invoice number already exists. Please use a different number.")
	}

	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return NewValidationError("date", in.Date, "Please enter a valid date")
	}

	if strings.TrimSpace(in.CustomerPhone) != "" && strings.TrimSpace(in.CustomerName) == "" {
		return NewValidationError("customerName", in.CustomerName, "Customer name is required when phone number is provided")
	}

	if in.Discount.IsNegative() {
		return NewValidationError("discount", in.Discount.String(), "Discount cannot be negative")
	}
	if !in.DiscountType.Valid() {
		return NewValidationError("discountType", string(in.DiscountType), "Discount type must be flat or percentage")
	}

	for _, item := range in.Items {
		if strings.TrimSpace(item.Name) == "" {
			return NewValidationError("items.name", item.Name, "Item name is required")
		}
		if item.Quantity < 1 {
			return NewValidationError("items.quantity", item.Quantity, "Item quantity must be at least 1")
		}
		if item.Price.IsNegative() {
			return NewValidationError("items.price", item.Price.String(), "Please enter a valid price")
		}
	}
	return nil
}

// SaveInvoice validates and stores in as a single document update.
func (l *Ledger) SaveInvoice(ctx context.Context, in InvoiceInput) (SaveResult, error) {
	const op = "SaveInvoice"

	l.mu.Lock()
	defer l.mu.Unlock()

	next, result, err := PlanSave(l.doc, in, l.now(), l.newID)
	if err != nil {
		l.log.Debug().Err(err).Str("invoice_id", in.ID).Msg("Invoice rejected")
		return SaveResult{}, err
	}
	if err := l.commit(ctx, op, next); err != nil {
		return result, err
	}

	l.log.Info().
		Str("invoice_id", result.Invoice.ID).
		Str("number", result.Invoice.Number).
		Str("total", result.Invoice.Total.StringFixed(2)).
		Bool("created", result.Created).
		Msg("Invoice saved")

	return result, nil
}

// DeleteInvoice removes an invoice. Unless disabled with
// WithRestoreStockOnDelete(false), its stock is given back and its total is
// taken off the attributed customer.
func (l *Ledger) DeleteInvoice(ctx context.Context, id string) (models.Invoice, error) {
	const op = "DeleteInvoice"

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindInvoice(id)
	if idx < 0 {
		return models.Invoice{}, ErrInvoiceNotFound
	}
	removed := l.doc.Invoices[idx].Clone()

	next := l.doc.Clone()
	next.Invoices = append(next.Invoices[:idx], next.Invoices[idx+1:]...)
	if l.restoreOnDelete {
		next.Products = applyItems(next.Products, removed.Items, Restore)
		adjustSpent(next.Customers, removed.CustomerID, removed.Total.Neg())
	}

	if err := l.commit(ctx, op, next); err != nil {
		return removed, err
	}

	l.log.Info().
		Str("invoice_id", removed.ID).
		Str("number", removed.Number).
		Bool("restored", l.restoreOnDelete).
		Msg("Invoice deleted")

	return removed, nil
}
