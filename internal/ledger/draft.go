package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"shopledger/pkg/models"
)

// Draft is an invoice being composed. It works on a private copy of the
// product list so stock checks see the units already placed on the draft; the
// persisted stock only changes when the resulting input is saved.
type Draft struct {
	id       string
	products []models.Product
	items    []models.LineItem
	newID    func() string

	Number        string
	Date          string
	CustomerName  string
	CustomerPhone string
	Discount      decimal.Decimal
	DiscountType  models.DiscountType
}

// NewDraft starts a draft for a new invoice with the next number and today's date.
func (l *Ledger) NewDraft() *Draft {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &Draft{
		products:     cloneProducts(l.doc.Products),
		newID:        l.newID,
		Number:       NextNumber(l.doc.Invoices, l.doc.Settings.InvoicePrefix, l.doc.Settings.InvoiceStart),
		Date:         l.now().Format(DateLayout),
		DiscountType: models.DiscountFlat,
	}
}

// EditDraft starts a draft from a saved invoice. The saved stock already has
// the invoice's rows taken out, so the draft starts from it unchanged.
func (l *Ledger) EditDraft(id string) (*Draft, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindInvoice(id)
	if idx < 0 {
		return nil, ErrInvoiceNotFound
	}
	inv := l.doc.Invoices[idx].Clone()

	value := inv.DiscountValue
	if value.IsZero() && inv.DiscountType == "" {
		// documents written before the discount input was stored
		value = inv.Discount
	}

	name := inv.CustomerName
	if isWalkIn(inv) {
		name = ""
	}

	return &Draft{
		id:            inv.ID,
		products:      cloneProducts(l.doc.Products),
		items:         inv.Items,
		newID:         l.newID,
		Number:        inv.Number,
		Date:          inv.Date,
		CustomerName:  name,
		CustomerPhone: inv.CustomerPhone,
		Discount:      value,
		DiscountType:  inv.DiscountType,
	}, nil
}

// AddItem places name on the draft. A name matching a product (ignoring case)
// becomes a stock-tracked row at the product's price unless price is non-zero;
// any other name becomes a custom row and needs a positive price. Quantities
// below one count as one.
func (d *Draft) AddItem(name string, price decimal.Decimal, qty int) (models.LineItem, error) {
	if qty < 1 {
		qty = 1
	}
	if price.IsNegative() {
		return models.LineItem{}, NewValidationError("price", price.String(), "Please enter a valid price")
	}

	item := models.LineItem{ID: d.newID(), Name: name, Price: price, Quantity: qty}

	if idx := findProductByName(d.products, name); idx >= 0 {
		p := d.products[idx]
		if p.TracksStock() && *p.Stock < qty {
			return models.LineItem{}, NewValidationError("quantity", qty, fmt.Sprintf("Only %d items available in stock", *p.Stock))
		}
		item.Name = p.Name
		item.ProductID = p.ID
		if item.Price.IsZero() {
			item.Price = p.Price
		}
		d.products = adjustAt(d.products, idx, qty, Consume)
	} else if name == "" || !price.IsPositive() {
		return models.LineItem{}, NewValidationError("price", price.String(), "Please select a product or enter a custom price")
	}

	item.Total = lineTotal(item.Price, item.Quantity)
	d.items = append(d.items, item)
	return item, nil
}

// RemoveItem takes a row off the draft and gives its units back.
func (d *Draft) RemoveItem(itemID string) error {
	for i, item := range d.items {
		if item.ID != itemID {
			continue
		}
		if !item.IsCustom() {
			d.products = adjustAt(d.products, findItemProduct(d.products, item), item.Quantity, Restore)
		}
		d.items = append(d.items[:i:i], d.items[i+1:]...)
		return nil
	}
	return ErrItemNotFound
}

// Items returns the rows placed so far.
func (d *Draft) Items() []models.LineItem {
	return append([]models.LineItem(nil), d.items...)
}

// Available returns the draft's view of a product's stock; ok is false for
// unknown or untracked products.
func (d *Draft) Available(name string) (stock int, ok bool) {
	idx := findProductByName(d.products, name)
	if idx < 0 || !d.products[idx].TracksStock() {
		return 0, false
	}
	return *d.products[idx].Stock, true
}

// Totals computes the draft's amounts.
func (d *Draft) Totals() Totals {
	return ComputeTotals(d.items, d.Discount, d.DiscountType)
}

// Input converts the draft for SaveInvoice.
func (d *Draft) Input() InvoiceInput {
	return InvoiceInput{
		ID:            d.id,
		Number:        d.Number,
		Date:          d.Date,
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		Items:         d.Items(),
		Discount:      d.Discount,
		DiscountType:  d.DiscountType,
	}
}

func cloneProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
