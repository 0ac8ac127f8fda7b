package models

import "github.com/shopspring/decimal"

// DiscountType selects how an invoice discount value is interpreted.
type DiscountType string

const (
	DiscountFlat       DiscountType = "flat"       // absolute amount in the document currency
	DiscountPercentage DiscountType = "percentage" // percent of the subtotal
)

// Valid reports whether t is a known discount type. The empty value counts as flat.
func (t DiscountType) Valid() bool {
	return t == "" || t == DiscountFlat || t == DiscountPercentage
}

type Invoice struct {
	// Core identifiers
	ID     string `json:"id"`     // Unique invoice identifier
	Number string `json:"number"` // Human-readable number, prefix + digits (e.g. INV-1001)
	Date   string `json:"date"`   // Invoice date, YYYY-MM-DD

	// Customer attribution (CustomerID is empty for walk-in invoices)
	CustomerID    string `json:"customerId,omitempty"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`

	Items []LineItem `json:"items"`

	// Amounts
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`               // Discount amount actually subtracted
	DiscountValue decimal.Decimal `json:"discountValue"`          // Discount as entered
	DiscountType  DiscountType    `json:"discountType,omitempty"` // How DiscountValue is applied
	Total         decimal.Decimal `json:"total"`                  // Subtotal - Discount, may be negative

	CreatedAt Timestamp  `json:"createdAt"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"` // nil until the first edit
}

// LineItem is a single invoice row. A non-empty ProductID marks the row as
// stock-tracked; custom rows carry only a name and a price.
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	ProductID string          `json:"productId,omitempty"`
}

// IsCustom reports whether the item has no backing product.
func (li LineItem) IsCustom() bool {
	return li.ProductID == ""
}

// Clone returns a copy of the invoice that shares no slices with inv.
func (inv Invoice) Clone() Invoice {
	out := inv
	out.Items = append([]LineItem(nil), inv.Items...)
	if inv.UpdatedAt != nil {
		ts := *inv.UpdatedAt
		out.UpdatedAt = &ts
	}
	return out
}
