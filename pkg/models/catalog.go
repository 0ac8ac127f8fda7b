package models

import "github.com/shopspring/decimal"

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       *int            `json:"stock"` // nil when the product does not track stock
	CategoryID  string          `json:"categoryId,omitempty"`
	Description string          `json:"description"`
	CreatedAt   Timestamp       `json:"createdAt"`
}

// TracksStock reports whether stock adjustments apply to the product.
func (p Product) TracksStock() bool {
	return p.Stock != nil
}

// Clone returns a copy with its own stock counter.
func (p Product) Clone() Product {
	out := p
	if p.Stock != nil {
		n := *p.Stock
		out.Stock = &n
	}
	return out
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// Customer is a CRM record. Identity is the phone when set, otherwise the name.
type Customer struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Email      string          `json:"email"`
	Address    string          `json:"address"`
	TotalSpent decimal.Decimal `json:"totalSpent"` // Sum of totals of invoices attributed to the customer
	CreatedAt  Timestamp       `json:"createdAt"`
}

// IntPtr is a helper for building products with a stock counter.
func IntPtr(n int) *int {
	return &n
}
