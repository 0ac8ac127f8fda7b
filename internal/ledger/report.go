package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"shopledger/pkg/models"
)

// Period restricts invoice listings by creation time.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"  // last seven days
	PeriodMonth Period = "month" // current calendar month
	PeriodYear  Period = "year"  // current calendar year
)

// ParsePeriod accepts the period names; the empty string means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (want all, today, week, month or year)", s)
	}
}

// Contains reports whether t falls inside the period as seen at now.
func (p Period) Contains(t, now time.Time) bool {
	t = t.In(now.Location())
	switch p {
	case PeriodToday:
		y1, m1, d1 := t.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case PeriodWeek:
		return !t.Before(now.AddDate(0, 0, -7))
	case PeriodMonth:
		return t.Year() == now.Year() && t.Month() == now.Month()
	case PeriodYear:
		return t.Year() == now.Year()
	default:
		return true
	}
}

// InvoiceFilter selects invoices for listing.
type InvoiceFilter struct {
	Period Period
	// Search matches the number or customer name ignoring case, or a part of
	// the customer phone.
	Search string
}

// FilterInvoices applies f and returns matching invoices newest first.
func FilterInvoices(invoices []models.Invoice, f InvoiceFilter, now time.Time) []models.Invoice {
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if !f.Period.Contains(inv.CreatedAt.Time, now) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(inv.Number), term) &&
			!strings.Contains(strings.ToLower(inv.CustomerName), term) &&
			!strings.Contains(inv.CustomerPhone, term) {
			continue
		}
		out = append(out, inv.Clone())
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(invoices []models.Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt.Time)
	})
}

// SearchProducts returns products whose name or description contains term, ignoring case.
func SearchProducts(products []models.Product, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []models.Product
	for _, p := range products {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// SearchCustomers returns customers whose name or email contains term
// (ignoring case) or whose phone contains it.
func SearchCustomers(customers []models.Customer, term string) []models.Customer {
	term = strings.ToLower(strings.TrimSpace(term))
	var out []models.Customer
	for _, c := range customers {
		if term == "" ||
			strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Email), term) ||
			strings.Contains(c.Phone, term) {
			out = append(out, c)
		}
	}
	return out
}

// Stats summarises a set of invoices.
type Stats struct {
	TotalSales   decimal.Decimal
	InvoiceCount int
	// TopProduct is the item name with the highest revenue, "" without sales.
	TopProduct      string
	TopProductSales decimal.Decimal
}

// ComputeStats totals invoices and picks the best selling item.
func ComputeStats(invoices []models.Invoice) Stats {
	s := Stats{InvoiceCount: len(invoices)}
	for _, inv := range invoices {
		s.TotalSales = s.TotalSales.Add(inv.Total)
	}
	// first item to reach the highest revenue wins ties
	for _, ps := range productSales(invoices) {
		if ps.Sales.GreaterThan(s.TopProductSales) {
			s.TopProduct = ps.Name
			s.TopProductSales = ps.Sales
		}
	}
	return s
}

// DaySales is the invoiced amount for one calendar day.
type DaySales struct {
	Date  string // YYYY-MM-DD
	Label string // short weekday name
	Total decimal.Decimal
}

// SalesTrend returns one entry per day for the days ending today, oldest
// first, summing invoice totals by invoice date.
func SalesTrend(invoices []models.Invoice, days int, now time.Time) []DaySales {
	if days < 1 {
		return nil
	}

	byDate := make(map[string]decimal.Decimal)
	for _, inv := range invoices {
		byDate[inv.Date] = byDate[inv.Date].Add(inv.Total)
	}

	out := make([]DaySales, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		date := day.Format(DateLayout)
		out = append(out, DaySales{
			Date:  date,
			Label: day.Format("Mon"),
			Total: byDate[date],
		})
	}
	return out
}

// ProductSales is the revenue of one item name across invoices.
type ProductSales struct {
	Name  string
	Sales decimal.Decimal
}

// TopProducts ranks item names by revenue and returns at most limit of them.
func TopProducts(invoices []models.Invoice, limit int) []ProductSales {
	ranked := productSales(invoices)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Sales.GreaterThan(ranked[j].Sales)
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// productSales sums item totals per item name in order of first appearance.
func productSales(invoices []models.Invoice) []ProductSales {
	index := make(map[string]int)
	var out []ProductSales
	for _, inv := range invoices {
		for _, item := range inv.Items {
			i, ok := index[item.Name]
			if !ok {
				i = len(out)
				index[item.Name] = i
				out = append(out, ProductSales{Name: item.Name})
			}
			out[i].Sales = out[i].Sales.Add(item.Total)
		}
	}
	return out
}

// Invoices returns the invoices matching f, newest first.
func (l *Ledger) Invoices(f InvoiceFilter) []models.Invoice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return FilterInvoices(l.doc.Invoices, f, l.now())
}

// Invoice returns an invoice by id.
func (l *Ledger) Invoice(id string) (models.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindInvoice(id)
	if idx < 0 {
		return models.Invoice{}, ErrInvoiceNotFound
	}
	return l.doc.Invoices[idx].Clone(), nil
}

// InvoiceByNumber returns the invoice carrying number.
func (l *Ledger) InvoiceByNumber(number string) (models.Invoice, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, inv := range l.doc.Invoices {
		if inv.Number == number {
			return inv.Clone(), nil
		}
	}
	return models.Invoice{}, ErrInvoiceNotFound
}

// CustomerInvoiceTotal sums the totals of the invoices attributed to a customer.
// It equals the customer's TotalSpent while deletes restore stock and totals.
func (l *Ledger) CustomerInvoiceTotal(id string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	sum := decimal.Zero
	for _, inv := range l.doc.Invoices {
		if inv.CustomerID == id {
			sum = sum.Add(inv.Total)
		}
	}
	return sum
}

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time {
	return l.now()
}
