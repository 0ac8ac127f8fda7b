package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"shopledger/pkg/models"
)

// NextNumber returns the next invoice number for prefix: one above the highest
// number among invoices carrying the prefix, but never below start. The number
// is read from the leading digits after the prefix, so "INV-1005a" counts as
// 1005; remainders without leading digits are ignored. Numbers freed by
// deleted invoices are not reused. Arithmetic is unbounded, so a huge number
// still yields a larger one.
func NextNumber(invoices []models.Invoice, prefix string, start int) string {
	highest := decimal.NewFromInt(int64(start) - 1)
	for _, inv := range invoices {
		if !strings.HasPrefix(inv.Number, prefix) {
			continue
		}
		n, ok := leadingNumber(strings.TrimPrefix(inv.Number, prefix))
		if !ok {
			continue
		}
		if n.GreaterThan(highest) {
			highest = n
		}
	}
	return prefix + highest.Add(decimal.NewFromInt(1)).String()
}

// leadingNumber parses the run of ASCII digits at the start of s.
func leadingNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return decimal.Zero, false
	}
	n, err := decimal.NewFromString(s[:end])
	if err != nil {
		return decimal.Zero, false
	}
	return n, true
}

// NumberTaken reports whether another invoice than excludeID already uses number.
func NumberTaken(invoices []models.Invoice, number, excludeID string) bool {
	for _, inv := range invoices {
		if inv.Number == number && inv.ID != excludeID {
			return true
		}
	}
	return false
}

// NextInvoiceNumber returns the number a new invoice would get now.
func (l *Ledger) NextInvoiceNumber() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return NextNumber(l.doc.Invoices, l.doc.Settings.InvoicePrefix, l.doc.Settings.InvoiceStart)
}
