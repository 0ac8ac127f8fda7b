// Package share builds WhatsApp messages and links for invoices.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"shopledger/pkg/models"
)

// ErrNoPhone is returned for invoices without a customer phone.
var ErrNoPhone = errors.New("Customer phone number is required for WhatsApp sharing")

const (
	mobileBase = "https://wa.me/"
	webBase    = "https://web.whatsapp.com/send"
)

// InvoiceMessage is the full invoice text sent to the customer.
func InvoiceMessage(inv models.Invoice, s models.Settings) string {
	money := func(d decimal.Decimal) string { return s.Currency + d.StringFixed(2) }

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", inv.CustomerName)
	fmt.Fprintf(&b, "Your invoice %s from %s is ready.\n\n", inv.Number, s.BusinessName)
	fmt.Fprintf(&b, "Invoice Date: %s\n\n", invoiceDate(inv))

	b.WriteString("Items Purchased:\n")
	for i, item := range inv.Items {
		fmt.Fprintf(&b, "%d. %s (%d x %s) = %s\n", i+1, item.Name, item.Quantity, money(item.Price), money(item.Total))
	}

	b.WriteString("\nAmount Summary:\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", money(inv.Subtotal))
	fmt.Fprintf(&b, "Discount: %s\n", money(inv.Discount))
	fmt.Fprintf(&b, "Grand Total: %s\n\n", money(inv.Total))

	b.WriteString("Business Information:\n")
	b.WriteString(s.BusinessName)
	for _, line := range []string{s.BusinessAddress, s.BusinessPhone, s.BusinessEmail} {
		if line != "" {
			b.WriteString("\n" + line)
		}
	}
	b.WriteString("\n\nThank you for your business!\nWe appreciate your trust in us.")

	return b.String()
}

// ShortMessage is a one-paragraph notice with an optional download link.
func ShortMessage(inv models.Invoice, s models.Settings, link string) string {
	msg := fmt.Sprintf("Hello %s,\n\nYour invoice %s from %s is ready.\nTotal Amount: %s%s",
		inv.CustomerName, inv.Number, s.BusinessName, s.Currency, inv.Total.StringFixed(2))
	if link != "" {
		return msg + "\n\nDownload your invoice: " + link
	}
	return msg + "\n\nPlease find your invoice attached."
}

// WhatsAppURL returns a link that opens a chat with the invoice's customer
// and message prefilled. mobile selects the wa.me form over WhatsApp Web.
func WhatsAppURL(inv models.Invoice, message string, mobile bool) (string, error) {
	phone := digits(inv.CustomerPhone)
	if phone == "" {
		return "", ErrNoPhone
	}

	text := escape(message)
	if mobile {
		return mobileBase + phone + "?text=" + text, nil
	}
	return webBase + "?phone=" + phone + "&text=" + text, nil
}

func invoiceDate(inv models.Invoice) string {
	if inv.CreatedAt.IsZero() {
		return inv.Date
	}
	return inv.CreatedAt.Format(models.LegacyTimeLayout)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// escape percent-encodes like a URI component; spaces become %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
