package ledger_test

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"shopledger/internal/ledger"
	"shopledger/internal/store"
	"shopledger/pkg/models"
)

func ExampleNextNumber() {
	invoices := []models.Invoice{
		{Number: "INV-1001"},
		{Number: "INV-1002"},
		{Number: "INV-draft"},
	}
	fmt.Println(ledger.NextNumber(invoices, "INV-", 1001))
	// Output: INV-1003
}

func ExampleLedger_SaveInvoice() {
	ctx := context.Background()
	l, err := ledger.Open(ctx, store.NewMemoryStore())
	if err != nil {
		fmt.Println(err)
		return
	}

	res, err := l.SaveInvoice(ctx, ledger.InvoiceInput{
		Number:       l.NextInvoiceNumber(),
		Date:         "2025-10-07",
		CustomerName: "Asha",
		Items: []models.LineItem{
			{Name: "Consultation", Price: decimal.NewFromInt(200), Quantity: 1},
		},
		Discount:     decimal.NewFromInt(10),
		DiscountType: models.DiscountPercentage,
	})
	if err != nil {
		fmt.Println(ledger.UserMessage(err))
		return
	}

	fmt.Println(res.Message())
	fmt.Println(res.Invoice.Number, res.Invoice.Total.StringFixed(2))
	fmt.Println(l.Customers()[0].Name, l.Customers()[0].TotalSpent.StringFixed(2))
	// Output:
	// Invoice saved successfully!
	// INV-1001 180.00
	// Asha 180.00
}
