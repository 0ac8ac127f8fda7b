package ledger

import (
	"github.com/shopspring/decimal"
	"shopledger/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// Totals are the computed amounts of an invoice.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal // amount subtracted from the subtotal
	Total    decimal.Decimal
}

// ComputeTotals sums price*quantity over items and applies the discount.
// A percentage discount is rounded to cents. The total is not clamped, so a
// flat discount larger than the subtotal yields a negative total.
func ComputeTotals(items []models.LineItem, discount decimal.Decimal, discountType models.DiscountType) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(lineTotal(item.Price, item.Quantity))
	}

	amount := discount
	if discountType == models.DiscountPercentage {
		amount = subtotal.Mul(discount).Div(hundred).Round(2)
	}

	return Totals{
		Subtotal: subtotal,
		Discount: amount,
		Total:    subtotal.Sub(amount),
	}
}

func lineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
