package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"shopledger/pkg/models"
)

// WalkInCustomer is the name recorded when an invoice is saved without one.
const WalkInCustomer = "Walk-in Customer"

// CustomerUpdate describes the customer side of an invoice save.
type CustomerUpdate struct {
	Name  string
	Phone string

	// Amount is the new invoice total.
	Amount decimal.Decimal

	// IsEdit marks an edit of an existing invoice whose previous total was
	// OldAmount and which was attributed to ExistingID ("" if none).
	IsEdit     bool
	OldAmount  decimal.Decimal
	ExistingID string
}

// ResolveCustomer finds or creates the customer an invoice belongs to and
// returns its id together with the updated customer list. The input slice is
// not modified.
//
// Identity is the phone when one is given, otherwise the name among
// phone-less customers:
//   - no name and no phone: walk-in, no customer ("" id)
//   - name only: the phone-less customer with that exact name, or a new one
//   - name and phone: the customer with that phone (its name is refreshed),
//     else a phone-less customer with that name gains the phone, else a new one
//
// On edit, a match on the invoice's previous customer (or an unknown previous
// customer) is adjusted by Amount-OldAmount. If the invoice moved to another
// customer, OldAmount is taken off the previous one and Amount added to the
// new one. Customers are never merged or deleted.
func ResolveCustomer(customers []models.Customer, u CustomerUpdate, newID func() string, now time.Time) (string, []models.Customer) {
	out := append([]models.Customer(nil), customers...)

	if u.Name == "" && u.Phone == "" {
		if u.IsEdit {
			adjustSpent(out, u.ExistingID, u.OldAmount.Neg())
		}
		return "", out
	}

	// a phone without a name is rejected before we get here
	if u.Name == "" {
		return u.ExistingID, out
	}

	idx := -1
	if u.Phone == "" {
		idx = findPhoneless(out, u.Name)
	} else {
		idx = findByPhone(out, u.Phone)
		if idx >= 0 {
			out[idx].Name = u.Name
		} else if idx = findPhoneless(out, u.Name); idx >= 0 {
			out[idx].Phone = u.Phone
		}
	}

	if idx < 0 {
		if u.IsEdit {
			adjustSpent(out, u.ExistingID, u.OldAmount.Neg())
		}
		c := models.Customer{
			ID:         newID(),
			Name:       u.Name,
			Phone:      u.Phone,
			TotalSpent: u.Amount,
			CreatedAt:  models.NewTimestamp(now),
		}
		return c.ID, append(out, c)
	}

	c := &out[idx]
	switch {
	case u.IsEdit && (u.ExistingID == "" || u.ExistingID == c.ID):
		c.TotalSpent = c.TotalSpent.Sub(u.OldAmount).Add(u.Amount)
	case u.IsEdit:
		adjustSpent(out, u.ExistingID, u.OldAmount.Neg())
		c.TotalSpent = c.TotalSpent.Add(u.Amount)
	default:
		c.TotalSpent = c.TotalSpent.Add(u.Amount)
	}
	return c.ID, out
}

func findByPhone(customers []models.Customer, phone string) int {
	for i := range customers {
		if customers[i].Phone == phone {
			return i
		}
	}
	return -1
}

func findPhoneless(customers []models.Customer, name string) int {
	for i := range customers {
		if customers[i].Name == name && customers[i].Phone == "" {
			return i
		}
	}
	return -1
}

func adjustSpent(customers []models.Customer, id string, delta decimal.Decimal) {
	if id == "" {
		return
	}
	for i := range customers {
		if customers[i].ID == id {
			customers[i].TotalSpent = customers[i].TotalSpent.Add(delta)
			return
		}
	}
}
