package ledger

import (
	"strings"

	"shopledger/pkg/models"
)

// Direction says whether a stock delta takes units out or puts them back.
type Direction int

const (
	// Consume subtracts, never going below zero.
	Consume Direction = iota
	// Restore adds without an upper bound.
	Restore
)

func (d Direction) String() string {
	if d == Restore {
		return "restore"
	}
	return "consume"
}

// ApplyDelta adjusts the stock of the product named name (case-insensitive).
// Untracked or unknown products leave the slice untouched and it is returned
// as is; otherwise a new slice is returned and the input is not modified.
func ApplyDelta(products []models.Product, name string, qty int, dir Direction) []models.Product {
	return adjustAt(products, findProductByName(products, name), qty, dir)
}

func adjustAt(products []models.Product, idx, qty int, dir Direction) []models.Product {
	if idx < 0 || !products[idx].TracksStock() {
		return products
	}

	out := append([]models.Product(nil), products...)
	p := out[idx].Clone()
	switch dir {
	case Restore:
		*p.Stock += qty
	default:
		*p.Stock -= qty
		if *p.Stock < 0 {
			*p.Stock = 0
		}
	}
	out[idx] = p
	return out
}

// applyItems applies dir to every stock-tracked item.
func applyItems(products []models.Product, items []models.LineItem, dir Direction) []models.Product {
	for _, item := range items {
		if item.IsCustom() {
			continue
		}
		products = adjustAt(products, findItemProduct(products, item), item.Quantity, dir)
	}
	return products
}

// findItemProduct locates the product behind a row by its id, so renamed
// products keep their stock. Rows without an id fall back to the name.
func findItemProduct(products []models.Product, item models.LineItem) int {
	if item.ProductID == "" {
		return findProductByName(products, item.Name)
	}
	for i := range products {
		if products[i].ID == item.ProductID {
			return i
		}
	}
	return -1
}

func findProductByName(products []models.Product, name string) int {
	name = strings.TrimSpace(name)
	for i := range products {
		if strings.EqualFold(products[i].Name, name) {
			return i
		}
	}
	return -1
}
