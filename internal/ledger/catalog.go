package ledger

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"shopledger/pkg/models"
)

// ProductInput holds the editable fields of a product. A nil Stock means the
// product does not track stock.
type ProductInput struct {
	Name        string          `validate:"required"`
	Price       decimal.Decimal `validate:"min=0"`
	Stock       *int            `validate:"omitempty,min=0"`
	CategoryID  string
	Description string
}

// CategoryInput holds the editable fields of a category.
type CategoryInput struct {
	Name        string `validate:"required"`
	Description string
}

// CustomerInput holds the editable fields of a customer. TotalSpent is only
// ever changed by invoice saves.
type CustomerInput struct {
	Name    string `validate:"required"`
	Phone   string
	Email   string `validate:"omitempty,email"`
	Address string
}

func (in *ProductInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.Description = strings.TrimSpace(in.Description)
}

func (in *CategoryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
}

func (in *CustomerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
}

// Products

func (l *Ledger) checkProduct(in ProductInput, excludeID string) error {
	if err := l.checkStruct("Product", in); err != nil {
		return err
	}
	if in.CategoryID != "" && l.doc.FindCategory(in.CategoryID) < 0 {
		return NewValidationError("categoryId", in.CategoryID, "Selected category does not exist")
	}
	// line items find their product by name, so names must stay distinct
	if idx := findProductByName(l.doc.Products, in.Name); idx >= 0 && l.doc.Products[idx].ID != excludeID {
		return NewValidationError("name", in.Name, "A product with this name already exists")
	}
	return nil
}

// AddProduct creates a product.
func (l *Ledger) AddProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	const op = "AddProduct"

	l.mu.Lock()
	defer l.mu.Unlock()

	in.normalize()
	if err := l.checkProduct(in, ""); err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		ID:          l.newID(),
		Name:        in.Name,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		CreatedAt:   models.NewTimestamp(l.now()),
	}
	if in.Stock != nil {
		p.Stock = models.IntPtr(*in.Stock)
	}

	next := l.doc.Clone()
	next.Products = append(next.Products, p)
	if err := l.commit(ctx, op, next); err != nil {
		return p.Clone(), err
	}

	l.log.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("Product added")
	return p.Clone(), nil
}

// UpdateProduct replaces the editable fields of a product.
func (l *Ledger) UpdateProduct(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	const op = "UpdateProduct"

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindProduct(id)
	if idx < 0 {
		return models.Product{}, ErrProductNotFound
	}
	in.normalize()
	if err := l.checkProduct(in, id); err != nil {
		return models.Product{}, err
	}

	next := l.doc.Clone()
	p := &next.Products[idx]
	p.Name = in.Name
	p.Price = in.Price
	p.CategoryID = in.CategoryID
	p.Description = in.Description
	p.Stock = nil
	if in.Stock != nil {
		p.Stock = models.IntPtr(*in.Stock)
	}
	updated := p.Clone()

	if err := l.commit(ctx, op, next); err != nil {
		return updated, err
	}

	l.log.Info().Str("product_id", id).Msg("Product updated")
	return updated, nil
}

// DeleteProduct removes a product. Saved invoices keep their copy of its rows.
func (l *Ledger) DeleteProduct(ctx context.Context, id string) error {
	const op = "DeleteProduct"

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindProduct(id)
	if idx < 0 {
		return ErrProductNotFound
	}

	next := l.doc.Clone()
	next.Products = append(next.Products[:idx], next.Products[idx+1:]...)
	if err := l.commit(ctx, op, next); err != nil {
		return err
	}

	l.log.Info().Str("product_id", id).Msg("Product deleted")
	return nil
}

// Product returns a product by id.
func (l *Ledger) Product(id string) (models.Product, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindProduct(id)
	if idx < 0 {
		return models.Product{}, ErrProductNotFound
	}
	return l.doc.Products[idx].Clone(), nil
}

// Products returns all products in insertion order.
func (l *Ledger) Products() []models.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneProducts(l.doc.Products)
}

// Categories

// AddCategory creates a category.
func (l *Ledger) AddCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	const op = "AddCategory"

	l.mu.Lock()
	defer l.mu.Unlock()

	in.normalize()
	if err := l.checkStruct("Category", in); err != nil {
		return models.Category{}, err
	}

	c := models.Category{
		ID:          l.newID(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   models.NewTimestamp(l.now()),
	}

	next := l.doc.Clone()
	next.Categories = append(next.Categories, c)
	if err := l.commit(ctx, op, next); err != nil {
		return c, err
	}

	l.log.Info().Str("category_id", c.ID).Str("name", c.Name).Msg("Category added")
	return c, nil
}

// UpdateCategory replaces the editable fields of a category.
func (l *Ledger) UpdateCategory(ctx context.Context, id string, in CategoryInput) (models.Category, error) {
	const op = "UpdateCategory"

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindCategory(id)
	if idx < 0 {
		return models.Category{}, ErrCategoryNotFound
	}
	in.normalize()
	if err := l.checkStruct("Category", in); err != nil {
		return models.Category{}, err
	}

	next := l.doc.Clone()
	next.Categories[idx].Name = in.Name
	next.Categories[idx].Description = in.Description
	updated := next.Categories[idx]

	if err := l.commit(ctx, op, next); err != nil {
		return updated, err
	}

	l.log.Info().Str("category_id", id).Msg("Category updated")
	return updated, nil
}

// DeleteCategory removes a category no product refers to.
func (l *Ledger) DeleteCategory(ctx context.Context, id string) error {
	const op = "DeleteCategory"

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindCategory(id)
	if idx < 0 {
		return ErrCategoryNotFound
	}
	if countProducts(l.doc.Products, id) > 0 {
		return ErrCategoryInUse
	}

	next := l.doc.Clone()
	next.Categories = append(next.Categories[:idx], next.Categories[idx+1:]...)
	if err := l.commit(ctx, op, next); err != nil {
		return err
	}

	l.log.Info().Str("category_id", id).Msg("Category deleted")
	return nil
}

// Category returns a category by id.
func (l *Ledger) Category(id string) (models.Category, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindCategory(id)
	if idx < 0 {
		return models.Category{}, ErrCategoryNotFound
	}
	return l.doc.Categories[idx], nil
}

// Categories returns all categories in insertion order.
func (l *Ledger) Categories() []models.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Category(nil), l.doc.Categories...)
}

// CategoryProductCount returns how many products belong to the category.
func (l *Ledger) CategoryProductCount(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return countProducts(l.doc.Products, id)
}

func countProducts(products []models.Product, categoryID string) int {
	n := 0
	for _, p := range products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// Customers

func (l *Ledger) checkCustomer(in CustomerInput, excludeID string) error {
	if err := l.checkStruct("Customer", in); err != nil {
		return err
	}
	for _, c := range l.doc.Customers {
		if c.ID == excludeID {
			continue
		}
		if in.Phone != "" && c.Phone == in.Phone {
			return NewValidationError("phone", in.Phone, "A customer with this phone number already exists")
		}
		if in.Phone == "" && c.Phone == "" && c.Name == in.Name {
			return NewValidationError("name", in.Name, "A customer with this name already exists")
		}
	}
	return nil
}

// AddCustomer creates a customer with no spending.
func (l *Ledger) AddCustomer(ctx context.Context, in CustomerInput) (models.Customer, error) {
	const op = "AddCustomer"

	l.mu.Lock()
	defer l.mu.Unlock()

	in.normalize()
	if err := l.checkCustomer(in, ""); err != nil {
		return models.Customer{}, err
	}

	c := models.Customer{
		ID:         l.newID(),
		Name:       in.Name,
		Phone:      in.Phone,
		Email:      in.Email,
		Address:    in.Address,
		TotalSpent: decimal.Zero,
		CreatedAt:  models.NewTimestamp(l.now()),
	}

	next := l.doc.Clone()
	next.Customers = append(next.Customers, c)
	if err := l.commit(ctx, op, next); err != nil {
		return c, err
	}

	l.log.Info().Str("customer_id", c.ID).Str("name", c.Name).Msg("Customer added")
	return c, nil
}

// UpdateCustomer replaces the contact fields of a customer.
func (l *Ledger) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (models.Customer, error) {
	const op = "UpdateCustomer"

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindCustomer(id)
	if idx < 0 {
		return models.Customer{}, ErrCustomerNotFound
	}
	in.normalize()
	if err := l.checkCustomer(in, id); err != nil {
		return models.Customer{}, err
	}

	next := l.doc.Clone()
	c := &next.Customers[idx]
	c.Name = in.Name
	c.Phone = in.Phone
	c.Email = in.Email
	c.Address = in.Address
	updated := *c

	if err := l.commit(ctx, op, next); err != nil {
		return updated, err
	}

	l.log.Info().Str("customer_id", id).Msg("Customer updated")
	return updated, nil
}

// DeleteCustomer removes a customer no invoice is attributed to.
func (l *Ledger) DeleteCustomer(ctx context.Context, id string) error {
	const op = "DeleteCustomer"

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindCustomer(id)
	if idx < 0 {
		return ErrCustomerNotFound
	}
	for _, inv := range l.doc.Invoices {
		if inv.CustomerID == id {
			return ErrCustomerHasInvoices
		}
	}

	next := l.doc.Clone()
	next.Customers = append(next.Customers[:idx], next.Customers[idx+1:]...)
	if err := l.commit(ctx, op, next); err != nil {
		return err
	}

	l.log.Info().Str("customer_id", id).Msg("Customer deleted")
	return nil
}

// Customer returns a customer by id.
func (l *Ledger) Customer(id string) (models.Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.doc.FindCustomer(id)
	if idx < 0 {
		return models.Customer{}, ErrCustomerNotFound
	}
	return l.doc.Customers[idx], nil
}

// Customers returns all customers in insertion order.
func (l *Ledger) Customers() []models.Customer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Customer(nil), l.doc.Customers...)
}

// CustomerInvoices returns the invoices attributed to a customer, newest first.
func (l *Ledger) CustomerInvoices(id string) []models.Invoice {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []models.Invoice
	for _, inv := range l.doc.Invoices {
		if inv.CustomerID == id {
			out = append(out, inv.Clone())
		}
	}
	sortNewestFirst(out)
	return out
}
