package ledger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shopledger/internal/store"
	"shopledger/pkg/models"
)

// flakyStore fails every Save while failing is set.
type flakyStore struct {
	*store.MemoryStore
	failing bool
}

func (s *flakyStore) Save(ctx context.Context, doc *models.Document) error {
	if s.failing {
		return errors.New("disk full")
	}
	return s.MemoryStore.Save(ctx, doc)
}

func newTestLedger(t *testing.T, opts ...Option) (*Ledger, *flakyStore) {
	t.Helper()
	s := &flakyStore{MemoryStore: store.NewMemoryStore()}
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs("id")),
	}, opts...)
	l, err := Open(context.Background(), s, opts...)
	require.NoError(t, err)
	return l, s
}

func addStocked(t *testing.T, l *Ledger, name, price string, stock int) models.Product {
	t.Helper()
	p, err := l.AddProduct(context.Background(), ProductInput{Name: name, Price: dec(price), Stock: models.IntPtr(stock)})
	require.NoError(t, err)
	return p
}

func stockOf(t *testing.T, l *Ledger, id string) int {
	t.Helper()
	p, err := l.Product(id)
	require.NoError(t, err)
	require.NotNil(t, p.Stock)
	return *p.Stock
}

func productItem(p models.Product, qty int) models.LineItem {
	return models.LineItem{Name: p.Name, Price: p.Price, Quantity: qty, ProductID: p.ID}
}

func customItem(name, price string) models.LineItem {
	return models.LineItem{Name: name, Price: dec(price), Quantity: 1}
}

func validInput(number string, items ...models.LineItem) InvoiceInput {
	return InvoiceInput{Number: number, Date: "2025-10-07", Items: items}
}

func TestOpenSeedsDefaults(t *testing.T) {
	l, s := newTestLedger(t)

	doc := l.Document()
	assert.Equal(t, models.DefaultSettings(), doc.Settings)
	assert.Empty(t, doc.Invoices)
	assert.Equal(t, "INV-1001", l.NextInvoiceNumber())

	saved, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, saved, "seeding alone does not write")
}

func TestOpenLoadsSavedDocument(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	doc := models.NewDocument()
	doc.Invoices = append(doc.Invoices, models.Invoice{ID: "x", Number: "INV-1041"})
	require.NoError(t, s.Save(ctx, doc))

	l, err := Open(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "INV-1042", l.NextInvoiceNumber())
}

func TestSaveInvoiceValidationOrder(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	_, err := l.SaveInvoice(ctx, validInput("INV-1001", customItem("Setup", "10")))
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   InvoiceInput
		message string
	}{
		{
			name:    "items checked before number",
			input:   InvoiceInput{Date: "nope"},
			message: "Please add at least one item to the invoice",
		},
		{
			name:    "number required",
			input:   InvoiceInput{Number: "  ", Items: []models.LineItem{customItem("a", "1")}},
			message: "Please enter invoice number",
		},
		{
			name:    "duplicate number before date",
			input:   InvoiceInput{Number: "INV-1001", Date: "nope", Items: []models.LineItem{customItem("a", "1")}},
			message: "Invoice number already exists. Please use a different number.",
		},
		{
			name:    "invalid date",
			input:   InvoiceInput{Number: "INV-1002", Date: "2025-02-30", Items: []models.LineItem{customItem("a", "1")}},
			message: "Please enter a valid date",
		},
		{
			name: "phone without name",
			input: InvoiceInput{
				Number: "INV-1002", Date: "2025-10-07", CustomerPhone: "9990000000",
				Items: []models.LineItem{customItem("a", "1")},
			},
			message: "Customer name is required when phone number is provided",
		},
		{
			name: "negative discount",
			input: InvoiceInput{
				Number: "INV-1002", Date: "2025-10-07", Discount: dec("-1"),
				Items: []models.LineItem{customItem("a", "1")},
			},
			message: "Discount cannot be negative",
		},
		{
			name: "zero quantity",
			input: InvoiceInput{
				Number: "INV-1002", Date: "2025-10-07",
				Items: []models.LineItem{{Name: "a", Price: dec("1")}},
			},
			message: "Item quantity must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := l.Document()

			_, err := l.SaveInvoice(ctx, tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.message, UserMessage(err))
			assert.Equal(t, before, l.Document(), "rejected save must not change the document")
		})
	}
}

func TestSaveInvoiceDuplicateNumberLeavesDocument(t *testing.T) {
	ctx := context.Background()
	l, s := newTestLedger(t)
	p := addStocked(t, l, "Notebook", "45", 10)

	_, err := l.SaveInvoice(ctx, validInput("INV-1001", productItem(p, 2)))
	require.NoError(t, err)
	before, err := s.Load(ctx)
	require.NoError(t, err)

	in := validInput("INV-1001", productItem(p, 3))
	in.CustomerName = "Asha"
	_, err = l.SaveInvoice(ctx, in)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "number", ve.Field)
	assert.Equal(t, 8, stockOf(t, l, p.ID))
	assert.Empty(t, l.Customers())

	after, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSaveInvoiceComputesAndStores(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	p := addStocked(t, l, "Notebook", "50", 10)

	in := validInput("INV-1001", productItem(p, 3), customItem("Gift wrap", "50"))
	in.Discount = dec("10")
	in.DiscountType = models.DiscountPercentage
	res, err := l.SaveInvoice(ctx, in)
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, "Invoice saved successfully!", res.Message())

	inv := res.Invoice
	assert.NotEmpty(t, inv.ID)
	assertAmount(t, "200.00", inv.Subtotal)
	assertAmount(t, "20.00", inv.Discount)
	assertAmount(t, "180.00", inv.Total)
	assertAmount(t, "10.00", inv.DiscountValue)
	assert.Equal(t, models.DiscountPercentage, inv.DiscountType)
	assert.Equal(t, WalkInCustomer, inv.CustomerName)
	assert.Empty(t, inv.CustomerID)
	assert.Equal(t, fixedNow, inv.CreatedAt.Time)
	assert.Nil(t, inv.UpdatedAt)
	require.Len(t, inv.Items, 2)
	assertAmount(t, "150.00", inv.Items[0].Total)
	assert.NotEmpty(t, inv.Items[1].ID)

	assert.Equal(t, 7, stockOf(t, l, p.ID))
	assert.Empty(t, l.Customers(), "walk-in invoices create no customer")
	assert.Equal(t, "INV-1002", l.NextInvoiceNumber())
}

func TestEditInvoiceNetStock(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	x := addStocked(t, l, "X", "10", 20)

	res, err := l.SaveInvoice(ctx, validInput("INV-1001", productItem(x, 3)))
	require.NoError(t, err)
	assert.Equal(t, 17, stockOf(t, l, x.ID))

	// repeated edits always land on the net of the saved items
	for i := 0; i < 3; i++ {
		in := validInput("INV-1001", productItem(x, 5))
		in.ID = res.Invoice.ID
		edit, err := l.SaveInvoice(ctx, in)
		require.NoError(t, err)
		assert.False(t, edit.Created)
		assert.Equal(t, "Invoice updated successfully!", edit.Message())
		assert.Equal(t, 15, stockOf(t, l, x.ID))
	}

	inv, err := l.Invoice(res.Invoice.ID)
	require.NoError(t, err)
	require.NotNil(t, inv.UpdatedAt)
	assert.Equal(t, res.Invoice.CreatedAt, inv.CreatedAt)
	assert.Len(t, l.Invoices(InvoiceFilter{}), 1)
}

func TestRenamedProductKeepsStock(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	x := addStocked(t, l, "X", "10", 20)

	res, err := l.SaveInvoice(ctx, validInput("INV-1001", productItem(x, 3)))
	require.NoError(t, err)
	require.Equal(t, 17, stockOf(t, l, x.ID))

	y, err := l.UpdateProduct(ctx, x.ID, ProductInput{Name: "Y", Price: x.Price, Stock: models.IntPtr(17)})
	require.NoError(t, err)

	t.Run("edit with same quantity", func(t *testing.T) {
		in := validInput("INV-1001", productItem(y, 3))
		in.ID = res.Invoice.ID
		_, err := l.SaveInvoice(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, 17, stockOf(t, l, x.ID))
	})

	t.Run("draft removal restores the renamed product", func(t *testing.T) {
		d, err := l.EditDraft(res.Invoice.ID)
		require.NoError(t, err)
		require.Len(t, d.Items(), 1)
		require.NoError(t, d.RemoveItem(d.Items()[0].ID))

		stock, ok := d.Available("Y")
		require.True(t, ok)
		assert.Equal(t, 20, stock)
	})

	t.Run("delete restores the renamed product", func(t *testing.T) {
		first, err := l.Invoice(res.Invoice.ID)
		require.NoError(t, err)
		// a row saved before the rename still carries the old name
		first.Items[0].Name = "X"
		in := validInput("INV-1001", first.Items...)
		in.ID = first.ID
		_, err = l.SaveInvoice(ctx, in)
		require.NoError(t, err)
		require.Equal(t, 17, stockOf(t, l, x.ID))

		_, err = l.DeleteInvoice(ctx, res.Invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, stockOf(t, l, x.ID))
	})
}

func TestEditUnknownInvoice(t *testing.T) {
	l, _ := newTestLedger(t)
	in := validInput("INV-1001", customItem("a", "1"))
	in.ID = "missing"

	_, err := l.SaveInvoice(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
	assert.True(t, IsNotFound(err))
}

func TestCustomerAccumulatesByName(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	a := validInput("INV-1001", customItem("Service", "100"))
	a.CustomerName = "Asha"
	_, err := l.SaveInvoice(ctx, a)
	require.NoError(t, err)

	b := validInput("INV-1002", customItem("Service", "50"))
	b.CustomerName = "Asha"
	_, err = l.SaveInvoice(ctx, b)
	require.NoError(t, err)

	customers := l.Customers()
	require.Len(t, customers, 1)
	assert.Equal(t, "Asha", customers[0].Name)
	assertAmount(t, "150.00", customers[0].TotalSpent)
	assertAmount(t, "150.00", l.CustomerInvoiceTotal(customers[0].ID))
}

func TestCustomerPromotedWithPhone(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	a := validInput("INV-1001", customItem("Service", "100"))
	a.CustomerName = "Asha"
	_, err := l.SaveInvoice(ctx, a)
	require.NoError(t, err)

	b := validInput("INV-1002", customItem("Service", "75"))
	b.CustomerName = "Asha"
	b.CustomerPhone = "9990000000"
	res, err := l.SaveInvoice(ctx, b)
	require.NoError(t, err)

	customers := l.Customers()
	require.Len(t, customers, 1, "the phone-less record is promoted, not duplicated")
	assert.Equal(t, "9990000000", customers[0].Phone)
	assertAmount(t, "175.00", customers[0].TotalSpent)
	assert.Equal(t, customers[0].ID, res.Invoice.CustomerID)
}

func TestEditInvoiceAdjustsCustomer(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	in := validInput("INV-1001", customItem("Service", "100"))
	in.CustomerName = "Asha"
	res, err := l.SaveInvoice(ctx, in)
	require.NoError(t, err)

	in.ID = res.Invoice.ID
	in.Items = []models.LineItem{customItem("Service", "60")}
	_, err = l.SaveInvoice(ctx, in)
	require.NoError(t, err)

	customers := l.Customers()
	require.Len(t, customers, 1)
	assertAmount(t, "60.00", customers[0].TotalSpent)

	// walk-in edited into a named invoice counts the full amount once
	walk, err := l.SaveInvoice(ctx, validInput("INV-1002", customItem("Service", "30")))
	require.NoError(t, err)
	named := validInput("INV-1002", customItem("Service", "30"))
	named.ID = walk.Invoice.ID
	named.CustomerName = "Asha"
	_, err = l.SaveInvoice(ctx, named)
	require.NoError(t, err)

	c, err := l.Customer(customers[0].ID)
	require.NoError(t, err)
	assertAmount(t, "90.00", c.TotalSpent)
}

func TestDeleteInvoiceRestores(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	p := addStocked(t, l, "Notebook", "10", 5)

	in := validInput("INV-1001", productItem(p, 2))
	in.CustomerName = "Asha"
	res, err := l.SaveInvoice(ctx, in)
	require.NoError(t, err)

	removed, err := l.DeleteInvoice(ctx, res.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-1001", removed.Number)
	assert.Equal(t, 5, stockOf(t, l, p.ID))
	assertAmount(t, "0.00", l.Customers()[0].TotalSpent)

	_, err = l.DeleteInvoice(ctx, res.Invoice.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestDeleteInvoiceWithoutRestore(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, WithRestoreStockOnDelete(false))
	p := addStocked(t, l, "Notebook", "10", 5)

	in := validInput("INV-1001", productItem(p, 2))
	in.CustomerName = "Asha"
	res, err := l.SaveInvoice(ctx, in)
	require.NoError(t, err)

	_, err = l.DeleteInvoice(ctx, res.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, l, p.ID))
	assertAmount(t, "20.00", l.Customers()[0].TotalSpent)
}

func TestPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	l, s := newTestLedger(t)
	s.failing = true

	_, err := l.SaveInvoice(ctx, validInput("INV-1001", customItem("a", "5")))
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "SaveInvoice", pe.Op)
	assert.Contains(t, err.Error(), "disk full")

	// memory is ahead of storage and is not rolled back
	assert.Len(t, l.Invoices(InvoiceFilter{}), 1)
	saved, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestCatalogIntegrity(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	cat, err := l.AddCategory(ctx, CategoryInput{Name: "Stationery"})
	require.NoError(t, err)
	p, err := l.AddProduct(ctx, ProductInput{Name: "Pen", Price: dec("10"), CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, l.CategoryProductCount(cat.ID))

	err = l.DeleteCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.Equal(t, "Cannot delete category with products. Reassign or delete products first.", UserMessage(err))

	require.NoError(t, l.DeleteProduct(ctx, p.ID))
	require.NoError(t, l.DeleteCategory(ctx, cat.ID))
	assert.Empty(t, l.Categories())

	in := validInput("INV-1001", customItem("Service", "10"))
	in.CustomerName = "Asha"
	res, err := l.SaveInvoice(ctx, in)
	require.NoError(t, err)

	err = l.DeleteCustomer(ctx, res.Invoice.CustomerID)
	assert.ErrorIs(t, err, ErrCustomerHasInvoices)

	_, err = l.DeleteInvoice(ctx, res.Invoice.ID)
	require.NoError(t, err)
	require.NoError(t, l.DeleteCustomer(ctx, res.Invoice.CustomerID))

	assert.ErrorIs(t, l.DeleteCustomer(ctx, "nobody"), ErrCustomerNotFound)
	assert.ErrorIs(t, l.DeleteProduct(ctx, "nothing"), ErrProductNotFound)
}

func TestCatalogValidation(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	addStocked(t, l, "Notebook", "10", 1)

	tests := []struct {
		name    string
		run     func() error
		field   string
		message string
	}{
		{
			name:    "product name required",
			run:     func() error { _, err := l.AddProduct(ctx, ProductInput{Name: "  ", Price: dec("1")}); return err },
			field:   "Name",
			message: "Product name is required",
		},
		{
			name:    "negative price",
			run:     func() error { _, err := l.AddProduct(ctx, ProductInput{Name: "Pen", Price: dec("-1")}); return err },
			field:   "Price",
			message: "Product price must be at least 0",
		},
		{
			name: "negative stock",
			run: func() error {
				_, err := l.AddProduct(ctx, ProductInput{Name: "Pen", Price: dec("1"), Stock: models.IntPtr(-2)})
				return err
			},
			field:   "Stock",
			message: "Product stock must be at least 0",
		},
		{
			name:    "duplicate product name",
			run:     func() error { _, err := l.AddProduct(ctx, ProductInput{Name: "NOTEBOOK", Price: dec("1")}); return err },
			field:   "name",
			message: "A product with this name already exists",
		},
		{
			name:    "unknown category",
			run:     func() error { _, err := l.AddProduct(ctx, ProductInput{Name: "Pen", CategoryID: "nope"}); return err },
			field:   "categoryId",
			message: "Selected category does not exist",
		},
		{
			name:    "customer email",
			run:     func() error { _, err := l.AddCustomer(ctx, CustomerInput{Name: "Asha", Email: "not-mail"}); return err },
			field:   "Email",
			message: "Please enter a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}

func TestCustomerUniqueness(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	asha, err := l.AddCustomer(ctx, CustomerInput{Name: "Asha", Phone: "111"})
	require.NoError(t, err)
	_, err = l.AddCustomer(ctx, CustomerInput{Name: "Someone", Phone: "111"})
	assert.ErrorIs(t, err, ErrValidation)

	ravi, err := l.AddCustomer(ctx, CustomerInput{Name: "Ravi"})
	require.NoError(t, err)
	_, err = l.AddCustomer(ctx, CustomerInput{Name: "Ravi"})
	assert.ErrorIs(t, err, ErrValidation)

	// the record keeps its own phone on update
	updated, err := l.UpdateCustomer(ctx, asha.ID, CustomerInput{Name: "Asha K", Phone: "111", Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Asha K", updated.Name)

	_, err = l.UpdateCustomer(ctx, ravi.ID, CustomerInput{Name: "Ravi", Phone: "111"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	p := addStocked(t, l, "Pen", "10", 4)

	updated, err := l.UpdateProduct(ctx, p.ID, ProductInput{Name: "Blue Pen", Price: dec("12")})
	require.NoError(t, err)
	assert.Equal(t, "Blue Pen", updated.Name)
	assert.False(t, updated.TracksStock())
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	_, err = l.UpdateProduct(ctx, "missing", ProductInput{Name: "x"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	_, err := l.SaveInvoice(ctx, validInput("INV-1001", customItem("a", "1")))
	require.NoError(t, err)

	in := SettingsInputFrom(l.Settings())
	in.InvoicePrefix = "BP/"
	in.InvoiceStart = 1
	s, err := l.UpdateSettings(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "BP/", s.InvoicePrefix)
	assert.Equal(t, "BP/1", l.NextInvoiceNumber())

	in.InvoiceStart = 0
	_, err = l.UpdateSettings(ctx, in)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Settings invoice start must be at least 1", ve.Message)

	in = SettingsInputFrom(l.Settings())
	in.InvoicePrefix = ""
	_, err = l.UpdateSettings(ctx, in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDraftStockChecks(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	p := addStocked(t, l, "Notebook", "45", 3)

	d := l.NewDraft()
	assert.Equal(t, "INV-1001", d.Number)
	assert.Equal(t, "2025-10-07", d.Date)

	first, err := d.AddItem("notebook", dec("0"), 2)
	require.NoError(t, err)
	assert.Equal(t, "Notebook", first.Name)
	assert.Equal(t, p.ID, first.ProductID)
	assertAmount(t, "90.00", first.Total)

	_, err = d.AddItem("Notebook", dec("0"), 2)
	require.Error(t, err)
	assert.Equal(t, "Only 1 items available in stock", UserMessage(err))

	_, err = d.AddItem("Delivery", dec("0"), 1)
	assert.Equal(t, "Please select a product or enter a custom price", UserMessage(err))

	custom, err := d.AddItem("Delivery", dec("25"), 0)
	require.NoError(t, err)
	assert.True(t, custom.IsCustom())
	assert.Equal(t, 1, custom.Quantity)

	require.NoError(t, d.RemoveItem(first.ID))
	stock, ok := d.Available("Notebook")
	require.True(t, ok)
	assert.Equal(t, 3, stock)
	assert.ErrorIs(t, d.RemoveItem(first.ID), ErrItemNotFound)

	_, err = d.AddItem("Notebook", dec("40"), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, stockOf(t, l, p.ID), "drafts do not touch saved stock")

	res, err := l.SaveInvoice(ctx, d.Input())
	require.NoError(t, err)
	assertAmount(t, "145.00", res.Invoice.Total)
	assert.Equal(t, 0, stockOf(t, l, p.ID))
}

func TestEditDraftKeepsDiscountAndWalkIn(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	in := validInput("INV-1001", customItem("Service", "200"))
	in.Discount = dec("5")
	in.DiscountType = models.DiscountPercentage
	res, err := l.SaveInvoice(ctx, in)
	require.NoError(t, err)

	d, err := l.EditDraft(res.Invoice.ID)
	require.NoError(t, err)
	assert.Empty(t, d.CustomerName)
	assertAmount(t, "5.00", d.Discount)
	assertAmount(t, "190.00", d.Totals().Total)

	_, err = l.SaveInvoice(ctx, d.Input())
	require.NoError(t, err)
	assert.Empty(t, l.Customers())

	_, err = l.EditDraft("missing")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)
	addStocked(t, l, "Notebook", "45", 3)
	_, err := l.SaveInvoice(ctx, validInput("INV-1001", customItem("Service", "10")))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, l.Export(&buf))
	assert.Contains(t, buf.String(), `"number": "INV-1001"`)
	exported := buf.String()

	other, _ := newTestLedger(t)
	doc, err := other.Import(ctx, strings.NewReader(exported))
	require.NoError(t, err)
	assert.Len(t, doc.Invoices, 1)
	assert.Equal(t, "INV-1002", other.NextInvoiceNumber())

	t.Run("malformed input keeps document", func(t *testing.T) {
		before := other.Document()
		for _, payload := range []string{"{not json", "", "null", `{"invoices": 5}`} {
			_, err := other.Import(ctx, strings.NewReader(payload))
			var fe *FormatError
			require.ErrorAs(t, err, &fe, "payload %q", payload)
			assert.True(t, strings.HasPrefix(err.Error(), "Invalid JSON file"))
		}
		assert.Equal(t, before, other.Document())
	})

	t.Run("missing collections are normalised", func(t *testing.T) {
		doc, err := other.Import(ctx, strings.NewReader(`{"settings": {"businessName": "Shop"}}`))
		require.NoError(t, err)
		assert.NotNil(t, doc.Products)
		assert.Equal(t, "INV-", doc.Settings.InvoicePrefix)
		assert.Equal(t, 1001, doc.Settings.InvoiceStart)
	})

	t.Run("legacy timestamps", func(t *testing.T) {
		payload := `{"invoices": [{"id": "a", "number": "INV-1001", "date": "2025-10-07", "createdAt": "07-10-2025, 09:50 AM", "items": []}]}`
		doc, err := other.Import(ctx, strings.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, 9, doc.Invoices[0].CreatedAt.Hour())
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	l, s := newTestLedger(t)
	addStocked(t, l, "Notebook", "45", 3)

	require.NoError(t, l.Clear(ctx))
	assert.Empty(t, l.Products())

	saved, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Empty(t, saved.Products)
	assert.Equal(t, models.DefaultSettings(), saved.Settings)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "shopledger-data-2025-10-07.json", ExportFilename(fixedNow))
}
