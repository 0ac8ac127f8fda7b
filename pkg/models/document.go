package models

// Settings holds business details and invoice numbering configuration.
type Settings struct {
	BusinessName    string `json:"businessName"`
	BusinessEmail   string `json:"businessEmail"`
	BusinessPhone   string `json:"businessPhone"`
	BusinessAddress string `json:"businessAddress"`
	InvoicePrefix   string `json:"invoicePrefix"`
	InvoiceStart    int    `json:"invoiceStart"`
	Currency        string `json:"currency"`
	PrivacyMode     bool   `json:"privacyMode,omitempty"` // hide sales totals in reports
}

// DefaultSettings returns the settings seeded on first run.
func DefaultSettings() Settings {
	return Settings{
		BusinessName:    "Your Business Name",
		BusinessEmail:   "business@example.com",
		BusinessPhone:   "+91 9876543210",
		BusinessAddress: "123 Business Street, City, State 12345",
		InvoicePrefix:   "INV-",
		InvoiceStart:    1001,
		Currency:        "₹",
	}
}

// Document is the complete persisted state tree.
type Document struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
	Customers  []Customer `json:"customers"`
	Invoices   []Invoice  `json:"invoices"`
	Settings   Settings   `json:"settings"`
}

// NewDocument returns an empty document with default settings.
func NewDocument() *Document {
	return &Document{
		Products:   []Product{},
		Categories: []Category{},
		Customers:  []Customer{},
		Invoices:   []Invoice{},
		Settings:   DefaultSettings(),
	}
}

// Clone deep-copies every collection so the result can be mutated freely.
func (d *Document) Clone() *Document {
	out := &Document{
		Products:   make([]Product, len(d.Products)),
		Categories: append([]Category{}, d.Categories...),
		Customers:  append([]Customer{}, d.Customers...),
		Invoices:   make([]Invoice, len(d.Invoices)),
		Settings:   d.Settings,
	}
	for i, p := range d.Products {
		out.Products[i] = p.Clone()
	}
	for i, inv := range d.Invoices {
		out.Invoices[i] = inv.Clone()
	}
	return out
}

// Normalize replaces nil collections with empty ones and fills missing
// numbering settings, so imported documents behave like seeded ones.
func (d *Document) Normalize() {
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.Customers == nil {
		d.Customers = []Customer{}
	}
	if d.Invoices == nil {
		d.Invoices = []Invoice{}
	}
	for i := range d.Invoices {
		if d.Invoices[i].Items == nil {
			d.Invoices[i].Items = []LineItem{}
		}
	}

	defaults := DefaultSettings()
	if d.Settings.InvoicePrefix == "" {
		d.Settings.InvoicePrefix = defaults.InvoicePrefix
	}
	if d.Settings.InvoiceStart <= 0 {
		d.Settings.InvoiceStart = defaults.InvoiceStart
	}
	if d.Settings.Currency == "" {
		d.Settings.Currency = defaults.Currency
	}
}

// FindProduct returns the index of the product with id, or -1.
func (d *Document) FindProduct(id string) int {
	for i := range d.Products {
		if d.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCategory returns the index of the category with id, or -1.
func (d *Document) FindCategory(id string) int {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCustomer returns the index of the customer with id, or -1.
func (d *Document) FindCustomer(id string) int {
	for i := range d.Customers {
		if d.Customers[i].ID == id {
			return i
		}
	}
	return -1
}

// FindInvoice returns the index of the invoice with id, or -1.
func (d *Document) FindInvoice(id string) int {
	for i := range d.Invoices {
		if d.Invoices[i].ID == id {
			return i
		}
	}
	return -1
}
