package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"shopledger/internal/logger"
	"shopledger/pkg/models"
)

// Service handles Google Sheets operations
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// Row is one invoice as written to the sheet
type Row struct {
	Number    string
	Date      string
	Customer  string
	Phone     string
	Items     string
	Subtotal  float64
	Discount  float64
	Total     float64
	Currency  string
	CreatedAt string
	UpdatedAt string
}

// header row, one title per Row field
var headers = []interface{}{
	"Invoice No", "Date", "Customer", "Phone", "Items", "Subtotal",
	"Discount", "Total", "Currency", "Created", "Updated",
}

const lastColumn = "K"

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// LoadCredentials returns the service account JSON from a file, or the inline
// JSON when no file is given.
func LoadCredentials(file, inline string) ([]byte, error) {
	const op = "LoadCredentials"

	switch {
	case file != "":
		creds, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
		return creds, nil
	case inline != "":
		return []byte(inline), nil
	default:
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}
}

// NewService creates a Google Sheets client for the spreadsheet at sheetURL
func NewService(ctx context.Context, sheetURL string, creds []byte) (*Service, error) {
	const op = "NewService"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	client := config.Client(ctx)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// WriteInvoices appends the invoices whose numbers are not in the sheet yet
// and returns how many rows were written
func (s *Service) WriteInvoices(ctx context.Context, invoices []models.Invoice, sheetName, currency string) (int, error) {
	const op = "WriteInvoices"

	if err := s.ensureSheetWithHeaders(ctx, sheetName); err != nil {
		return 0, fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	existing, err := s.ReadRange(ctx, sheetName+"!A2:A")
	if err != nil {
		return 0, fmt.Errorf("%s: failed to read synced numbers: %w", op, err)
	}
	pending := Unsynced(invoices, existing)

	s.log.Info().
		Str("sheet", sheetName).
		Int("invoices", len(invoices)).
		Int("pending", len(pending)).
		Msg("Writing invoices to Google Sheet")

	if len(pending) == 0 {
		return 0, nil
	}

	var values [][]interface{}
	for _, row := range InvoiceRows(pending, currency) {
		values = append(values, row.values())
	}

	valueRange := &sheets.ValueRange{Values: values}
	_, err = s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		sheetName+"!A:"+lastColumn,
		valueRange,
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Int("rows_written", len(values)).
		Msg("Successfully wrote invoices to Google Sheet")

	return len(values), nil
}

// Unsynced drops invoices whose number already appears in the first column
// of existing, keeping the order of invoices.
func Unsynced(invoices []models.Invoice, existing [][]interface{}) []models.Invoice {
	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		if len(row) == 0 {
			continue
		}
		seen[strings.TrimSpace(fmt.Sprint(row[0]))] = true
	}

	var out []models.Invoice
	for _, inv := range invoices {
		if !seen[inv.Number] {
			out = append(out, inv)
		}
	}
	return out
}

// InvoiceRows converts invoices to sheet rows
func InvoiceRows(invoices []models.Invoice, currency string) []Row {
	code := normalizeCurrency(currency)

	rows := make([]Row, 0, len(invoices))
	for _, inv := range invoices {
		items := make([]string, 0, len(inv.Items))
		for _, item := range inv.Items {
			items = append(items, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
		}

		row := Row{
			Number:   inv.Number,
			Date:     inv.Date,
			Customer: inv.CustomerName,
			Phone:    inv.CustomerPhone,
			Items:    strings.Join(items, ", "),
			Subtotal: inv.Subtotal.InexactFloat64(),
			Discount: inv.Discount.InexactFloat64(),
			Total:    inv.Total.InexactFloat64(),
			Currency: code,
		}
		if !inv.CreatedAt.IsZero() {
			row.CreatedAt = inv.CreatedAt.Format("2006-01-02 15:04")
		}
		if inv.UpdatedAt != nil && !inv.UpdatedAt.IsZero() {
			row.UpdatedAt = inv.UpdatedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, row)
	}
	return rows
}

// values converts a Row to interface{} slice for Google Sheets
func (r Row) values() []interface{} {
	return []interface{}{
		r.Number,    // A
		r.Date,      // B
		r.Customer,  // C
		r.Phone,     // D
		r.Items,     // E
		r.Subtotal,  // F
		r.Discount,  // G
		r.Total,     // H
		r.Currency,  // I
		r.CreatedAt, // J
		r.UpdatedAt, // K
	}
}

// ensureSheetWithHeaders ensures the sheet exists and has proper headers
func (s *Service) ensureSheetWithHeaders(ctx context.Context, sheetName string) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	var sheetID int64
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == sheetName {
			sheetExists = true
			sheetID = sheet.Properties.SheetId
			break
		}
	}

	if !sheetExists {
		s.log.Info().Str("sheet", sheetName).Msg("Creating new sheet")

		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: sheetName},
				}},
			},
		}

		resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	headerRange := fmt.Sprintf("%s!A1:%s1", sheetName, lastColumn)
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		s.log.Info().Str("sheet", sheetName).Msg("Adding headers to sheet")

		valueRange := &sheets.ValueRange{Values: [][]interface{}{headers}}
		_, err = s.sheetsService.Spreadsheets.Values.Update(
			s.spreadsheetID,
			headerRange,
			valueRange,
		).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to add headers: %w", op, err)
		}

		if err := s.formatHeaders(ctx, sheetID); err != nil {
			s.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
		}
	}

	return nil
}

// formatHeaders makes the header row bold and resizes the columns
func (s *Service) formatHeaders(ctx context.Context, sheetID int64) error {
	const op = "formatHeaders"

	columns := int64(len(headers))
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   columns,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat:      &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   columns,
				},
			},
		},
	}

	batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	if _, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}
	return nil
}

// normalizeCurrency maps a currency symbol or name to its ISO code
func normalizeCurrency(currency string) string {
	normalized := strings.ToUpper(strings.TrimSpace(currency))

	switch normalized {
	case "", "₹", "RS", "RS.", "RUPEE", "RUPEES", "INR":
		return "INR"
	case "€", "EURO", "EUROS", "EUR":
		return "EUR"
	case "$", "DOLLAR", "DOLLARS", "USD", "US$":
		return "USD"
	case "£", "POUND", "POUNDS", "GBP":
		return "GBP"
	default:
		if len(normalized) == 3 {
			return normalized
		}
		return currency
	}
}

// ReadRange reads values from a specified range in the spreadsheet
func (s *Service) ReadRange(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	const op = "ReadRange"

	s.log.Debug().
		Str("range", rangeSpec).
		Msg("Reading range from spreadsheet")

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read range %s: %w", op, rangeSpec, err)
	}

	s.log.Debug().
		Int("rows", len(resp.Values)).
		Str("range", rangeSpec).
		Msg("Successfully read range from spreadsheet")

	return resp.Values, nil
}
