package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"shopledger/internal/ledger"
	"shopledger/internal/share"
	"shopledger/pkg/models"
)

var invoiceCmd = &cobra.Command{
	Use:     "invoice",
	Aliases: []string{"invoices"},
	Short:   "Create, edit and share invoices",
	Long: `Create, edit, list and share invoices.

Items are given as --item "name:qty[:price]" and may be repeated. A name that
matches a product (case-insensitive) uses the product's price unless a price is
given, and takes units out of its stock when the invoice is saved. Any other
name is a custom item and needs a price.

Invoices are referenced by id or by number.`,
}

var invoiceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice",
	Example: `  # Walk-in sale of two catalogue products
  shopledger invoice create --item "Notebook:2" --item "Pen:5"

  # Named customer, custom item and a 10% discount
  shopledger invoice create --customer "Asha" --phone "+91 98765 43210" \
    --item "Notebook:2" --item "Gift wrap:1:30" --discount 10 --discount-type percentage`,
	Args: cobra.NoArgs,
	RunE: runInvoiceCreate,
}

var invoiceEditCmd = &cobra.Command{
	Use:   "edit <invoice>",
	Short: "Edit an invoice; omitted flags keep their value",
	Example: `  # Replace one row and add another
  shopledger invoice edit INV-1001 --remove-item <item-id> --item "Pen:3"`,
	Args: cobra.ExactArgs(1),
	RunE: runInvoiceEdit,
}

var invoiceRmCmd = &cobra.Command{
	Use:     "rm <invoice>",
	Aliases: []string{"delete"},
	Short:   "Delete an invoice",
	Args:    cobra.ExactArgs(1),
	RunE:    runInvoiceRm,
}

var invoiceLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List invoices, newest first",
	Args:    cobra.NoArgs,
	RunE:    runInvoiceLs,
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show <invoice>",
	Short: "Show an invoice with its items",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceShow,
}

var invoiceNextNumberCmd = &cobra.Command{
	Use:   "next-number",
	Short: "Print the number the next invoice will get",
	Args:  cobra.NoArgs,
	RunE:  runInvoiceNextNumber,
}

var invoiceShareCmd = &cobra.Command{
	Use:   "share <invoice>",
	Short: "Print a WhatsApp link that sends the invoice to its customer",
	Args:  cobra.ExactArgs(1),
	RunE:  runInvoiceShare,
}

func init() {
	rootCmd.AddCommand(invoiceCmd)
	invoiceCmd.AddCommand(invoiceCreateCmd, invoiceEditCmd, invoiceRmCmd, invoiceLsCmd,
		invoiceShowCmd, invoiceNextNumberCmd, invoiceShareCmd)

	for _, c := range []*cobra.Command{invoiceCreateCmd, invoiceEditCmd} {
		c.Flags().StringArray("item", nil, `Line item "name:qty[:price]" (repeatable)`)
		c.Flags().String("number", "", "Invoice number (default: next free number)")
		c.Flags().String("date", "", "Invoice date YYYY-MM-DD (default: today)")
		c.Flags().String("customer", "", "Customer name (empty for a walk-in sale)")
		c.Flags().String("phone", "", "Customer phone")
		c.Flags().String("discount", "", "Discount value")
		c.Flags().String("discount-type", "", "Discount type: flat or percentage")
	}
	invoiceEditCmd.Flags().StringArray("remove-item", nil, "Id of a line item to remove (repeatable)")
	invoiceEditCmd.Flags().Bool("clear-items", false, "Remove all existing line items first")

	invoiceLsCmd.Flags().String("period", "all", "Period: all, today, week, month or year")
	invoiceLsCmd.Flags().String("search", "", "Filter by number, customer name or phone")

	invoiceShareCmd.Flags().Bool("mobile", false, "Build a wa.me link instead of a WhatsApp Web link")
	invoiceShareCmd.Flags().Bool("short", false, "Send a short notice instead of the full invoice")
	invoiceShareCmd.Flags().String("link", "", "Download link to include in the short notice")
}

// resolveInvoice looks an invoice up by id, then by number
func resolveInvoice(l *ledger.Ledger, ref string) (models.Invoice, error) {
	inv, err := l.Invoice(ref)
	if err == nil {
		return inv, nil
	}
	return l.InvoiceByNumber(ref)
}

// applyDraftFlags copies the changed header flags onto d and applies the item
// flags in order: removals first, then additions.
func applyDraftFlags(cmd *cobra.Command, d *ledger.Draft) error {
	flags := cmd.Flags()

	if flags.Changed("number") {
		d.Number, _ = flags.GetString("number")
	}
	if flags.Changed("date") {
		d.Date, _ = flags.GetString("date")
	}
	if flags.Changed("customer") {
		d.CustomerName, _ = flags.GetString("customer")
	}
	if flags.Changed("phone") {
		d.CustomerPhone, _ = flags.GetString("phone")
	}
	if flags.Changed("discount") {
		discount, err := decimalFlag(cmd, "discount")
		if err != nil {
			return err
		}
		d.Discount = discount
	}
	if flags.Changed("discount-type") {
		raw, _ := flags.GetString("discount-type")
		d.DiscountType = models.DiscountType(strings.ToLower(strings.TrimSpace(raw)))
	}

	if flags.Lookup("clear-items") != nil {
		if clearAll, _ := flags.GetBool("clear-items"); clearAll {
			for _, item := range d.Items() {
				if err := d.RemoveItem(item.ID); err != nil {
					return userError(err)
				}
			}
		}
	}
	if flags.Lookup("remove-item") != nil {
		removals, _ := flags.GetStringArray("remove-item")
		for _, id := range removals {
			if err := d.RemoveItem(id); err != nil {
				return userError(err)
			}
		}
	}

	raws, _ := flags.GetStringArray("item")
	for _, raw := range raws {
		parsed, err := parseItemSpec(raw)
		if err != nil {
			return err
		}
		item, err := d.AddItem(parsed.Name, parsed.Price, parsed.Quantity)
		if err != nil {
			return userError(err)
		}
		if left, ok := d.Available(item.Name); ok && left == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Note: %s is now out of stock\n", item.Name)
		}
	}
	return nil
}

func runInvoiceCreate(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "invoice")
	if err != nil {
		return err
	}
	defer s.Close()

	d := s.ledger.NewDraft()
	if err := applyDraftFlags(cmd, d); err != nil {
		return err
	}

	return saveDraft(cmd, s, d)
}

func runInvoiceEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "invoice")
	if err != nil {
		return err
	}
	defer s.Close()

	inv, err := resolveInvoice(s.ledger, args[0])
	if err != nil {
		return userError(err)
	}

	d, err := s.ledger.EditDraft(inv.ID)
	if err != nil {
		return userError(err)
	}
	if err := applyDraftFlags(cmd, d); err != nil {
		return err
	}

	return saveDraft(cmd, s, d)
}

func saveDraft(cmd *cobra.Command, s *session, d *ledger.Draft) error {
	res, err := s.ledger.SaveInvoice(s.ctx, d.Input())
	if err != nil {
		return userError(err)
	}

	s.log.Debug().
		Str("invoice_id", res.Invoice.ID).
		Str("number", res.Invoice.Number).
		Bool("created", res.Created).
		Msg("Invoice saved from CLI")

	settings := s.ledger.Settings()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Message())
	fmt.Fprintf(out, "%s  %s  %s\n", res.Invoice.Number, res.Invoice.CustomerName,
		money(settings.Currency, res.Invoice.Total, settings.PrivacyMode))
	return nil
}

func runInvoiceRm(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "invoice")
	if err != nil {
		return err
	}
	defer s.Close()

	inv, err := resolveInvoice(s.ledger, args[0])
	if err != nil {
		return userError(err)
	}

	if _, err := s.ledger.DeleteInvoice(s.ctx, inv.ID); err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Invoice deleted successfully!")
	return nil
}

func runInvoiceLs(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "invoice")
	if err != nil {
		return err
	}
	defer s.Close()

	rawPeriod, _ := cmd.Flags().GetString("period")
	period, err := ledger.ParsePeriod(rawPeriod)
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")

	settings := s.ledger.Settings()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NUMBER\tDATE\tCUSTOMER\tPHONE\tITEMS\tTOTAL")
	for _, inv := range s.ledger.Invoices(ledger.InvoiceFilter{Period: period, Search: search}) {
		phone := inv.CustomerPhone
		if phone == "" {
			phone = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			inv.Number, inv.Date, inv.CustomerName, phone, len(inv.Items),
			money(settings.Currency, inv.Total, settings.PrivacyMode))
	}
	return w.Flush()
}

func runInvoiceShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "invoice")
	if err != nil {
		return err
	}
	defer s.Close()

	inv, err := resolveInvoice(s.ledger, args[0])
	if err != nil {
		return userError(err)
	}

	settings := s.ledger.Settings()
	amount := func(d decimal.Decimal) string {
		return money(settings.Currency, d, settings.PrivacyMode)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Invoice:  %s (%s)\n", inv.Number, inv.ID)
	fmt.Fprintf(out, "Date:     %s\n", inv.Date)
	fmt.Fprintf(out, "Customer: %s", inv.CustomerName)
	if inv.CustomerPhone != "" {
		fmt.Fprintf(out, " (%s)", inv.CustomerPhone)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM ID\tNAME\tQTY\tPRICE\tTOTAL")
	for _, item := range inv.Items {
		name := item.Name
		if item.IsCustom() {
			name += " (custom)"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", item.ID, name, item.Quantity, amount(item.Price), amount(item.Total))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Subtotal: %s\n", amount(inv.Subtotal))
	if inv.DiscountType == models.DiscountPercentage {
		fmt.Fprintf(out, "Discount: %s (%s%%)\n", amount(inv.Discount), inv.DiscountValue.String())
	} else {
		fmt.Fprintf(out, "Discount: %s\n", amount(inv.Discount))
	}
	fmt.Fprintf(out, "Total:    %s\n", amount(inv.Total))
	return nil
}

func runInvoiceNextNumber(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "invoice")
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintln(cmd.OutOrStdout(), s.ledger.NextInvoiceNumber())
	return nil
}

func runInvoiceShare(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "invoice")
	if err != nil {
		return err
	}
	defer s.Close()

	inv, err := resolveInvoice(s.ledger, args[0])
	if err != nil {
		return userError(err)
	}

	mobile, _ := cmd.Flags().GetBool("mobile")
	short, _ := cmd.Flags().GetBool("short")
	link, _ := cmd.Flags().GetString("link")

	settings := s.ledger.Settings()
	message := share.InvoiceMessage(inv, settings)
	if short {
		message = share.ShortMessage(inv, settings, link)
	}

	url, err := share.WhatsAppURL(inv, message, mobile)
	if err != nil {
		return err
	}

	s.log.Debug().Str("number", inv.Number).Bool("mobile", mobile).Msg("Built WhatsApp link")
	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}
