package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"shopledger/internal/ledger"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"dashboard"},
	Short:   "Show sales totals, the daily trend and the best selling items",
	Example: `  # This month's figures with a two-week trend
  shopledger stats --period month --days 14`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().String("period", "all", "Period: all, today, week, month or year")
	statsCmd.Flags().Int("days", 7, "Number of days in the sales trend")
	statsCmd.Flags().Int("top", 5, "Number of best selling items to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "stats")
	if err != nil {
		return err
	}
	defer s.Close()

	rawPeriod, _ := cmd.Flags().GetString("period")
	period, err := ledger.ParsePeriod(rawPeriod)
	if err != nil {
		return err
	}
	days, _ := cmd.Flags().GetInt("days")
	top, _ := cmd.Flags().GetInt("top")

	settings := s.ledger.Settings()
	private := settings.PrivacyMode
	invoices := s.ledger.Invoices(ledger.InvoiceFilter{Period: period})
	stats := ledger.ComputeStats(invoices)

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total sales\t%s\n", money(settings.Currency, stats.TotalSales, private))
	fmt.Fprintf(w, "Invoices\t%d\n", stats.InvoiceCount)
	fmt.Fprintf(w, "Products\t%d\n", len(s.ledger.Products()))
	fmt.Fprintf(w, "Customers\t%d\n", len(s.ledger.Customers()))
	if stats.TopProduct != "" {
		fmt.Fprintf(w, "Top product\t%s (%s)\n", stats.TopProduct, money(settings.Currency, stats.TopProductSales, private))
	} else {
		fmt.Fprintf(w, "Top product\t-\n")
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if days > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DAY\tDATE\tSALES")
		for _, day := range ledger.SalesTrend(invoices, days, s.ledger.Now()) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", day.Label, day.Date, money(settings.Currency, day.Total, private))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if top > 0 {
		fmt.Fprintln(out)
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ITEM\tSALES")
		for _, ps := range ledger.TopProducts(invoices, top) {
			fmt.Fprintf(w, "%s\t%s\n", ps.Name, money(settings.Currency, ps.Sales, private))
		}
		return w.Flush()
	}
	return nil
}
