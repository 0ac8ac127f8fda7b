package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"shopledger/internal/ledger"
	"shopledger/internal/sheets"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy ledger data to external services",
}

var syncSheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Append invoices to a Google Sheet",
	Long: `Append invoices to a Google Sheet, one row per invoice.

The worksheet and its header row are created when missing. Invoices whose
number is already in the first column are skipped, so the command can be
re-run safely.

Required environment variables:
  GOOGLE_SHEET_URL - URL of the target spreadsheet
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Sync every invoice to the default worksheet
  shopledger sync sheets

  # Sync this month's invoices to a separate tab
  shopledger sync sheets --period month --worksheet "October"`,
	Args: cobra.NoArgs,
	RunE: runSyncSheets,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncSheetsCmd)

	syncSheetsCmd.Flags().String("worksheet", "", "Worksheet name (default: GOOGLE_SHEET_WORKSHEET)")
	syncSheetsCmd.Flags().String("period", "all", "Period: all, today, week, month or year")
}

func runSyncSheets(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "sync")
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.cfg.ValidateSheets(); err != nil {
		return err
	}

	rawPeriod, _ := cmd.Flags().GetString("period")
	period, err := ledger.ParsePeriod(rawPeriod)
	if err != nil {
		return err
	}
	worksheet, _ := cmd.Flags().GetString("worksheet")
	if worksheet == "" {
		worksheet = s.cfg.GoogleSheetWorksheet
	}

	creds, err := sheets.LoadCredentials(s.cfg.GoogleCredentialsFile, s.cfg.GoogleCredentialsInline)
	if err != nil {
		return err
	}

	svc, err := sheets.NewService(s.ctx, s.cfg.GoogleSheetURL, creds)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create sheets service")
		return err
	}

	// oldest first so appended rows read chronologically
	invoices := s.ledger.Invoices(ledger.InvoiceFilter{Period: period})
	for i, j := 0, len(invoices)-1; i < j; i, j = i+1, j-1 {
		invoices[i], invoices[j] = invoices[j], invoices[i]
	}

	written, err := svc.WriteInvoices(s.ctx, invoices, worksheet, s.ledger.Settings().Currency)
	if err != nil {
		return userError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Synced %d of %d invoices to worksheet %q\n", written, len(invoices), worksheet)
	return nil
}
