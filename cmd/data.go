package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"shopledger/internal/ledger"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Back up, restore or clear all ledger data",
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all data to a JSON file",
	Example: `  # Export to shopledger-data-<today>.json
  shopledger data export

  # Export to stdout
  shopledger data export -o -`,
	Args: cobra.NoArgs,
	RunE: runDataExport,
}

var dataImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data with the contents of an exported JSON file",
	Long: `Replace all data with the contents of an exported JSON file.

Files written by older versions, including their "dd-mm-yyyy, hh:mm am"
timestamps, are accepted. A file that is not valid JSON leaves the current data
untouched. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runDataImport,
}

var dataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all data and start over with default settings",
	Args:  cobra.NoArgs,
	RunE:  runDataClear,
}

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataExportCmd, dataImportCmd, dataClearCmd)

	dataExportCmd.Flags().StringP("output", "o", "", "Output file (default: shopledger-data-YYYY-MM-DD.json, - for stdout)")
	dataClearCmd.Flags().Bool("yes", false, "Confirm that all data should be deleted")
}

func runDataExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "data")
	if err != nil {
		return err
	}
	defer s.Close()

	output, _ := cmd.Flags().GetString("output")
	if output == "-" {
		return s.ledger.Export(cmd.OutOrStdout())
	}
	if output == "" {
		output = ledger.ExportFilename(s.ledger.Now())
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := s.ledger.Export(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	s.log.Info().Str("file", output).Msg("Data exported")
	fmt.Fprintf(cmd.OutOrStdout(), "Data exported to %s\n", output)
	return nil
}

func runDataImport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "data")
	if err != nil {
		return err
	}
	defer s.Close()

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open import file: %w", err)
		}
		defer file.Close()
		r = file
	}

	doc, err := s.ledger.Import(s.ctx, r)
	if err != nil {
		return userError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Data imported successfully! (%d products, %d categories, %d customers, %d invoices)\n",
		len(doc.Products), len(doc.Categories), len(doc.Customers), len(doc.Invoices))
	return nil
}

func runDataClear(cmd *cobra.Command, args []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errors.New("this deletes all products, customers and invoices; re-run with --yes to confirm")
	}

	s, err := openSession(cmd, "data")
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ledger.Clear(s.ctx); err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "All data has been cleared.")
	return nil
}
