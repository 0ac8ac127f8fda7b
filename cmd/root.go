package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"shopledger/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "shopledger",
	Short: "shopledger - invoicing and customer ledger for small shops",
	Long: `shopledger keeps products, categories, customers and invoices in a single
local document and keeps them consistent: invoice numbers are unique and
sequential, stock follows the saved invoice lines and every customer's total
spent follows the invoices attributed to them.

Data lives in the store selected by SHOPLEDGER_STORE_DRIVER (file, sqlite or
memory) below SHOPLEDGER_DATA_DIR. Every command loads the document, runs one
operation and writes the result back in a single save.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Debug().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int("timeout", 60, "Operation timeout in seconds")
}
