package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"shopledger/internal/ledger"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change business details and invoice numbering",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings; omitted flags keep their value",
	Example: `  # Rename the business and restart numbering at 5001 with a new prefix
  shopledger settings set --business-name "Asha Stores" --prefix "AS-" --start 5001

  # Hide sales totals in listings and reports
  shopledger settings set --privacy`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)

	f := settingsSetCmd.Flags()
	f.String("business-name", "", "Business name")
	f.String("business-email", "", "Business e-mail")
	f.String("business-phone", "", "Business phone")
	f.String("business-address", "", "Business address")
	f.String("prefix", "", "Invoice number prefix")
	f.Int("start", 0, "First invoice number")
	f.String("currency", "", "Currency symbol")
	f.Bool("privacy", false, "Hide sales totals in listings and reports")
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "settings")
	if err != nil {
		return err
	}
	defer s.Close()

	st := s.ledger.Settings()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Business name\t%s\n", st.BusinessName)
	fmt.Fprintf(w, "Business e-mail\t%s\n", st.BusinessEmail)
	fmt.Fprintf(w, "Business phone\t%s\n", st.BusinessPhone)
	fmt.Fprintf(w, "Business address\t%s\n", st.BusinessAddress)
	fmt.Fprintf(w, "Invoice prefix\t%s\n", st.InvoicePrefix)
	fmt.Fprintf(w, "Invoice start\t%d\n", st.InvoiceStart)
	fmt.Fprintf(w, "Currency\t%s\n", st.Currency)
	fmt.Fprintf(w, "Privacy mode\t%t\n", st.PrivacyMode)
	fmt.Fprintf(w, "Next invoice\t%s\n", s.ledger.NextInvoiceNumber())
	return w.Flush()
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "settings")
	if err != nil {
		return err
	}
	defer s.Close()

	in := ledger.SettingsInputFrom(s.ledger.Settings())
	f := cmd.Flags()
	if f.Changed("business-name") {
		in.BusinessName, _ = f.GetString("business-name")
	}
	if f.Changed("business-email") {
		in.BusinessEmail, _ = f.GetString("business-email")
	}
	if f.Changed("business-phone") {
		in.BusinessPhone, _ = f.GetString("business-phone")
	}
	if f.Changed("business-address") {
		in.BusinessAddress, _ = f.GetString("business-address")
	}
	if f.Changed("prefix") {
		in.InvoicePrefix, _ = f.GetString("prefix")
	}
	if f.Changed("start") {
		in.InvoiceStart, _ = f.GetInt("start")
	}
	if f.Changed("currency") {
		in.Currency, _ = f.GetString("currency")
	}
	if f.Changed("privacy") {
		in.PrivacyMode, _ = f.GetBool("privacy")
	}

	if _, err := s.ledger.UpdateSettings(s.ctx, in); err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Settings saved successfully!")
	return nil
}
