package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"shopledger/internal/ledger"
)

var customerCmd = &cobra.Command{
	Use:     "customer",
	Aliases: []string{"customers"},
	Short:   "Manage customers",
	Long: `Manage customer records.

Customers are also created automatically when an invoice is saved with a
customer name: the phone number identifies a customer when given, otherwise
the exact name among customers without a phone.`,
}

var customerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a customer",
	Args:  cobra.NoArgs,
	RunE:  runCustomerAdd,
}

var customerEditCmd = &cobra.Command{
	Use:   "edit <customer-id>",
	Short: "Change a customer's contact details",
	Args:  cobra.ExactArgs(1),
	RunE:  runCustomerEdit,
}

var customerRmCmd = &cobra.Command{
	Use:     "rm <customer-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a customer without invoices",
	Args:    cobra.ExactArgs(1),
	RunE:    runCustomerRm,
}

var customerLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List customers",
	Args:    cobra.NoArgs,
	RunE:    runCustomerLs,
}

func init() {
	rootCmd.AddCommand(customerCmd)
	customerCmd.AddCommand(customerAddCmd, customerEditCmd, customerRmCmd, customerLsCmd)

	for _, c := range []*cobra.Command{customerAddCmd, customerEditCmd} {
		c.Flags().String("name", "", "Customer name")
		c.Flags().String("phone", "", "Phone number")
		c.Flags().String("email", "", "E-mail address")
		c.Flags().String("address", "", "Postal address")
	}
	customerAddCmd.MarkFlagRequired("name")

	customerLsCmd.Flags().String("search", "", "Filter by name, phone or e-mail")
}

func customerInputFromFlags(cmd *cobra.Command, in ledger.CustomerInput) ledger.CustomerInput {
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name, _ = flags.GetString("name")
	}
	if flags.Changed("phone") {
		in.Phone, _ = flags.GetString("phone")
	}
	if flags.Changed("email") {
		in.Email, _ = flags.GetString("email")
	}
	if flags.Changed("address") {
		in.Address, _ = flags.GetString("address")
	}
	return in
}

func runCustomerAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "customer")
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := s.ledger.AddCustomer(s.ctx, customerInputFromFlags(cmd, ledger.CustomerInput{}))
	if err != nil {
		return userError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Customer added successfully! (%s)\n", c.ID)
	return nil
}

func runCustomerEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "customer")
	if err != nil {
		return err
	}
	defer s.Close()

	current, err := s.ledger.Customer(args[0])
	if err != nil {
		return userError(err)
	}

	in := customerInputFromFlags(cmd, ledger.CustomerInput{
		Name:    current.Name,
		Phone:   current.Phone,
		Email:   current.Email,
		Address: current.Address,
	})
	if _, err := s.ledger.UpdateCustomer(s.ctx, current.ID, in); err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Customer updated successfully!")
	return nil
}

func runCustomerRm(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "customer")
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ledger.DeleteCustomer(s.ctx, args[0]); err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Customer deleted successfully!")
	return nil
}

func runCustomerLs(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "customer")
	if err != nil {
		return err
	}
	defer s.Close()

	search, _ := cmd.Flags().GetString("search")
	settings := s.ledger.Settings()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tINVOICES\tTOTAL SPENT")
	for _, c := range ledger.SearchCustomers(s.ledger.Customers(), search) {
		phone := c.Phone
		if phone == "" {
			phone = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			c.ID, c.Name, phone,
			len(s.ledger.CustomerInvoices(c.ID)),
			money(settings.Currency, c.TotalSpent, settings.PrivacyMode))
	}
	return w.Flush()
}
