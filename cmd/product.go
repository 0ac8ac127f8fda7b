package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"shopledger/internal/ledger"
	"shopledger/pkg/models"
)

var productCmd = &cobra.Command{
	Use:     "product",
	Aliases: []string{"products"},
	Short:   "Manage the product catalogue",
}

var productAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product",
	Example: `  # Product that tracks stock
  shopledger product add --name Notebook --price 45.50 --stock 20

  # Service without stock, in a category
  shopledger product add --name "Gift wrap" --price 30 --category <category-id>`,
	Args: cobra.NoArgs,
	RunE: runProductAdd,
}

var productEditCmd = &cobra.Command{
	Use:   "edit <product-id>",
	Short: "Change a product; omitted flags keep their value",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductEdit,
}

var productRmCmd = &cobra.Command{
	Use:     "rm <product-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a product",
	Args:    cobra.ExactArgs(1),
	RunE:    runProductRm,
}

var productLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List products",
	Args:    cobra.NoArgs,
	RunE:    runProductLs,
}

func init() {
	rootCmd.AddCommand(productCmd)
	productCmd.AddCommand(productAddCmd, productEditCmd, productRmCmd, productLsCmd)

	for _, c := range []*cobra.Command{productAddCmd, productEditCmd} {
		c.Flags().String("name", "", "Product name")
		c.Flags().String("price", "", "Unit price")
		c.Flags().Int("stock", 0, "Units in stock (enables stock tracking)")
		c.Flags().Bool("no-stock", false, "Do not track stock for this product")
		c.Flags().String("category", "", "Category id")
		c.Flags().String("description", "", "Description")
	}
	productAddCmd.MarkFlagRequired("name")

	productLsCmd.Flags().String("search", "", "Filter by name or description")
}

func productInputFromFlags(cmd *cobra.Command, in ledger.ProductInput) (ledger.ProductInput, error) {
	flags := cmd.Flags()

	if flags.Changed("name") {
		in.Name, _ = flags.GetString("name")
	}
	if flags.Changed("price") {
		price, err := decimalFlag(cmd, "price")
		if err != nil {
			return in, err
		}
		in.Price = price
	}
	if flags.Changed("stock") {
		stock, _ := flags.GetInt("stock")
		in.Stock = models.IntPtr(stock)
	}
	if noStock, _ := flags.GetBool("no-stock"); noStock {
		in.Stock = nil
	}
	if flags.Changed("category") {
		in.CategoryID, _ = flags.GetString("category")
	}
	if flags.Changed("description") {
		in.Description, _ = flags.GetString("description")
	}
	return in, nil
}

func runProductAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "product")
	if err != nil {
		return err
	}
	defer s.Close()

	in, err := productInputFromFlags(cmd, ledger.ProductInput{})
	if err != nil {
		return err
	}

	p, err := s.ledger.AddProduct(s.ctx, in)
	if err != nil {
		return userError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Product added successfully! (%s)\n", p.ID)
	return nil
}

func runProductEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "product")
	if err != nil {
		return err
	}
	defer s.Close()

	current, err := s.ledger.Product(args[0])
	if err != nil {
		return userError(err)
	}

	in, err := productInputFromFlags(cmd, ledger.ProductInput{
		Name:        current.Name,
		Price:       current.Price,
		Stock:       current.Stock,
		CategoryID:  current.CategoryID,
		Description: current.Description,
	})
	if err != nil {
		return err
	}

	if _, err := s.ledger.UpdateProduct(s.ctx, current.ID, in); err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Product updated successfully!")
	return nil
}

func runProductRm(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "product")
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ledger.DeleteProduct(s.ctx, args[0]); err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Product deleted successfully!")
	return nil
}

func runProductLs(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "product")
	if err != nil {
		return err
	}
	defer s.Close()

	search, _ := cmd.Flags().GetString("search")
	settings := s.ledger.Settings()

	categories := make(map[string]string)
	for _, c := range s.ledger.Categories() {
		categories[c.ID] = c.Name
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY")
	for _, p := range ledger.SearchProducts(s.ledger.Products(), search) {
		stock := "-"
		if p.TracksStock() {
			stock = fmt.Sprint(*p.Stock)
		}
		category := categories[p.CategoryID]
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, money(settings.Currency, p.Price, false), stock, category)
	}
	return w.Flush()
}
