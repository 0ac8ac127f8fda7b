package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"shopledger/internal/ledger"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Manage product categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a category",
	Args:  cobra.NoArgs,
	RunE:  runCategoryAdd,
}

var categoryEditCmd = &cobra.Command{
	Use:   "edit <category-id>",
	Short: "Rename or describe a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryEdit,
}

var categoryRmCmd = &cobra.Command{
	Use:     "rm <category-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a category that has no products",
	Args:    cobra.ExactArgs(1),
	RunE:    runCategoryRm,
}

var categoryLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List categories with their product count",
	Args:    cobra.NoArgs,
	RunE:    runCategoryLs,
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryAddCmd, categoryEditCmd, categoryRmCmd, categoryLsCmd)

	for _, c := range []*cobra.Command{categoryAddCmd, categoryEditCmd} {
		c.Flags().String("name", "", "Category name")
		c.Flags().String("description", "", "Description")
	}
	categoryAddCmd.MarkFlagRequired("name")
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "category")
	if err != nil {
		return err
	}
	defer s.Close()

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")

	c, err := s.ledger.AddCategory(s.ctx, ledger.CategoryInput{Name: name, Description: description})
	if err != nil {
		return userError(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Category added successfully! (%s)\n", c.ID)
	return nil
}

func runCategoryEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "category")
	if err != nil {
		return err
	}
	defer s.Close()

	current, err := s.ledger.Category(args[0])
	if err != nil {
		return userError(err)
	}

	in := ledger.CategoryInput{Name: current.Name, Description: current.Description}
	if cmd.Flags().Changed("name") {
		in.Name, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("description") {
		in.Description, _ = cmd.Flags().GetString("description")
	}

	if _, err := s.ledger.UpdateCategory(s.ctx, current.ID, in); err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Category updated successfully!")
	return nil
}

func runCategoryRm(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "category")
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ledger.DeleteCategory(s.ctx, args[0]); err != nil {
		return userError(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Category deleted successfully!")
	return nil
}

func runCategoryLs(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "category")
	if err != nil {
		return err
	}
	defer s.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRODUCTS\tDESCRIPTION")
	for _, c := range s.ledger.Categories() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.ID, c.Name, s.ledger.CategoryProductCount(c.ID), c.Description)
	}
	return w.Flush()
}
