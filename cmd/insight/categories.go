package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  "Lists, adds, renames and deletes categories. Names are unique case-insensitively.",
		RunE:  runCategoriesList,
	}

	cmd.AddCommand(
		newCategoriesAddCmd(),
		newCategoriesRenameCmd(),
		newCategoriesDeleteCmd(),
	)

	return cmd
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		cats, err := d.Categories.List(ctx)
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}

		if len(cats) == 0 {
			fmt.Println("No categories found.")
			return nil
		}

		fmt.Printf("Categories (%d):\n\n", len(cats))
		for _, cat := range cats {
			fmt.Printf("  %-12s %s  %s\n", cat.Name, cat.Color, cat.Icon)
		}
		return nil
	})
}

func newCategoriesAddCmd() *cobra.Command {
	var (
		color string
		icon  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategoriesAdd(cmd, args[0], color, icon)
		},
	}

	cmd.Flags().StringVar(&color, "color", "#9E9E9E", "Display color (hex)")
	cmd.Flags().StringVar(&icon, "icon", "folder", "Display icon name")

	return cmd
}

func runCategoriesAdd(cmd *cobra.Command, name, color, icon string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		cat, err := d.Categories.Create(ctx, name, color, icon)
		if err != nil {
			return fmt.Errorf("creating category: %w", err)
		}

		fmt.Printf("Created category: %s (%s)\n", cat.Name, cat.ID)
		return nil
	})
}

func newCategoriesRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE:  runCategoriesRename,
	}
}

func runCategoriesRename(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name, newName := args[0], args[1]

	return withDeps(func(d *Deps) error {
		cat, err := d.Categories.FindByName(ctx, name)
		if err != nil {
			return fmt.Errorf("finding category: %w", err)
		}
		if cat == nil {
			return fmt.Errorf("unknown category %q", name)
		}

		cat.Name = newName
		if err := d.Categories.Update(ctx, cat); err != nil {
			return fmt.Errorf("renaming category: %w", err)
		}

		fmt.Printf("Renamed category: %s -> %s\n", name, newName)
		return nil
	})
}

func newCategoriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Long:  "Deletes a category. Insights in the category are kept and become uncategorized.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCategoriesDelete,
	}
}

func runCategoriesDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	name := args[0]

	return withDeps(func(d *Deps) error {
		cat, err := d.Categories.FindByName(ctx, name)
		if err != nil {
			return fmt.Errorf("finding category: %w", err)
		}
		if cat == nil {
			return fmt.Errorf("unknown category %q", name)
		}

		if err := d.Categories.Delete(ctx, cat.ID); err != nil {
			return fmt.Errorf("deleting category: %w", err)
		}

		fmt.Printf("Deleted category: %s\n", cat.Name)
		return nil
	})
}
