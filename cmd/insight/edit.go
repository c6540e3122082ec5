package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type editFlags struct {
	title      string
	content    string
	tags       []string
	category   string
	noCategory bool
}

func newEditCmd() *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "edit <insight-id>",
		Short: "Edit an existing insight",
		Long: `Edits an insight. Only the given flags are changed.

Examples:
  insight edit 3f2a... --title "Better title"
  insight edit 3f2a... --category Ideas
  insight edit 3f2a... --no-category`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.title, "title", "", "New title")
	cmd.Flags().StringVar(&flags.content, "content", "", "New content")
	cmd.Flags().StringSliceVarP(&flags.tags, "tags", "t", nil, "Replace tags")
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "Assign category by name")
	cmd.Flags().BoolVar(&flags.noCategory, "no-category", false, "Detach from its category")

	return cmd
}

func runEdit(cmd *cobra.Command, id string, flags editFlags) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		ins, err := d.Insights.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("finding insight: %w", err)
		}
		if ins == nil {
			return fmt.Errorf("insight %s not found", id)
		}

		if flags.title != "" {
			ins.Title = flags.title
		}
		if cmd.Flags().Changed("content") {
			ins.Content = flags.content
		}
		if cmd.Flags().Changed("tags") {
			ins.Tags = flags.tags
		}
		switch {
		case flags.noCategory:
			ins.CategoryID = nil
		case flags.category != "":
			cat, err := d.Categories.FindByName(ctx, flags.category)
			if err != nil {
				return fmt.Errorf("finding category: %w", err)
			}
			if cat == nil {
				return fmt.Errorf("unknown category %q (see 'insight categories')", flags.category)
			}
			ins.CategoryID = &cat.ID
		}

		if err := d.Insights.Update(ctx, ins); err != nil {
			return fmt.Errorf("updating insight: %w", err)
		}

		fmt.Printf("Updated insight: %s\n", ins.ID)
		return nil
	})
}
