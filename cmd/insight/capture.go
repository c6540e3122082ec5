package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCaptureCmd() *cobra.Command {
	var (
		tags     []string
		category string
	)

	cmd := &cobra.Command{
		Use:   "capture <title> [content]",
		Short: "Capture a new insight",
		Long: `Captures a new insight with an optional content body.

Examples:
  insight capture "Channels are queues" "Buffered channels decouple sender and receiver"
  insight capture "Standup notes" --tags work,meeting --category Work`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd, args, tags, category)
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "Comma-separated tags")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category name (case-insensitive)")

	return cmd
}

func runCapture(cmd *cobra.Command, args []string, tags []string, category string) error {
	ctx := cmd.Context()
	title := args[0]
	content := ""
	if len(args) > 1 {
		content = args[1]
	}

	return withDeps(func(d *Deps) error {
		var categoryID *string
		if category != "" {
			cat, err := d.Categories.FindByName(ctx, category)
			if err != nil {
				return fmt.Errorf("finding category: %w", err)
			}
			if cat == nil {
				return fmt.Errorf("unknown category %q (see 'insight categories')", category)
			}
			categoryID = &cat.ID
		}

		ins, err := d.Insights.Create(ctx, title, content, tags, categoryID)
		if err != nil {
			return fmt.Errorf("capturing insight: %w", err)
		}

		fmt.Printf("Captured insight: %s\n", ins.ID)
		fmt.Printf("  %s\n", ins.Title)
		if category != "" {
			fmt.Printf("  Category: %s\n", category)
		}
		return nil
	})
}
