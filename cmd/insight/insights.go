package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmargell/insight-core/internal/domain/entities"
)

func newListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all insights",
		Long:  "Lists all captured insights with optional category filtering.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, category)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category name")

	return cmd
}

func runList(cmd *cobra.Command, category string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		insights, err := d.Insights.List(ctx)
		if err != nil {
			return fmt.Errorf("listing insights: %w", err)
		}

		if category != "" {
			cat, err := d.Categories.FindByName(ctx, category)
			if err != nil {
				return fmt.Errorf("finding category: %w", err)
			}
			if cat == nil {
				return fmt.Errorf("unknown category %q", category)
			}
			filtered := insights[:0]
			for _, ins := range insights {
				if ins.CategoryID != nil && *ins.CategoryID == cat.ID {
					filtered = append(filtered, ins)
				}
			}
			insights = filtered
		}

		if len(insights) == 0 {
			fmt.Println("No insights found.")
			return nil
		}

		categoryNames, err := categoryNameIndex(cmd, d)
		if err != nil {
			return err
		}

		fmt.Printf("Showing %d insights:\n\n", len(insights))
		for _, ins := range insights {
			displayInsight(ins, categoryNames)
		}
		return nil
	})
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <insight-id>",
		Short: "Show a single insight with its relationships",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	return withDeps(func(d *Deps) error {
		ins, err := d.Insights.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("finding insight: %w", err)
		}
		if ins == nil {
			return fmt.Errorf("insight %s not found", id)
		}

		categoryNames, err := categoryNameIndex(cmd, d)
		if err != nil {
			return err
		}
		displayInsight(ins, categoryNames)

		rels, err := d.Relationships.ListForInsight(ctx, id)
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}
		if len(rels) > 0 {
			fmt.Printf("Relationships (%d):\n", len(rels))
			for _, rel := range rels {
				fmt.Printf("  %s -[%s %.2f]-> %s\n", rel.SourceID, rel.Type, rel.Strength, rel.TargetID)
			}
		}
		return nil
	})
}

func newSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search insights by title, content or tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultSearchLimit, "Maximum number of results")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, limit int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		found, err := d.Insights.Search(ctx, query, limit)
		if err != nil {
			return fmt.Errorf("searching insights: %w", err)
		}

		if len(found) == 0 {
			fmt.Println("No insights match.")
			return nil
		}

		categoryNames, err := categoryNameIndex(cmd, d)
		if err != nil {
			return err
		}

		fmt.Printf("Found %d insights:\n\n", len(found))
		for _, ins := range found {
			displayInsight(ins, categoryNames)
		}
		return nil
	})
}

// categoryNameIndex maps category IDs to display names for listing output.
func categoryNameIndex(cmd *cobra.Command, d *Deps) (map[string]string, error) {
	cats, err := d.Categories.List(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	names := make(map[string]string, len(cats))
	for _, cat := range cats {
		names[cat.ID] = cat.Name
	}
	return names, nil
}

func displayInsight(ins *entities.Insight, categoryNames map[string]string) {
	fmt.Printf("ID: %s\n", ins.ID)
	fmt.Printf("  %s\n", ins.Title)
	if ins.Content != "" {
		fmt.Printf("  %s\n", ins.Content)
	}
	if len(ins.Tags) > 0 {
		fmt.Printf("  Tags: %s\n", strings.Join(ins.Tags, ", "))
	}
	if ins.CategoryID != nil {
		if name, ok := categoryNames[*ins.CategoryID]; ok {
			fmt.Printf("  Category: %s\n", name)
		}
	}
	fmt.Printf("  Created: %s\n", ins.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Println()
}
