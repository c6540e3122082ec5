package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <insight-id>",
		Short: "Delete an insight and its relationships",
		Long:  "Deletes an insight. Every relationship where it appears as source or target is removed with it.",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	return withDeps(func(d *Deps) error {
		rels, err := d.Relationships.ListForInsight(ctx, id)
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}

		if err := d.Insights.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting insight: %w", err)
		}

		fmt.Printf("Deleted insight: %s\n", id)
		if len(rels) > 0 {
			fmt.Printf("  Removed %d relationships\n", len(rels))
		}
		return nil
	})
}
