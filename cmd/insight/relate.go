package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRelateCmd() *cobra.Command {
	var (
		bidirectional bool
		strength      float64
		description   string
	)

	cmd := &cobra.Command{
		Use:   "relate <source-id> <type> <target-id>",
		Short: "Create a relationship between two insights",
		Long: `Creates a directed, typed relationship between two insights.
Strength is clamped to the range [0, 1].

Examples:
  insight relate 3f2a... supports 9c1b...
  insight relate 3f2a... contradicts 9c1b... --strength 0.4
  insight relate 3f2a... relates 9c1b... --bidirectional`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelate(cmd, args, bidirectional, strength, description)
		},
	}

	cmd.Flags().BoolVar(&bidirectional, "bidirectional", false, "Create the reverse relationship too")
	cmd.Flags().Float64Var(&strength, "strength", 1.0, "Relationship strength in [0, 1]")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")

	cmd.AddCommand(newRelateDeleteCmd())

	return cmd
}

func runRelate(cmd *cobra.Command, args []string, bidirectional bool, strength float64, description string) error {
	ctx := cmd.Context()
	sourceID := args[0]
	relType := args[1]
	targetID := args[2]

	return withDeps(func(d *Deps) error {
		if bidirectional {
			forward, reverse, err := d.Relationships.CreateBidirectional(ctx, sourceID, targetID, relType, description, strength)
			if err != nil {
				return fmt.Errorf("creating relationship: %w", err)
			}
			fmt.Printf("Created relationship pair: %s / %s\n", forward.ID, reverse.ID)
			fmt.Printf("  %s <-[%s %.2f]-> %s\n", sourceID, forward.Type, forward.Strength, targetID)
			return nil
		}

		rel, err := d.Relationships.Create(ctx, sourceID, targetID, relType, description, strength)
		if err != nil {
			return fmt.Errorf("creating relationship: %w", err)
		}
		fmt.Printf("Created relationship: %s\n", rel.ID)
		fmt.Printf("  %s -[%s %.2f]-> %s\n", sourceID, rel.Type, rel.Strength, targetID)
		return nil
	})
}

func newRelateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <relationship-id>",
		Short: "Delete a relationship",
		Args:  cobra.ExactArgs(1),
		RunE:  runRelateDelete,
	}
}

func runRelateDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	relID := args[0]

	return withDeps(func(d *Deps) error {
		if err := d.Relationships.Delete(ctx, relID); err != nil {
			return fmt.Errorf("deleting relationship: %w", err)
		}

		fmt.Printf("Deleted relationship: %s\n", relID)
		return nil
	})
}
