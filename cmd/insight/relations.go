package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmargell/insight-core/internal/domain/entities"
)

func newRelationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relations [insight-id]",
		Short: "List relationships",
		Long:  "Lists all relationships, or only those touching the given insight.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRelations,
	}

	cmd.AddCommand(newRelationsStrengthCmd())

	return cmd
}

func runRelations(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		var rels []entities.Relationship
		var err error

		if len(args) == 1 {
			rels, err = d.Relationships.ListForInsight(ctx, args[0])
		} else {
			rels, err = d.Relationships.ListAll(ctx)
		}
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}

		if len(rels) == 0 {
			fmt.Println("No relationships found.")
			return nil
		}

		fmt.Printf("Relationships (%d):\n\n", len(rels))
		for _, rel := range rels {
			fmt.Printf("ID: %s\n", rel.ID)
			fmt.Printf("  %s -[%s %.2f]-> %s\n", rel.SourceID, rel.Type, rel.Strength, rel.TargetID)
			if rel.Description != "" {
				fmt.Printf("  %s\n", rel.Description)
			}
		}
		return nil
	})
}

func newRelationsStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength <source-id> <target-id>",
		Short: "Show the strength of the edge between two insights",
		Long:  "Prints the strength of the directed relationship from source to target, or 0.00 when none exists.",
		Args:  cobra.ExactArgs(2),
		RunE:  runRelationsStrength,
	}
}

func runRelationsStrength(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		strength, err := d.Relationships.StrengthBetween(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("looking up strength: %w", err)
		}

		fmt.Printf("%.2f\n", strength)
		return nil
	})
}
