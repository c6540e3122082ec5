package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/domain/ports"
)

func newImportCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a knowledge graph from JSON",
		Long: `Imports insights, categories and relationships from a JSON export.
Existing records with the same ID are overwritten. Relationships whose
endpoints are not part of the import or the database are rejected.
With --replace the current insights, relationships and categories are
cleared first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], replace)
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Clear existing data before importing")

	return cmd
}

func runImport(cmd *cobra.Command, path string, replace bool) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var dump dumpFile
	if err := json.Unmarshal(data, &dump); err != nil {
		return fmt.Errorf("parsing export: %w", err)
	}

	return withStore(func(store ports.Store) error {
		if replace {
			// Relationships first: never leave an edge pointing at a
			// cleared insight.
			if err := store.ClearRelationships(ctx); err != nil {
				return fmt.Errorf("clearing relationships: %w", err)
			}
			if err := store.ClearInsights(ctx); err != nil {
				return fmt.Errorf("clearing insights: %w", err)
			}
			if err := store.ClearCategories(ctx); err != nil {
				return fmt.Errorf("clearing categories: %w", err)
			}
		}

		// Categories first so insights can reference them.
		for _, cat := range dump.Categories {
			if cat.ID == "" || cat.Name == "" {
				return errors.New("category with missing id or name")
			}
			if err := store.SaveCategory(ctx, cat); err != nil {
				return fmt.Errorf("importing category %s: %w", cat.Name, err)
			}
		}

		imported := make(map[string]bool, len(dump.Insights))
		for _, ins := range dump.Insights {
			if ins.ID == "" || ins.Title == "" {
				return errors.New("insight with missing id or title")
			}
			if err := store.SaveInsight(ctx, ins); err != nil {
				return fmt.Errorf("importing insight %s: %w", ins.ID, err)
			}
			imported[ins.ID] = true
		}

		for i := range dump.Relationships {
			rel := &dump.Relationships[i]
			if err := checkImportEndpoint(ctx, store, imported, rel.SourceID); err != nil {
				return fmt.Errorf("relationship %s: %w", rel.ID, err)
			}
			if err := checkImportEndpoint(ctx, store, imported, rel.TargetID); err != nil {
				return fmt.Errorf("relationship %s: %w", rel.ID, err)
			}
			rel.Strength = entities.ClampStrength(rel.Strength)
			if err := store.SaveRelationship(ctx, rel); err != nil {
				return fmt.Errorf("importing relationship %s: %w", rel.ID, err)
			}
		}

		if err := store.LogChange(ctx, "graph.import", path, map[string]any{
			"insights":      len(dump.Insights),
			"categories":    len(dump.Categories),
			"relationships": len(dump.Relationships),
		}); err != nil {
			return fmt.Errorf("logging import: %w", err)
		}

		fmt.Printf("Imported %d insights, %d categories, %d relationships\n",
			len(dump.Insights), len(dump.Categories), len(dump.Relationships))
		return nil
	})
}

// checkImportEndpoint accepts an endpoint that is part of this import or
// already present in the database.
func checkImportEndpoint(ctx context.Context, store ports.Store, imported map[string]bool, id string) error {
	if imported[id] {
		return nil
	}
	existing, err := store.FindInsightByID(ctx, id)
	if err != nil {
		return fmt.Errorf("checking endpoint: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("endpoint insight %s: %w", id, entities.ErrNotFound)
	}
	return nil
}
