package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmargell/insight-core/internal/domain/entities"
)

// dumpFile is the JSON export format: the full knowledge graph in one
// document. Settings and the mind-map snapshot are deliberately excluded;
// they are local presentation state.
type dumpFile struct {
	Insights      []*entities.Insight     `json:"insights"`
	Categories    []*entities.Category    `json:"categories"`
	Relationships []entities.Relationship `json:"relationships"`
}

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the knowledge graph to JSON",
		Long:  "Exports all insights, categories and relationships as a single JSON document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, output string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		dump := dumpFile{}
		var err error

		if dump.Insights, err = d.Insights.List(ctx); err != nil {
			return fmt.Errorf("listing insights: %w", err)
		}
		if dump.Categories, err = d.Categories.List(ctx); err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}
		if dump.Relationships, err = d.Relationships.ListAll(ctx); err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return fmt.Errorf("creating file: %w", err)
			}
			defer f.Close()
			w = f
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(dump); err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}

		if output != "" {
			fmt.Printf("Exported %d insights, %d categories, %d relationships to %s\n",
				len(dump.Insights), len(dump.Categories), len(dump.Relationships), output)
		}
		return nil
	})
}
