// Package main provides the entry point for the insight CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "insight",
		Short:   "A local knowledge base of captured insights with a relationship graph",
		Version: version,
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newCaptureCmd(),
		newListCmd(),
		newShowCmd(),
		newSearchCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newCategoriesCmd(),
		newRelateCmd(),
		newRelationsCmd(),
		newMindMapCmd(),
		newExportCmd(),
		newImportCmd(),
		newLogCmd(),
		newConfigCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
