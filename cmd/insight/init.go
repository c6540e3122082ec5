package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmargell/insight-core/internal/infrastructure/config"
	"github.com/kmargell/insight-core/internal/infrastructure/store/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new insight database",
		Long:  "Creates a .insight directory with default configuration and sets up the SQLite database with the default categories.",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("insight already initialized in %s", cwd)
	}

	if err := config.WriteDefault(cwd); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	fmt.Printf("Created %s\n", config.ConfigFilePath(cwd))

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.DBPath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite store: %w", err)
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}

	count, err := store.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}

	fmt.Printf("Created database: %s\n", cfg.DBPath(cwd))
	fmt.Printf("Seeded %d default categories\n", count)
	fmt.Println("Insight initialized successfully!")

	return nil
}
