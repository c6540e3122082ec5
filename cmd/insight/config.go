package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kmargell/insight-core/internal/infrastructure/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long:  "Shows the effective configuration, or sets a value with 'config set'.",
		RunE:  runConfigShow,
	}

	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}

	fmt.Printf("Config file: %s\n\n", config.ConfigFilePath(cwd))
	fmt.Printf("  sqlite.path      %s\n", cfg.DBPath(cwd))
	fmt.Printf("  log.level        %s\n", cfg.Log.Level)
	fmt.Printf("  log.development  %t\n", cfg.Log.Development)
	return nil
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Sets one of sqlite.path, log.level or log.development and rewrites the config file.",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSet,
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return err
	}

	switch key {
	case "sqlite.path":
		cfg.SQLite.Path = value
	case "log.level":
		// Reject levels zap would refuse at startup.
		if _, err := config.NewLogger(config.LogConfig{Level: value}); err != nil {
			return fmt.Errorf("invalid log level %q", value)
		}
		cfg.Log.Level = value
	case "log.development":
		dev, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: want true or false", value, key)
		}
		cfg.Log.Development = dev
	default:
		return fmt.Errorf("unknown config key %q (known: sqlite.path, log.level, log.development)", key)
	}

	if err := config.Write(cwd, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
