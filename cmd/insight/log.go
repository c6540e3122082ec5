package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/domain/ports"
)

func newLogCmd() *cobra.Command {
	var (
		action string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "log [entity-id]",
		Short: "Show the change log",
		Long: `Shows change log entries, newest first.

Examples:
  insight log 3f2a...
  insight log --action insight.delete`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, args, action, limit)
		},
	}

	cmd.Flags().StringVarP(&action, "action", "a", "", "Filter by action (e.g. insight.create)")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultLogLimit, "Maximum number of entries")

	return cmd
}

func runLog(cmd *cobra.Command, args []string, action string, limit int) error {
	ctx := cmd.Context()

	if len(args) == 0 && action == "" {
		return fmt.Errorf("an entity id or --action filter is required")
	}

	return withStore(func(store ports.Store) error {
		var changes []entities.ChangeEntry
		var err error

		if len(args) == 1 {
			changes, err = store.FindChanges(ctx, args[0])
		} else {
			changes, err = store.FindChangesByAction(ctx, action, limit)
		}
		if err != nil {
			return fmt.Errorf("reading change log: %w", err)
		}

		if len(changes) == 0 {
			fmt.Println("No change log entries found.")
			return nil
		}

		for _, entry := range changes {
			fmt.Printf("%s  %-20s %s\n", entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action, entry.EntityID)
			if len(entry.Details) > 0 {
				details, err := json.Marshal(entry.Details)
				if err == nil {
					fmt.Printf("  %s\n", details)
				}
			}
		}
		return nil
	})
}
