package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kmargell/insight-core/internal/domain/mindmap"
	"github.com/kmargell/insight-core/internal/domain/services"
)

func newMindMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mindmap",
		Short: "Work with the mind-map canvas",
		Long: `Manages the persisted mind-map: a canvas of nodes and directed
connections, stored as a snapshot alongside the knowledge base. The canvas
is independent of the insight graph; use 'mindmap import' to rebuild it
from the current insights and relationships.`,
		RunE: runMindMapShow,
	}

	cmd.AddCommand(
		newMindMapAddCmd(),
		newMindMapConnectCmd(),
		newMindMapMoveCmd(),
		newMindMapRemoveCmd(),
		newMindMapLayoutCmd(),
		newMindMapImportCmd(),
		newMindMapClearCmd(),
	)

	return cmd
}

// loadEngine rebuilds the engine from the persisted snapshot. A missing
// snapshot yields an empty engine.
func loadEngine(ctx context.Context, d *Deps) (*mindmap.Engine, error) {
	engine := mindmap.NewEngine()

	data, err := d.Settings.LoadMindMap(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return engine, nil
	}

	snap, err := mindmap.DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	if err := engine.Deserialize(snap); err != nil {
		return nil, fmt.Errorf("restoring mind-map: %w", err)
	}
	return engine, nil
}

func saveEngine(ctx context.Context, d *Deps, engine *mindmap.Engine) error {
	data, err := mindmap.EncodeSnapshot(engine.Serialize())
	if err != nil {
		return err
	}
	return d.Settings.SaveMindMap(ctx, data)
}

func runMindMapShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		engine, err := loadEngine(ctx, d)
		if err != nil {
			return err
		}

		nodes := engine.Nodes()
		if len(nodes) == 0 {
			fmt.Println("Mind-map is empty.")
			return nil
		}

		fmt.Printf("Nodes (%d):\n", len(nodes))
		for _, n := range nodes {
			fmt.Printf("  %s  %-24s (%.0f, %.0f)\n", n.ID, n.Title, n.Position.X, n.Position.Y)
		}

		conns := engine.Connections()
		if len(conns) > 0 {
			fmt.Printf("Connections (%d):\n", len(conns))
			for _, c := range conns {
				label := c.Label
				if label == "" {
					label = "-"
				}
				fmt.Printf("  %s -[%s]-> %s\n", c.SourceID, label, c.TargetID)
			}
		}
		return nil
	})
}

func newMindMapAddCmd() *cobra.Command {
	var (
		x, y        float64
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a node to the mind-map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMindMapAdd(cmd, args[0], description, x, y)
		},
	}

	cmd.Flags().Float64Var(&x, "x", 0, "X position")
	cmd.Flags().Float64Var(&y, "y", 0, "Y position")
	cmd.Flags().StringVar(&description, "description", "", "Node description")

	return cmd
}

func runMindMapAdd(cmd *cobra.Command, title, description string, x, y float64) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		engine, err := loadEngine(ctx, d)
		if err != nil {
			return err
		}

		node := engine.AddNode(mindmap.NodeSpec{
			Title:       title,
			Description: description,
			Position:    mindmap.Point{X: x, Y: y},
		})

		if err := saveEngine(ctx, d, engine); err != nil {
			return err
		}

		fmt.Printf("Added node: %s\n", node.ID)
		return nil
	})
}

func newMindMapConnectCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "connect <source-node-id> <target-node-id>",
		Short: "Connect two mind-map nodes",
		Long:  "Creates a directed connection. An existing connection with the same direction is left alone; the reverse direction is a separate connection.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMindMapConnect(cmd, args[0], args[1], label)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Connection label")

	return cmd
}

func runMindMapConnect(cmd *cobra.Command, sourceID, targetID, label string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		engine, err := loadEngine(ctx, d)
		if err != nil {
			return err
		}

		conn := engine.ConnectNodes(sourceID, targetID, label)
		if conn == nil {
			return fmt.Errorf("cannot connect %s -> %s (unknown node or duplicate connection)", sourceID, targetID)
		}

		if err := saveEngine(ctx, d, engine); err != nil {
			return err
		}

		fmt.Printf("Connected: %s -> %s (%s)\n", sourceID, targetID, conn.ID)
		return nil
	})
}

func newMindMapMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <node-id> <x> <y>",
		Short: "Move a mind-map node",
		Args:  cobra.ExactArgs(3),
		RunE:  runMindMapMove,
	}
}

func runMindMapMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parsing x: %w", err)
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("parsing y: %w", err)
	}

	return withDeps(func(d *Deps) error {
		engine, err := loadEngine(ctx, d)
		if err != nil {
			return err
		}
		if engine.Node(id) == nil {
			return fmt.Errorf("node %s not found", id)
		}

		engine.MoveNode(id, mindmap.Point{X: x, Y: y})

		if err := saveEngine(ctx, d, engine); err != nil {
			return err
		}

		fmt.Printf("Moved node %s to (%.0f, %.0f)\n", id, x, y)
		return nil
	})
}

func newMindMapRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <node-id>",
		Short: "Remove a node and its connections",
		Args:  cobra.ExactArgs(1),
		RunE:  runMindMapRemove,
	}
}

func runMindMapRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]

	return withDeps(func(d *Deps) error {
		engine, err := loadEngine(ctx, d)
		if err != nil {
			return err
		}
		if engine.Node(id) == nil {
			return fmt.Errorf("node %s not found", id)
		}

		engine.RemoveNode(id)

		if err := saveEngine(ctx, d, engine); err != nil {
			return err
		}

		fmt.Printf("Removed node: %s\n", id)
		return nil
	})
}

func newMindMapLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Arrange the nodes in a circle",
		Long:  "Applies the radial auto-layout: nodes are placed evenly on a circle around the origin, in insertion order.",
		RunE:  runMindMapLayout,
	}
}

func runMindMapLayout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		engine, err := loadEngine(ctx, d)
		if err != nil {
			return err
		}

		engine.ApplyAutoLayout()

		if err := saveEngine(ctx, d, engine); err != nil {
			return err
		}

		fmt.Printf("Arranged %d nodes\n", len(engine.Nodes()))
		return nil
	})
}

func newMindMapImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Rebuild the mind-map from the knowledge graph",
		Long:  "Replaces the mind-map with one node per insight and one connection per relationship, then applies the radial layout.",
		RunE:  runMindMapImport,
	}
}

func runMindMapImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		insights, err := d.Insights.List(ctx)
		if err != nil {
			return fmt.Errorf("listing insights: %w", err)
		}
		rels, err := d.Relationships.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}

		engine := mindmap.NewEngine()
		engine.ImportGraph(insights, rels)

		if err := saveEngine(ctx, d, engine); err != nil {
			return err
		}

		fmt.Printf("Imported %d nodes and %d connections\n", len(engine.Nodes()), len(engine.Connections()))
		return nil
	})
}

func newMindMapClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the mind-map",
		RunE:  runMindMapClear,
	}
}

func runMindMapClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		if err := d.Settings.Delete(ctx, services.MindMapSettingKey); err != nil {
			return fmt.Errorf("clearing mind-map: %w", err)
		}

		fmt.Println("Mind-map cleared.")
		return nil
	})
}
