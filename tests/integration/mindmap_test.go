package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmargell/insight-core/internal/domain/mindmap"
)

func TestMindMapSnapshotRoundTripThroughSettings(t *testing.T) {
	d := setupDeps(t)
	ctx := context.Background()

	engine := mindmap.NewEngine()
	root := engine.AddNode(mindmap.NodeSpec{Title: "Root", Position: mindmap.Point{X: 10, Y: 20}})
	leaf := engine.AddNode(mindmap.NodeSpec{Title: "Leaf", Position: mindmap.Point{X: 200, Y: 40}})
	conn := engine.ConnectNodes(root.ID, leaf.ID, "expands")
	require.NotNil(t, conn)

	data, err := mindmap.EncodeSnapshot(engine.Serialize())
	require.NoError(t, err)
	require.NoError(t, d.settings.SaveMindMap(ctx, data))

	loaded, err := d.settings.LoadMindMap(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	snap, err := mindmap.DecodeSnapshot(loaded)
	require.NoError(t, err)

	restored := mindmap.NewEngine()
	require.NoError(t, restored.Deserialize(snap))

	require.Len(t, restored.Nodes(), 2)
	assert.Equal(t, "Root", restored.Nodes()[0].Title)
	assert.Equal(t, mindmap.Point{X: 10, Y: 20}, restored.Nodes()[0].Position)
	require.Len(t, restored.Connections(), 1)
	assert.Equal(t, "expands", restored.Connections()[0].Label)

	// A restored engine enforces the same duplicate-edge rule.
	dup := restored.ConnectNodes(restored.Nodes()[0].ID, restored.Nodes()[1].ID, "again")
	assert.Nil(t, dup)
}

func TestMindMapImportFromKnowledgeGraph(t *testing.T) {
	d := setupDeps(t)
	ctx := context.Background()

	a, err := d.insights.Create(ctx, "Alpha", "first", nil, nil)
	require.NoError(t, err)
	b, err := d.insights.Create(ctx, "Beta", "second", nil, nil)
	require.NoError(t, err)
	_, err = d.relationships.Create(ctx, a.ID, b.ID, "supports", "", 1)
	require.NoError(t, err)

	insights, err := d.insights.List(ctx)
	require.NoError(t, err)
	rels, err := d.relationships.ListAll(ctx)
	require.NoError(t, err)

	engine := mindmap.NewEngine()
	engine.ImportGraph(insights, rels)

	require.Len(t, engine.Nodes(), 2)
	require.Len(t, engine.Connections(), 1)
	assert.Equal(t, "supports", engine.Connections()[0].Label)

	// The import ends with the radial layout applied.
	for _, n := range engine.Nodes() {
		assert.NotEqual(t, mindmap.Point{}, n.Position)
	}

	data, err := mindmap.EncodeSnapshot(engine.Serialize())
	require.NoError(t, err)
	require.NoError(t, d.settings.SaveMindMap(ctx, data))

	loaded, err := d.settings.LoadMindMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, loaded)
}
