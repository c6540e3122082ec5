package mindmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine()
	color := uint32(0xFF2196F3)
	a := e.AddNode(NodeSpec{Title: "A", Description: "root", Color: &color, Position: Point{X: 1, Y: 2}})
	b := e.AddNode(NodeSpec{Title: "B", Position: Point{X: -3, Y: 4}, Width: 200, Height: 90})
	c := e.AddNode(NodeSpec{Title: "C"})
	e.ConnectNodes(a.ID, b.ID, "supports")
	e.ConnectNodes(b.ID, c.ID, "")
	return e
}

func TestSnapshot_RoundTrip(t *testing.T) {
	src := buildSampleEngine(t)
	snap := src.Serialize()

	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)

	dst := NewEngine()
	require.NoError(t, dst.Deserialize(decoded))

	require.Len(t, dst.Nodes(), len(src.Nodes()))
	for i, want := range src.Nodes() {
		got := dst.Nodes()[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.Description, got.Description)
		assert.Equal(t, want.Color, got.Color)
		assert.Equal(t, want.Position, got.Position)
		assert.Equal(t, want.Width, got.Width)
		assert.Equal(t, want.Height, got.Height)
	}

	require.Len(t, dst.Connections(), len(src.Connections()))
	for i, want := range src.Connections() {
		got := dst.Connections()[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.SourceID, got.SourceID)
		assert.Equal(t, want.TargetID, got.TargetID)
		assert.Equal(t, want.Label, got.Label)
	}
}

func TestSnapshot_SerializeIsDetached(t *testing.T) {
	e := NewEngine()
	n := e.AddNode(NodeSpec{Title: "A", Position: Point{X: 1, Y: 1}})

	snap := e.Serialize()
	e.MoveNode(n.ID, Point{X: 50, Y: 50})

	assert.Equal(t, Point{X: 1, Y: 1}, *snap.Nodes[0].Position,
		"snapshot must not observe mutations after Serialize")
}

func TestDeserialize_ClearsExistingState(t *testing.T) {
	e := buildSampleEngine(t)

	pos := Point{X: 0, Y: 0}
	err := e.Deserialize(Snapshot{
		Nodes: []SnapshotNode{{ID: "n-1", Title: "fresh", Position: &pos}},
	})
	require.NoError(t, err)

	require.Len(t, e.Nodes(), 1)
	assert.Equal(t, "fresh", e.Nodes()[0].Title)
	assert.Empty(t, e.Connections())
	assert.Nil(t, e.SelectedNode())
}

func TestDeserialize_Defaults(t *testing.T) {
	e := NewEngine()
	pos := Point{X: 5, Y: 6}
	err := e.Deserialize(Snapshot{
		Nodes: []SnapshotNode{{Title: "sized by default", Position: &pos}},
		Connections: []SnapshotConnection{
			{SourceID: "x", TargetID: "y", Label: "loose"},
		},
	})
	require.NoError(t, err)

	node := e.Nodes()[0]
	assert.NotEmpty(t, node.ID, "missing id gets generated")
	assert.Equal(t, DefaultNodeWidth, node.Width)
	assert.Equal(t, DefaultNodeHeight, node.Height)
	assert.NotEmpty(t, e.Connections()[0].ID)
}

func TestDeserialize_RequiredFields(t *testing.T) {
	pos := Point{X: 0, Y: 0}

	tests := []struct {
		name string
		snap Snapshot
	}{
		{
			name: "missing node title",
			snap: Snapshot{Nodes: []SnapshotNode{{ID: "n", Position: &pos}}},
		},
		{
			name: "missing node position",
			snap: Snapshot{Nodes: []SnapshotNode{{ID: "n", Title: "t"}}},
		},
		{
			name: "missing connection source",
			snap: Snapshot{Connections: []SnapshotConnection{{TargetID: "b"}}},
		},
		{
			name: "missing connection target",
			snap: Snapshot{Connections: []SnapshotConnection{{SourceID: "a"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine()
			assert.Error(t, e.Deserialize(tt.snap))
		})
	}
}

func TestDeserialize_ErrorLeavesEngineUnchanged(t *testing.T) {
	e := buildSampleEngine(t)
	e.SelectNode(e.Nodes()[0].ID)

	pos := Point{X: 0, Y: 0}
	err := e.Deserialize(Snapshot{
		Nodes: []SnapshotNode{
			{ID: "good", Title: "loads fine", Position: &pos},
			{ID: "bad", Position: &pos}, // no title
		},
	})
	require.Error(t, err)

	require.Len(t, e.Nodes(), 3, "prior nodes survive a failed load")
	assert.Equal(t, "A", e.Nodes()[0].Title)
	assert.Nil(t, e.Node("good"), "no node from the rejected snapshot")
	assert.Len(t, e.Connections(), 2)
	require.NotNil(t, e.SelectedNode())
	assert.Equal(t, "A", e.SelectedNode().Title)
}

func TestSnapshot_WireFormat(t *testing.T) {
	e := NewEngine()
	color := uint32(0xFFAA0011)
	n := e.AddNode(NodeSpec{Title: "A", Color: &color, Position: Point{X: 1, Y: 2}})
	_ = n

	data, err := EncodeSnapshot(e.Serialize())
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	nodes, ok := wire["nodes"].([]any)
	require.True(t, ok)
	node := nodes[0].(map[string]any)

	assert.Contains(t, node, "id")
	assert.Equal(t, "A", node["title"])
	assert.Equal(t, float64(0xFFAA0011), node["color"])
	position := node["position"].(map[string]any)
	assert.Equal(t, 1.0, position["x"])
	assert.Equal(t, 2.0, position["y"])
	assert.Equal(t, 150.0, node["width"])
	assert.Equal(t, 80.0, node["height"])
}
