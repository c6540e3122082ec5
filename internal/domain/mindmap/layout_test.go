package mindmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyAutoLayout_Empty(t *testing.T) {
	e := NewEngine()
	e.ApplyAutoLayout() // must not panic
	assert.Empty(t, e.Nodes())
}

func TestApplyAutoLayout_SingleNodeAtOrigin(t *testing.T) {
	e := NewEngine()
	n := e.AddNode(NodeSpec{Title: "only", Position: Point{X: 99, Y: 99}})

	e.ApplyAutoLayout()

	assert.Equal(t, Point{}, n.Position)
}

func TestApplyAutoLayout_FourNodesOnAxes(t *testing.T) {
	e := NewEngine()
	for _, title := range []string{"a", "b", "c", "d"} {
		e.AddNode(NodeSpec{Title: title})
	}

	e.ApplyAutoLayout()

	// Angles 0°, 90°, 180°, 270° at radius 300.
	want := []Point{
		{X: LayoutRadius, Y: 0},
		{X: 0, Y: LayoutRadius},
		{X: -LayoutRadius, Y: 0},
		{X: 0, Y: -LayoutRadius},
	}
	nodes := e.Nodes()
	require.Len(t, nodes, 4)
	for i, w := range want {
		assert.InDelta(t, w.X, nodes[i].Position.X, 1e-9, "node %d x", i)
		assert.InDelta(t, w.Y, nodes[i].Position.Y, 1e-9, "node %d y", i)
	}
}

func TestApplyAutoLayout_Idempotent(t *testing.T) {
	e := NewEngine()
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		e.AddNode(NodeSpec{Title: title})
	}

	e.ApplyAutoLayout()
	first := make([]Point, 0, len(e.Nodes()))
	for _, n := range e.Nodes() {
		first = append(first, n.Position)
	}

	e.ApplyAutoLayout()
	for i, n := range e.Nodes() {
		assert.Equal(t, first[i], n.Position, "node %d moved on second layout", i)
	}
}
