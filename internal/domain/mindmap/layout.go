package mindmap

import "math"

// LayoutRadius is the fixed radius of the radial auto-layout circle.
const LayoutRadius = 300.0

// ApplyAutoLayout places the nodes evenly on a circle of LayoutRadius
// around the origin: node i of N sits at angle 2πi/N, in insertion order.
// Zero nodes is a no-op; a single node lands on the origin. The placement
// is deterministic and intentionally not overlap-aware.
func (e *Engine) ApplyAutoLayout() {
	n := len(e.nodes)
	switch n {
	case 0:
		return
	case 1:
		e.nodes[0].Position = Point{}
		return
	}

	for i, node := range e.nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		node.Position = Point{
			X: LayoutRadius * math.Cos(angle),
			Y: LayoutRadius * math.Sin(angle),
		}
	}
}
