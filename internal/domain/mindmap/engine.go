// Package mindmap implements the in-memory mind-map engine: a graph of
// visual nodes and directed connections with a pan/zoom view transform,
// deterministic radial auto-layout and snapshot serialization. The engine is
// independent of the Insight/Relationship persistence model and is meant to
// be owned by a single goroutine (UI-thread affinity).
package mindmap

import "github.com/google/uuid"

// Default node dimensions, applied when a node is added or deserialized
// without explicit size.
const (
	DefaultNodeWidth  = 150.0
	DefaultNodeHeight = 80.0
)

// Point is a 2D coordinate in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a visual mind-map node. Color is ARGB, nil when unset.
type Node struct {
	ID          string
	Title       string
	Description string
	Color       *uint32
	Position    Point
	Width       float64
	Height      float64
}

// Connection is a directed edge between two node IDs. The reverse direction
// is a distinct connection.
type Connection struct {
	ID       string
	SourceID string
	TargetID string
	Label    string
}

// ViewTransform is the pan/zoom state of the canvas.
type ViewTransform struct {
	Offset Point
	Scale  float64
}

// identityTransform is the view state after Clear.
func identityTransform() ViewTransform {
	return ViewTransform{Scale: 1.0}
}

// NodeSpec carries the fields for AddNode. Zero Width/Height fall back to
// the defaults.
type NodeSpec struct {
	Title       string
	Description string
	Color       *uint32
	Position    Point
	Width       float64
	Height      float64
}

// NodeUpdate carries a partial node update; nil fields are left unchanged.
type NodeUpdate struct {
	Title       *string
	Description *string
	Color       *uint32
	Position    *Point
	Width       *float64
	Height      *float64
}

// Engine holds the mutable mind-map state. Nodes keep insertion order,
// which is also the order the radial layout walks.
type Engine struct {
	nodes     []*Node
	nodeIndex map[string]*Node

	connections []*Connection
	connIndex   map[string]*Connection

	// At most one of the two is non-empty at a time.
	selectedNodeID       string
	selectedConnectionID string

	view ViewTransform
}

// NewEngine creates an empty engine with an identity view transform.
func NewEngine() *Engine {
	return &Engine{
		nodeIndex: make(map[string]*Node),
		connIndex: make(map[string]*Connection),
		view:      identityTransform(),
	}
}

// AddNode creates a node from the spec and returns it.
func (e *Engine) AddNode(spec NodeSpec) *Node {
	node := &Node{
		ID:          uuid.New().String(),
		Title:       spec.Title,
		Description: spec.Description,
		Color:       spec.Color,
		Position:    spec.Position,
		Width:       spec.Width,
		Height:      spec.Height,
	}
	if node.Width <= 0 {
		node.Width = DefaultNodeWidth
	}
	if node.Height <= 0 {
		node.Height = DefaultNodeHeight
	}
	e.nodes = append(e.nodes, node)
	e.nodeIndex[node.ID] = node
	return node
}

// UpdateNode applies a partial update. An unknown id is a silent no-op so
// stale UI interactions stay idempotent.
func (e *Engine) UpdateNode(id string, update NodeUpdate) {
	node, ok := e.nodeIndex[id]
	if !ok {
		return
	}
	if update.Title != nil {
		node.Title = *update.Title
	}
	if update.Description != nil {
		node.Description = *update.Description
	}
	if update.Color != nil {
		node.Color = update.Color
	}
	if update.Position != nil {
		node.Position = *update.Position
	}
	if update.Width != nil {
		node.Width = *update.Width
	}
	if update.Height != nil {
		node.Height = *update.Height
	}
}

// MoveNode updates only the node's position.
func (e *Engine) MoveNode(id string, pos Point) {
	if node, ok := e.nodeIndex[id]; ok {
		node.Position = pos
	}
}

// RemoveNode removes the node and every connection touching it, and clears
// the selection when the removed node (or one of its connections) was
// selected.
func (e *Engine) RemoveNode(id string) {
	if _, ok := e.nodeIndex[id]; !ok {
		return
	}
	delete(e.nodeIndex, id)
	for i, n := range e.nodes {
		if n.ID == id {
			e.nodes = append(e.nodes[:i], e.nodes[i+1:]...)
			break
		}
	}

	kept := e.connections[:0]
	for _, c := range e.connections {
		if c.SourceID == id || c.TargetID == id {
			delete(e.connIndex, c.ID)
			if e.selectedConnectionID == c.ID {
				e.selectedConnectionID = ""
			}
			continue
		}
		kept = append(kept, c)
	}
	e.connections = kept

	if e.selectedNodeID == id {
		e.selectedNodeID = ""
	}
}

// ConnectNodes creates a directed connection. A missing endpoint or an
// existing connection with the same ordered (source, target) pair is a
// silent no-op returning nil; the reverse direction is allowed.
func (e *Engine) ConnectNodes(sourceID, targetID, label string) *Connection {
	if _, ok := e.nodeIndex[sourceID]; !ok {
		return nil
	}
	if _, ok := e.nodeIndex[targetID]; !ok {
		return nil
	}
	for _, c := range e.connections {
		if c.SourceID == sourceID && c.TargetID == targetID {
			return nil
		}
	}
	conn := &Connection{
		ID:       uuid.New().String(),
		SourceID: sourceID,
		TargetID: targetID,
		Label:    label,
	}
	e.connections = append(e.connections, conn)
	e.connIndex[conn.ID] = conn
	return conn
}

// RemoveConnection removes a connection; an unknown id is a no-op.
func (e *Engine) RemoveConnection(id string) {
	if _, ok := e.connIndex[id]; !ok {
		return
	}
	delete(e.connIndex, id)
	for i, c := range e.connections {
		if c.ID == id {
			e.connections = append(e.connections[:i], e.connections[i+1:]...)
			break
		}
	}
	if e.selectedConnectionID == id {
		e.selectedConnectionID = ""
	}
}

// SelectNode selects a node and clears any connection selection. An empty
// id or unknown id clears the node selection.
func (e *Engine) SelectNode(id string) {
	e.selectedConnectionID = ""
	if _, ok := e.nodeIndex[id]; ok {
		e.selectedNodeID = id
	} else {
		e.selectedNodeID = ""
	}
}

// SelectConnection selects a connection and clears any node selection. An
// empty or unknown id clears the connection selection.
func (e *Engine) SelectConnection(id string) {
	e.selectedNodeID = ""
	if _, ok := e.connIndex[id]; ok {
		e.selectedConnectionID = id
	} else {
		e.selectedConnectionID = ""
	}
}

// SelectedNode returns the selected node, or nil.
func (e *Engine) SelectedNode() *Node {
	if e.selectedNodeID == "" {
		return nil
	}
	return e.nodeIndex[e.selectedNodeID]
}

// SelectedConnection returns the selected connection, or nil.
func (e *Engine) SelectedConnection() *Connection {
	if e.selectedConnectionID == "" {
		return nil
	}
	return e.connIndex[e.selectedConnectionID]
}

// UpdateViewTransform applies a partial view update; nil fields are left
// unchanged.
func (e *Engine) UpdateViewTransform(offset *Point, scale *float64) {
	if offset != nil {
		e.view.Offset = *offset
	}
	if scale != nil {
		e.view.Scale = *scale
	}
}

// View returns the current view transform.
func (e *Engine) View() ViewTransform {
	return e.view
}

// Nodes returns the nodes in insertion order. The slice is shared; callers
// must not modify it.
func (e *Engine) Nodes() []*Node {
	return e.nodes
}

// Connections returns the connections in insertion order. The slice is
// shared; callers must not modify it.
func (e *Engine) Connections() []*Connection {
	return e.connections
}

// Node returns a node by id, or nil.
func (e *Engine) Node(id string) *Node {
	return e.nodeIndex[id]
}

// Connection returns a connection by id, or nil.
func (e *Engine) Connection(id string) *Connection {
	return e.connIndex[id]
}

// Clear empties nodes, connections and selection and resets the view
// transform to identity.
func (e *Engine) Clear() {
	e.nodes = nil
	e.nodeIndex = make(map[string]*Node)
	e.connections = nil
	e.connIndex = make(map[string]*Connection)
	e.selectedNodeID = ""
	e.selectedConnectionID = ""
	e.view = identityTransform()
}
