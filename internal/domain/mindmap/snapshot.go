package mindmap

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Snapshot is the persisted form of the mind-map graph. View transform and
// selection are session state and are not part of the snapshot.
type Snapshot struct {
	Nodes       []SnapshotNode       `json:"nodes"`
	Connections []SnapshotConnection `json:"connections"`
}

// SnapshotNode is a node in wire form. Position is a pointer so a missing
// position is distinguishable from the origin.
type SnapshotNode struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Color       *uint32 `json:"color,omitempty"`
	Position    *Point  `json:"position"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
}

// SnapshotConnection is a connection in wire form.
type SnapshotConnection struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Label    string `json:"label,omitempty"`
}

// Serialize captures the current graph as a snapshot. The returned value is
// independent of the engine: persisting it cannot race later mutations.
func (e *Engine) Serialize() Snapshot {
	snap := Snapshot{
		Nodes:       make([]SnapshotNode, 0, len(e.nodes)),
		Connections: make([]SnapshotConnection, 0, len(e.connections)),
	}
	for _, n := range e.nodes {
		pos := n.Position
		snap.Nodes = append(snap.Nodes, SnapshotNode{
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Description,
			Color:       n.Color,
			Position:    &pos,
			Width:       n.Width,
			Height:      n.Height,
		})
	}
	for _, c := range e.connections {
		snap.Connections = append(snap.Connections, SnapshotConnection{
			ID:       c.ID,
			SourceID: c.SourceID,
			TargetID: c.TargetID,
			Label:    c.Label,
		})
	}
	return snap
}

// Deserialize replaces the engine state with the snapshot. The load is
// all-or-nothing: on error the engine is left unchanged. Required fields
// (node title and position, connection source and target) are enforced;
// optional fields fall back to documented defaults (width 150, height 80,
// generated IDs). On success any previous selection is dropped and the view
// transform resets to identity.
func (e *Engine) Deserialize(snap Snapshot) error {
	loaded := NewEngine()

	for i, sn := range snap.Nodes {
		if sn.Title == "" {
			return fmt.Errorf("node %d: missing title", i)
		}
		if sn.Position == nil {
			return fmt.Errorf("node %d (%s): missing position", i, sn.Title)
		}
		node := &Node{
			ID:          sn.ID,
			Title:       sn.Title,
			Description: sn.Description,
			Color:       sn.Color,
			Position:    *sn.Position,
			Width:       sn.Width,
			Height:      sn.Height,
		}
		if node.ID == "" {
			node.ID = uuid.New().String()
		}
		if node.Width <= 0 {
			node.Width = DefaultNodeWidth
		}
		if node.Height <= 0 {
			node.Height = DefaultNodeHeight
		}
		if _, exists := loaded.nodeIndex[node.ID]; exists {
			return fmt.Errorf("node %d: duplicate id %s", i, node.ID)
		}
		loaded.nodes = append(loaded.nodes, node)
		loaded.nodeIndex[node.ID] = node
	}

	for i, sc := range snap.Connections {
		if sc.SourceID == "" {
			return fmt.Errorf("connection %d: missing sourceId", i)
		}
		if sc.TargetID == "" {
			return fmt.Errorf("connection %d: missing targetId", i)
		}
		conn := &Connection{
			ID:       sc.ID,
			SourceID: sc.SourceID,
			TargetID: sc.TargetID,
			Label:    sc.Label,
		}
		if conn.ID == "" {
			conn.ID = uuid.New().String()
		}
		if _, exists := loaded.connIndex[conn.ID]; exists {
			return fmt.Errorf("connection %d: duplicate id %s", i, conn.ID)
		}
		loaded.connections = append(loaded.connections, conn)
		loaded.connIndex[conn.ID] = conn
	}

	*e = *loaded
	return nil
}

// EncodeSnapshot marshals a snapshot to JSON for storage as a setting blob.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a stored snapshot blob.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}
