package mindmap

import "github.com/kmargell/insight-core/internal/domain/entities"

// ImportGraph replaces the engine state with a view of the knowledge graph:
// one node per insight, one connection per relationship (labeled with the
// relationship type), followed by an auto-layout. Synchronization with the
// knowledge graph is only ever this explicit operation; the engine does not
// track insights after the import.
//
// Relationships whose endpoints are not in the insight slice are skipped,
// as are duplicate directed edges (a bidirectional pair imports as two
// connections, one per direction).
func (e *Engine) ImportGraph(insights []*entities.Insight, rels []entities.Relationship) {
	e.Clear()

	nodeByInsight := make(map[string]string, len(insights))
	for _, ins := range insights {
		node := e.AddNode(NodeSpec{
			Title:       ins.Title,
			Description: ins.Content,
		})
		nodeByInsight[ins.ID] = node.ID
	}

	for _, rel := range rels {
		src, ok := nodeByInsight[rel.SourceID]
		if !ok {
			continue
		}
		tgt, ok := nodeByInsight[rel.TargetID]
		if !ok {
			continue
		}
		e.ConnectNodes(src, tgt, rel.Type)
	}

	e.ApplyAutoLayout()
}
