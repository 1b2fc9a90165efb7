package osmnetwork

import (
	"github.com/paulmach/orb"
)

// ConstructGeometries turns every edge's NodeRefs into a line geometry and geodesic
// length in meters rounded to 0.1. Nil geodesic means WGS84.
//
// The graph is left untouched when any edge fails to resolve.
// Orphaned nodes are not removed, see PruneOrphans.
func (graph *Graph) ConstructGeometries(geodesic Geodesic, progress Progress) error {
	if geodesic == nil {
		geodesic = WGS84
	}
	// Edges are updated only after every chain resolves
	lines := make(map[EdgeID]orb.LineString, graph.numEdges)
	for _, edge := range graph.edges {
		if edge == nil {
			continue
		}
		if len(edge.NodeRefs) < 2 {
			return &GeometryError{Edge: edge.ID, Reason: "node chain has less than 2 references"}
		}
		line := make(orb.LineString, 0, len(edge.NodeRefs))
		for _, ref := range edge.NodeRefs {
			node, ok := graph.nodes[ref]
			if !ok || !node.Located {
				return &GeometryError{Edge: edge.ID, Node: ref, Reason: "unresolved node reference"}
			}
			line = append(line, node.Point())
		}
		lines[edge.ID] = line
	}
	for _, edge := range graph.edges {
		if edge == nil {
			continue
		}
		line := lines[edge.ID]
		edge.Geometry = line
		edge.Length = roundTo(LineLength(geodesic, line), 1)
		edge.NodeRefs = nil
		advance(progress)
	}
	return nil
}
