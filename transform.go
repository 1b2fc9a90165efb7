package osmnetwork

import (
	"github.com/paulmach/osm"
)

// ToUndirected returns independent undirected copy. Every directed edge becomes one
// undirected edge, so both directions of a two-way street stay as parallel edges.
func (graph *Graph) ToUndirected() *Graph {
	undirected := newGraph(false)
	for _, id := range graph.nodeOrder {
		undirected.putNode(*graph.nodes[id])
	}
	for _, edge := range graph.edges {
		if edge == nil {
			continue
		}
		undirected.AddEdge(edge.clone())
	}
	return undirected
}

// EdgePredicate is called once per edge with its endpoints and data
type EdgePredicate func(u, v osm.NodeID, edge *Edge) bool

// FilterEdges returns new graph of the same kind holding copies of the edges matching
// predicate and of the nodes incident to them
func (graph *Graph) FilterEdges(predicate EdgePredicate) *Graph {
	filtered := newGraph(graph.directed)
	for _, edge := range graph.edges {
		if edge == nil {
			continue
		}
		if !predicate(edge.Source, edge.Target, edge) {
			continue
		}
		filtered.AddEdge(edge.clone())
	}
	// Copy in node data
	for _, id := range filtered.nodeOrder {
		if node, ok := graph.nodes[id]; ok {
			filtered.putNode(*node)
		}
	}
	return filtered
}
