package osmnetwork

import (
	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// ToContractionHierarchies loads graph into contraction hierarchies engine using edge
// length as weight. Undirected edges are added in both directions. When prepare is set
// shortcuts are computed so the result is ready for ShortestPath queries.
func (graph *Graph) ToContractionHierarchies(prepare bool) (*ch.Graph, error) {
	chGraph := ch.Graph{}
	for _, node := range graph.Nodes() {
		if len(graph.outgoing[node.ID]) == 0 && len(graph.incoming[node.ID]) == 0 {
			continue
		}
		err := chGraph.CreateVertex(int64(node.ID))
		if err != nil {
			return nil, errors.Wrapf(err, "Can not create vertex %d", node.ID)
		}
	}
	for _, edge := range graph.Edges() {
		source := int64(edge.Source)
		target := int64(edge.Target)
		err := chGraph.AddEdge(source, target, edge.Length)
		if err != nil {
			return nil, errors.Wrap(err, "Can not wrap Source and Target vertices as Edge")
		}
		if !graph.directed && source != target {
			err = chGraph.AddEdge(target, source, edge.Length)
			if err != nil {
				return nil, errors.Wrap(err, "Can not wrap Target and Source vertices as Edge")
			}
		}
	}
	if prepare {
		chGraph.PrepareContractionHierarchies()
	}
	return &chGraph, nil
}
