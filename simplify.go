package osmnetwork

import (
	"sort"

	"github.com/paulmach/osm"
)

// passThrough is a node with single predecessor and single successor on the same way
type passThrough struct {
	in      osm.NodeID
	node    osm.NodeID
	out     osm.NodeID
	segment int
}

// collapseRun is a chain of pass-through nodes of consecutive segments
type collapseRun struct {
	source osm.NodeID
	first  osm.NodeID
	wayID  osm.WayID
	nodes  []osm.NodeID
}

// Simplify merges way segments running through degree-2 nodes, i.e. continuations.
//
// A node shared by two different ways is never merged: it is a decision point even
// with degree 2. Merged edge keeps the first segment's data and its NodeRefs grows
// to the whole chain. Interior nodes stay in the graph without edges.
//
// An otherwise unconnected circular way collapses into a self-loop on one of its
// nodes. Such path is pointless for a network, but is kept for downstream analysis.
func (graph *Graph) Simplify() {
	candidates := make(map[osm.WayID][]passThrough)
	wayOrder := []osm.WayID{}
	for _, node := range graph.nodeOrder {
		predecessors := graph.Predecessors(node)
		successors := graph.Successors(node)
		if len(predecessors) != 1 || len(successors) != 1 {
			continue
		}
		edgeIn := graph.firstEdge(predecessors[0], node, 0)
		edgeOut := graph.firstEdge(node, successors[0], edgeIn.WayID)
		if edgeIn.WayID != edgeOut.WayID {
			continue
		}
		if _, ok := candidates[edgeIn.WayID]; !ok {
			wayOrder = append(wayOrder, edgeIn.WayID)
		}
		candidates[edgeIn.WayID] = append(candidates[edgeIn.WayID], passThrough{
			in:      predecessors[0],
			node:    node,
			out:     successors[0],
			segment: edgeIn.Segment,
		})
	}

	for _, wayID := range wayOrder {
		for _, run := range splitRuns(wayID, candidates[wayID]) {
			graph.collapse(run)
		}
	}
}

// splitRuns sorts candidates by segment and groups neighbouring segments
func splitRuns(wayID osm.WayID, nodes []passThrough) []*collapseRun {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].segment < nodes[j].segment
	})
	runs := []*collapseRun{}
	var current *collapseRun
	lastSegment := -10
	for _, candidate := range nodes {
		if candidate.segment-lastSegment != 1 {
			current = &collapseRun{
				source: candidate.in,
				first:  candidate.node,
				wayID:  wayID,
			}
			runs = append(runs, current)
		}
		current.nodes = append(current.nodes, candidate.node)
		lastSegment = candidate.segment
	}
	return runs
}

func (graph *Graph) collapse(run *collapseRun) {
	anchor := graph.firstEdge(run.source, run.first, run.wayID)
	if anchor == nil {
		return
	}
	last := run.first
	for _, node := range run.nodes {
		successors := graph.Successors(node)
		if len(successors) == 0 {
			break
		}
		following := successors[0]
		next := graph.firstEdge(node, following, run.wayID)
		if next.ID == anchor.ID {
			// Walked the whole ring back to the anchor
			break
		}
		anchor.NodeRefs = append(anchor.NodeRefs, following)
		graph.RemoveEdge(next.ID)
		last = following
	}
	graph.retarget(anchor.ID, last)
}
