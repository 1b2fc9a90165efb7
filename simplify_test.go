package osmnetwork

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimplifyChain(t *testing.T) {
	graph := buildTestGraph(t, singleWayOSM(100, 101, 102, 103))
	require.Equal(t, 3, graph.NumEdges())

	graph.Simplify()

	edges := graph.Edges()
	require.Len(t, edges, 1)
	edge := edges[0]
	assert.Equal(t, osm.NodeID(100), edge.Source)
	assert.Equal(t, osm.NodeID(103), edge.Target)
	assert.Equal(t, 0, edge.Segment)
	assert.Equal(t, osm.WayID(10), edge.WayID)
	assert.Equal(t, nodeRefs(100, 101, 102, 103), edge.NodeRefs)
	assert.Equal(t, []osm.NodeID{103}, graph.Successors(100))
	assert.Equal(t, []osm.NodeID{100}, graph.Predecessors(103))
	assert.Empty(t, graph.Predecessors(101))
}

func TestSimplifyKeepsWayJunction(t *testing.T) {
	// 102 has degree 2 but is where way 1 ends and way 2 starts
	data := &osm.OSM{
		Nodes: osm.Nodes{
			testNode(100, 0.000, 0), testNode(101, 0.001, 0), testNode(102, 0.002, 0),
			testNode(103, 0.003, 0), testNode(104, 0.004, 0),
		},
		Ways: osm.Ways{
			testWay(1, highwayTags("residential"), 100, 101, 102),
			testWay(2, highwayTags("residential"), 102, 103, 104),
		},
	}
	graph := buildTestGraph(t, data)
	graph.Simplify()

	edges := graph.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, osm.WayID(1), edges[0].WayID)
	assert.Equal(t, nodeRefs(100, 101, 102), edges[0].NodeRefs)
	assert.Equal(t, osm.WayID(2), edges[1].WayID)
	assert.Equal(t, nodeRefs(102, 103, 104), edges[1].NodeRefs)
	assert.Equal(t, []osm.NodeID{102}, graph.Successors(100))
	assert.Equal(t, []osm.NodeID{104}, graph.Successors(102))
}

func TestSimplifySplitsRunsAtBranch(t *testing.T) {
	graph := buildTestGraph(t, testOSM(), WithWayFilter(AgentFilter()))
	graph.Simplify()

	edges := graph.Edges()
	require.Len(t, edges, 3)
	chains := map[osm.NodeID][]osm.NodeID{}
	for _, edge := range edges {
		require.Equal(t, edge.Source, edge.NodeRefs[0])
		require.Equal(t, edge.Target, edge.NodeRefs[len(edge.NodeRefs)-1])
		chains[edge.Source] = append(chains[edge.Source], edge.NodeRefs...)
	}
	assert.Equal(t, nodeRefs(100, 101, 102), chains[100])
	// two edges leave 102: rest of way 1 and whole way 2
	assert.ElementsMatch(t, nodeRefs(102, 103, 102, 200, 201), chains[102])
}

func TestSimplifySeparateRunsWithinWay(t *testing.T) {
	// way 1: 1-2-3-4-5 with side way 9 attached at 3
	data := &osm.OSM{
		Nodes: osm.Nodes{
			testNode(1, 0.000, 0), testNode(2, 0.001, 0), testNode(3, 0.002, 0),
			testNode(4, 0.003, 0), testNode(5, 0.004, 0), testNode(9, 0.002, 0.001),
		},
		Ways: osm.Ways{
			testWay(1, highwayTags("residential"), 1, 2, 3, 4, 5),
			testWay(2, highwayTags("service"), 3, 9),
		},
	}
	graph := buildTestGraph(t, data)
	graph.Simplify()

	edges := graph.Edges()
	require.Len(t, edges, 3)
	assert.Equal(t, nodeRefs(1, 2, 3), edges[0].NodeRefs)
	assert.Equal(t, 0, edges[0].Segment)
	assert.Equal(t, nodeRefs(3, 4, 5), edges[1].NodeRefs)
	assert.Equal(t, 2, edges[1].Segment)
	assert.Equal(t, nodeRefs(3, 9), edges[2].NodeRefs)
}

func TestSimplifyTwoWayStreetKept(t *testing.T) {
	// both directions drawn as separate ways: no node has a single neighbour on each side
	data := &osm.OSM{
		Nodes: osm.Nodes{testNode(1, 0, 0), testNode(2, 0.001, 0), testNode(3, 0.002, 0)},
		Ways: osm.Ways{
			testWay(1, highwayTags("residential"), 1, 2, 3),
			testWay(2, highwayTags("residential"), 3, 2, 1),
		},
	}
	graph := buildTestGraph(t, data)
	graph.Simplify()
	assert.Equal(t, 4, graph.NumEdges())
}

func TestSimplifyCircularWay(t *testing.T) {
	data := &osm.OSM{
		Nodes: osm.Nodes{testNode(1, 0, 0), testNode(2, 0.001, 0), testNode(3, 0.001, 0.001)},
		Ways:  osm.Ways{testWay(1, highwayTags("footway"), 1, 2, 3, 1)},
	}
	graph := buildTestGraph(t, data)
	graph.Simplify()

	edges := graph.Edges()
	require.Len(t, edges, 1)
	edge := edges[0]
	assert.Equal(t, edge.Source, edge.Target, "isolated ring collapses into self-loop")
	assert.Equal(t, nodeRefs(1, 2, 3, 1), edge.NodeRefs)
}

func TestSimplifyPreservesChains(t *testing.T) {
	graph := buildTestGraph(t, testOSM())
	before := map[osm.WayID][]osm.NodeID{}
	for _, edge := range graph.Edges() {
		refs := before[edge.WayID]
		if len(refs) == 0 {
			refs = append(refs, edge.NodeRefs[0])
		}
		before[edge.WayID] = append(refs, edge.NodeRefs[1])
	}

	graph.Simplify()

	after := map[osm.WayID][]osm.NodeID{}
	for _, edge := range graph.Edges() {
		refs := after[edge.WayID]
		if len(refs) != 0 {
			require.Equal(t, refs[len(refs)-1], edge.NodeRefs[0])
			refs = refs[:len(refs)-1]
		}
		after[edge.WayID] = append(refs, edge.NodeRefs...)
	}
	assert.Equal(t, before, after)
}
