package osmnetwork

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"
)

func testNode(id int64, lon, lat float64) *osm.Node {
	return &osm.Node{ID: osm.NodeID(id), Lon: lon, Lat: lat, Visible: true}
}

func testWay(id int64, tags osm.Tags, refs ...int64) *osm.Way {
	nodes := make(osm.WayNodes, len(refs))
	for i, ref := range refs {
		nodes[i] = osm.WayNode{ID: osm.NodeID(ref)}
	}
	return &osm.Way{ID: osm.WayID(id), Tags: tags, Nodes: nodes}
}

func highwayTags(value string) osm.Tags {
	return osm.Tags{{Key: "highway", Value: value}}
}

// testOSM returns small network near Moscow:
//
//	way 1: 100 -> 101 -> 102 -> 103 (residential)
//	way 2: 102 -> 200 -> 201 (footway, branching at 102)
//	way 3: 300 -> 301 (building outline, not a highway)
func testOSM() *osm.OSM {
	return &osm.OSM{
		Nodes: osm.Nodes{
			testNode(100, 37.6417350769043, 55.751849391735284),
			testNode(101, 37.6450000000000, 55.749500000000000),
			testNode(102, 37.6500000000000, 55.746000000000000),
			testNode(103, 37.668514251708984, 55.73261980350401),
			testNode(200, 37.6510000000000, 55.747000000000000),
			testNode(201, 37.6520000000000, 55.748000000000000),
			testNode(300, 37.6000000000000, 55.700000000000000),
			testNode(301, 37.6010000000000, 55.701000000000000),
		},
		Ways: osm.Ways{
			testWay(1, osm.Tags{{Key: "highway", Value: "residential"}, {Key: "name", Value: "Main street"}}, 100, 101, 102, 103),
			testWay(2, highwayTags("footway"), 102, 200, 201),
			testWay(3, osm.Tags{{Key: "building", Value: "yes"}}, 300, 301),
		},
	}
}

func buildTestGraph(t *testing.T, data *osm.OSM, options ...func(*Builder)) *Graph {
	t.Helper()
	scanner, err := FromOSM(data, nil)
	require.NoError(t, err)
	graph, err := NewBuilder(options...).Build(scanner)
	require.NoError(t, err)
	return graph
}

func singleWayOSM(refs ...int64) *osm.OSM {
	data := &osm.OSM{}
	for i, ref := range refs {
		data.Nodes = append(data.Nodes, testNode(ref, 37.64+0.001*float64(i), 55.75-0.0007*float64(i)))
	}
	data.Ways = osm.Ways{testWay(10, highwayTags("residential"), refs...)}
	return data
}

func nodeRefs(refs ...int64) []osm.NodeID {
	ids := make([]osm.NodeID, len(refs))
	for i, ref := range refs {
		ids[i] = osm.NodeID(ref)
	}
	return ids
}
