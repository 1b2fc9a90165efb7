package osmnetwork

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// Reserved attribute keys. Normalized tags must not use them.
const (
	KeyWayID    = "way_id"
	KeySegment  = "segment"
	KeyNodeRefs = "ndref"
	KeyGeometry = "geometry"
	KeyLength   = "length"
	KeySource   = "_u"
	KeyTarget   = "_v"
)

var reservedKeys = map[string]struct{}{
	KeyWayID:    {},
	KeySegment:  {},
	KeyNodeRefs: {},
	KeyGeometry: {},
	KeyLength:   {},
	KeySource:   {},
	KeyTarget:   {},
}

// Node is a graph vertex keyed by its OSM reference
type Node struct {
	ID  osm.NodeID
	Lon float64
	Lat float64
	// Located is false for nodes known only as an edge endpoint
	Located bool
}

// Point returns node location as [lon, lat]
func (node *Node) Point() orb.Point {
	return orb.Point{node.Lon, node.Lat}
}

type EdgeID int

// Edge is a directed connection between two nodes.
//
// NodeRefs is populated until geometry construction, after which Geometry
// and Length take its place.
type Edge struct {
	ID         EdgeID
	Source     osm.NodeID
	Target     osm.NodeID
	WayID      osm.WayID
	Segment    int
	NodeRefs   []osm.NodeID
	Geometry   orb.LineString
	Length     float64
	Attributes map[string]interface{}
}

// Attribute returns normalized attribute by key
func (edge *Edge) Attribute(key string) (interface{}, bool) {
	v, ok := edge.Attributes[key]
	return v, ok
}

func (edge *Edge) clone() *Edge {
	cp := *edge
	if edge.NodeRefs != nil {
		cp.NodeRefs = make([]osm.NodeID, len(edge.NodeRefs))
		copy(cp.NodeRefs, edge.NodeRefs)
	}
	if edge.Geometry != nil {
		cp.Geometry = copyLine(edge.Geometry)
	}
	cp.Attributes = copyAttributes(edge.Attributes)
	return &cp
}

func copyAttributes(attrs map[string]interface{}) map[string]interface{} {
	if attrs == nil {
		return nil
	}
	cp := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		cp[k] = v
	}
	return cp
}

// Graph is a multigraph of OSM nodes. It is directed unless produced by ToUndirected.
//
// Edges live in an arena indexed by EdgeID; removed edges leave a nil slot so
// identifiers stay stable. Nodes and edges are enumerated in insertion order.
// Graph is not safe for concurrent use.
type Graph struct {
	directed  bool
	nodes     map[osm.NodeID]*Node
	nodeOrder []osm.NodeID
	edges     []*Edge
	outgoing  map[osm.NodeID][]EdgeID
	incoming  map[osm.NodeID][]EdgeID
	numEdges  int
}

// NewGraph returns empty directed multigraph
func NewGraph() *Graph {
	return newGraph(true)
}

func newGraph(directed bool) *Graph {
	return &Graph{
		directed: directed,
		nodes:    make(map[osm.NodeID]*Node),
		outgoing: make(map[osm.NodeID][]EdgeID),
		incoming: make(map[osm.NodeID][]EdgeID),
	}
}

func (graph *Graph) Directed() bool {
	return graph.directed
}

// Multigraph is always true: parallel edges are kept apart by their EdgeID
func (graph *Graph) Multigraph() bool {
	return true
}

func (graph *Graph) NumNodes() int {
	return len(graph.nodes)
}

func (graph *Graph) NumEdges() int {
	return graph.numEdges
}

// SetNode registers node with coordinates. Existing node is overwritten.
func (graph *Graph) SetNode(id osm.NodeID, lon, lat float64) *Node {
	node := graph.ensureNode(id)
	node.Lon = lon
	node.Lat = lat
	node.Located = true
	return node
}

func (graph *Graph) ensureNode(id osm.NodeID) *Node {
	if node, ok := graph.nodes[id]; ok {
		return node
	}
	node := &Node{ID: id}
	graph.nodes[id] = node
	graph.nodeOrder = append(graph.nodeOrder, id)
	return node
}

func (graph *Graph) putNode(node Node) {
	cp := node
	if _, ok := graph.nodes[node.ID]; !ok {
		graph.nodeOrder = append(graph.nodeOrder, node.ID)
	}
	graph.nodes[node.ID] = &cp
}

// Node returns node by its reference
func (graph *Graph) Node(id osm.NodeID) (*Node, bool) {
	node, ok := graph.nodes[id]
	return node, ok
}

// Nodes returns nodes in insertion order
func (graph *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(graph.nodeOrder))
	for _, id := range graph.nodeOrder {
		nodes = append(nodes, graph.nodes[id])
	}
	return nodes
}

// AddEdge stores edge and returns its identifier. Missing endpoints are
// registered as unlocated nodes.
func (graph *Graph) AddEdge(edge *Edge) EdgeID {
	graph.ensureNode(edge.Source)
	graph.ensureNode(edge.Target)
	edge.ID = EdgeID(len(graph.edges))
	graph.edges = append(graph.edges, edge)
	graph.outgoing[edge.Source] = append(graph.outgoing[edge.Source], edge.ID)
	graph.incoming[edge.Target] = append(graph.incoming[edge.Target], edge.ID)
	graph.numEdges++
	return edge.ID
}

// Edge returns alive edge by identifier
func (graph *Graph) Edge(id EdgeID) (*Edge, bool) {
	if id < 0 || int(id) >= len(graph.edges) {
		return nil, false
	}
	edge := graph.edges[id]
	return edge, edge != nil
}

// Edges returns alive edges in insertion order
func (graph *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, graph.numEdges)
	for _, edge := range graph.edges {
		if edge != nil {
			edges = append(edges, edge)
		}
	}
	return edges
}

// RemoveEdge deletes edge. Its endpoints stay in the graph.
func (graph *Graph) RemoveEdge(id EdgeID) {
	edge, ok := graph.Edge(id)
	if !ok {
		return
	}
	graph.outgoing[edge.Source] = removeEdgeID(graph.outgoing[edge.Source], id)
	graph.incoming[edge.Target] = removeEdgeID(graph.incoming[edge.Target], id)
	graph.edges[id] = nil
	graph.numEdges--
}

// retarget moves edge head to another node
func (graph *Graph) retarget(id EdgeID, target osm.NodeID) {
	edge := graph.edges[id]
	if edge.Target == target {
		return
	}
	graph.ensureNode(target)
	graph.incoming[edge.Target] = removeEdgeID(graph.incoming[edge.Target], id)
	edge.Target = target
	graph.incoming[target] = append(graph.incoming[target], id)
}

func removeEdgeID(ids []EdgeID, id EdgeID) []EdgeID {
	for i := range ids {
		if ids[i] == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// OutEdges returns edges leaving node. For undirected graph all incident edges are returned.
func (graph *Graph) OutEdges(id osm.NodeID) []*Edge {
	if !graph.directed {
		return graph.incidentEdges(id)
	}
	return graph.edgesByIDs(graph.outgoing[id])
}

// InEdges returns edges entering node. For undirected graph all incident edges are returned.
func (graph *Graph) InEdges(id osm.NodeID) []*Edge {
	if !graph.directed {
		return graph.incidentEdges(id)
	}
	return graph.edgesByIDs(graph.incoming[id])
}

func (graph *Graph) incidentEdges(id osm.NodeID) []*Edge {
	edges := graph.edgesByIDs(graph.outgoing[id])
	for _, edgeID := range graph.incoming[id] {
		edge := graph.edges[edgeID]
		// self-loop is already listed as outgoing
		if edge.Source == id {
			continue
		}
		edges = append(edges, edge)
	}
	return edges
}

func (graph *Graph) edgesByIDs(ids []EdgeID) []*Edge {
	edges := make([]*Edge, len(ids))
	for i, id := range ids {
		edges[i] = graph.edges[id]
	}
	return edges
}

// Successors returns distinct heads of outgoing edges in first-seen order
func (graph *Graph) Successors(id osm.NodeID) []osm.NodeID {
	if !graph.directed {
		return graph.Neighbors(id)
	}
	return distinctEnds(graph.edgesByIDs(graph.outgoing[id]), id, false)
}

// Predecessors returns distinct tails of incoming edges in first-seen order
func (graph *Graph) Predecessors(id osm.NodeID) []osm.NodeID {
	if !graph.directed {
		return graph.Neighbors(id)
	}
	return distinctEnds(graph.edgesByIDs(graph.incoming[id]), id, true)
}

// Neighbors returns distinct adjacent nodes regardless of direction
func (graph *Graph) Neighbors(id osm.NodeID) []osm.NodeID {
	edges := graph.incidentEdges(id)
	seen := make(map[osm.NodeID]struct{}, len(edges))
	neighbors := make([]osm.NodeID, 0, len(edges))
	for _, edge := range edges {
		other := edge.Target
		if other == id {
			other = edge.Source
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		neighbors = append(neighbors, other)
	}
	return neighbors
}

func distinctEnds(edges []*Edge, id osm.NodeID, tails bool) []osm.NodeID {
	seen := make(map[osm.NodeID]struct{}, len(edges))
	ends := make([]osm.NodeID, 0, len(edges))
	for _, edge := range edges {
		end := edge.Target
		if tails {
			end = edge.Source
		}
		if _, ok := seen[end]; ok {
			continue
		}
		seen[end] = struct{}{}
		ends = append(ends, end)
	}
	return ends
}

// EdgesBetween returns edges from u to v in insertion order
func (graph *Graph) EdgesBetween(u, v osm.NodeID) []*Edge {
	edges := []*Edge{}
	for _, edge := range graph.OutEdges(u) {
		if edge.Target == v || (!graph.directed && edge.Source == v && edge.Target == u) {
			edges = append(edges, edge)
		}
	}
	return edges
}

// firstEdge returns first edge u->v preferring the one of given way
func (graph *Graph) firstEdge(u, v osm.NodeID, wayID osm.WayID) *Edge {
	var first *Edge
	for _, edgeID := range graph.outgoing[u] {
		edge := graph.edges[edgeID]
		if edge.Target != v {
			continue
		}
		if edge.WayID == wayID {
			return edge
		}
		if first == nil {
			first = edge
		}
	}
	return first
}

// PruneOrphans removes nodes without incident edges and returns how many were removed.
// Neither Simplify nor ConstructGeometries call it.
func (graph *Graph) PruneOrphans() int {
	kept := graph.nodeOrder[:0]
	removed := 0
	for _, id := range graph.nodeOrder {
		if len(graph.outgoing[id]) == 0 && len(graph.incoming[id]) == 0 {
			delete(graph.nodes, id)
			delete(graph.outgoing, id)
			delete(graph.incoming, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	graph.nodeOrder = kept
	return removed
}
