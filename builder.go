package osmnetwork

import (
	"fmt"
	"time"

	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

// Builder turns located ways into the initial directed multigraph: one edge per way segment
type Builder struct {
	wayFilter  WayFilter
	normalizer Normalizer
	progress   Progress
	logger     *zap.Logger
}

func (builder *Builder) String() string {
	return fmt.Sprintf(`
Graph builder parameters:
	way filter: %t
	normalizer: %t
	progress: %t
	`,
		builder.wayFilter != nil,
		builder.normalizer != nil,
		builder.progress != nil,
	)
}

// NewBuilder returns builder accepting every way and copying tags verbatim unless options say otherwise
func NewBuilder(options ...func(*Builder)) *Builder {
	builder := &Builder{
		normalizer: CopyTags,
		logger:     zap.NewNop(),
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

// WithWayFilter sets way predicate. Nil accepts every way.
func WithWayFilter(wayFilter WayFilter) func(*Builder) {
	return func(builder *Builder) {
		builder.wayFilter = wayFilter
	}
}

// WithNormalizer sets tags normalization. Nil produces edges without attributes.
func WithNormalizer(normalizer Normalizer) func(*Builder) {
	return func(builder *Builder) {
		builder.normalizer = normalizer
	}
}

func WithProgress(progress Progress) func(*Builder) {
	return func(builder *Builder) {
		builder.progress = progress
	}
}

func WithLogger(logger *zap.Logger) func(*Builder) {
	return func(builder *Builder) {
		if logger != nil {
			builder.logger = logger
		}
	}
}

// Build consumes scanner and returns graph where segment i of every accepted way
// is an edge n_i -> n_{i+1}. Node coordinates are taken from way nodes, last write wins.
func (builder *Builder) Build(scanner WayScanner) (*Graph, error) {
	wayFilter := builder.wayFilter
	if wayFilter == nil {
		wayFilter = acceptAll
	}
	st := time.Now()
	graph := NewGraph()
	ways := 0
	for scanner.Scan() {
		way := scanner.Way()
		if !wayFilter(way.Tags) {
			continue
		}
		if len(way.Nodes) < 2 {
			builder.logger.Debug("way without segments", zap.Int64("way_id", int64(way.ID)), zap.Int("nodes", len(way.Nodes)))
		}
		attrs := builder.normalize(way)
		for i := 0; i < len(way.Nodes)-1; i++ {
			u := way.Nodes[i]
			v := way.Nodes[i+1]
			graph.AddEdge(&Edge{
				Source:     u.ID,
				Target:     v.ID,
				WayID:      way.ID,
				Segment:    i,
				NodeRefs:   []osm.NodeID{u.ID, v.ID},
				Attributes: copyAttributes(attrs),
			})
			graph.SetNode(u.ID, u.Lon, u.Lat)
			graph.SetNode(v.ID, v.Lon, v.Lat)
		}
		ways++
		advance(builder.progress)
	}
	if err := scanner.Err(); err != nil {
		return nil, newDecodeError("", err)
	}
	builder.logger.Info("graph built",
		zap.Int("ways", ways),
		zap.Int("nodes", graph.NumNodes()),
		zap.Int("edges", graph.NumEdges()),
		zap.Duration("took", time.Since(st)),
	)
	return graph, nil
}

func (builder *Builder) normalize(way *osm.Way) map[string]interface{} {
	if builder.normalizer == nil {
		return nil
	}
	attrs := copyAttributes(builder.normalizer(way.Tags))
	for key := range attrs {
		if _, ok := reservedKeys[key]; ok {
			builder.logger.Warn("normalized attribute collides with reserved key", zap.String("key", key), zap.Int64("way_id", int64(way.ID)))
			delete(attrs, key)
		}
	}
	return attrs
}
