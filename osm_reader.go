package osmnetwork

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OSMScanner is implemented by osmxml and osmpbf scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// WayScanner yields ways whose nodes carry locations
type WayScanner interface {
	Scan() bool
	Way() *osm.Way
	Err() error
}

// WaySliceScanner iterates over prepared ways
type WaySliceScanner struct {
	ways []*osm.Way
	pos  int
}

func NewWaySliceScanner(ways []*osm.Way) *WaySliceScanner {
	return &WaySliceScanner{ways: ways}
}

func (scanner *WaySliceScanner) Scan() bool {
	if scanner.pos >= len(scanner.ways) {
		return false
	}
	scanner.pos++
	return true
}

func (scanner *WaySliceScanner) Way() *osm.Way {
	return scanner.ways[scanner.pos-1]
}

func (scanner *WaySliceScanner) Err() error {
	return nil
}

// Len returns total number of ways
func (scanner *WaySliceScanner) Len() int {
	return len(scanner.ways)
}

// NewOSMScanner guesses decoder by file extension
func NewOSMScanner(ctx context.Context, r io.Reader, filename string) (OSMScanner, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".osm", ".xml":
		return osmxml.New(ctx, r), nil
	case ".pbf":
		return osmpbf.New(ctx, r, 4), nil
	default:
		return nil, newDecodeError(filename, fmt.Errorf("file extension '%s' is not handled", ext))
	}
}

// ReadFile reads OSM file (XML or PBF) and returns accepted ways with located nodes.
//
// The file is scanned twice: ways first, then nodes referenced by the accepted ways.
func ReadFile(ctx context.Context, filename string, filter WayFilter, logger *zap.Logger) (*WaySliceScanner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if filter == nil {
		filter = acceptAll
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open file")
	}
	defer file.Close()

	st := time.Now()
	ways := []*osm.Way{}
	nodesSeen := make(map[osm.NodeID]struct{})
	{
		scannerWays, err := NewOSMScanner(ctx, file, filename)
		if err != nil {
			return nil, err
		}
		for scannerWays.Scan() {
			obj := scannerWays.Object()
			if obj.ObjectID().Type() != osm.TypeWay {
				continue
			}
			way := obj.(*osm.Way)
			if !filter(way.Tags) {
				continue
			}
			prepared := copyWay(way)
			for _, node := range prepared.Nodes {
				nodesSeen[node.ID] = struct{}{}
			}
			ways = append(ways, prepared)
		}
		err = scannerWays.Err()
		scannerWays.Close()
		if err != nil {
			return nil, newDecodeError(filename, errors.Wrap(err, "Scanner error on ways"))
		}
	}
	logger.Info("ways scanned", zap.Int("ways", len(ways)), zap.Duration("took", time.Since(st)))

	// Seek file to start
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	st = time.Now()
	locations := make(map[osm.NodeID]orb.Point, len(nodesSeen))
	{
		scannerNodes, err := NewOSMScanner(ctx, file, filename)
		if err != nil {
			return nil, err
		}
		for scannerNodes.Scan() {
			obj := scannerNodes.Object()
			if obj.ObjectID().Type() != osm.TypeNode {
				continue
			}
			node := obj.(*osm.Node)
			if _, ok := nodesSeen[node.ID]; ok {
				locations[node.ID] = orb.Point{node.Lon, node.Lat}
			}
		}
		err = scannerNodes.Err()
		scannerNodes.Close()
		if err != nil {
			return nil, newDecodeError(filename, errors.Wrap(err, "Scanner error on nodes"))
		}
	}
	logger.Info("nodes scanned", zap.Int("nodes", len(locations)), zap.Duration("took", time.Since(st)))

	for _, way := range ways {
		if err := locateWay(way, locations); err != nil {
			return nil, err
		}
	}
	return NewWaySliceScanner(ways), nil
}

// FromOSM returns accepted ways of in-memory OSM document with located nodes
func FromOSM(data *osm.OSM, filter WayFilter) (*WaySliceScanner, error) {
	if filter == nil {
		filter = acceptAll
	}
	locations := make(map[osm.NodeID]orb.Point, len(data.Nodes))
	for _, node := range data.Nodes {
		locations[node.ID] = orb.Point{node.Lon, node.Lat}
	}
	ways := make([]*osm.Way, 0, len(data.Ways))
	for _, way := range data.Ways {
		if !filter(way.Tags) {
			continue
		}
		prepared := copyWay(way)
		if err := locateWay(prepared, locations); err != nil {
			return nil, err
		}
		ways = append(ways, prepared)
	}
	return NewWaySliceScanner(ways), nil
}

// CountWays returns number of ways accepted by filter
func CountWays(scanner OSMScanner, filter WayFilter) (int, error) {
	if filter == nil {
		filter = acceptAll
	}
	count := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if filter(way.Tags) {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, newDecodeError("", errors.Wrap(err, "Scanner error on ways"))
	}
	return count, nil
}

// copyWay keeps identity, tags and node references only
func copyWay(way *osm.Way) *osm.Way {
	prepared := &osm.Way{
		ID:    way.ID,
		Tags:  make(osm.Tags, len(way.Tags)),
		Nodes: make(osm.WayNodes, len(way.Nodes)),
	}
	copy(prepared.Tags, way.Tags)
	for i, node := range way.Nodes {
		prepared.Nodes[i] = osm.WayNode{ID: node.ID, Lat: node.Lat, Lon: node.Lon}
	}
	return prepared
}

func locateWay(way *osm.Way, locations map[osm.NodeID]orb.Point) error {
	for i := range way.Nodes {
		pt, ok := locations[way.Nodes[i].ID]
		if !ok {
			return newDecodeError(fmt.Sprintf("way %d", way.ID), fmt.Errorf("no such node '%d'", way.Nodes[i].ID))
		}
		way.Nodes[i].Lon = pt.Lon()
		way.Nodes[i].Lat = pt.Lat()
	}
	return nil
}
