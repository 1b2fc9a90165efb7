package osmnetwork

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// ToGeoJSON returns one LineString feature per edge. Properties are edge attributes
// plus way_id, segment, length and endpoint references _u, _v.
//
// Node coordinates are not emitted separately.
func (graph *Graph) ToGeoJSON() (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, edge := range graph.Edges() {
		if len(edge.Geometry) < 2 {
			return nil, errors.Errorf("Edge %d has no geometry. Construct geometries first", edge.ID)
		}
		feature := geojson.NewLineStringFeature(lineToCoordinates(edge.Geometry))
		for key, value := range edge.Attributes {
			feature.SetProperty(key, value)
		}
		feature.SetProperty(KeyWayID, int64(edge.WayID))
		feature.SetProperty(KeySegment, edge.Segment)
		feature.SetProperty(KeyLength, edge.Length)
		feature.SetProperty(KeySource, int64(edge.Source))
		feature.SetProperty(KeyTarget, int64(edge.Target))
		fc.AddFeature(feature)
	}
	return fc, nil
}

// MarshalGeoJSON returns graph as GeoJSON document
func (graph *Graph) MarshalGeoJSON() ([]byte, error) {
	fc, err := graph.ToGeoJSON()
	if err != nil {
		return nil, err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal feature collection")
	}
	return data, nil
}

// WriteGeoJSON writes graph as GeoJSON document to a file
func (graph *Graph) WriteGeoJSON(fname string) error {
	data, err := graph.MarshalGeoJSON()
	if err != nil {
		return err
	}
	err = os.WriteFile(fname, data, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}

// FromGeoJSON restores directed multigraph from features written by ToGeoJSON.
//
// Only edges are restored: endpoint nodes are registered without coordinates.
// Free numeric attributes are restored as float64, so normalizers should emit
// float64 for numbers that must survive a round trip.
func FromGeoJSON(fc *geojson.FeatureCollection) (*Graph, error) {
	if fc == nil {
		return nil, newDecodeError("", errors.New("null feature collection"))
	}
	graph := NewGraph()
	for i, feature := range fc.Features {
		if feature == nil {
			return nil, newDecodeError(fmt.Sprintf("feature %d", i), errors.New("null feature"))
		}
		edge, err := edgeFromFeature(feature)
		if err != nil {
			return nil, newDecodeError(fmt.Sprintf("feature %d", i), err)
		}
		graph.AddEdge(edge)
	}
	return graph, nil
}

// UnmarshalGeoJSON parses GeoJSON document into graph.
// Numbers are decoded as json.Number so node and way identifiers keep full int64 precision.
func UnmarshalGeoJSON(data []byte) (*Graph, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	fc := &geojson.FeatureCollection{}
	err := decoder.Decode(fc)
	if err != nil {
		return nil, newDecodeError("", errors.Wrap(err, "Can't parse feature collection"))
	}
	return FromGeoJSON(fc)
}

// ReadGeoJSON reads graph from GeoJSON file
func ReadGeoJSON(fname string) (*Graph, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read file")
	}
	return UnmarshalGeoJSON(data)
}

func edgeFromFeature(feature *geojson.Feature) (*Edge, error) {
	props := make(map[string]interface{}, len(feature.Properties))
	for key, value := range feature.Properties {
		props[key] = value
	}
	source, err := popInt64(props, KeySource, true)
	if err != nil {
		return nil, err
	}
	target, err := popInt64(props, KeyTarget, true)
	if err != nil {
		return nil, err
	}
	line, err := lineFromGeometry(feature.Geometry)
	if err != nil {
		return nil, err
	}
	wayID, err := popInt64(props, KeyWayID, false)
	if err != nil {
		return nil, err
	}
	segment, err := popInt64(props, KeySegment, false)
	if err != nil {
		return nil, err
	}
	length := 0.0
	if value, ok := props[KeyLength]; ok {
		delete(props, KeyLength)
		if length, ok = toFloat64(value); !ok {
			return nil, errors.Errorf("property '%s' should be a number, got %T", KeyLength, value)
		}
	}
	for key, value := range props {
		restored, err := restoreNumbers(value)
		if err != nil {
			return nil, errors.Wrapf(err, "property '%s'", key)
		}
		props[key] = restored
	}
	if len(props) == 0 {
		props = nil
	}
	return &Edge{
		Source:     osm.NodeID(source),
		Target:     osm.NodeID(target),
		WayID:      osm.WayID(wayID),
		Segment:    int(segment),
		Geometry:   line,
		Length:     length,
		Attributes: props,
	}, nil
}

// popInt64 removes integral property from props
func popInt64(props map[string]interface{}, key string, required bool) (int64, error) {
	value, ok := props[key]
	if !ok {
		if required {
			return 0, errors.Errorf("missing property '%s'", key)
		}
		return 0, nil
	}
	delete(props, key)
	switch number := value.(type) {
	case float64:
		if number != math.Trunc(number) {
			return 0, errors.Errorf("property '%s' should be an integer, got %v", key, number)
		}
		return int64(number), nil
	case json.Number:
		n, err := number.Int64()
		if err == nil {
			return n, nil
		}
		// Integral value written in float notation, e.g. "5.0"
		f, ferr := number.Float64()
		if ferr != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloat {
			return 0, errors.Errorf("property '%s' should be an integer, got %s", key, number)
		}
		return int64(f), nil
	case int64:
		return number, nil
	case int:
		return int64(number), nil
	default:
		return 0, errors.Errorf("property '%s' should be an integer, got %T", key, value)
	}
}

// maxExactFloat is the largest integer float64 holds exactly
const maxExactFloat = 1 << 53

func toFloat64(value interface{}) (float64, bool) {
	switch number := value.(type) {
	case float64:
		return number, true
	case json.Number:
		f, err := number.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// restoreNumbers converts json.Number values (nested ones included) to float64
func restoreNumbers(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, errors.Wrapf(err, "bad number %s", v)
		}
		return f, nil
	case []interface{}:
		items := make([]interface{}, len(v))
		for i := range v {
			restored, err := restoreNumbers(v[i])
			if err != nil {
				return nil, err
			}
			items[i] = restored
		}
		return items, nil
	case map[string]interface{}:
		fields := make(map[string]interface{}, len(v))
		for key := range v {
			restored, err := restoreNumbers(v[key])
			if err != nil {
				return nil, err
			}
			fields[key] = restored
		}
		return fields, nil
	default:
		return value, nil
	}
}

func lineFromGeometry(geometry *geojson.Geometry) (orb.LineString, error) {
	if geometry == nil {
		return nil, errors.New("missing geometry")
	}
	if !geometry.IsLineString() {
		return nil, errors.Errorf("geometry should be LineString, got '%s'", geometry.Type)
	}
	if len(geometry.LineString) < 2 {
		return nil, errors.Errorf("LineString has %d points", len(geometry.LineString))
	}
	line := make(orb.LineString, len(geometry.LineString))
	for i, coords := range geometry.LineString {
		if len(coords) < 2 {
			return nil, errors.Errorf("point %d has %d coordinates", i, len(coords))
		}
		line[i] = orb.Point{coords[0], coords[1]}
	}
	return line, nil
}

func lineToCoordinates(line orb.LineString) [][]float64 {
	pts2d := make([][]float64, len(line))
	for i := range line {
		pts2d[i] = []float64{line[i].Lon(), line[i].Lat()}
	}
	return pts2d
}
