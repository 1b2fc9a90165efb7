package osmnetwork

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// ExtractNodes returns Point feature for every node accepted by filter (nil accepts all).
// Properties are node tags plus osm_id.
func ExtractNodes(scanner OSMScanner, filter func(*osm.Node) bool) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if filter != nil && !filter(node) {
			continue
		}
		feature := geojson.NewPointFeature([]float64{node.Lon, node.Lat})
		for _, tag := range node.Tags {
			feature.SetProperty(tag.Key, tag.Value)
		}
		feature.SetProperty("osm_id", int64(node.ID))
		fc.AddFeature(feature)
	}
	if err := scanner.Err(); err != nil {
		return nil, newDecodeError("", errors.Wrap(err, "Scanner error on nodes"))
	}
	return fc, nil
}
