package osmnetwork

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// ExportToCSV writes edges to ';'-separated file. geomFormat is "wkt" (default) or "geojson".
// Edges must have geometries constructed.
func (graph *Graph) ExportToCSV(fname string, geomFormat string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "source_node", "target_node", "osm_way_id", "segment", "length_meters", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, edge := range graph.Edges() {
		if len(edge.Geometry) < 2 {
			return errors.Errorf("Edge %d has no geometry. Construct geometries first", edge.ID)
		}
		geomStr, err := formatLine(edge, geomFormat)
		if err != nil {
			return errors.Wrapf(err, "Can't format geometry of edge %d", edge.ID)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", edge.ID),
			fmt.Sprintf("%d", edge.Source),
			fmt.Sprintf("%d", edge.Target),
			fmt.Sprintf("%d", edge.WayID),
			fmt.Sprintf("%d", edge.Segment),
			fmt.Sprintf("%.1f", edge.Length),
			geomStr,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write edge")
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatLine(edge *Edge, geomFormat string) (string, error) {
	if strings.ToLower(geomFormat) == "geojson" {
		b, err := geojson.NewLineStringGeometry(lineToCoordinates(edge.Geometry)).MarshalJSON()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return wkt.MarshalString(edge.Geometry), nil
}
