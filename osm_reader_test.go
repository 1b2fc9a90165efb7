package osmnetwork

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="55.7500" lon="37.6400" visible="true"/>
  <node id="2" lat="55.7493" lon="37.6410" visible="true">
    <tag k="highway" v="traffic_signals"/>
  </node>
  <node id="3" lat="55.7486" lon="37.6420" visible="true"/>
  <node id="4" lat="55.7000" lon="37.6000" visible="true"/>
  <node id="5" lat="55.7010" lon="37.6010" visible="true"/>
  <way id="10" visible="true">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="residential"/>
  </way>
  <way id="11" visible="true">
    <nd ref="4"/>
    <nd ref="5"/>
    <tag k="building" v="yes"/>
  </way>
</osm>
`

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fname, []byte(content), 0644))
	return fname
}

func TestReadFile(t *testing.T) {
	fname := writeTestFile(t, "test.osm", testXML)
	highways := TagFilter{Key: "highway"}
	scanner, err := ReadFile(context.Background(), fname, highways.WayFilter(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, scanner.Len())

	require.True(t, scanner.Scan())
	way := scanner.Way()
	assert.Equal(t, osm.WayID(10), way.ID)
	require.Len(t, way.Nodes, 3)
	assert.Equal(t, 37.6410, way.Nodes[1].Lon)
	assert.Equal(t, 55.7493, way.Nodes[1].Lat)
	assert.False(t, scanner.Scan())

	graph, err := NewBuilder().Build(NewWaySliceScanner([]*osm.Way{way}))
	require.NoError(t, err)
	assert.Equal(t, 2, graph.NumEdges())
}

func TestReadFileMissingNode(t *testing.T) {
	broken := strings.Replace(testXML, `<nd ref="3"/>`, `<nd ref="42"/>`, 1)
	fname := writeTestFile(t, "broken.osm", broken)
	_, err := ReadFile(context.Background(), fname, nil, nil)
	require.Error(t, err)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "way 10", decodeErr.Record)
}

func TestReadFileUnknownExtension(t *testing.T) {
	fname := writeTestFile(t, "test.txt", testXML)
	_, err := ReadFile(context.Background(), fname, nil, nil)
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))

	_, err = ReadFile(context.Background(), filepath.Join(t.TempDir(), "missing.osm"), nil, nil)
	assert.Error(t, err)
}

func TestFromOSMMissingNode(t *testing.T) {
	data := testOSM()
	data.Ways = append(data.Ways, testWay(4, highwayTags("service"), 103, 999))
	_, err := FromOSM(data, nil)
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "way 4", decodeErr.Record)

	// rejected ways are not located
	_, err = FromOSM(data, (&TagFilter{Key: "highway", Values: []string{"residential"}}).WayFilter())
	assert.NoError(t, err)
}

func TestCountWays(t *testing.T) {
	scanner := osmxml.New(context.Background(), strings.NewReader(testXML))
	defer scanner.Close()
	count, err := CountWays(scanner, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	scanner = osmxml.New(context.Background(), strings.NewReader(testXML))
	defer scanner.Close()
	count, err = CountWays(scanner, AgentFilter())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestExtractNodes(t *testing.T) {
	scanner := osmxml.New(context.Background(), strings.NewReader(testXML))
	defer scanner.Close()
	fc, err := ExtractNodes(scanner, func(node *osm.Node) bool {
		return len(node.Tags) != 0
	})
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	feature := fc.Features[0]
	assert.Equal(t, []float64{37.6410, 55.7493}, feature.Geometry.Point)
	assert.Equal(t, int64(2), feature.Properties["osm_id"])
	assert.Equal(t, "traffic_signals", feature.Properties["highway"])
}
