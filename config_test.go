package osmnetwork

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(fname, []byte(content), 0644))
	return fname
}

func TestLoadConfig(t *testing.T) {
	fname := writeConfig(t, `
input: moscow.osm.pbf
output: moscow.geojson
filter:
  values: [primary, secondary]
  agents: [auto]
normalizer: highway
geodesic: haversine
undirected: true
nodes: moscow_nodes.geojson
`)
	cfg, err := LoadConfig(fname)
	require.NoError(t, err)
	assert.Equal(t, "moscow.osm.pbf", cfg.Input)
	assert.Equal(t, "moscow.geojson", cfg.Output)
	// defaults survive partial documents
	assert.Equal(t, "highway", cfg.Filter.Key)
	assert.Equal(t, "wkt", cfg.GeomFormat)
	assert.True(t, cfg.Simplify)
	assert.True(t, cfg.Undirected)
	assert.Equal(t, "moscow_nodes.geojson", cfg.Nodes)

	geodesic, err := cfg.GetGeodesic()
	require.NoError(t, err)
	assert.Equal(t, Haversine{}, geodesic)

	filter, err := cfg.GetWayFilter()
	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.True(t, filter(highwayTags("primary")))
	assert.False(t, filter(highwayTags("residential")))
}

func TestLoadConfigInvalid(t *testing.T) {
	cases := map[string]string{
		"geom format": "geom_format: shapefile\n",
		"normalizer":  "normalizer: fancy\n",
		"geodesic":    "geodesic: flat\n",
		"agent":       "filter:\n  agents: [boat]\n",
		"yaml":        "filter: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigWithoutFilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Filter.Key = ""
	filter, err := cfg.GetWayFilter()
	require.NoError(t, err)
	assert.Nil(t, filter)
}
