package osmnetwork

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func TestCopyTags(t *testing.T) {
	attrs := CopyTags(osm.Tags{{Key: "highway", Value: "primary"}, {Key: "lanes", Value: "2"}})
	assert.Equal(t, map[string]interface{}{"highway": "primary", "lanes": "2"}, attrs)
}

func TestHighwayNormalizer(t *testing.T) {
	attrs := HighwayNormalizer(osm.Tags{
		{Key: "highway", Value: "primary_link"},
		{Key: "name", Value: "Ring road"},
		{Key: "oneway", Value: "-1"},
		{Key: "lanes", Value: "3"},
		{Key: "maxspeed", Value: "30 mph"},
		{Key: "note", Value: "dropped"},
	})
	assert.Equal(t, map[string]interface{}{
		"highway":  "primary_link",
		"link":     true,
		"name":     "Ring road",
		"oneway":   true,
		"reversed": true,
		"lanes":    3.0,
		"maxspeed": 48.3,
	}, attrs)
}

func TestHighwayNormalizerOmitsUnparsable(t *testing.T) {
	attrs := HighwayNormalizer(osm.Tags{
		{Key: "highway", Value: "residential"},
		{Key: "oneway", Value: "sometimes"},
		{Key: "lanes", Value: "many"},
		{Key: "maxspeed", Value: "walk"},
	})
	assert.Equal(t, map[string]interface{}{"highway": "residential", "link": false}, attrs)
}

func TestParseOneway(t *testing.T) {
	cases := []struct {
		tags     osm.Tags
		oneway   bool
		reversed bool
		ok       bool
	}{
		{osm.Tags{{Key: "oneway", Value: "yes"}}, true, false, true},
		{osm.Tags{{Key: "oneway", Value: "no"}}, false, false, true},
		{osm.Tags{{Key: "oneway", Value: "reverse"}}, true, true, true},
		{osm.Tags{{Key: "junction", Value: "roundabout"}}, true, false, true},
		{osm.Tags{{Key: "oneway", Value: "no"}, {Key: "junction", Value: "roundabout"}}, false, false, true},
		{osm.Tags{{Key: "oneway", Value: "reversible"}}, false, false, true},
		{nil, false, false, true},
		{osm.Tags{{Key: "oneway", Value: "maybe"}}, false, false, false},
	}
	for i, tc := range cases {
		oneway, reversed, ok := parseOneway(tc.tags)
		assert.Equal(t, tc.oneway, oneway, "case %d", i)
		assert.Equal(t, tc.reversed, reversed, "case %d", i)
		assert.Equal(t, tc.ok, ok, "case %d", i)
	}
}

func TestParseMaxSpeed(t *testing.T) {
	cases := []struct {
		text  string
		speed float64
		ok    bool
	}{
		{"60", 60, true},
		{"50 km/h", 50, true},
		{"20 MPH", 32.2, true},
		{"", 0, false},
		{"RU:urban", 0, false},
	}
	for _, tc := range cases {
		speed, ok := parseMaxSpeed(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.InDelta(t, tc.speed, speed, 1e-9, tc.text)
	}
}
