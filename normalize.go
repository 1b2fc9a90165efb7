package osmnetwork

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
)

// Normalizer maps raw way tags to edge attributes. It must be pure.
type Normalizer func(tags osm.Tags) map[string]interface{}

// CopyTags keeps every tag as a string attribute
func CopyTags(tags osm.Tags) map[string]interface{} {
	attrs := make(map[string]interface{}, len(tags))
	for _, tag := range tags {
		attrs[tag.Key] = tag.Value
	}
	return attrs
}

const mphToKmh = 1.609344

var (
	speedRegExp = regexp.MustCompile(`^\s*(\d+\.?\d*)\s*(km/h|kmh|kph|mph)?\s*$`)
	lanesRegExp = regexp.MustCompile(`\d+`)

	// copied verbatim by HighwayNormalizer
	highwayPlainTags = []string{"name", "service", "surface", "footway", "crossing", "junction"}
)

// HighwayNormalizer extracts canonical routing attributes from highway tags:
// highway, link, oneway, reversed, lanes, maxspeed (km/h) and a few plain string tags.
// Unparsable values are omitted. Numbers are float64 to match decoded GeoJSON.
func HighwayNormalizer(tags osm.Tags) map[string]interface{} {
	attrs := make(map[string]interface{})
	highway := tags.Find("highway")
	if highway != "" {
		attrs["highway"] = highway
		attrs["link"] = getHighwayType(highway).IsLink()
	}
	for _, key := range highwayPlainTags {
		if value := tags.Find(key); value != "" {
			attrs[key] = value
		}
	}

	if oneway, reversed, ok := parseOneway(tags); ok {
		attrs["oneway"] = oneway
		if reversed {
			attrs["reversed"] = true
		}
	}

	if lanes := lanesRegExp.FindString(tags.Find("lanes")); lanes != "" {
		if lanesNum, err := strconv.Atoi(lanes); err == nil {
			attrs["lanes"] = float64(lanesNum)
		}
	}

	if maxSpeed, ok := parseMaxSpeed(tags.Find("maxspeed")); ok {
		attrs["maxspeed"] = maxSpeed
	}
	return attrs
}

// parseOneway returns oneway flag and whether way is drawn against traffic direction.
// ok is false when `oneway` holds an unknown value.
func parseOneway(tags osm.Tags) (oneway bool, reversed bool, ok bool) {
	onewayText := tags.Find("oneway")
	switch onewayText {
	case "yes", "1", "true":
		return true, false, true
	case "no", "0", "false":
		return false, false, true
	case "-1", "reverse":
		return true, true, true
	case "":
		if _, found := junctionTypes[tags.Find("junction")]; found {
			return true, false, true
		}
		return false, false, true
	}
	// Reversible or alternating. Those depend on time conditions
	if _, found := onewayReversible[onewayText]; found {
		return false, false, true
	}
	return false, false, false
}

// parseMaxSpeed returns speed limit in km/h
func parseMaxSpeed(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	match := speedRegExp.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	if match[2] == "mph" {
		value = roundTo(value*mphToKmh, 1)
	}
	return value, true
}
