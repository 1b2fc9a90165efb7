package osmnetwork

import (
	"github.com/paulmach/osm"
)

// WayFilter decides whether way with given tags goes into the graph
type WayFilter func(tags osm.Tags) bool

func acceptAll(osm.Tags) bool { return true }

// TagFilter allows to filter ways by certain tag values
type TagFilter struct {
	Key string
	// Empty Values accepts any value of Key
	Values []string
}

// CheckTag checks if incoming tag value is represented in filter
func (cfg *TagFilter) CheckTag(tag string) bool {
	if len(cfg.Values) == 0 {
		return true
	}
	for i := range cfg.Values {
		if cfg.Values[i] == tag {
			return true
		}
	}
	return false
}

// Accept reports whether way has the Key tag with one of accepted values
func (cfg *TagFilter) Accept(tags osm.Tags) bool {
	for _, tag := range tags {
		if tag.Key == cfg.Key {
			return cfg.CheckTag(tag.Value)
		}
	}
	return false
}

// WayFilter returns the filter as a function
func (cfg *TagFilter) WayFilter() WayFilter {
	return cfg.Accept
}

// AgentFilter accepts highways usable by at least one of given agents (all agents if none given).
// Areas, POIs and negligible highway types are rejected.
func AgentFilter(agents ...AgentType) WayFilter {
	if len(agents) == 0 {
		for agentType := range agentTypesAll {
			agents = append(agents, agentType)
		}
	}
	return func(tags osm.Tags) bool {
		highway := tags.Find("highway")
		if highway == "" {
			return false
		}
		if _, ok := poiHighwayTags[highway]; ok {
			return false
		}
		if _, ok := negligibleHighwayTags[highway]; ok {
			return false
		}
		// Ignore ways `area` tag provided
		if area := tags.Find("area"); area != "" && area != "no" {
			return false
		}
		for _, key := range poiTags {
			if tags.Find(key) != "" {
				return false
			}
		}
		for _, agentType := range agents {
			if agentType.allows(tags) {
				return true
			}
		}
		return false
	}
}

// AllOf combines filters, nil filters are skipped
func AllOf(filters ...WayFilter) WayFilter {
	return func(tags osm.Tags) bool {
		for _, filter := range filters {
			if filter != nil && !filter(tags) {
				return false
			}
		}
		return true
	}
}
