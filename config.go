package osmnetwork

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes one construction pass
type Config struct {
	Input      string       `yaml:"input"`
	Output     string       `yaml:"output"`
	CSV        string       `yaml:"csv"`
	Nodes      string       `yaml:"nodes"`
	GeomFormat string       `yaml:"geom_format"`
	Filter     FilterConfig `yaml:"filter"`
	Normalizer string       `yaml:"normalizer"`
	Simplify   bool         `yaml:"simplify"`
	Undirected bool         `yaml:"undirected"`
	Geodesic   string       `yaml:"geodesic"`
	Contract   bool         `yaml:"contract"`
}

// FilterConfig selects ways by tag values and/or by agents able to use them
type FilterConfig struct {
	Key    string   `yaml:"key"`
	Values []string `yaml:"values"`
	Agents []string `yaml:"agents"`
}

func (cfg *Config) String() string {
	return fmt.Sprintf(`
Network configuration:
	input: '%s'
	output: '%s'
	csv: '%s'
	nodes: '%s'
	geom_format: '%s'
	filter key: '%s'
	filter values: '%s'
	filter agents: '%s'
	normalizer: '%s'
	simplify?: %t
	undirected?: %t
	geodesic: '%s'
	contract?: %t
	`,
		cfg.Input,
		cfg.Output,
		cfg.CSV,
		cfg.Nodes,
		cfg.GeomFormat,
		cfg.Filter.Key,
		strings.Join(cfg.Filter.Values, ","),
		strings.Join(cfg.Filter.Agents, ","),
		cfg.Normalizer,
		cfg.Simplify,
		cfg.Undirected,
		cfg.Geodesic,
		cfg.Contract,
	)
}

// DefaultConfig returns configuration for a simplified WGS84 highway network
func DefaultConfig() *Config {
	return &Config{
		Output:     "graph.geojson",
		GeomFormat: "wkt",
		Filter: FilterConfig{
			Key: "highway",
		},
		Normalizer: "copy",
		Simplify:   true,
		Geodesic:   "wgs84",
	}
}

// LoadConfig reads YAML file on top of DefaultConfig
func LoadConfig(fname string) (*Config, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read config")
	}
	cfg := DefaultConfig()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Can't parse config")
	}
	err = cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "Invalid config")
	}
	return cfg, nil
}

// Validate checks enumerated fields
func (cfg *Config) Validate() error {
	switch strings.ToLower(cfg.GeomFormat) {
	case "wkt", "geojson":
	default:
		return errors.Errorf("geom_format should be 'wkt' or 'geojson', got '%s'", cfg.GeomFormat)
	}
	if _, err := cfg.GetNormalizer(); err != nil {
		return err
	}
	if _, err := cfg.GetGeodesic(); err != nil {
		return err
	}
	if _, err := cfg.GetWayFilter(); err != nil {
		return err
	}
	return nil
}

// GetWayFilter builds way predicate. Nil means every way is accepted.
func (cfg *Config) GetWayFilter() (WayFilter, error) {
	filters := []WayFilter{}
	if cfg.Filter.Key != "" {
		tagFilter := &TagFilter{Key: cfg.Filter.Key, Values: cfg.Filter.Values}
		filters = append(filters, tagFilter.WayFilter())
	}
	if len(cfg.Filter.Agents) != 0 {
		agents := make([]AgentType, 0, len(cfg.Filter.Agents))
		for _, name := range cfg.Filter.Agents {
			agentType, err := ParseAgentType(name)
			if err != nil {
				return nil, err
			}
			agents = append(agents, agentType)
		}
		filters = append(filters, AgentFilter(agents...))
	}
	switch len(filters) {
	case 0:
		return nil, nil
	case 1:
		return filters[0], nil
	default:
		return AllOf(filters...), nil
	}
}

func (cfg *Config) GetNormalizer() (Normalizer, error) {
	switch strings.ToLower(cfg.Normalizer) {
	case "", "copy":
		return CopyTags, nil
	case "highway":
		return HighwayNormalizer, nil
	default:
		return nil, errors.Errorf("normalizer should be 'copy' or 'highway', got '%s'", cfg.Normalizer)
	}
}

func (cfg *Config) GetGeodesic() (Geodesic, error) {
	switch strings.ToLower(cfg.Geodesic) {
	case "", "wgs84":
		return WGS84, nil
	case "haversine":
		return Haversine{}, nil
	default:
		return nil, errors.Errorf("geodesic should be 'wgs84' or 'haversine', got '%s'", cfg.Geodesic)
	}
}
