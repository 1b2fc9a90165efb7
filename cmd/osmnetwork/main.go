package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/LdDl/osmnetwork"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	configFile  = flag.String("config", "", "Path to YAML configuration. Flags set explicitly override its values")
	osmFileName = flag.String("file", "my_graph.osm.pbf", "Filename of *.osm.pbf or *.osm file")
	out         = flag.String("out", "my_graph.geojson", "Filename of GeoJSON output with one LineString feature per edge")
	csvOut      = flag.String("csv", "", "Optional filename of ';'-separated edges file")
	geomFormat  = flag.String("geomf", "wkt", "Format of CSV geometry. Expected values: wkt / geojson")
	tagKey      = flag.String("key", "highway", "Tag key the way must have")
	tagStr      = flag.String("tags", "", "Accepted values of the tag key (separated by commas). Empty accepts any value")
	agentsStr   = flag.String("agents", "", "Keep ways usable by these agents (separated by commas). Expected values: auto / bike / walk")
	normalizer  = flag.String("normalizer", "copy", "Tags normalization. Expected values: copy / highway")
	geodesic    = flag.String("geodesic", "wgs84", "Length computation. Expected values: wgs84 / haversine")
	simplify    = flag.Bool("simplify", true, "Merge degree-2 continuation segments")
	undirected  = flag.Bool("undirected", false, "Drop edge directions before export")
	contract    = flag.Bool("contract", false, "Prepare contraction hierarchies and export shortcuts next to GeoJSON output")
	nodesOut    = flag.String("nodes", "", "Optional filename of GeoJSON output with tagged nodes")
	verbose     = flag.Bool("verbose", false, "Development logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := prepareConfig()
	if err != nil {
		logger.Fatal("can't prepare configuration", zap.Error(err))
	}
	logger.Debug(cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("can't build network", zap.Error(err))
	}
}

// prepareConfig merges YAML configuration with explicitly set flags
func prepareConfig() (*osmnetwork.Config, error) {
	cfg := osmnetwork.DefaultConfig()
	if *configFile != "" {
		loaded, err := osmnetwork.LoadConfig(*configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})
	// Without config file flag defaults apply as well
	set := func(name string) bool {
		return *configFile == "" || explicit[name]
	}
	if set("file") {
		cfg.Input = *osmFileName
	}
	if set("out") {
		cfg.Output = *out
	}
	if set("csv") {
		cfg.CSV = *csvOut
	}
	if set("nodes") {
		cfg.Nodes = *nodesOut
	}
	if set("geomf") {
		cfg.GeomFormat = *geomFormat
	}
	if set("key") {
		cfg.Filter.Key = *tagKey
	}
	if set("tags") {
		cfg.Filter.Values = splitList(*tagStr)
	}
	if set("agents") {
		cfg.Filter.Agents = splitList(*agentsStr)
	}
	if set("normalizer") {
		cfg.Normalizer = *normalizer
	}
	if set("geodesic") {
		cfg.Geodesic = *geodesic
	}
	if set("simplify") {
		cfg.Simplify = *simplify
	}
	if set("undirected") {
		cfg.Undirected = *undirected
	}
	if set("contract") {
		cfg.Contract = *contract
	}
	return cfg, cfg.Validate()
}

func splitList(str string) []string {
	if strings.TrimSpace(str) == "" {
		return nil
	}
	parts := strings.Split(str, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func run(ctx context.Context, cfg *osmnetwork.Config, logger *zap.Logger) error {
	wayFilter, err := cfg.GetWayFilter()
	if err != nil {
		return err
	}
	normalize, err := cfg.GetNormalizer()
	if err != nil {
		return err
	}
	geodesicCalc, err := cfg.GetGeodesic()
	if err != nil {
		return err
	}

	ways, err := osmnetwork.ReadFile(ctx, cfg.Input, wayFilter, logger)
	if err != nil {
		return errors.Wrap(err, "Can't read OSM data")
	}

	builder := osmnetwork.NewBuilder(
		osmnetwork.WithWayFilter(wayFilter),
		osmnetwork.WithNormalizer(normalize),
		osmnetwork.WithProgress(newProgressLogger(logger, "ways", ways.Len())),
		osmnetwork.WithLogger(logger),
	)
	graph, err := builder.Build(ways)
	if err != nil {
		return errors.Wrap(err, "Can't build graph")
	}

	if cfg.Simplify {
		st := time.Now()
		graph.Simplify()
		logger.Info("graph simplified", zap.Int("edges", graph.NumEdges()), zap.Duration("took", time.Since(st)))
	}

	st := time.Now()
	err = graph.ConstructGeometries(geodesicCalc, newProgressLogger(logger, "edges", graph.NumEdges()))
	if err != nil {
		return errors.Wrap(err, "Can't construct geometries")
	}
	logger.Info("geometries constructed", zap.Duration("took", time.Since(st)))

	if cfg.Undirected {
		graph = graph.ToUndirected()
	}

	err = graph.WriteGeoJSON(cfg.Output)
	if err != nil {
		return errors.Wrap(err, "Can't export GeoJSON")
	}
	logger.Info("network exported", zap.String("file", cfg.Output), zap.Int("edges", graph.NumEdges()))

	if cfg.CSV != "" {
		err = graph.ExportToCSV(cfg.CSV, cfg.GeomFormat)
		if err != nil {
			return errors.Wrap(err, "Can't export CSV")
		}
	}

	if cfg.Contract {
		st := time.Now()
		chGraph, err := graph.ToContractionHierarchies(true)
		if err != nil {
			return errors.Wrap(err, "Can't prepare contraction hierarchies")
		}
		fnameShortcuts := strings.TrimSuffix(cfg.Output, ".geojson") + "_shortcuts.csv"
		err = chGraph.ExportShortcutsToFile(fnameShortcuts)
		if err != nil {
			return errors.Wrap(err, "Can't export shortcuts")
		}
		logger.Info("contraction hierarchies prepared", zap.String("file", fnameShortcuts), zap.Duration("took", time.Since(st)))
	}

	if cfg.Nodes != "" {
		err = exportNodes(ctx, cfg.Input, cfg.Nodes)
		if err != nil {
			return errors.Wrap(err, "Can't export nodes")
		}
	}
	return nil
}

// exportNodes writes every tagged node of the file as GeoJSON point
func exportNodes(ctx context.Context, input, output string) error {
	file, err := os.Open(input)
	if err != nil {
		return errors.Wrap(err, "Can't open file")
	}
	defer file.Close()
	scanner, err := osmnetwork.NewOSMScanner(ctx, file, input)
	if err != nil {
		return err
	}
	defer scanner.Close()
	fc, err := osmnetwork.ExtractNodes(scanner, func(node *osm.Node) bool {
		return len(node.Tags) != 0
	})
	if err != nil {
		return errors.Wrap(err, "Can't extract nodes")
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Can't marshal nodes")
	}
	err = os.WriteFile(output, data, 0644)
	if err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}
