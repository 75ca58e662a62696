package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/woozymasta/tracemap/internal/compose"
	"github.com/woozymasta/tracemap/internal/config"
	"github.com/woozymasta/tracemap/internal/layer"
	"github.com/woozymasta/tracemap/internal/logger"
	"github.com/woozymasta/tracemap/internal/render"
	"github.com/woozymasta/tracemap/internal/source"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file, built-in points when empty"`
	DataDir     string   `short:"d" long:"data-dir"    env:"DATA_DIR"    description:"Directory with layer GeoJSON files"`
	Out         []string `short:"o" long:"out"                           description:"Output file (.html, .png, .webp, .kml, .geojson), repeatable"`
	Points      []string `short:"P" long:"point"                         description:"Extra point as name,lon,lat[,color], repeatable"`
	Enable      []string `short:"e" long:"enable"                        description:"Enable layer by name, repeatable"`
	Disable     []string `short:"x" long:"disable"                       description:"Disable layer by name, repeatable"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Parallel layer loads"`
	NoPath      bool     `long:"no-path"                                 description:"Do not connect the points"`
	NoCircles   bool     `long:"no-circles"                              description:"Do not draw circles around the points"`
	NoSummary   bool     `long:"no-summary"                              description:"Do not print the distance summary"`
	ListLayers  bool     `short:"l" long:"list-layers"                   description:"Print the layer catalog and exit"`
}

func main() {
	// .env must be applied before flags read their env defaults
	envErr := godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()
	if envErr == nil {
		log.Debug().Msg("Environment loaded from .env")
	}

	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	for _, raw := range opts.Points {
		p, err := config.ParsePoint(raw)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --point")
		}
		cfg.Points = append(cfg.Points, p)
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.Concurrency > 0 {
		cfg.Options.Concurrency = opts.Concurrency
	}

	set, err := cfg.CoordinateSet()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid points")
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid layers")
	}
	if err := toggle(catalog, opts.Enable, true); err != nil {
		log.Fatal().Err(err).Msg("Cannot enable layer")
	}
	if err := toggle(catalog, opts.Disable, false); err != nil {
		log.Fatal().Err(err).Msg("Cannot disable layer")
	}

	if opts.ListLayers {
		printLayers(catalog)
		return
	}

	composeOpts := cfg.ComposeOptions()
	if opts.NoPath {
		composeOpts.ConnectPoints = false
	}
	if opts.NoCircles {
		composeOpts.DrawCircles = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("points", set.Len()).
		Int("layers", len(catalog.Active())).
		Str("data_dir", cfg.DataDir).
		Msg("Starting composition")

	composer := compose.New(composeOpts, source.NewLoader(cfg.DataDir, nil))
	res := composer.Compose(ctx, set, catalog)

	if !opts.NoSummary {
		if err := res.Summary(os.Stdout); err != nil {
			log.Error().Err(err).Msg("Failed to print summary")
		}
	}

	outputs := outputPaths(opts.Out, cfg.Outputs)

	failed := 0
	for _, path := range outputs {
		if err := render.WriteFile(path, res); err != nil {
			log.Error().Err(err).Str("path", path).Msg("Failed to write output")
			failed++
		}
	}

	log.Info().
		Int("passes", len(res.Passes)).
		Int("warnings", len(res.Warnings)).
		Int("outputs", len(outputs)-failed).
		Msg("Tracemap finished")

	if failed > 0 {
		os.Exit(1)
	}
}

// toggle stops at the first unknown layer name.
func toggle(catalog *layer.Catalog, names []string, enabled bool) error {
	for _, name := range names {
		if err := catalog.SetEnabled(name, enabled); err != nil {
			return err
		}
	}
	return nil
}

// outputPaths picks flag outputs over config outputs, falling back to map.html.
func outputPaths(flagOut, cfgOut []string) []string {
	if len(flagOut) > 0 {
		return flagOut
	}
	if len(cfgOut) > 0 {
		return cfgOut
	}
	return []string{"map.html"}
}

func printLayers(catalog *layer.Catalog) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tCATEGORY\tRANK\tENABLED\tSOURCE")
	for _, l := range catalog.Layers() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%t\t%s\n", l.Name, l.Category, l.Rank, l.Enabled, l.Source)
	}
	_ = tw.Flush()
}
