package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/tracemap/internal/compose"
	"github.com/woozymasta/tracemap/internal/config"
	"github.com/woozymasta/tracemap/internal/dashboard"
	"github.com/woozymasta/tracemap/internal/enrich"
	"github.com/woozymasta/tracemap/internal/logger"
	"github.com/woozymasta/tracemap/internal/server"
	"github.com/woozymasta/tracemap/internal/source"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Weather struct {
		APIKey  string        `long:"weather-api-key"  env:"OPENWEATHER_API_KEY"  description:"OpenWeatherMap API key"`
		BaseURL string        `long:"weather-base-url" env:"OPENWEATHER_BASE_URL" description:"OpenWeatherMap API base URL"`
		Timeout time.Duration `long:"weather-timeout"  env:"OPENWEATHER_TIMEOUT"  description:"Timeout of one weather lookup"`
	} `group:"Weather options"`

	ConfigFile string `short:"c" long:"config"   env:"CONFIG_FILE"    description:"Path to configuration file, built-in points when empty"`
	DataDir    string `short:"d" long:"data-dir" env:"DATA_DIR"       description:"Directory with layer GeoJSON files"`
	Title      string `short:"t" long:"title"    env:"TITLE"          description:"Page title"                 default:"tracemap"`
	Addr       string `short:"a" long:"addr"     env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"     env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
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

	// Setup Logging
	opts.Logger.Setup()
	if envErr == nil {
		log.Debug().Msg("Environment loaded from .env")
	}

	// Load Config
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	set, err := cfg.CoordinateSet()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid points")
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid layers")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := compose.New(cfg.ComposeOptions(), source.NewLoader(cfg.DataDir, nil)).Compose(ctx, set, catalog)

	surface := dashboard.NewSurface(weatherClient(opts, cfg.Weather))

	srvCtx, err := server.NewServerContext(opts.Title, res, catalog, surface)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().
		Str("addr", listenAddr).
		Int("points", set.Len()).
		Int("passes", len(res.Passes)).
		Int("warnings", len(res.Warnings)).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Web server stopped")
}

// weatherClient merges flag and file settings, flags win. Without an API
// key every lookup reports unavailable.
func weatherClient(opts Options, w config.Weather) enrich.Enricher {
	apiKey, baseURL, timeout := w.APIKey, w.BaseURL, w.Timeout
	if opts.Weather.APIKey != "" {
		apiKey = opts.Weather.APIKey
	}
	if opts.Weather.BaseURL != "" {
		baseURL = opts.Weather.BaseURL
	}
	if opts.Weather.Timeout > 0 {
		timeout = opts.Weather.Timeout
	}

	if apiKey == "" {
		log.Warn().Msg("No weather API key configured, weather will be unavailable")
	}

	return enrich.NewWeatherClientWithHTTPDoer(apiKey, baseURL, &http.Client{}).WithTimeout(timeout)
}
