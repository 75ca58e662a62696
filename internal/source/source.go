// Package source loads layer geometry from GeoJSON files and URLs.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// ErrNoSource is returned for layers without a configured source.
var ErrNoSource = errors.New("layer has no source")

// Loader reads GeoJSON layer sources from disk or over HTTP.
// It implements layer.Loader.
type Loader struct {
	client  *http.Client
	baseDir string
}

// NewLoader returns a loader resolving relative paths against baseDir.
// A nil client gets a default one with a 30 second timeout.
func NewLoader(baseDir string, client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{baseDir: baseDir, client: client}
}

// Load reads l.Source and applies l.Filter. Every failure is returned as
// a *layer.LayerLoadError.
func (s *Loader) Load(ctx context.Context, l layer.Layer) (*geojson.FeatureCollection, error) {
	if l.Source == "" {
		return nil, &layer.LayerLoadError{Layer: l.Name, Err: ErrNoSource}
	}

	data, err := s.read(ctx, l.Source)
	if err != nil {
		return nil, &layer.LayerLoadError{Layer: l.Name, Source: l.Source, Err: err}
	}

	fc, err := Decode(data)
	if err != nil {
		return nil, &layer.LayerLoadError{Layer: l.Name, Source: l.Source, Err: err}
	}

	if l.Filter != nil {
		fc = Filter(fc, l.Filter.Key, l.Filter.Value)
	}

	log.Debug().
		Str("layer", l.Name).
		Str("source", l.Source).
		Int("features", len(fc.Features)).
		Msg("Layer source loaded")

	return fc, nil
}

func (s *Loader) read(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return s.fetch(ctx, src)
	}

	path := src
	if !filepath.IsAbs(path) && s.baseDir != "" {
		path = filepath.Join(s.baseDir, path)
	}
	return os.ReadFile(path)
}

func (s *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Decode parses a GeoJSON FeatureCollection, a single Feature or a bare
// geometry into a feature collection.
func Decode(data []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		return fc, nil

	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		return geojson.NewFeatureCollection().Append(f), nil

	case "":
		return nil, fmt.Errorf("decode geojson: missing type member")

	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		return geojson.NewFeatureCollection().Append(geojson.NewFeature(g.Geometry())), nil
	}
}

// Filter returns the features whose property key equals value.
func Filter(fc *geojson.FeatureCollection, key, value string) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	for _, f := range fc.Features {
		if v, ok := f.Properties[key]; ok && fmt.Sprint(v) == value {
			out.Append(f)
		}
	}
	return out
}

// Inline returns a loader serving a fixed feature collection, used for
// layers defined directly in config.
func Inline(fc *geojson.FeatureCollection) layer.Loader {
	return layer.LoaderFunc(func(_ context.Context, l layer.Layer) (*geojson.FeatureCollection, error) {
		if fc == nil {
			return nil, &layer.LayerLoadError{Layer: l.Name, Source: "inline", Err: ErrNoSource}
		}
		if l.Filter != nil {
			return Filter(fc, l.Filter.Key, l.Filter.Value), nil
		}
		return fc, nil
	})
}
