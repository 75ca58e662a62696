// Package config handles configuration loading and converts it into the
// coordinate set, layer catalog and composition options.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/woozymasta/tracemap/internal/compose"
	"github.com/woozymasta/tracemap/internal/dashboard"
	"github.com/woozymasta/tracemap/internal/geo"
	"github.com/woozymasta/tracemap/internal/layer"
	"github.com/woozymasta/tracemap/internal/source"

	"github.com/paulmach/orb/geojson"
	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Weather Weather  `yaml:"weather,omitempty" json:"weather,omitempty"`
	DataDir string   `yaml:"data_dir,omitempty" json:"data_dir,omitempty"`
	Points  []Point  `yaml:"points" json:"points"`
	Layers  []Layer  `yaml:"layers,omitempty" json:"layers,omitempty"`
	Outputs []string `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Options Options  `yaml:"options,omitempty" json:"options,omitempty"`

	// NoDefaultLayers starts the catalog empty instead of from the built-in overlays.
	NoDefaultLayers bool `yaml:"no_default_layers,omitempty" json:"no_default_layers,omitempty"`
}

// Point is one named coordinate.
type Point struct {
	Name  string  `yaml:"name" json:"name"`
	Color string  `yaml:"color,omitempty" json:"color,omitempty"`
	Lon   float64 `yaml:"lon" json:"lon"`
	Lat   float64 `yaml:"lat" json:"lat"`
}

// Layer overrides a built-in layer with the same name or defines a new one.
// Unset fields of an override keep the built-in value.
type Layer struct {
	Enabled  *bool         `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Rank     *int          `yaml:"rank,omitempty" json:"rank,omitempty"`
	Style    *layer.Style  `yaml:"style,omitempty" json:"style,omitempty"`
	Filter   *layer.Filter `yaml:"filter,omitempty" json:"filter,omitempty"`
	Name     string        `yaml:"name" json:"name"`
	Title    string        `yaml:"title,omitempty" json:"title,omitempty"`
	Category string        `yaml:"category,omitempty" json:"category,omitempty"`
	Source   string        `yaml:"source,omitempty" json:"source,omitempty"`
	LabelKey string        `yaml:"label_key,omitempty" json:"label_key,omitempty"`

	// defining GeoJSON directly in config.yaml
	GeoJSON yaml.Node `yaml:"geojson,omitempty" json:"-"`
}

// Options mirror compose.Options. Nil pointers keep the defaults.
type Options struct {
	ConnectPoints     *bool        `yaml:"connect_points,omitempty" json:"connect_points,omitempty"`
	DrawCircles       *bool        `yaml:"circles,omitempty" json:"circles,omitempty"`
	Path              *layer.Style `yaml:"path,omitempty" json:"path,omitempty"`
	MarkerColor       string       `yaml:"marker_color,omitempty" json:"marker_color,omitempty"`
	CircleRadiusMiles float64      `yaml:"circle_radius_miles,omitempty" json:"circle_radius_miles,omitempty"`
	Concurrency       int          `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
}

// Weather holds OpenWeatherMap settings.
type Weather struct {
	APIKey  string        `yaml:"api_key,omitempty" json:"-"`
	BaseURL string        `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Default returns the configuration used when no file is given: the two
// reference points of the dashboard and the built-in layers.
func Default() *Config {
	q := dashboard.DefaultQuery
	return &Config{
		Points: []Point{
			{Name: "Seattle", Lon: q.Lon1, Lat: q.Lat1},
			{Name: "Mountain View", Lon: q.Lon2, Lat: q.Lat2},
		},
	}
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML configuration. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// CoordinateSet builds the points in file order.
func (c *Config) CoordinateSet() (*geo.CoordinateSet, error) {
	set := &geo.CoordinateSet{}
	for i, p := range c.Points {
		if err := set.AddPoint(p.Name, p.Lon, p.Lat, p.Color); err != nil {
			return nil, fmt.Errorf("points[%d]: %w", i, err)
		}
	}
	return set, nil
}

// Catalog builds the layer catalog: built-in layers first, then the
// configured overrides and additions in file order.
func (c *Config) Catalog() (*layer.Catalog, error) {
	var cat *layer.Catalog
	if c.NoDefaultLayers {
		cat = layer.NewCatalog()
	} else {
		cat = layer.NewCatalog(layer.DefaultLayers()...)
	}

	for i, lc := range c.Layers {
		if lc.Name == "" {
			return nil, fmt.Errorf("layers[%d]: missing name", i)
		}

		base, exists := cat.Get(lc.Name)
		if !exists {
			base = layer.Layer{Name: lc.Name, Enabled: true}
			if lc.Category == "" {
				return nil, fmt.Errorf("layers[%d] %q: category is required for new layers", i, lc.Name)
			}
		}

		l, err := lc.apply(base)
		if err != nil {
			return nil, fmt.Errorf("layers[%d] %q: %w", i, lc.Name, err)
		}
		cat.Register(l)
	}

	return cat, nil
}

func (lc Layer) apply(l layer.Layer) (layer.Layer, error) {
	if lc.Category != "" {
		cat, err := layer.ParseCategory(lc.Category)
		if err != nil {
			return l, err
		}
		l.Category = cat
	}
	if lc.Title != "" {
		l.Title = lc.Title
	}
	if lc.Source != "" {
		l.Source = lc.Source
		l.Loader = nil
	}
	if lc.LabelKey != "" {
		l.LabelKey = lc.LabelKey
	}
	if lc.Rank != nil {
		l.Rank = *lc.Rank
	}
	if lc.Enabled != nil {
		l.Enabled = *lc.Enabled
	}
	if lc.Style != nil {
		l.Style = *lc.Style
	}
	if lc.Filter != nil {
		l.Filter = lc.Filter
	}

	if !lc.GeoJSON.IsZero() {
		fc, err := decodeInline(&lc.GeoJSON)
		if err != nil {
			return l, err
		}
		l.Source = "inline"
		l.Loader = source.Inline(fc)
	}
	return l, nil
}

// decodeInline converts an inline YAML GeoJSON object through JSON, which is
// what the geometry decoder understands.
func decodeInline(n *yaml.Node) (*geojson.FeatureCollection, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, fmt.Errorf("inline geojson: %w", err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("inline geojson: %w", err)
	}
	return source.Decode(data)
}

// ComposeOptions applies the configured options over compose.DefaultOptions.
func (c *Config) ComposeOptions() compose.Options {
	opts := compose.DefaultOptions()
	o := c.Options

	if o.ConnectPoints != nil {
		opts.ConnectPoints = *o.ConnectPoints
	}
	if o.DrawCircles != nil {
		opts.DrawCircles = *o.DrawCircles
	}
	if o.Path != nil {
		opts.PathStyle = *o.Path
	}
	if o.MarkerColor != "" {
		opts.MarkerColor = o.MarkerColor
	}
	if o.CircleRadiusMiles > 0 {
		opts.CircleRadiusMiles = o.CircleRadiusMiles
	}
	if o.Concurrency > 0 {
		opts.Concurrency = o.Concurrency
	}
	return opts
}
