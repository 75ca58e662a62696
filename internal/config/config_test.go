package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/woozymasta/tracemap/internal/geo"
	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
data_dir: ./data
points:
  - name: Seattle
    lon: -122.33
    lat: 47.6038
  - name: Mountain View
    lon: -122.0832
    lat: 37.3893
    color: red
outputs: [map.html, map.png]
options:
  connect_points: false
  circle_radius_miles: 3
  concurrency: 2
  path:
    color: green
    width: 4
weather:
  api_key: secret
  timeout: 5s
layers:
  - name: us-counties
    enabled: false
  - name: world
    style:
      color: gray
      width: 0.5
  - name: hops
    title: Hop regions
    category: area-fill
    rank: 3
    style:
      fill: orange
    geojson:
      type: FeatureCollection
      features:
        - type: Feature
          properties:
            name: lab
          geometry:
            type: Polygon
            coordinates: [[[-122, 47], [-121, 47], [-121, 48], [-122, 47]]]
`

func TestDecode(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, []string{"map.html", "map.png"}, cfg.Outputs)
	assert.Equal(t, "secret", cfg.Weather.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Weather.Timeout)
	require.Len(t, cfg.Points, 2)
	assert.Equal(t, Point{Name: "Mountain View", Lon: -122.0832, Lat: 37.3893, Color: "red"}, cfg.Points[1])
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("pionts: []\n"))
	assert.Error(t, err)
}

func TestDecodeEmpty(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Points)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Layers, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCoordinateSet(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	set, err := cfg.CoordinateSet()
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, "red", set.At(1).Color())
	assert.InDelta(t, 705.87, set.Matrix().Between(0, 1), 0.01)
}

func TestCoordinateSetErrors(t *testing.T) {
	cfg := &Config{Points: []Point{{Name: "a", Lon: 1, Lat: 1}, {Name: "b", Lon: 200, Lat: 1}}}
	_, err := cfg.CoordinateSet()
	assert.ErrorIs(t, err, geo.ErrInvalidRange)
	assert.Contains(t, err.Error(), "points[1]")

	cfg = &Config{Points: []Point{{Name: "a"}, {Name: "a"}}}
	_, err = cfg.CoordinateSet()
	assert.ErrorIs(t, err, geo.ErrDuplicateName)
}

func TestCatalog(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	cat, err := cfg.Catalog()
	require.NoError(t, err)

	counties, ok := cat.Get("us-counties")
	require.True(t, ok)
	assert.False(t, counties.Enabled)
	assert.Equal(t, "purple", counties.Style.Color, "override keeps unset fields")

	world, ok := cat.Get("world")
	require.True(t, ok)
	assert.Equal(t, layer.Style{Color: "gray", LineWidth: 0.5}, world.Style)
	assert.Equal(t, layer.Boundary, world.Category)

	hops, ok := cat.Get("hops")
	require.True(t, ok)
	assert.Equal(t, layer.AreaFill, hops.Category)
	assert.Equal(t, 3, hops.Rank)
	assert.True(t, hops.Enabled)
	assert.Equal(t, "inline", hops.Source)
	require.NotNil(t, hops.Loader)

	fc, err := hops.Loader.Load(context.Background(), hops)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "lab", fc.Features[0].Properties.MustString("name"))

	// built-ins first, additions after
	all := cat.Layers()
	assert.Equal(t, "hops", all[len(all)-1].Name)
	assert.Len(t, all, len(layer.DefaultLayers())+1)
}

func TestCatalogErrors(t *testing.T) {
	tests := map[string]string{
		"missing name":     "layers:\n  - category: boundary\n",
		"missing category": "layers:\n  - name: extra\n",
		"bad category":     "layers:\n  - name: extra\n    category: volcano\n",
		"bad geojson":      "layers:\n  - name: extra\n    category: boundary\n    geojson: {features: []}\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(doc))
			require.NoError(t, err)
			_, err = cfg.Catalog()
			assert.Error(t, err)
		})
	}
}

func TestCatalogNoDefaults(t *testing.T) {
	cfg := &Config{NoDefaultLayers: true}
	cat, err := cfg.Catalog()
	require.NoError(t, err)
	assert.Empty(t, cat.Layers())
}

func TestComposeOptions(t *testing.T) {
	cfg, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	opts := cfg.ComposeOptions()
	assert.False(t, opts.ConnectPoints)
	assert.True(t, opts.DrawCircles)
	assert.Equal(t, 3.0, opts.CircleRadiusMiles)
	assert.Equal(t, 2, opts.Concurrency)
	assert.Equal(t, "blue", opts.MarkerColor)
	assert.Equal(t, layer.Style{Color: "green", LineWidth: 4}, opts.PathStyle)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	set, err := cfg.CoordinateSet()
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, "Seattle", set.At(0).Name())
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("Seattle, -122.33, 47.6038")
	require.NoError(t, err)
	assert.Equal(t, Point{Name: "Seattle", Lon: -122.33, Lat: 47.6038}, p)

	p, err = ParsePoint("hop 3,-121.5,45,red")
	require.NoError(t, err)
	assert.Equal(t, "red", p.Color)
	assert.Equal(t, "hop 3", p.Name)

	for _, bad := range []string{"", "a,1", "a,x,1", "a,1,y", "a,1,2,red,extra"} {
		_, err := ParsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	_, err = cfg.CoordinateSet()
	require.NoError(t, err)

	cat, err := cfg.Catalog()
	require.NoError(t, err)

	usOnly, ok := cat.Get("us-only")
	require.True(t, ok)
	require.NotNil(t, usOnly.Filter)
	assert.Equal(t, layer.Filter{Key: "iso_a3", Value: "USA"}, *usOnly.Filter)

	ranges, _ := cat.Get("mountain-ranges")
	assert.True(t, ranges.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Weather.Timeout)
}
