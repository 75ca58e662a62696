// Package layer defines renderable map overlays and the catalog that decides
// which of them are drawn and in what order.
package layer

import (
	"context"
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Category groups layers by how they are painted. The numeric order is the
// paint order: boundaries first, labels last.
type Category int

const (
	Boundary Category = iota
	AreaFill
	LinearFeature
	LabelSource
)

var categoryNames = [...]string{
	Boundary:      "boundary",
	AreaFill:      "area-fill",
	LinearFeature: "linear-feature",
	LabelSource:   "label-source",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory parses a category name as written in config files.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layer category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Rank values order layers of one category from coarsest to finest.
const (
	RankWorld    = 0
	RankCountry  = 10
	RankState    = 20
	RankCounty   = 30
	RankTimeZone = 40
)

// Style describes how a layer is painted. Colors are CSS names or #rrggbb.
type Style struct {
	Color     string  `yaml:"color,omitempty" json:"color,omitempty"`
	FillColor string  `yaml:"fill,omitempty" json:"fill,omitempty"`
	LineWidth float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Opacity   float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
}

// Loader produces the geometry of a layer.
type Loader interface {
	Load(ctx context.Context, l Layer) (*geojson.FeatureCollection, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, l Layer) (*geojson.FeatureCollection, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, l Layer) (*geojson.FeatureCollection, error) {
	return f(ctx, l)
}

// Layer is one renderable overlay.
type Layer struct {
	Loader   Loader   `json:"-"`
	Filter   *Filter  `json:"filter,omitempty"`
	Name     string   `json:"name"`
	Title    string   `json:"title,omitempty"`
	Source   string   `json:"source,omitempty"`
	LabelKey string   `json:"label_key,omitempty"` // feature property used by label-source layers
	Style    Style    `json:"style"`
	Category Category `json:"category"`
	Rank     int      `json:"rank"`
	Enabled  bool     `json:"enabled"`
}

// Filter keeps only features whose property Key equals Value.
type Filter struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// DisplayName returns Title, or Name when no title is set.
func (l Layer) DisplayName() string {
	if l.Title != "" {
		return l.Title
	}
	return l.Name
}
