// Package compose assembles coordinates and catalog layers into an ordered
// list of render passes.
package compose

import (
	"github.com/woozymasta/tracemap/internal/geo"
	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// PassKind identifies what a render pass draws.
type PassKind int

const (
	PassLayer PassKind = iota
	PassLabels
	PassMarker
	PassPath
	PassCircle
	PassAnnotation
)

var passKindNames = [...]string{
	PassLayer:      "layer",
	PassLabels:     "labels",
	PassMarker:     "marker",
	PassPath:       "path",
	PassCircle:     "circle",
	PassAnnotation: "annotation",
}

func (k PassKind) String() string {
	if k < 0 || int(k) >= len(passKindNames) {
		return "unknown"
	}
	return passKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k PassKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Label is a text placed at a point.
type Label struct {
	Text  string
	Point orb.Point
}

// Pass is one step of the painter's algorithm. Layer passes carry Features,
// label passes carry Labels, point passes carry Geometry and Text.
type Pass struct {
	Geometry orb.Geometry
	Features *geojson.FeatureCollection
	Name     string
	Title    string
	Text     string
	Polyline string // encoded polyline of a path pass
	Labels   []Label
	Style    layer.Style
	Kind     PassKind
	Category layer.Category
}

// Result is the outcome of one composition. It is not modified after
// Compose returns.
type Result struct {
	Passes    []Pass
	Points    []geo.Coordinate
	Warnings  []error
	Distances geo.DistanceMatrix
}

// Count returns the number of passes of kind k.
func (r *Result) Count(k PassKind) int {
	n := 0
	for _, p := range r.Passes {
		if p.Kind == k {
			n++
		}
	}
	return n
}

// Of returns the passes of kind k in paint order.
func (r *Result) Of(k PassKind) []Pass {
	var out []Pass
	for _, p := range r.Passes {
		if p.Kind == k {
			out = append(out, p)
		}
	}
	return out
}

// Bound returns the extent of the points, or of everything drawn when
// there are no points. An empty result yields the whole world.
func (r *Result) Bound() orb.Bound {
	var b orb.Bound
	found := false
	extend := func(g orb.Bound) {
		if !found {
			b, found = g, true
			return
		}
		b = b.Union(g)
	}

	for _, c := range r.Points {
		extend(c.Point().Bound())
	}
	if !found {
		for _, p := range r.Passes {
			switch {
			case p.Features != nil:
				for _, f := range p.Features.Features {
					if f.Geometry != nil {
						extend(f.Geometry.Bound())
					}
				}
			case p.Geometry != nil:
				extend(p.Geometry.Bound())
			}
		}
	}

	if !found {
		return orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}
	}
	return b
}
