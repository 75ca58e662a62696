package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/woozymasta/tracemap/internal/compose"

	"github.com/paulmach/orb/geojson"
)

// GeoJSON writes all passes as one flat FeatureCollection. Each feature
// carries the pass it came from in its properties.
type GeoJSON struct{}

// Write encodes res as a GeoJSON FeatureCollection.
func (GeoJSON) Write(w io.Writer, res *compose.Result) error {
	b, err := json.Marshal(FeatureCollection(res))
	if err != nil {
		return fmt.Errorf("encode geojson: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// FeatureCollection flattens res. Layer features are copied, the result is
// left untouched.
func FeatureCollection(res *compose.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i, p := range res.Passes {
		tag := func(f *geojson.Feature) {
			f.Properties["pass"] = i
			f.Properties["kind"] = p.Kind.String()
			f.Properties["layer"] = p.Name
			if p.Style.Color != "" {
				f.Properties["stroke"] = p.Style.Color
			}
			if p.Style.FillColor != "" {
				f.Properties["fill"] = p.Style.FillColor
			}
			if p.Style.LineWidth > 0 {
				f.Properties["stroke-width"] = p.Style.LineWidth
			}
			fc.Append(f)
		}

		switch {
		case p.Kind == compose.PassLabels:
			for _, l := range p.Labels {
				f := geojson.NewFeature(l.Point)
				f.Properties["label"] = l.Text
				tag(f)
			}
		case p.Features != nil:
			for _, src := range p.Features.Features {
				f := geojson.NewFeature(src.Geometry)
				f.ID = src.ID
				if src.Properties != nil {
					f.Properties = src.Properties.Clone()
				}
				tag(f)
			}
		case p.Geometry != nil:
			f := geojson.NewFeature(p.Geometry)
			if p.Text != "" {
				f.Properties["text"] = p.Text
			}
			if p.Polyline != "" {
				f.Properties["polyline"] = p.Polyline
			}
			tag(f)
		}
	}
	return fc
}
