package compose

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/woozymasta/tracemap/internal/geo"
	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-polyline"
)

// DefaultCircleRadiusMiles is 10 km, the emphasis ring drawn around points.
const DefaultCircleRadiusMiles = 10 * geo.MilesPerKilometer

var errNoLoader = errors.New("no loader configured")

// Options control the optional passes of a composition.
type Options struct {
	MarkerColor       string
	PathStyle         layer.Style
	CircleRadiusMiles float64
	Concurrency       int // parallel layer loads
	ConnectPoints     bool
	DrawCircles       bool
}

// DefaultOptions returns the options of the classic map: blue connecting
// path and 10 km circles.
func DefaultOptions() Options {
	return Options{
		MarkerColor:       "blue",
		PathStyle:         layer.Style{Color: "blue", LineWidth: 2.5, Opacity: 1},
		CircleRadiusMiles: DefaultCircleRadiusMiles,
		Concurrency:       4,
		ConnectPoints:     true,
		DrawCircles:       true,
	}
}

// Composer builds composition results. It holds no per-run state and can
// be reused.
type Composer struct {
	loader layer.Loader
	opts   Options
}

// New returns a composer. loader is used for layers that do not carry a
// loader of their own and may be nil.
func New(opts Options, loader layer.Loader) *Composer {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.CircleRadiusMiles <= 0 {
		opts.CircleRadiusMiles = DefaultCircleRadiusMiles
	}
	return &Composer{opts: opts, loader: loader}
}

// Options returns the effective options.
func (c *Composer) Options() Options { return c.opts }

type loadResult struct {
	err error
	fc  *geojson.FeatureCollection
}

// Compose resolves the active layers of catalog, loads them and returns the
// ordered passes: layers in catalog order, then one marker per coordinate,
// the optional path and circles, and one distance annotation per pair.
// Layer load failures are recorded as warnings and never abort the run.
func (c *Composer) Compose(ctx context.Context, set *geo.CoordinateSet, catalog *layer.Catalog) *Result {
	if set == nil {
		set = &geo.CoordinateSet{}
	}

	var active []layer.Layer
	if catalog != nil {
		active = catalog.Active()
	}

	res := &Result{
		Points:    set.All(),
		Distances: set.Matrix(),
	}

	loaded := c.loadAll(ctx, active)
	for i, l := range active {
		r := loaded[i]
		if r.err != nil {
			var loadErr *layer.LayerLoadError
			if !errors.As(r.err, &loadErr) {
				r.err = &layer.LayerLoadError{Layer: l.Name, Source: l.Source, Err: r.err}
			}
			log.Warn().Err(r.err).Str("layer", l.Name).Msg("Layer skipped")
			res.Warnings = append(res.Warnings, r.err)
			continue
		}
		res.Passes = append(res.Passes, layerPass(l, r.fc))
	}

	c.pointPasses(res, set)

	log.Debug().
		Int("layers", len(active)).
		Int("passes", len(res.Passes)).
		Int("warnings", len(res.Warnings)).
		Int("points", set.Len()).
		Msg("Composition finished")

	return res
}

// loadAll fans the loads out to a bounded worker pool and returns results
// indexed like layers, so rendering keeps the catalog order.
func (c *Composer) loadAll(ctx context.Context, layers []layer.Layer) []loadResult {
	results := make([]loadResult, len(layers))
	if len(layers) == 0 {
		return results
	}

	jobs := make(chan int, len(layers))
	for i := range layers {
		jobs <- i
	}
	close(jobs)

	workers := min(c.opts.Concurrency, len(layers))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fc, err := c.load(ctx, layers[i])
				results[i] = loadResult{fc: fc, err: err}
			}
		}()
	}
	wg.Wait()

	return results
}

func (c *Composer) load(ctx context.Context, l layer.Layer) (fc *geojson.FeatureCollection, err error) {
	loader := l.Loader
	if loader == nil {
		loader = c.loader
	}
	if loader == nil {
		return nil, &layer.LayerLoadError{Layer: l.Name, Source: l.Source, Err: errNoLoader}
	}

	// a panicking collaborator must not take the composition down
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("loader panic: %v", p)
		}
	}()

	fc, err = loader.Load(ctx, l)
	if err == nil && fc == nil {
		fc = geojson.NewFeatureCollection()
	}
	return fc, err
}

func layerPass(l layer.Layer, fc *geojson.FeatureCollection) Pass {
	p := Pass{
		Kind:     PassLayer,
		Name:     l.Name,
		Title:    l.DisplayName(),
		Category: l.Category,
		Style:    l.Style,
		Features: fc,
	}
	if l.Category == layer.LabelSource {
		p.Kind = PassLabels
		p.Labels = labels(fc, l.LabelKey)
	}
	return p
}

// labels places the LabelKey property of each feature at the feature's
// planar centroid.
func labels(fc *geojson.FeatureCollection, key string) []Label {
	if key == "" {
		key = "name"
	}

	var out []Label
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		text, ok := f.Properties[key].(string)
		if !ok || text == "" {
			continue
		}
		center, _ := planar.CentroidArea(f.Geometry)
		out = append(out, Label{Text: text, Point: center})
	}
	return out
}

func (c *Composer) pointPasses(res *Result, set *geo.CoordinateSet) {
	for _, pt := range res.Points {
		color := pt.Color()
		if color == "" {
			color = c.opts.MarkerColor
		}
		res.Passes = append(res.Passes, Pass{
			Kind:     PassMarker,
			Name:     pt.Name(),
			Text:     pt.Label(),
			Geometry: pt.Point(),
			Style:    layer.Style{Color: color},
		})
	}

	if c.opts.ConnectPoints && len(res.Points) >= 2 {
		line := make(orb.LineString, 0, len(res.Points))
		coords := make([][]float64, 0, len(res.Points))
		for _, pt := range res.Points {
			line = append(line, pt.Point())
			coords = append(coords, []float64{pt.Lat(), pt.Lon()})
		}
		res.Passes = append(res.Passes, Pass{
			Kind:     PassPath,
			Name:     "path",
			Geometry: line,
			Polyline: string(polyline.EncodeCoords(coords)),
			Style:    c.opts.PathStyle,
		})
	}

	if c.opts.DrawCircles {
		for _, pt := range res.Points {
			color := pt.Color()
			if color == "" {
				color = c.opts.MarkerColor
			}
			res.Passes = append(res.Passes, Pass{
				Kind:     PassCircle,
				Name:     pt.Name(),
				Geometry: orb.Polygon{geo.Circle(pt.Lon(), pt.Lat(), c.opts.CircleRadiusMiles)},
				Style:    layer.Style{Color: color, LineWidth: 1},
			})
		}
	}

	for _, e := range res.Distances.Entries() {
		lon, lat := set.Midpoint(e.I, e.J)
		res.Passes = append(res.Passes, Pass{
			Kind:     PassAnnotation,
			Name:     res.Points[e.I].Name() + " - " + res.Points[e.J].Name(),
			Text:     FormatMiles(e.Miles),
			Geometry: orb.Point{lon, lat},
		})
	}
}

// FormatMiles renders a distance with two decimals.
func FormatMiles(mi float64) string {
	return fmt.Sprintf("%.2f miles", mi)
}
