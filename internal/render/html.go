package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"sync"

	"github.com/woozymasta/tracemap/internal/compose"
	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/paulmach/orb/geojson"
)

//go:embed assets
var assets embed.FS

// HTML writes a standalone Leaflet page. Every pass becomes an overlay that
// can be toggled from the layer control.
type HTML struct {
	Title  string
	Minify bool
}

// NewHTML returns the default HTML sink.
func NewHTML() HTML {
	return HTML{Title: "tracemap", Minify: true}
}

type pageAssets struct {
	tmpl *template.Template
	css  template.CSS
	js   template.JS
	icon template.URL
	svg  string
}

var loadAssets = sync.OnceValues(func() (*pageAssets, error) {
	tmpl, err := template.ParseFS(assets, "assets/map.html.tpl")
	if err != nil {
		return nil, fmt.Errorf("parse map template: %w", err)
	}

	read := func(name, media string) (string, error) {
		raw, err := assets.ReadFile("assets/" + name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		out, err := Minify(media, string(raw))
		if err != nil {
			return "", fmt.Errorf("minify %s: %w", name, err)
		}
		return out, nil
	}

	cssMin, err := read("map.css", MediaCSS)
	if err != nil {
		return nil, err
	}
	jsMin, err := read("map.js", MediaJS)
	if err != nil {
		return nil, err
	}
	svgMin, err := read("marker.svg", MediaSVG)
	if err != nil {
		return nil, err
	}

	return &pageAssets{
		tmpl: tmpl,
		css:  template.CSS(cssMin),
		js:   template.JS(jsMin),
		icon: template.URL("data:image/svg+xml," + url.PathEscape(svgMin)),
		svg:  svgMin,
	}, nil
})

// Icon returns the minified SVG marker used as the page icon.
func Icon() ([]byte, error) {
	a, err := loadAssets()
	if err != nil {
		return nil, err
	}
	return []byte(a.svg), nil
}

type pageData struct {
	Title string
	Icon  template.URL
	CSS   template.CSS
	JS    template.JS
	Data  mapData
}

type mapData struct {
	Passes []mapPass     `json:"passes"`
	Bounds [2][2]float64 `json:"bounds"` // [[south, west], [north, east]]
}

type mapPass struct {
	GeoJSON json.RawMessage `json:"geojson,omitempty"`
	Kind    string          `json:"kind"`
	Name    string          `json:"name"`
	Title   string          `json:"title,omitempty"`
	Text    string          `json:"text,omitempty"`
	Labels  []mapLabel      `json:"labels,omitempty"`
	Style   layer.Style     `json:"style"`
}

type mapLabel struct {
	Text string  `json:"text"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Write renders the page for res.
func (h HTML) Write(w io.Writer, res *compose.Result) error {
	a, err := loadAssets()
	if err != nil {
		return err
	}

	data, err := newMapData(res)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = a.tmpl.Execute(&buf, pageData{
		Title: h.Title,
		Icon:  a.icon,
		CSS:   a.css,
		JS:    a.js,
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("execute map template: %w", err)
	}

	page := buf.String()
	if h.Minify {
		if page, err = Minify(MediaHTML, page); err != nil {
			return fmt.Errorf("minify page: %w", err)
		}
	}

	_, err = io.WriteString(w, page)
	return err
}

func newMapData(res *compose.Result) (mapData, error) {
	b := res.Bound()
	data := mapData{
		Bounds: [2][2]float64{{b.Min[1], b.Min[0]}, {b.Max[1], b.Max[0]}},
		Passes: make([]mapPass, 0, len(res.Passes)),
	}

	for _, p := range res.Passes {
		mp := mapPass{
			Kind:  p.Kind.String(),
			Name:  p.Name,
			Title: p.Title,
			Text:  p.Text,
			Style: p.Style,
		}

		var raw []byte
		var err error
		switch {
		case p.Kind == compose.PassLabels:
			// labels are placed from Labels, the source polygons stay out of the page
		case p.Features != nil:
			raw, err = json.Marshal(p.Features)
		case p.Geometry != nil:
			raw, err = json.Marshal(geojson.NewGeometry(p.Geometry))
		}
		if err != nil {
			return mapData{}, fmt.Errorf("encode pass %q: %w", p.Name, err)
		}
		mp.GeoJSON = raw

		for _, l := range p.Labels {
			mp.Labels = append(mp.Labels, mapLabel{Text: l.Text, Lon: l.Point[0], Lat: l.Point[1]})
		}
		data.Passes = append(data.Passes, mp)
	}
	return data, nil
}
