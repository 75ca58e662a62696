package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/woozymasta/tracemap/internal/compose"
	"github.com/woozymasta/tracemap/internal/dashboard"
	"github.com/woozymasta/tracemap/internal/layer"
	"github.com/woozymasta/tracemap/internal/render"

	"github.com/rs/zerolog/log"
)

//go:embed assets
var assets embed.FS

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Surface   *dashboard.Surface
	Catalog   *layer.Catalog
	Result    *compose.Result
	Built     time.Time
	IndexHTML []byte
	MapHTML   []byte
	Favicon   []byte
}

// NewServerContext renders the composed map and the dashboard page once.
// Both are served from memory afterwards.
func NewServerContext(title string, res *compose.Result, catalog *layer.Catalog, surface *dashboard.Surface) (*ServerContext, error) {
	log.Info().
		Int("passes", len(res.Passes)).
		Int("warnings", len(res.Warnings)).
		Msg("Initializing server context")

	var mapBuf bytes.Buffer
	if err := (render.HTML{Title: title, Minify: true}).Write(&mapBuf, res); err != nil {
		return nil, fmt.Errorf("render map: %w", err)
	}

	index, err := indexPage(title, dashboard.DefaultQuery)
	if err != nil {
		return nil, err
	}

	icon, err := render.Icon()
	if err != nil {
		return nil, err
	}

	if surface == nil {
		surface = dashboard.NewSurface(nil)
	}
	if catalog == nil {
		catalog = layer.NewCatalog()
	}

	log.Debug().
		Int("index_bytes", len(index)).
		Int("map_bytes", mapBuf.Len()).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Surface:   surface,
		Catalog:   catalog,
		Result:    res,
		Built:     time.Now(),
		IndexHTML: index,
		MapHTML:   mapBuf.Bytes(),
		Favicon:   icon,
	}, nil
}

type indexData struct {
	Title string
	CSS   template.CSS
	JS    template.JS
	Query dashboard.Query
}

// indexPage minifies the dashboard assets, executes the page template and
// minifies the result.
func indexPage(title string, q dashboard.Query) ([]byte, error) {
	minified := func(name, media string) (string, error) {
		raw, err := assets.ReadFile("assets/" + name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		out, err := render.Minify(media, string(raw))
		if err != nil {
			return "", fmt.Errorf("minify %s: %w", name, err)
		}
		return out, nil
	}

	cssMin, err := minified("style.css", render.MediaCSS)
	if err != nil {
		return nil, err
	}
	jsMin, err := minified("script.js", render.MediaJS)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFS(assets, "assets/index.html.tpl")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, indexData{
		Title: title,
		CSS:   template.CSS(cssMin),
		JS:    template.JS(jsMin),
		Query: q,
	})
	if err != nil {
		return nil, fmt.Errorf("execute index template: %w", err)
	}

	page, err := render.Minify(render.MediaHTML, buf.String())
	if err != nil {
		return nil, fmt.Errorf("minify index: %w", err)
	}
	return []byte(page), nil
}
