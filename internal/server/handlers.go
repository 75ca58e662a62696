// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/crc32"
	"net"
	"net/http"
	"strconv"

	"github.com/woozymasta/tracemap/internal/compose"
	"github.com/woozymasta/tracemap/internal/dashboard"
	"github.com/woozymasta/tracemap/internal/geo"
	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/rs/zerolog/log"
)

// LayerInfo is one entry of the layer listing. Order is the position in
// paint order, -1 for disabled layers.
type LayerInfo struct {
	layer.Layer
	Order int `json:"order"`
}

// DistanceInfo is one pairwise distance.
type DistanceInfo struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Text  string  `json:"text"`
	Miles float64 `json:"miles"`
}

type errorBody struct {
	Error      string `json:"error"`
	Superseded bool   `json:"superseded,omitempty"`
}

// HandleIndex serves the dashboard page.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.serveBytes(w, r, s.IndexHTML, "text/html; charset=utf-8")
}

// HandleMap serves the composed map page.
func (s *ServerContext) HandleMap(w http.ResponseWriter, r *http.Request) {
	s.serveBytes(w, r, s.MapHTML, "text/html; charset=utf-8")
}

// HandleFavicon serves the site icon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleCalculate runs one dashboard trigger. Missing parameters take the
// default form values.
func (s *ServerContext) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	out, err := s.Surface.CalculateFor(r.Context(), clientKey(r), q)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, out)
	case errors.Is(err, geo.ErrInvalidRange):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, dashboard.ErrSuperseded):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Superseded: true})
	default:
		log.Error().Err(err).Msg("Calculation failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// HandleLayers serves the catalog in registration order.
func (s *ServerContext) HandleLayers(w http.ResponseWriter, r *http.Request) {
	order := make(map[string]int)
	for i, l := range s.Catalog.Active() {
		order[l.Name] = i
	}

	all := s.Catalog.Layers()
	out := make([]LayerInfo, 0, len(all))
	for _, l := range all {
		pos, ok := order[l.Name]
		if !ok {
			pos = -1
		}
		out = append(out, LayerInfo{Layer: l, Order: pos})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDistances serves the pairwise distance matrix of the composed points.
func (s *ServerContext) HandleDistances(w http.ResponseWriter, r *http.Request) {
	m := s.Result.Distances
	entries := m.Entries()
	out := make([]DistanceInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, DistanceInfo{
			From:  m.Name(e.I),
			To:    m.Name(e.J),
			Text:  compose.FormatMiles(e.Miles),
			Miles: e.Miles,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Routes returns the dashboard handler wrapped in request logging.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/calculate", s.HandleCalculate)
	mux.HandleFunc("GET /api/layers", s.HandleLayers)
	mux.HandleFunc("GET /api/distances", s.HandleDistances)
	mux.HandleFunc("GET /map", s.HandleMap)
	mux.HandleFunc("GET /favicon.svg", s.HandleFavicon)
	mux.HandleFunc("GET /", s.HandleIndex)
	return RequestLogger(mux)
}

func parseQuery(r *http.Request) (dashboard.Query, error) {
	q := dashboard.DefaultQuery
	fields := []struct {
		dst  *float64
		name string
	}{
		{&q.Lon1, "lon1"},
		{&q.Lat1, "lat1"},
		{&q.Lon2, "lon2"},
		{&q.Lat2, "lat2"},
	}

	values := r.URL.Query()
	for _, f := range fields {
		raw := values.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("%s: invalid number %q", f.name, raw)
		}
		*f.dst = v
	}
	return q, nil
}

// clientKey identifies the caller by remote host, so one browser's newer
// request only supersedes its own older one.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

// serveBytes writes an in-memory page with a content ETag.
func (s *ServerContext) serveBytes(w http.ResponseWriter, r *http.Request, body []byte, contentType string) {
	etag := fmt.Sprintf(`"%x-%x"`, len(body), crc32.ChecksumIEEE(body))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(body)
}
