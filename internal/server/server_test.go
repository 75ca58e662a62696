package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/woozymasta/tracemap/internal/compose"
	"github.com/woozymasta/tracemap/internal/dashboard"
	"github.com/woozymasta/tracemap/internal/enrich"
	"github.com/woozymasta/tracemap/internal/geo"
	"github.com/woozymasta/tracemap/internal/layer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	set := &geo.CoordinateSet{}
	require.NoError(t, set.AddPoint("Seattle", -122.33, 47.6038, ""))
	require.NoError(t, set.AddPoint("Mountain View", -122.0832, 37.3893, ""))

	catalog := layer.NewCatalog(
		layer.Layer{Name: "states", Category: layer.Boundary, Rank: layer.RankState, Enabled: true},
		layer.Layer{Name: "world", Category: layer.Boundary, Rank: layer.RankWorld, Enabled: true},
		layer.Layer{Name: "roads", Category: layer.LinearFeature},
	)

	res := compose.New(compose.DefaultOptions(), nil).Compose(context.Background(), set, catalog)

	surface := dashboard.NewSurface(enrich.EnricherFunc(func(_ context.Context, lon, _ float64) enrich.Value {
		if lon < -122.2 {
			return enrich.Temperature(9.5)
		}
		return enrich.Unavailable
	}))

	sc, err := NewServerContext("tracemap", res, catalog, surface)
	require.NoError(t, err)

	srv := httptest.NewServer(sc.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))

	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	resp = get(t, srv, "/", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp = get(t, srv, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMapAndFavicon(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/map", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	resp = get(t, srv, "/favicon.svg", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
}

func TestCalculate(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/calculate?lon1=-122.33&lat1=47.6038&lon2=-122.0832&lat2=37.3893", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dashboard.Output
	decode(t, resp, &out)
	assert.Equal(t, "Weather at Point 1: 9.50°C", out.Weather1)
	assert.Equal(t, "Weather at Point 2: "+enrich.UnavailableText, out.Weather2)
	assert.Equal(t, "Distance: 705.87 miles", out.Distance)
}

func TestCalculateDefaults(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/calculate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dashboard.Output
	decode(t, resp, &out)
	assert.Equal(t, "Distance: 705.87 miles", out.Distance)
}

func TestCalculateBadInput(t *testing.T) {
	srv := newTestServer(t)

	for _, q := range []string{"lon1=abc", "lat2=91", "lon1=-181"} {
		resp := get(t, srv, "/api/calculate?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)

		var body errorBody
		decode(t, resp, &body)
		assert.NotEmpty(t, body.Error, q)
		assert.False(t, body.Superseded, q)
	}
}

func TestLayers(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/layers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Order    int    `json:"order"`
		Enabled  bool   `json:"enabled"`
	}
	decode(t, resp, &out)
	require.Len(t, out, 3)

	assert.Equal(t, "states", out[0].Name)
	assert.Equal(t, 1, out[0].Order)
	assert.Equal(t, "world", out[1].Name)
	assert.Equal(t, 0, out[1].Order)
	assert.Equal(t, "boundary", out[1].Category)
	assert.Equal(t, "roads", out[2].Name)
	assert.Equal(t, -1, out[2].Order)
	assert.False(t, out[2].Enabled)
}

func TestDistances(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv, "/api/distances", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []DistanceInfo
	decode(t, resp, &out)
	require.Len(t, out, 1)
	assert.Equal(t, "Seattle", out[0].From)
	assert.Equal(t, "Mountain View", out[0].To)
	assert.Equal(t, "705.87 miles", out[0].Text)
	assert.InDelta(t, 705.87, out[0].Miles, 0.01)
}

func TestRequestLoggerStatus(t *testing.T) {
	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/calculate", nil)

	r.RemoteAddr = "203.0.113.9:51234"
	assert.Equal(t, "203.0.113.9", clientKey(r))

	r.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", clientKey(r))

	r.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientKey(r))
}
