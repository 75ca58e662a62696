package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the OpenWeatherMap API root.
const DefaultBaseURL = "https://api.openweathermap.org"

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 10 * time.Second

// ErrNoAPIKey is returned when the client has no API key configured.
var ErrNoAPIKey = errors.New("weather API key not configured")

// HTTPDoer executes HTTP requests; *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WeatherClient reads the current temperature from OpenWeatherMap.
type WeatherClient struct {
	http    HTTPDoer
	apiKey  string
	baseURL string
	timeout time.Duration
}

// NewWeatherClient returns a client for the public API.
func NewWeatherClient(apiKey string) *WeatherClient {
	return NewWeatherClientWithHTTPDoer(apiKey, DefaultBaseURL, &http.Client{})
}

// NewWeatherClientWithHTTPDoer returns a client using doer against baseURL.
func NewWeatherClientWithHTTPDoer(apiKey, baseURL string, doer HTTPDoer) *WeatherClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &WeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    doer,
		timeout: DefaultTimeout,
	}
}

// WithTimeout sets the per lookup timeout.
func (c *WeatherClient) WithTimeout(d time.Duration) *WeatherClient {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// Enrich implements Enricher. Failures are logged and reported as
// Unavailable; there are no retries.
func (c *WeatherClient) Enrich(ctx context.Context, lon, lat float64) Value {
	temp, err := c.CurrentTemperature(ctx, lon, lat)
	if err != nil {
		log.Warn().
			Err(err).
			Float64("lon", lon).
			Float64("lat", lat).
			Msg("Weather lookup failed")
		return Unavailable
	}
	return Temperature(temp)
}

// currentResponse is the subset of /data/2.5/weather we consume.
type currentResponse struct {
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
}

// CurrentTemperature returns the current temperature in Celsius at lon/lat.
func (c *WeatherClient) CurrentTemperature(ctx context.Context, lon, lat float64) (float64, error) {
	if c.apiKey == "" {
		return 0, ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", lat))
	params.Set("lon", fmt.Sprintf("%.6f", lon))
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	requestURL := fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return 0, fmt.Errorf("rate limit exceeded")
	case resp.StatusCode == http.StatusUnauthorized:
		return 0, fmt.Errorf("invalid API key")
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var payload currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if payload.Main.Temp == nil {
		return 0, fmt.Errorf("response has no main.temp")
	}

	return *payload.Main.Temp, nil
}
